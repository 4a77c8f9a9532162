package domain

// Metadata describes the source file a document or chunk came from.
// The required fields are always populated by the loader; heuristic
// fields (title, authors) live in Extra since they are best-effort.
type Metadata struct {
	Source            string            `json:"source"`
	FilePath          string            `json:"file_path"`
	FileSize          int64             `json:"file_size"`
	FileType          string            `json:"file_type"`
	HasLayoutAnalysis bool              `json:"has_layout_analysis"`
	Extra             map[string]string `json:"extra,omitempty"`
}

// Document is one loaded PDF: cleaned full text plus source metadata.
// Immutable once built; identity is the file path.
type Document struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Metadata Metadata `json:"metadata"`
}

// Chunk is a token-bounded span of a document's text, the unit that
// gets embedded and retrieved. It inherits its document's metadata.
type Chunk struct {
	DocumentID string   `json:"document_id"`
	ChunkID    string   `json:"chunk_id"`
	Text       string   `json:"text"`
	Index      int      `json:"index"`
	Metadata   Metadata `json:"metadata"`
}

// SearchResult is a matching chunk with a relevance score.
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// Source is one retrieved chunk attributed in a query answer.
type Source struct {
	Text     string   `json:"text"`
	Metadata Metadata `json:"metadata"`
}

// QueryResult pairs a synthesized answer with the retrieved chunks
// that grounded it, in the order the index returned them.
type QueryResult struct {
	Response string   `json:"response"`
	Sources  []Source `json:"sources"`
}
