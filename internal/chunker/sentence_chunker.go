package chunker

import (
	"regexp"
	"strconv"
	"strings"

	"pdfrag/internal/domain"
)

// SentenceChunker splits document text into overlapping token-bounded
// chunks, preferring to break at sentence boundaries rather than
// mid-sentence. Size and overlap are both expressed in tokens.
type SentenceChunker struct {
	chunkSize    int
	chunkOverlap int
	splitter     *regexp.Regexp
}

func NewSentenceChunker(chunkSize, chunkOverlap int) *SentenceChunker {
	if chunkSize <= 0 {
		chunkSize = 512
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = 0
	}
	return &SentenceChunker{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		splitter:     regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`),
	}
}

// Chunk splits one document. Chunk order follows text order and every
// chunk inherits the document's metadata unchanged.
func (c *SentenceChunker) Chunk(document domain.Document) ([]domain.Chunk, error) {
	sentences := c.splitSentences(document.Text)
	if len(sentences) == 0 {
		return nil, nil
	}

	var chunks []domain.Chunk
	var current []string
	currentTokens := 0
	idx := 0

	emit := func() {
		text := strings.Join(current, " ")
		chunks = append(chunks, domain.Chunk{
			DocumentID: document.ID,
			ChunkID:    document.ID + ":" + strconv.Itoa(idx),
			Text:       text,
			Index:      idx,
			Metadata:   document.Metadata,
		})
		idx++
	}

	for _, sentence := range sentences {
		tokens := EstimateTokens(sentence)
		if currentTokens > 0 && currentTokens+tokens > c.chunkSize {
			emit()
			tail := overlapTail(strings.Join(current, " "), c.chunkOverlap)
			current = current[:0]
			currentTokens = 0
			if tail != "" {
				current = append(current, tail)
				currentTokens = EstimateTokens(tail)
			}
		}
		current = append(current, sentence)
		currentTokens += tokens
	}
	if len(current) > 0 {
		emit()
	}
	return chunks, nil
}

// splitSentences breaks text on terminal punctuation, keeping any
// trailing run without punctuation as a final sentence so no text is
// dropped.
func (c *SentenceChunker) splitSentences(text string) []string {
	locs := c.splitter.FindAllStringIndex(text, -1)
	var sentences []string
	last := 0
	for _, loc := range locs {
		s := strings.TrimSpace(text[loc[0]:loc[1]])
		if s != "" {
			sentences = append(sentences, s)
		}
		last = loc[1]
	}
	if rest := strings.TrimSpace(text[last:]); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}

// ChunkAll processes documents independently, in order, and
// concatenates the results. Chunks never span documents.
func ChunkAll(c domain.Chunker, documents []domain.Document) ([]domain.Chunk, error) {
	var all []domain.Chunk
	for _, d := range documents {
		chunks, err := c.Chunk(d)
		if err != nil {
			return nil, err
		}
		all = append(all, chunks...)
	}
	return all, nil
}
