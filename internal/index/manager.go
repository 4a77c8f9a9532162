package index

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"pdfrag/internal/domain"
)

const (
	metaFile     = "meta.json"
	docstoreFile = "docstore.json"
	vectorsFile  = "vectors.json"
)

type meta struct {
	Model      string    `json:"model"`
	Dimension  int       `json:"dimension"`
	ChunkCount int       `json:"chunk_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// Manager owns the on-disk index storage directory. Create builds an
// index from a complete chunk set, Persist replaces whatever was
// stored before, and Load restores the last persisted index without
// re-embedding anything.
type Manager struct {
	storageDir string
	embedder   domain.Embedder
}

func NewManager(storageDir string, embedder domain.Embedder) *Manager {
	return &Manager{storageDir: storageDir, embedder: embedder}
}

// Create embeds every chunk once and builds the retrieval structure.
// Any embedding failure aborts the build; no partial index is ever
// returned.
func (m *Manager) Create(ctx context.Context, chunks []domain.Chunk) (*Index, error) {
	if len(chunks) == 0 {
		return nil, fmt.Errorf("no chunks to index")
	}
	vectors := make([][]float64, len(chunks))
	dimension := 0
	for i, ch := range chunks {
		vec, err := m.embedder.Embed(ctx, ch.Text)
		if err != nil {
			return nil, fmt.Errorf("embed chunk %s: %w", ch.ChunkID, err)
		}
		if dimension == 0 {
			dimension = len(vec)
		} else if len(vec) != dimension {
			return nil, fmt.Errorf("embed chunk %s: dimension %d does not match %d", ch.ChunkID, len(vec), dimension)
		}
		vectors[i] = vec
	}
	return &Index{
		model:     m.embedder.Model(),
		dimension: dimension,
		chunks:    chunks,
		vectors:   vectors,
	}, nil
}

// Persist writes the index to the storage directory, fully replacing
// any previous contents. The new state is staged in a sibling
// directory and swapped in at the end, so a failed persist leaves the
// previously stored index untouched.
func (m *Manager) Persist(ix *Index) error {
	staging := m.storageDir + ".staging"
	if err := os.RemoveAll(staging); err != nil {
		return err
	}
	if err := os.MkdirAll(staging, 0o755); err != nil {
		return err
	}
	ok := false
	defer func() {
		if !ok {
			_ = os.RemoveAll(staging)
		}
	}()

	files := map[string]any{
		metaFile: meta{
			Model:      ix.model,
			Dimension:  ix.dimension,
			ChunkCount: len(ix.chunks),
			CreatedAt:  time.Now().UTC(),
		},
		docstoreFile: ix.chunks,
		vectorsFile:  ix.vectors,
	}
	for name, v := range files {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", name, err)
		}
		if err := os.WriteFile(filepath.Join(staging, name), data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}

	// Move the previous index aside instead of deleting it up front,
	// so a failed swap can put it back.
	old := m.storageDir + ".old"
	hadPrevious := false
	if _, err := os.Stat(m.storageDir); err == nil {
		if err := os.RemoveAll(old); err != nil {
			return err
		}
		if err := os.Rename(m.storageDir, old); err != nil {
			return err
		}
		hadPrevious = true
	} else if !os.IsNotExist(err) {
		return err
	}
	if err := os.Rename(staging, m.storageDir); err != nil {
		if hadPrevious {
			_ = os.Rename(old, m.storageDir)
		}
		return err
	}
	if hadPrevious {
		_ = os.RemoveAll(old)
	}
	ok = true
	return nil
}

// Load restores the last persisted index. A missing storage directory
// is the expected first-run state and yields (nil, nil).
func (m *Manager) Load() (*Index, error) {
	if _, err := os.Stat(m.storageDir); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var mt meta
	if err := m.readJSON(metaFile, &mt); err != nil {
		return nil, err
	}
	var chunks []domain.Chunk
	if err := m.readJSON(docstoreFile, &chunks); err != nil {
		return nil, err
	}
	var vectors [][]float64
	if err := m.readJSON(vectorsFile, &vectors); err != nil {
		return nil, err
	}
	if len(chunks) != len(vectors) {
		return nil, fmt.Errorf("index storage corrupt: %d chunks but %d vectors", len(chunks), len(vectors))
	}
	if m.embedder != nil && mt.Model != m.embedder.Model() {
		log.Printf("warning: index was built with embedding model %q but %q is configured; retrieval quality may suffer until the index is rebuilt", mt.Model, m.embedder.Model())
	}
	return &Index{
		model:     mt.Model,
		dimension: mt.Dimension,
		chunks:    chunks,
		vectors:   vectors,
	}, nil
}

func (m *Manager) readJSON(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(m.storageDir, name))
	if err != nil {
		return fmt.Errorf("read index storage: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}
