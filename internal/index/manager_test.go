package index

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfrag/internal/domain"
)

// hashEmbedder is a deterministic fake: the vector depends only on
// the text, so build and query time agree.
type hashEmbedder struct {
	calls   int
	failOn  string
	modelID string
}

func (e *hashEmbedder) Model() string {
	if e.modelID != "" {
		return e.modelID
	}
	return "fake-embed"
}

func (e *hashEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	e.calls++
	if e.failOn != "" && strings.Contains(text, e.failOn) {
		return nil, errors.New("embedding service down")
	}
	vec := make([]float64, 8)
	for i, r := range text {
		vec[i%8] += float64(r%13) + 1
	}
	return vec, nil
}

func testChunks(texts ...string) []domain.Chunk {
	chunks := make([]domain.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = domain.Chunk{
			DocumentID: "doc",
			ChunkID:    "doc:" + string(rune('0'+i)),
			Text:       text,
			Index:      i,
			Metadata:   domain.Metadata{Source: "doc.pdf", FileType: "pdf"},
		}
	}
	return chunks
}

func TestCreateEmbedsEachChunkOnce(t *testing.T) {
	emb := &hashEmbedder{}
	m := NewManager(filepath.Join(t.TempDir(), "storage"), emb)
	ix, err := m.Create(context.Background(), testChunks("alpha beta", "gamma delta", "epsilon"))
	require.NoError(t, err)
	assert.Equal(t, 3, ix.Len())
	assert.Equal(t, 3, emb.calls)
	assert.Equal(t, 8, ix.Dimension())
	assert.Equal(t, "fake-embed", ix.Model())
}

func TestCreateEmptyChunkSet(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "storage"), &hashEmbedder{})
	_, err := m.Create(context.Background(), nil)
	require.Error(t, err)
}

func TestCreateAbortsOnEmbeddingFailure(t *testing.T) {
	emb := &hashEmbedder{failOn: "gamma"}
	m := NewManager(filepath.Join(t.TempDir(), "storage"), emb)
	_, err := m.Create(context.Background(), testChunks("alpha", "gamma", "epsilon"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embed chunk")
}

func TestSearchRanksBySimilarity(t *testing.T) {
	emb := &hashEmbedder{}
	m := NewManager(filepath.Join(t.TempDir(), "storage"), emb)
	ix, err := m.Create(context.Background(), testChunks(
		"cats and dogs are pets",
		"quantum physics of stars",
		"cats and dogs are friendly pets",
	))
	require.NoError(t, err)

	qv, err := emb.Embed(context.Background(), "cats and dogs are pets")
	require.NoError(t, err)
	results := ix.Search(qv, 2)
	require.Len(t, results, 2)
	assert.Equal(t, "cats and dogs are pets", results[0].Chunk.Text)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
}

func TestPersistThenLoadIsEquivalent(t *testing.T) {
	emb := &hashEmbedder{}
	dir := filepath.Join(t.TempDir(), "storage")
	m := NewManager(dir, emb)
	ix, err := m.Create(context.Background(), testChunks(
		"the capital of france is paris",
		"the moon orbits the earth",
		"go is a compiled language",
	))
	require.NoError(t, err)
	require.NoError(t, m.Persist(ix))

	embedsBefore := emb.calls
	loaded, err := m.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, emb.calls, embedsBefore, "load must not re-embed")
	assert.Equal(t, ix.Len(), loaded.Len())
	assert.Equal(t, ix.Model(), loaded.Model())
	assert.Equal(t, ix.Dimension(), loaded.Dimension())

	qv, err := emb.Embed(context.Background(), "which language is compiled")
	require.NoError(t, err)
	want := ix.Search(qv, 3)
	got := loaded.Search(qv, 3)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Chunk.ChunkID, got[i].Chunk.ChunkID)
		assert.InDelta(t, want[i].Score, got[i].Score, 1e-9)
		assert.Equal(t, want[i].Chunk.Metadata.Source, got[i].Chunk.Metadata.Source)
	}
}

func TestLoadMissingDirectory(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "never-created"), &hashEmbedder{})
	ix, err := m.Load()
	require.NoError(t, err)
	assert.Nil(t, ix)
}

func TestPersistOverwritesPrevious(t *testing.T) {
	emb := &hashEmbedder{}
	dir := filepath.Join(t.TempDir(), "storage")
	m := NewManager(dir, emb)

	first, err := m.Create(context.Background(), testChunks("old contents"))
	require.NoError(t, err)
	require.NoError(t, m.Persist(first))

	second, err := m.Create(context.Background(), testChunks("new contents", "more new contents"))
	require.NoError(t, err)
	require.NoError(t, m.Persist(second))

	loaded, err := m.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, 2, loaded.Len())
}

func TestPersistFailureKeepsPrevious(t *testing.T) {
	emb := &hashEmbedder{}
	dir := filepath.Join(t.TempDir(), "storage")
	m := NewManager(dir, emb)

	good, err := m.Create(context.Background(), testChunks("keep me around"))
	require.NoError(t, err)
	require.NoError(t, m.Persist(good))

	// NaN is not representable in JSON, so this persist fails partway.
	bad := &Index{
		model:     emb.Model(),
		dimension: 1,
		chunks:    testChunks("broken"),
		vectors:   [][]float64{{math.NaN()}},
	}
	require.Error(t, m.Persist(bad))

	loaded, err := m.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, 1, loaded.Len())

	qv, err := emb.Embed(context.Background(), "keep me around")
	require.NoError(t, err)
	results := loaded.Search(qv, 1)
	require.Len(t, results, 1)
	assert.Equal(t, "keep me around", results[0].Chunk.Text)
}

func TestPersistLeavesNoWorkDirectories(t *testing.T) {
	emb := &hashEmbedder{}
	dir := filepath.Join(t.TempDir(), "storage")
	m := NewManager(dir, emb)

	first, err := m.Create(context.Background(), testChunks("one"))
	require.NoError(t, err)
	require.NoError(t, m.Persist(first))

	second, err := m.Create(context.Background(), testChunks("two", "three"))
	require.NoError(t, err)
	require.NoError(t, m.Persist(second))

	_, err = os.Stat(dir + ".staging")
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(dir + ".old")
	assert.True(t, os.IsNotExist(err))
}

func TestSearchTopKClamped(t *testing.T) {
	emb := &hashEmbedder{}
	m := NewManager(filepath.Join(t.TempDir(), "storage"), emb)
	ix, err := m.Create(context.Background(), testChunks("only one chunk"))
	require.NoError(t, err)
	qv, _ := emb.Embed(context.Background(), "anything")
	assert.Len(t, ix.Search(qv, 10), 1)
}
