package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfrag/internal/domain"
)

func testDoc(text string) domain.Document {
	return domain.Document{
		ID:   "doc1",
		Text: text,
		Metadata: domain.Metadata{
			Source:   "doc1.pdf",
			FilePath: "/pdfs/doc1.pdf",
			FileSize: 123,
			FileType: "pdf",
			Extra:    map[string]string{"title": "Doc One"},
		},
	}
}

func manySentences(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "Sentence number %d has exactly seven words here.", i)
	}
	return b.String()
}

func TestChunkSingleSmallDocument(t *testing.T) {
	c := NewSentenceChunker(512, 50)
	chunks, err := c.Chunk(testDoc("Section One\nContent A."))
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "Section One\nContent A.", chunks[0].Text)
	assert.Equal(t, 0, chunks[0].Index)
	assert.Equal(t, "doc1:0", chunks[0].ChunkID)
}

func TestChunkInheritsMetadata(t *testing.T) {
	c := NewSentenceChunker(20, 5)
	chunks, err := c.Chunk(testDoc(manySentences(30)))
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)
	for _, ch := range chunks {
		assert.Equal(t, "doc1.pdf", ch.Metadata.Source)
		assert.Equal(t, "pdf", ch.Metadata.FileType)
		assert.Equal(t, "Doc One", ch.Metadata.Extra["title"])
	}
}

func TestChunkOrderAndIDs(t *testing.T) {
	c := NewSentenceChunker(20, 0)
	chunks, err := c.Chunk(testDoc(manySentences(30)))
	require.NoError(t, err)
	for i, ch := range chunks {
		assert.Equal(t, i, ch.Index)
		assert.Equal(t, fmt.Sprintf("doc1:%d", i), ch.ChunkID)
	}
}

// With zero overlap, joining all chunks reconstructs the source text.
func TestChunkReconstructionNoOverlap(t *testing.T) {
	text := manySentences(40)
	c := NewSentenceChunker(30, 0)
	chunks, err := c.Chunk(testDoc(text))
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)
	parts := make([]string, len(chunks))
	for i, ch := range chunks {
		parts[i] = ch.Text
	}
	assert.Equal(t, text, strings.Join(parts, " "))
}

// With overlap, each chunk after the first starts with a suffix of its
// predecessor; stripping those prefixes reconstructs the source text.
func TestChunkReconstructionWithOverlap(t *testing.T) {
	text := manySentences(40)
	for _, pair := range []struct{ size, overlap int }{{30, 5}, {50, 10}, {25, 3}} {
		c := NewSentenceChunker(pair.size, pair.overlap)
		chunks, err := c.Chunk(testDoc(text))
		require.NoError(t, err)
		require.Greater(t, len(chunks), 1, "size=%d", pair.size)

		rebuilt := chunks[0].Text
		for i := 1; i < len(chunks); i++ {
			prev, cur := chunks[i-1].Text, chunks[i].Text
			tail := overlapTail(prev, pair.overlap)
			if tail != "" {
				require.True(t, strings.HasPrefix(cur, tail),
					"chunk %d does not start with predecessor overlap", i)
				require.True(t, strings.HasSuffix(prev, tail))
				cur = strings.TrimPrefix(cur, tail+" ")
			}
			rebuilt += " " + cur
		}
		assert.Equal(t, text, rebuilt, "size=%d overlap=%d", pair.size, pair.overlap)
	}
}

func TestChunkEmptyDocument(t *testing.T) {
	c := NewSentenceChunker(512, 50)
	chunks, err := c.Chunk(testDoc("   \n  "))
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestChunkTrailingTextWithoutPunctuation(t *testing.T) {
	c := NewSentenceChunker(512, 50)
	chunks, err := c.Chunk(testDoc("A full sentence. And a trailing fragment"))
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0].Text, "And a trailing fragment")
}

func TestChunkAllKeepsDocumentBoundaries(t *testing.T) {
	c := NewSentenceChunker(20, 0)
	docA := testDoc(manySentences(10))
	docB := testDoc(manySentences(10))
	docB.ID = "doc2"
	docB.Metadata.Source = "doc2.pdf"
	chunks, err := ChunkAll(c, []domain.Document{docA, docB})
	require.NoError(t, err)
	var aCount, bCount int
	seenB := false
	for _, ch := range chunks {
		switch ch.DocumentID {
		case "doc1":
			assert.False(t, seenB, "doc1 chunk after doc2 chunks")
			aCount++
		case "doc2":
			seenB = true
			bCount++
		}
	}
	assert.Positive(t, aCount)
	assert.Positive(t, bCount)
	assert.Len(t, chunks, aCount+bCount)
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 1, EstimateTokens("word"))
	assert.Equal(t, 13, EstimateTokens(strings.Repeat("w ", 10)))
	assert.Equal(t, 133, EstimateTokens(strings.Repeat("w ", 100)))
}
