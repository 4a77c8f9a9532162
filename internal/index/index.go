// Package index holds the vector index: chunks mapped to embedding
// vectors with brute-force cosine retrieval, plus the lifecycle
// manager that builds, persists and reloads it.
package index

import (
	"math"

	"pdfrag/internal/domain"
)

// Index is an immutable snapshot built from one complete chunk set.
type Index struct {
	model     string
	dimension int
	chunks    []domain.Chunk
	vectors   [][]float64
}

// Len returns the number of indexed chunks.
func (ix *Index) Len() int { return len(ix.chunks) }

// Model returns the embedding model the vectors were produced with.
func (ix *Index) Model() string { return ix.model }

// Dimension returns the embedding vector dimensionality.
func (ix *Index) Dimension() int { return ix.dimension }

// Search returns the topK most similar chunks by cosine similarity,
// most similar first.
func (ix *Index) Search(vector []float64, topK int) []domain.SearchResult {
	if topK <= 0 {
		topK = 4
	}
	scores := make([]float64, len(ix.vectors))
	for i := range ix.vectors {
		scores[i] = cosine(ix.vectors[i], vector)
	}
	idxs := argsortDesc(scores)
	if topK > len(idxs) {
		topK = len(idxs)
	}
	results := make([]domain.SearchResult, 0, topK)
	for i := 0; i < topK; i++ {
		j := idxs[i]
		results = append(results, domain.SearchResult{Chunk: ix.chunks[j], Score: scores[j]})
	}
	return results
}

func cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func argsortDesc(vals []float64) []int {
	idxs := make([]int, len(vals))
	for i := range vals {
		idxs[i] = i
	}
	quicksort(idxs, vals, 0, len(idxs)-1)
	return idxs
}

func quicksort(idxs []int, vals []float64, lo, hi int) {
	if lo >= hi {
		return
	}
	i, j := lo, hi
	pivot := vals[idxs[(lo+hi)/2]]
	for i <= j {
		for vals[idxs[i]] > pivot { // desc order
			i++
		}
		for vals[idxs[j]] < pivot {
			j--
		}
		if i <= j {
			idxs[i], idxs[j] = idxs[j], idxs[i]
			i++
			j--
		}
	}
	if lo < j {
		quicksort(idxs, vals, lo, j)
	}
	if i < hi {
		quicksort(idxs, vals, i, hi)
	}
}
