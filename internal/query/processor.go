// Package query answers questions against a built index: retrieve the
// most relevant chunks, stuff them into a prompt, and ask the
// language model to compose a grounded answer.
package query

import (
	"context"
	"fmt"
	"strings"

	"pdfrag/internal/domain"
	"pdfrag/internal/index"
)

const promptTemplate = `Context information is below.
---------------------
%s
---------------------
Given the context information and not prior knowledge, answer the query.
Query: %s
Answer: `

// Processor composes answers from retrieved chunks. It never builds
// an index itself; callers must supply one.
type Processor struct {
	embedder  domain.Embedder
	generator domain.Generator
	topK      int
}

func NewProcessor(embedder domain.Embedder, generator domain.Generator, topK int) *Processor {
	if topK <= 0 {
		topK = 4
	}
	return &Processor{embedder: embedder, generator: generator, topK: topK}
}

// Query retrieves the top matching chunks and synthesizes an answer.
// Sources keep the order the index returned them in, assumed
// relevance-descending; no re-ranking happens here. With no index it
// returns domain.ErrNoIndex.
func (p *Processor) Query(ctx context.Context, ix *index.Index, text string) (*domain.QueryResult, error) {
	if ix == nil || ix.Len() == 0 {
		return nil, domain.ErrNoIndex
	}

	vector, err := p.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	results := ix.Search(vector, p.topK)

	contexts := make([]string, len(results))
	sources := make([]domain.Source, len(results))
	for i, r := range results {
		contexts[i] = r.Chunk.Text
		sources[i] = domain.Source{Text: r.Chunk.Text, Metadata: r.Chunk.Metadata}
	}

	prompt := fmt.Sprintf(promptTemplate, strings.Join(contexts, "\n\n"), text)
	answer, err := p.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return &domain.QueryResult{Response: answer, Sources: sources}, nil
}
