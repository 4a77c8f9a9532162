package ollama

import (
	"context"
	"errors"
	"net/http"
)

// Embedder produces embedding vectors using a fixed Ollama model.
type Embedder struct {
	client *Client
	model  string
}

func NewEmbedder(client *Client, model string) *Embedder {
	return &Embedder{client: client, model: model}
}

// Model returns the embedding model identifier.
func (e *Embedder) Model() string { return e.model }

// Embed returns the embedding vector for one text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float64, error) {
	in := map[string]any{
		"model":  e.model,
		"prompt": text,
	}
	var out struct {
		Embedding []float64 `json:"embedding"`
	}
	if err := e.client.doJSON(ctx, http.MethodPost, "/api/embeddings", in, &out); err != nil {
		return nil, err
	}
	if len(out.Embedding) == 0 {
		return nil, errors.New("ollama returned empty embedding")
	}
	return out.Embedding, nil
}
