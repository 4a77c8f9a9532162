package ollama

import (
	"context"
	"net/http"
	"strings"
)

// Generator synthesizes answers using a fixed Ollama language model.
type Generator struct {
	client      *Client
	model       string
	temperature float64
}

func NewGenerator(client *Client, model string) *Generator {
	return &Generator{client: client, model: model, temperature: 0.1}
}

// Model returns the language model identifier.
func (g *Generator) Model() string { return g.model }

// Generate runs one non-streaming completion.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	in := map[string]any{
		"model":  g.model,
		"prompt": prompt,
		"stream": false,
		"options": map[string]any{
			"temperature": g.temperature,
		},
	}
	var out struct {
		Response string `json:"response"`
	}
	if err := g.client.doJSON(ctx, http.MethodPost, "/api/generate", in, &out); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.Response), nil
}
