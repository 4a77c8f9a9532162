// Package ollama is a minimal client for a local Ollama server: text
// embeddings, completion, and model availability checks.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Client talks to one Ollama server.
type Client struct {
	baseURL    string
	client     *http.Client
	maxRetries int
}

// Config configures the Ollama client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

func NewClient(cfg Config) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = "http://localhost:11434"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 120 * time.Second
	}
	return &Client{
		baseURL:    base,
		client:     &http.Client{Timeout: t},
		maxRetries: 3,
	}
}

// BaseURL returns the server address the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// doJSON performs one request with retry on transient failures and
// decodes the response body into out.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body []byte
	if in != nil {
		var err error
		body, err = json.Marshal(in)
		if err != nil {
			return err
		}
	}

	var lastErr error
	var delay time.Duration
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
		// Exponential backoff before the next attempt unless the
		// server names its own interval below.
		delay = retryDelay(attempt + 1)
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return err
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		payload, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			if ra := resp.Header.Get("Retry-After"); ra != "" {
				if secs, err := strconv.Atoi(ra); err == nil {
					delay = time.Duration(secs) * time.Second
				}
			}
			lastErr = fmt.Errorf("ollama: %s", resp.Status)
			continue
		}
		if resp.StatusCode >= 300 {
			return fmt.Errorf("ollama: %s: %s", resp.Status, bytes.TrimSpace(payload))
		}
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(payload, out); err != nil {
			return fmt.Errorf("decode ollama response: %w", err)
		}
		return nil
	}
	return fmt.Errorf("ollama request failed after retries: %w", lastErr)
}

func retryDelay(attempt int) time.Duration {
	base := 200 * time.Millisecond
	d := base << attempt
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}

// Version returns the server version, proving the server is reachable.
func (c *Client) Version(ctx context.Context) (string, error) {
	var out struct {
		Version string `json:"version"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/version", nil, &out); err != nil {
		return "", err
	}
	return out.Version, nil
}

// ListModels returns the names of all locally available models.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	var out struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/tags", nil, &out); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(out.Models))
	for _, m := range out.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// CheckModels reports availability for each required model.
func (c *Client) CheckModels(ctx context.Context, required []string) (map[string]bool, error) {
	available, err := c.ListModels(ctx)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(available))
	for _, name := range available {
		set[name] = struct{}{}
	}
	status := make(map[string]bool, len(required))
	for _, name := range required {
		_, ok := set[name]
		status[name] = ok
	}
	return status, nil
}
