// Package detect talks to a layout detection service that runs an
// object-detection model over page images and returns labeled
// bounding boxes.
package detect

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"pdfrag/internal/domain"
)

// Client implements domain.Detector against an HTTP detection service.
type Client struct {
	baseURL    string
	conf       float64
	imageSize  int
	client     *http.Client
	maxRetries int
}

// Config configures the detection client. The confidence threshold and
// input image size are forwarded to the model with every request;
// detections below the threshold never reach the response.
type Config struct {
	BaseURL       string
	ConfThreshold float64
	ImageSize     int
	Timeout       time.Duration
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8000"
	}
	if cfg.ConfThreshold <= 0 {
		cfg.ConfThreshold = 0.25
	}
	if cfg.ImageSize <= 0 {
		cfg.ImageSize = 1024
	}
	t := cfg.Timeout
	if t == 0 {
		t = 60 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		conf:       cfg.ConfThreshold,
		imageSize:  cfg.ImageSize,
		client:     &http.Client{Timeout: t},
		maxRetries: 3,
	}
}

// Detect sends one page image to the service and returns its regions.
func (c *Client) Detect(ctx context.Context, imagePath string) ([]domain.Detection, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("read page image: %w", err)
	}
	body, _ := json.Marshal(map[string]any{
		"image": base64.StdEncoding.EncodeToString(data),
		"imgsz": c.imageSize,
		"conf":  c.conf,
	})

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay(attempt)):
			}
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/detect", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

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
			lastErr = fmt.Errorf("detection service: %s", resp.Status)
			continue
		}
		if resp.StatusCode >= 300 {
			return nil, fmt.Errorf("detection service: %s: %s", resp.Status, bytes.TrimSpace(payload))
		}

		var parsed struct {
			Detections []struct {
				BBox       [4]int  `json:"bbox"`
				Label      string  `json:"label"`
				Confidence float64 `json:"confidence"`
			} `json:"detections"`
		}
		if err := json.Unmarshal(payload, &parsed); err != nil {
			return nil, fmt.Errorf("decode detection response: %w", err)
		}
		out := make([]domain.Detection, 0, len(parsed.Detections))
		for _, d := range parsed.Detections {
			out = append(out, domain.Detection{
				Label:      d.Label,
				Confidence: d.Confidence,
				X1:         d.BBox[0],
				Y1:         d.BBox[1],
				X2:         d.BBox[2],
				Y2:         d.BBox[3],
			})
		}
		return out, nil
	}
	return nil, fmt.Errorf("detection failed after retries: %w", lastErr)
}

func retryDelay(attempt int) time.Duration {
	base := 200 * time.Millisecond
	d := base << attempt
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}
