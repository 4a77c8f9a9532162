package layout

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const manifestName = "manifest.json"

// BBox is a detected region's bounding box in page image pixels.
type BBox struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Element is one detected layout region, persisted in detection order
// in its page's manifest. ImageRef names the cropped region image
// relative to the page directory.
type Element struct {
	ID       string `json:"id"`
	Label    Label  `json:"label"`
	Page     int    `json:"page"`
	BBox     BBox   `json:"bbox"`
	ImageRef string `json:"image_ref"`
}

// writeManifest persists a page's ordered element sequence.
func writeManifest(pageDir string, elements []Element) error {
	data, err := json.MarshalIndent(elements, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(pageDir, manifestName), data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// readManifest loads a page's element sequence. A missing manifest
// yields an empty slice, not an error.
func readManifest(pageDir string) ([]Element, error) {
	data, err := os.ReadFile(filepath.Join(pageDir, manifestName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var elements []Element
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return elements, nil
}
