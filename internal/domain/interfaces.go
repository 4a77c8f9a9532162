package domain

import (
	"context"
	"errors"
)

// ErrNoIndex is returned by the query path when no index has been
// built or loaded. It distinguishes "no index" from "no results".
var ErrNoIndex = errors.New("no index available")

// Embedder converts free text into a numeric vector representation.
// Model identity and dimensionality are fixed per deployment and must
// match between index build and query time.
type Embedder interface {
	Model() string
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Generator synthesizes an answer from a fully assembled prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// PageExtractor pulls raw per-page text out of a PDF file.
type PageExtractor interface {
	Pages(path string) ([]string, error)
}

// PageRenderer renders each page of a PDF to an image file under
// outDir and returns the image paths in page order.
type PageRenderer interface {
	RenderPages(ctx context.Context, pdfPath, outDir string) ([]string, error)
}

// Detection is one region found by the layout detection model.
type Detection struct {
	Label      string
	Confidence float64
	X1, Y1     int
	X2, Y2     int
}

// Detector runs layout object detection over a rendered page image.
// Detections below the configured confidence threshold are discarded
// by the detector itself, not post-filtered by callers.
type Detector interface {
	Detect(ctx context.Context, imagePath string) ([]Detection, error)
}

// Chunker splits documents into chunks suitable for retrieval indexing.
type Chunker interface {
	Chunk(document Document) ([]Chunk, error)
}
