package layout

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"pdfrag/internal/domain"
)

// Analyzer runs layout object detection over rendered PDF pages and
// persists the results into the cache: cropped region images plus a
// per-page manifest. Analysis is side-effect only; readers go through
// the Cache.
type Analyzer struct {
	cache    *Cache
	renderer domain.PageRenderer
	detector domain.Detector
}

func NewAnalyzer(cache *Cache, renderer domain.PageRenderer, detector domain.Detector) *Analyzer {
	return &Analyzer{cache: cache, renderer: renderer, detector: detector}
}

// Analyze processes one PDF. If the document already has a non-empty
// cache entry the whole run is skipped; there is no partial or
// content-based invalidation. Pages are processed in order and each
// page's manifest is written once the page is done.
func (a *Analyzer) Analyze(ctx context.Context, pdfPath string) error {
	if a.cache.Has(pdfPath) {
		return nil
	}

	tmpDir, err := os.MkdirTemp("", "pdfrag-pages-")
	if err != nil {
		return fmt.Errorf("create render dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	pageImages, err := a.renderer.RenderPages(ctx, pdfPath, tmpDir)
	if err != nil {
		return fmt.Errorf("render %s: %w", filepath.Base(pdfPath), err)
	}

	for page, imagePath := range pageImages {
		if err := a.analyzePage(ctx, pdfPath, page, imagePath); err != nil {
			return fmt.Errorf("page %d of %s: %w", page, filepath.Base(pdfPath), err)
		}
	}
	return nil
}

func (a *Analyzer) analyzePage(ctx context.Context, pdfPath string, page int, imagePath string) error {
	detections, err := a.detector.Detect(ctx, imagePath)
	if err != nil {
		return fmt.Errorf("detect: %w", err)
	}

	pageDir := a.cache.PageDir(pdfPath, page)
	if err := os.MkdirAll(pageDir, 0o755); err != nil {
		return err
	}

	var src image.Image
	if len(detections) > 0 {
		src, err = loadImage(imagePath)
		if err != nil {
			return fmt.Errorf("decode page image: %w", err)
		}
	}

	counters := make(map[Label]int)
	elements := make([]Element, 0, len(detections))
	for _, det := range detections {
		label := Label(det.Label)
		n := counters[label]
		counters[label]++

		name := fmt.Sprintf("%s_%d.jpg", label, n)
		crop := cropImage(src, image.Rect(det.X1, det.Y1, det.X2, det.Y2))
		if err := saveJPEG(filepath.Join(pageDir, name), crop); err != nil {
			return fmt.Errorf("save crop %s: %w", name, err)
		}

		elements = append(elements, Element{
			ID:       uuid.NewString(),
			Label:    label,
			Page:     page,
			BBox:     BBox{X1: det.X1, Y1: det.Y1, X2: det.X2, Y2: det.Y2},
			ImageRef: name,
		})
	}
	return writeManifest(pageDir, elements)
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

// cropImage clamps the rectangle to the source bounds and extracts the
// region. Sources that cannot sub-image are drawn pixel by pixel.
func cropImage(src image.Image, r image.Rectangle) image.Image {
	r = r.Intersect(src.Bounds())
	if r.Empty() {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	type subImager interface {
		SubImage(r image.Rectangle) image.Image
	}
	if s, ok := src.(subImager); ok {
		return s.SubImage(r)
	}
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := 0; y < r.Dy(); y++ {
		for x := 0; x < r.Dx(); x++ {
			out.Set(x, y, src.At(r.Min.X+x, r.Min.Y+y))
		}
	}
	return out
}

func saveJPEG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 90}); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
