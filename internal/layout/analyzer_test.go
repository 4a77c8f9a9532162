package layout

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfrag/internal/domain"
)

type fakeRenderer struct {
	pages int
	calls int
	err   error
}

func (r *fakeRenderer) RenderPages(_ context.Context, _ string, outDir string) ([]string, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	var paths []string
	for i := 0; i < r.pages; i++ {
		p := filepath.Join(outDir, fmt.Sprintf("page-%d.jpg", i+1))
		if err := saveJPEG(p, image.NewRGBA(image.Rect(0, 0, 100, 100))); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

type fakeDetector struct {
	detections []domain.Detection
	calls      int
	err        error
}

func (d *fakeDetector) Detect(_ context.Context, _ string) ([]domain.Detection, error) {
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	return d.detections, nil
}

func TestAnalyzeWritesCropsAndManifest(t *testing.T) {
	cache := NewCache(t.TempDir())
	renderer := &fakeRenderer{pages: 2}
	detector := &fakeDetector{detections: []domain.Detection{
		{Label: "table", Confidence: 0.9, X1: 0, Y1: 0, X2: 40, Y2: 40},
		{Label: "table", Confidence: 0.8, X1: 50, Y1: 50, X2: 90, Y2: 90},
		{Label: "figure", Confidence: 0.7, X1: 10, Y1: 10, X2: 30, Y2: 30},
	}}
	a := NewAnalyzer(cache, renderer, detector)

	require.NoError(t, a.Analyze(context.Background(), "/pdfs/report.pdf"))
	assert.True(t, cache.Has("/pdfs/report.pdf"))

	for page := 0; page < 2; page++ {
		elements, err := cache.PageElements("/pdfs/report.pdf", page)
		require.NoError(t, err)
		require.Len(t, elements, 3)

		// Detection order preserved, per-label numbering from zero.
		assert.Equal(t, LabelTable, elements[0].Label)
		assert.Equal(t, "table_0.jpg", elements[0].ImageRef)
		assert.Equal(t, "table_1.jpg", elements[1].ImageRef)
		assert.Equal(t, LabelFigure, elements[2].Label)
		assert.Equal(t, "figure_0.jpg", elements[2].ImageRef)

		for _, el := range elements {
			assert.Equal(t, page, el.Page)
			assert.NotEmpty(t, el.ID)
			_, err := os.Stat(filepath.Join(cache.PageDir("/pdfs/report.pdf", page), el.ImageRef))
			assert.NoError(t, err, "crop image %s missing", el.ImageRef)
		}
		assert.Equal(t, BBox{X1: 0, Y1: 0, X2: 40, Y2: 40}, elements[0].BBox)
	}
}

func TestAnalyzeSecondRunIsSkipped(t *testing.T) {
	cache := NewCache(t.TempDir())
	renderer := &fakeRenderer{pages: 1}
	detector := &fakeDetector{detections: []domain.Detection{
		{Label: "title", X1: 0, Y1: 0, X2: 10, Y2: 10},
	}}
	a := NewAnalyzer(cache, renderer, detector)

	require.NoError(t, a.Analyze(context.Background(), "paper.pdf"))
	require.NoError(t, a.Analyze(context.Background(), "paper.pdf"))

	assert.Equal(t, 1, renderer.calls, "second run must not re-render")
	assert.Equal(t, 1, detector.calls, "second run must not re-detect")
}

func TestAnalyzeEmptyDetections(t *testing.T) {
	cache := NewCache(t.TempDir())
	a := NewAnalyzer(cache, &fakeRenderer{pages: 1}, &fakeDetector{})

	require.NoError(t, a.Analyze(context.Background(), "blank.pdf"))
	elements, err := cache.PageElements("blank.pdf", 0)
	require.NoError(t, err)
	assert.Empty(t, elements)
	// An empty result still counts as a cache entry.
	assert.True(t, cache.Has("blank.pdf"))
}

func TestAnalyzeRenderFailure(t *testing.T) {
	cache := NewCache(t.TempDir())
	a := NewAnalyzer(cache, &fakeRenderer{err: errors.New("boom")}, &fakeDetector{})

	err := a.Analyze(context.Background(), "broken.pdf")
	require.Error(t, err)
	assert.False(t, cache.Has("broken.pdf"))
}

func TestAnalyzeDetectFailure(t *testing.T) {
	cache := NewCache(t.TempDir())
	a := NewAnalyzer(cache, &fakeRenderer{pages: 1}, &fakeDetector{err: errors.New("model offline")})

	err := a.Analyze(context.Background(), "broken.pdf")
	require.Error(t, err)
}

func TestCacheMissingPage(t *testing.T) {
	cache := NewCache(t.TempDir())
	elements, err := cache.PageElements("never-analyzed.pdf", 0)
	require.NoError(t, err)
	assert.Nil(t, elements)
	assert.False(t, cache.Has("never-analyzed.pdf"))
}
