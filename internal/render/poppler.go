// Package render turns PDF pages into images using the poppler
// pdftoppm tool, which must be available on PATH.
package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
)

// Poppler renders PDF pages to JPEG files via pdftoppm.
type Poppler struct {
	dpi int
}

func NewPoppler(dpi int) *Poppler {
	if dpi <= 0 {
		dpi = 150
	}
	return &Poppler{dpi: dpi}
}

var pageNumRe = regexp.MustCompile(`-(\d+)\.jpg$`)

// RenderPages writes one JPEG per page under outDir and returns the
// paths in page order.
func (p *Poppler) RenderPages(ctx context.Context, pdfPath, outDir string) ([]string, error) {
	prefix := filepath.Join(outDir, "page")
	cmd := exec.CommandContext(ctx, "pdftoppm", "-jpeg", "-r", strconv.Itoa(p.dpi), pdfPath, prefix)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("pdftoppm: %w: %s", err, bytes.TrimSpace(out))
	}
	matches, err := filepath.Glob(prefix + "-*.jpg")
	if err != nil {
		return nil, err
	}
	// pdftoppm zero-pads page numbers only up to the page count, so
	// sort numerically rather than lexically.
	sort.Slice(matches, func(i, j int) bool {
		return pageNumber(matches[i]) < pageNumber(matches[j])
	})
	return matches, nil
}

func pageNumber(path string) int {
	m := pageNumRe.FindStringSubmatch(path)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}
