// Package loader turns the PDFs in a source directory into documents:
// raw per-page text, fused with cached layout descriptions, cleaned,
// and annotated with source metadata.
package loader

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"pdfrag/internal/domain"
	"pdfrag/internal/layout"
	"pdfrag/internal/textutil"
)

// Loader loads PDFs from one flat directory. Files without a .pdf
// extension are ignored; subdirectories are not descended into.
type Loader struct {
	pdfDir    string
	extractor domain.PageExtractor
	cache     *layout.Cache
}

func New(pdfDir string, extractor domain.PageExtractor, cache *layout.Cache) *Loader {
	return &Loader{pdfDir: pdfDir, extractor: extractor, cache: cache}
}

// ListPDFs returns the paths of all PDF files in the source directory.
func (l *Loader) ListPDFs() ([]string, error) {
	entries, err := os.ReadDir(l.pdfDir)
	if err != nil {
		return nil, fmt.Errorf("read pdf dir: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			paths = append(paths, filepath.Join(l.pdfDir, e.Name()))
		}
	}
	return paths, nil
}

// LoadPDF builds one document from a PDF: extract per-page text, fuse
// in layout descriptions when a cache entry exists, clean the joined
// text and derive heuristic metadata.
func (l *Loader) LoadPDF(path string) (*domain.Document, error) {
	pages, err := l.extractor.Pages(path)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", filepath.Base(path), err)
	}

	hasLayout := l.cache != nil && l.cache.Has(path)
	parts := make([]string, 0, len(pages))
	for i, page := range pages {
		if hasLayout {
			elements, err := l.cache.PageElements(path, i)
			if err == nil && len(elements) > 0 {
				descriptions := layout.Descriptions(elements)
				page = page + "\n\n" + strings.Join(descriptions, "\n")
			}
		}
		parts = append(parts, page)
	}

	text := textutil.CleanText(strings.Join(parts, "\n\n"))

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", filepath.Base(path), err)
	}

	return &domain.Document{
		ID:   hashString(path),
		Text: text,
		Metadata: domain.Metadata{
			Source:            filepath.Base(path),
			FilePath:          path,
			FileSize:          info.Size(),
			FileType:          "pdf",
			HasLayoutAnalysis: hasLayout,
			Extra:             textutil.ExtractMeta(text),
		},
	}, nil
}

// LoadAll loads every PDF in the directory. A PDF that fails to load
// is logged and skipped; it never prevents the others from loading.
func (l *Loader) LoadAll() ([]domain.Document, error) {
	paths, err := l.ListPDFs()
	if err != nil {
		return nil, err
	}
	var documents []domain.Document
	for _, path := range paths {
		doc, err := l.LoadPDF(path)
		if err != nil {
			log.Printf("warning: skipping %s: %v", filepath.Base(path), err)
			continue
		}
		documents = append(documents, *doc)
	}
	return documents, nil
}

func hashString(s string) string {
	h := sha1.Sum([]byte(s))
	return hex.EncodeToString(h[:8])
}
