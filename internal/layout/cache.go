package layout

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Cache owns the on-disk layout analysis tree: one directory per
// document, one subdirectory per page holding cropped region images
// and a manifest. Entries are keyed by document file name only; the
// cache does not notice edits to a PDF that keeps its name.
type Cache struct {
	root string
}

func NewCache(root string) *Cache {
	return &Cache{root: root}
}

// DocDir returns the cache directory for a PDF.
func (c *Cache) DocDir(pdfPath string) string {
	name := filepath.Base(pdfPath)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return filepath.Join(c.root, name)
}

// Has reports whether the document has a non-empty cache entry.
func (c *Cache) Has(pdfPath string) bool {
	entries, err := os.ReadDir(c.DocDir(pdfPath))
	return err == nil && len(entries) > 0
}

// PageDir returns the per-page directory for a PDF.
func (c *Cache) PageDir(pdfPath string, page int) string {
	return filepath.Join(c.DocDir(pdfPath), fmt.Sprintf("page_%d", page))
}

// PageElements returns the cached element sequence for one page, in
// detection order. Pages that were never analyzed yield nil.
func (c *Cache) PageElements(pdfPath string, page int) ([]Element, error) {
	return readManifest(c.PageDir(pdfPath, page))
}
