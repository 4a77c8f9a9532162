package loader

import (
	"fmt"

	pdflib "github.com/ledongthuc/pdf"
)

// PDFExtractor extracts raw per-page text using the pure-Go pdf
// library. Pages whose content cannot be decoded are emitted empty
// rather than failing the whole document.
type PDFExtractor struct{}

func (PDFExtractor) Pages(path string) ([]string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	numPages := reader.NumPage()
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}
