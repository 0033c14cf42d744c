// Package pdftext extracts page-ordered plain text from PDF files.
package pdftext

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/mindexhq/mindex/internal/core/domain"
	"github.com/mindexhq/mindex/internal/core/ports/driven"
	"github.com/mindexhq/mindex/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// minPageChars is the threshold below which a page is treated as empty
// (scanned images, separator pages) and skipped.
const minPageChars = 50

// Extractor pulls plain text out of PDFs page by page.
type Extractor struct{}

// New creates a PDF text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract returns the text of each non-empty page, in page order.
// Pages that fail text extraction are skipped with a warning rather
// than failing the whole document.
func (e *Extractor) Extract(ctx context.Context, path string) ([]domain.PageText, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf %s: %w", path, err)
	}
	defer f.Close()

	var pages []domain.PageText
	for num := 1; num <= reader.NumPage(); num++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(num)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			logger.Warn("page %d of %s: %v", num, path, err)
			continue
		}
		if len(strings.TrimSpace(text)) < minPageChars {
			logger.Debug("page %d of %s: too little text, skipping", num, path)
			continue
		}
		pages = append(pages, domain.PageText{Page: num, Text: text})
	}

	logger.Debug("extracted %d pages from %s", len(pages), path)
	return pages, nil
}
