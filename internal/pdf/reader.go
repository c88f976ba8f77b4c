// Package pdf wraps the two document collaborators: plain-text extraction
// from uploaded invoices (go-fitz / mupdf) and stamping the barcode image
// back onto the source PDF (pdfcpu).
package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

// Reader extracts text from invoice PDFs using mupdf.
type Reader struct {
	logger *zap.Logger
}

// NewReader creates a new PDF text reader.
func NewReader(logger *zap.Logger) *Reader {
	return &Reader{logger: logger}
}

// ExtractText reads every page of the PDF and returns the concatenated page
// text, pages joined by a newline. The downstream heuristics are whitespace
// tolerant, so exact intra-page layout fidelity does not matter.
func (r *Reader) ExtractText(pdfPath string) (string, error) {
	if _, err := os.Stat(pdfPath); os.IsNotExist(err) {
		return "", fmt.Errorf("PDF file not found: %s", pdfPath)
	}

	if ext := strings.ToLower(filepath.Ext(pdfPath)); ext != ".pdf" {
		return "", fmt.Errorf("unsupported file type: %s", ext)
	}

	doc, err := fitz.New(pdfPath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	r.logger.Debug("Extracting PDF text", zap.String("path", pdfPath), zap.Int("pages", pageCount))

	var pages []string
	for pageNum := 0; pageNum < pageCount; pageNum++ {
		text, err := doc.Text(pageNum)
		if err != nil {
			r.logger.Warn("Failed to extract page text",
				zap.Int("page", pageNum),
				zap.Error(err))
			continue
		}
		pages = append(pages, text)
	}

	if len(pages) == 0 {
		return "", fmt.Errorf("no text extracted from PDF: %s", pdfPath)
	}

	return strings.Join(pages, "\n"), nil
}
