package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor reads the text layer of PDF files
type PDFExtractor struct{}

// NewPDFExtractor creates a PDF extractor
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// Name returns the format name
func (e *PDFExtractor) Name() string {
	return "pdf"
}

// CanHandle matches .pdf and application/pdf
func (e *PDFExtractor) CanHandle(ext, mediaType string) bool {
	return ext == ".pdf" || mediaType == "application/pdf"
}

// Extract concatenates the plain text of every readable page.
// Pages that fail to decode are skipped.
func (e *PDFExtractor) Extract(data []byte) (text string, err error) {
	// The parser panics on some malformed files
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		content, pageErr := p.GetPlainText(nil)
		if pageErr != nil {
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	return b.String(), nil
}
