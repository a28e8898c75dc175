package scanning

import (
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
)

const pdfTextHeader = "=== PDF_TEXT ==="

// pdfDocument is the part of fitz.Document used for text extraction.
type pdfDocument interface {
	NumPage() int
	Text(pageNumber int) (string, error)
	Close() error
}

// PDFText implements the Scanner interface by reading the text layer of a
// PDF. Scanned PDFs without selectable text are rejected with ErrNoTextLayer.
type PDFText struct {
	open func(data []byte) (pdfDocument, error)
}

// NewPDFText creates a new PDFText scanner backed by MuPDF
func NewPDFText() *PDFText {
	return &PDFText{
		open: func(data []byte) (pdfDocument, error) {
			return fitz.NewFromMemory(data)
		},
	}
}

// ScanDocument extracts the text of every page
func (p *PDFText) ScanDocument(data []byte, contentType string) (*Document, error) {
	doc, err := p.open(data)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	var b strings.Builder
	b.WriteString(pdfTextHeader)
	found := false
	for i := 0; i < doc.NumPage(); i++ {
		text, err := doc.Text(i)
		if err != nil {
			return nil, fmt.Errorf("reading PDF page %d: %w", i+1, err)
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		found = true
		fmt.Fprintf(&b, "\n--- PAGE %d ---\n%s", i+1, text)
	}

	if !found {
		return nil, ErrNoTextLayer
	}
	return &Document{Text: b.String(), Engine: "pdf_text"}, nil
}

// Close is a no-op; documents are closed after each scan
func (p *PDFText) Close() error {
	return nil
}
