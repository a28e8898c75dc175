package scanning

import (
	"errors"
	"path/filepath"
	"strings"
)

// Content types handled by the scanners.
const (
	ContentTypeText = "text/plain"
	ContentTypePDF  = "application/pdf"
	ContentTypeJPEG = "image/jpeg"
	ContentTypePNG  = "image/png"
)

var (
	// ErrUnsupportedContentType is returned for documents no scanner can read.
	ErrUnsupportedContentType = errors.New("unsupported content type")
	// ErrNoTextLayer is returned for PDFs without selectable text.
	ErrNoTextLayer = errors.New("pdf has no text layer")
)

// Document is the raw text of a scanned document
type Document struct {
	Text   string `json:"text"`
	Engine string `json:"engine"`
}

// Scanner defines the interface for turning a document into raw text
type Scanner interface {
	// ScanDocument reads the text out of a document
	ScanDocument(data []byte, contentType string) (*Document, error)
	// Close closes the scanner and releases resources
	Close() error
}

// ContentTypeForExt maps a file extension to the content type used for
// scanning. It returns "" for unknown extensions.
func ContentTypeForExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".txt":
		return ContentTypeText
	case ".pdf":
		return ContentTypePDF
	case ".jpg", ".jpeg":
		return ContentTypeJPEG
	case ".png":
		return ContentTypePNG
	}
	return ""
}

// ContentTypeForFile is ContentTypeForExt for a file name.
func ContentTypeForFile(name string) string {
	return ContentTypeForExt(filepath.Ext(name))
}

// Supported reports whether a document of this content type can be scanned
// to text.
func Supported(contentType string) bool {
	switch normalizeContentType(contentType) {
	case ContentTypeText, ContentTypePDF:
		return true
	}
	return false
}

// normalizeContentType lowercases and drops parameters such as charset.
func normalizeContentType(contentType string) string {
	ct, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(ct))
}
