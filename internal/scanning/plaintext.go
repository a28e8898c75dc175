package scanning

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// PlainText implements the Scanner interface for text files. Files that are
// not valid UTF-8 are decoded as Windows-1254, the code page older Turkish
// POS exports use.
type PlainText struct{}

// NewPlainText creates a new PlainText scanner
func NewPlainText() *PlainText {
	return &PlainText{}
}

// ScanDocument decodes the file contents
func (p *PlainText) ScanDocument(data []byte, contentType string) (*Document, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return &Document{Text: string(data), Engine: "plain_text"}, nil
	}

	decoded, err := charmap.Windows1254.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("decoding windows-1254 text: %w", err)
	}
	return &Document{Text: string(decoded), Engine: "plain_text_cp1254"}, nil
}

// Close is a no-op
func (p *PlainText) Close() error {
	return nil
}
