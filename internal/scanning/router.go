package scanning

import (
	"errors"
	"fmt"
)

// Router implements the Scanner interface by dispatching on content type
type Router struct {
	scanners map[string]Scanner
}

// NewRouter creates a Router with the plain text and PDF scanners
func NewRouter() *Router {
	return NewRouterWith(map[string]Scanner{
		ContentTypeText: NewPlainText(),
		ContentTypePDF:  NewPDFText(),
	})
}

// NewRouterWith creates a Router with custom scanners keyed by content type
func NewRouterWith(scanners map[string]Scanner) *Router {
	m := make(map[string]Scanner, len(scanners))
	for ct, s := range scanners {
		m[normalizeContentType(ct)] = s
	}
	return &Router{scanners: m}
}

// ScanDocument hands the document to the scanner registered for its type
func (r *Router) ScanDocument(data []byte, contentType string) (*Document, error) {
	ct := normalizeContentType(contentType)
	s, ok := r.scanners[ct]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedContentType, ct)
	}
	return s.ScanDocument(data, ct)
}

// Close closes every registered scanner
func (r *Router) Close() error {
	var errs []error
	for _, s := range r.scanners {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
