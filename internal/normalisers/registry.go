package normalisers

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/corvid-labs/askdoc/internal/core/domain"
	"github.com/corvid-labs/askdoc/internal/core/ports/driven"
)

// Registry selects a normaliser for a document by MIME type.
// When several normalisers claim a MIME type, the highest priority wins.
type Registry struct {
	byMIME map[string]driven.Normaliser
}

// NewRegistry creates a registry over the given normalisers.
func NewRegistry(normalisers ...driven.Normaliser) *Registry {
	r := &Registry{byMIME: make(map[string]driven.Normaliser)}
	for _, n := range normalisers {
		for _, mt := range n.SupportedMIMETypes() {
			if existing, ok := r.byMIME[mt]; ok && existing.Priority() >= n.Priority() {
				continue
			}
			r.byMIME[mt] = n
		}
	}
	return r
}

// For returns the normaliser for a raw document, resolving the MIME
// type from the filename extension when the upload did not declare one.
func (r *Registry) For(raw *domain.RawDocument) (driven.Normaliser, error) {
	mimeType := raw.MIMEType
	if mimeType == "" {
		mimeType = TypeByExtension(raw.Name)
	}
	// Strip parameters like "; charset=utf-8".
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}

	if n, ok := r.byMIME[mimeType]; ok {
		return n, nil
	}
	return nil, fmt.Errorf("%w: no normaliser for MIME type %q", domain.ErrExtraction, mimeType)
}

// TypeByExtension resolves a MIME type from a filename.
func TypeByExtension(name string) string {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".pdf":
		return "application/pdf"
	case ".md", ".markdown":
		return "text/markdown"
	case ".txt", ".text", "":
		return "text/plain"
	default:
		if mt := mime.TypeByExtension(ext); mt != "" {
			return mt
		}
		return "text/plain"
	}
}
