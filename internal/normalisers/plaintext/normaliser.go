package plaintext

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/corvid-labs/askdoc/internal/core/domain"
	"github.com/corvid-labs/askdoc/internal/core/ports/driven"
	"github.com/corvid-labs/askdoc/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text uploads and the degenerate case of
// pre-extracted text supplied directly.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{
		"text/plain",
		"text/csv",
	}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 5 // Fallback normaliser
}

// Normalise converts raw bytes to a cleaned document.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	doc := domain.Document{
		ID:        uuid.New().String(),
		Name:      raw.Name,
		Content:   normalisers.Clean(string(raw.Content)),
		Metadata:  map[string]any{"mime_type": raw.MIMEType},
		CreatedAt: time.Now().UTC(),
	}

	return &driven.NormaliseResult{Document: doc}, nil
}
