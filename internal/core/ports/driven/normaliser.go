package driven

import (
	"context"

	"github.com/corvid-labs/askdoc/internal/core/domain"
)

// Normaliser extracts cleaned text from raw uploaded documents.
// Each normaliser handles specific MIME types (e.g., PDF, Markdown).
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Format-specific normalisers should return 50-89.
	// Fallback normalisers should return 1-9.
	Priority() int

	// Normalise extracts the document's textual content in reading order
	// and returns it cleaned. Unparseable input fails with an error
	// wrapping domain.ErrExtraction; the caller decides whether to skip
	// the document or abort the batch. No side effects beyond reading
	// the input.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)
}

// NormaliseResult contains the output of normalisation.
// Chunking is handled by the PostProcessor pipeline, not here.
type NormaliseResult struct {
	// Document is the extracted document with cleaned Content.
	Document domain.Document
}
