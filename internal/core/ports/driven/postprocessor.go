package driven

import (
	"context"

	"github.com/corvid-labs/askdoc/internal/core/domain"
)

// PostProcessor processes document content to produce chunks.
// PostProcessors may be chained (e.g., chunking, enrichment).
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process takes a document and returns chunks. A chunk-creating
	// processor receives nil and returns new chunks; a chunk-modifying
	// processor receives and returns chunks. Must be deterministic:
	// identical input and configuration yields an identical sequence.
	Process(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error)
}
