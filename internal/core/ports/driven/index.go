package driven

import (
	"context"

	"github.com/corvid-labs/askdoc/internal/core/domain"
)

// IndexStore owns the lifecycle of retrieval namespaces. Each ingestion
// session gets its own namespace; sessions never observe or mutate
// another session's chunks.
//
// Failure policy: any network or service failure during create, store
// or query is reported to the caller as a typed error (wrapping
// domain.ErrIndexUnavailable or domain.ErrQueryFailed) and never left
// to propagate as a fault that aborts the session.
type IndexStore interface {
	// Create allocates or connects to a namespace. Failure is non-fatal:
	// the session can retry or abort ingestion.
	Create(ctx context.Context, namespace string) (Index, error)

	// Get returns an existing namespace, or an error wrapping
	// domain.ErrIndexNotReady if it has not been created.
	Get(ctx context.Context, namespace string) (Index, error)

	// Drop deletes a namespace and all its records.
	Drop(ctx context.Context, namespace string) error
}

// Index is one retrieval namespace holding embedded chunk records.
type Index interface {
	// Namespace returns the namespace key this index was created with.
	Namespace() string

	// Upsert embeds each chunk's text and stores {id, vector, text,
	// metadata} records. Idempotent under retry: re-storing a chunk ID
	// overwrites rather than duplicates.
	Upsert(ctx context.Context, chunks []domain.Chunk) error

	// Query embeds the query text with the same embedding capability
	// used at ingestion and returns the k nearest chunk records ranked
	// by non-increasing similarity. An empty namespace yields an empty
	// result, not an error.
	Query(ctx context.Context, text string, k int) (domain.RetrievalResult, error)

	// Count returns the number of stored records.
	Count() int
}
