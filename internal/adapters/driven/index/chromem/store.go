// Package chromem provides a vector index adapter backed by chromem-go.
//
// Each retrieval namespace maps to one chromem collection. Collections
// embed chunk text through the configured EmbeddingService, so queries
// run against the same embedding space used at ingestion.
package chromem

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	chromemgo "github.com/philippgille/chromem-go"

	"github.com/corvid-labs/askdoc/internal/core/domain"
	"github.com/corvid-labs/askdoc/internal/core/ports/driven"
)

// Ensure the adapter implements the interfaces.
var (
	_ driven.IndexStore = (*Store)(nil)
	_ driven.Index      = (*Index)(nil)
)

// Config holds configuration for the chromem index store.
type Config struct {
	// PersistPath stores collections on disk when set; empty keeps
	// everything in memory.
	PersistPath string

	// Concurrency bounds parallel embedding calls during upsert
	// (default: runtime.NumCPU()).
	Concurrency int
}

// Store manages chromem collections, one per namespace.
type Store struct {
	db          *chromemgo.DB
	embedder    driven.EmbeddingService
	concurrency int
}

// NewStore creates a chromem-backed index store using the given
// embedding service for both ingestion and queries.
func NewStore(embedder driven.EmbeddingService, cfg Config) (*Store, error) {
	if embedder == nil {
		return nil, fmt.Errorf("chromem: embedding service is required")
	}

	db := chromemgo.NewDB()
	if cfg.PersistPath != "" {
		var err error
		db, err = chromemgo.NewPersistentDB(cfg.PersistPath, false)
		if err != nil {
			return nil, fmt.Errorf("chromem: open persistent db: %w", err)
		}
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}

	return &Store{
		db:          db,
		embedder:    embedder,
		concurrency: concurrency,
	}, nil
}

// Create allocates or connects to a namespace.
func (s *Store) Create(ctx context.Context, namespace string) (driven.Index, error) {
	if namespace == "" {
		return nil, fmt.Errorf("%w: namespace is empty", domain.ErrInvalidInput)
	}

	meta := map[string]string{"embedding_model": s.embedder.ModelName()}
	coll, err := s.db.GetOrCreateCollection(namespace, meta, s.embeddingFunc())
	if err != nil {
		return nil, fmt.Errorf("%w: create namespace %q: %v", domain.ErrIndexUnavailable, namespace, err)
	}

	return &Index{namespace: namespace, coll: coll, concurrency: s.concurrency}, nil
}

// Get returns an existing namespace.
func (s *Store) Get(ctx context.Context, namespace string) (driven.Index, error) {
	coll := s.db.GetCollection(namespace, s.embeddingFunc())
	if coll == nil {
		return nil, fmt.Errorf("%w: namespace %q", domain.ErrIndexNotReady, namespace)
	}
	return &Index{namespace: namespace, coll: coll, concurrency: s.concurrency}, nil
}

// Drop deletes a namespace and all its records.
func (s *Store) Drop(ctx context.Context, namespace string) error {
	if err := s.db.DeleteCollection(namespace); err != nil {
		return fmt.Errorf("%w: drop namespace %q: %v", domain.ErrIndexUnavailable, namespace, err)
	}
	return nil
}

// embeddingFunc bridges the EmbeddingService into chromem.
func (s *Store) embeddingFunc() chromemgo.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return s.embedder.Embed(ctx, text)
	}
}

// Index is one chromem collection.
type Index struct {
	namespace   string
	coll        *chromemgo.Collection
	concurrency int
}

// Namespace returns the namespace key this index was created with.
func (i *Index) Namespace() string {
	return i.namespace
}

// Upsert embeds and stores the chunks. Chunk IDs are stable, so
// re-storing the same chunk overwrites its record.
func (i *Index) Upsert(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	docs := make([]chromemgo.Document, 0, len(chunks))
	for _, c := range chunks {
		meta := map[string]string{
			"document_id": c.DocumentID,
			"position":    strconv.Itoa(c.Position),
		}
		for k, v := range c.Metadata {
			meta[k] = fmt.Sprint(v)
		}
		docs = append(docs, chromemgo.Document{
			ID:       c.ID,
			Content:  c.Content,
			Metadata: meta,
		})
	}

	if err := i.coll.AddDocuments(ctx, docs, i.concurrency); err != nil {
		return fmt.Errorf("%w: upsert %d chunks into %q: %v", domain.ErrIndexUnavailable, len(chunks), i.namespace, err)
	}
	return nil
}

// Query returns the k nearest chunks by cosine similarity. The result
// count is clamped to the number of stored records, and an empty
// namespace yields an empty result.
func (i *Index) Query(ctx context.Context, text string, k int) (domain.RetrievalResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", domain.ErrInvalidInput, k)
	}

	count := i.coll.Count()
	if count == 0 {
		return domain.RetrievalResult{}, nil
	}
	if k > count {
		k = count
	}

	results, err := i.coll.Query(ctx, text, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: query %q: %v", domain.ErrQueryFailed, i.namespace, err)
	}

	ranked := make(domain.RetrievalResult, 0, len(results))
	for _, res := range results {
		position, _ := strconv.Atoi(res.Metadata["position"])
		meta := make(map[string]any)
		for key, value := range res.Metadata {
			if key == "document_id" || key == "position" {
				continue
			}
			meta[key] = value
		}
		ranked = append(ranked, domain.ScoredChunk{
			Chunk: domain.Chunk{
				ID:         res.ID,
				DocumentID: res.Metadata["document_id"],
				Position:   position,
				Content:    res.Content,
				Metadata:   meta,
			},
			Similarity: res.Similarity,
		})
	}
	return ranked, nil
}

// Count returns the number of stored records.
func (i *Index) Count() int {
	return i.coll.Count()
}
