// Package memory provides an in-memory vector index adapter.
//
// Records are held in process memory with brute-force cosine similarity
// search. Intended for tests and small single-session workloads; the
// chromem adapter is the persistent implementation.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/corvid-labs/askdoc/internal/core/domain"
	"github.com/corvid-labs/askdoc/internal/core/ports/driven"
)

// Ensure the adapter implements the interfaces.
var (
	_ driven.IndexStore = (*Store)(nil)
	_ driven.Index      = (*Index)(nil)
)

// Store manages in-memory namespaces.
type Store struct {
	mu         sync.RWMutex
	embedder   driven.EmbeddingService
	namespaces map[string]*Index
}

// NewStore creates an in-memory index store using the given embedding
// service for both ingestion and queries.
func NewStore(embedder driven.EmbeddingService) *Store {
	return &Store{
		embedder:   embedder,
		namespaces: make(map[string]*Index),
	}
}

// Create allocates or connects to a namespace.
func (s *Store) Create(_ context.Context, namespace string) (driven.Index, error) {
	if namespace == "" {
		return nil, fmt.Errorf("%w: namespace is empty", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if idx, ok := s.namespaces[namespace]; ok {
		return idx, nil
	}

	idx := &Index{
		namespace: namespace,
		embedder:  s.embedder,
		records:   make(map[string]record),
	}
	s.namespaces[namespace] = idx
	return idx, nil
}

// Get returns an existing namespace.
func (s *Store) Get(_ context.Context, namespace string) (driven.Index, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.namespaces[namespace]
	if !ok {
		return nil, fmt.Errorf("%w: namespace %q", domain.ErrIndexNotReady, namespace)
	}
	return idx, nil
}

// Drop deletes a namespace and all its records.
func (s *Store) Drop(_ context.Context, namespace string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.namespaces, namespace)
	return nil
}

// record is one stored chunk with its embedding.
type record struct {
	chunk  domain.Chunk
	vector []float32
}

// Index is one in-memory namespace.
type Index struct {
	mu        sync.RWMutex
	namespace string
	embedder  driven.EmbeddingService
	records   map[string]record
}

// Namespace returns the namespace key this index was created with.
func (i *Index) Namespace() string {
	return i.namespace
}

// Upsert embeds and stores the chunks, keyed by chunk ID.
func (i *Index) Upsert(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for n, c := range chunks {
		texts[n] = c.Content
	}

	vectors, err := i.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("%w: embed %d chunks: %v", domain.ErrIndexUnavailable, len(chunks), err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("%w: expected %d embeddings, got %d", domain.ErrIndexUnavailable, len(chunks), len(vectors))
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	for n, c := range chunks {
		i.records[c.ID] = record{chunk: c, vector: vectors[n]}
	}
	return nil
}

// Query returns the k nearest chunks by cosine similarity. Ties break
// by chunk ID so identical queries rank identically.
func (i *Index) Query(ctx context.Context, text string, k int) (domain.RetrievalResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", domain.ErrInvalidInput, k)
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	if len(i.records) == 0 {
		return domain.RetrievalResult{}, nil
	}

	query, err := i.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %v", domain.ErrQueryFailed, err)
	}

	ranked := make(domain.RetrievalResult, 0, len(i.records))
	for _, rec := range i.records {
		ranked = append(ranked, domain.ScoredChunk{
			Chunk:      rec.chunk,
			Similarity: cosine(query, rec.vector),
		})
	}

	sort.SliceStable(ranked, func(a, b int) bool {
		if ranked[a].Similarity != ranked[b].Similarity {
			return ranked[a].Similarity > ranked[b].Similarity
		}
		return ranked[a].Chunk.ID < ranked[b].Chunk.ID
	})

	if k > len(ranked) {
		k = len(ranked)
	}
	return ranked[:k], nil
}

// Count returns the number of stored records.
func (i *Index) Count() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.records)
}

// cosine computes cosine similarity between two vectors.
func cosine(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for n := range a {
		dot += float64(a[n]) * float64(b[n])
		normA += float64(a[n]) * float64(a[n])
		normB += float64(b[n]) * float64(b[n])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
