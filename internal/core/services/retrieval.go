package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/corvid-labs/askdoc/internal/core/domain"
	"github.com/corvid-labs/askdoc/internal/core/ports/driven"
	"github.com/corvid-labs/askdoc/internal/logger"
)

// Top-K bounds. Retrieval always fetches a fixed number of chunks;
// values outside this range are clamped, not rejected.
const (
	DefaultTopK = 4
	MinTopK     = 3
	MaxTopK     = 5
)

// RetrievalService fetches the chunks most similar to a query from a
// session's index namespace. It returns the ranked sequence exactly as
// the index produced it; no caching, no re-scoring.
type RetrievalService struct {
	indexStore driven.IndexStore
	topK       int
}

// NewRetrievalService creates a retrieval service. topK outside
// [MinTopK, MaxTopK] is clamped; zero means DefaultTopK.
func NewRetrievalService(indexStore driven.IndexStore, topK int) *RetrievalService {
	switch {
	case topK == 0:
		topK = DefaultTopK
	case topK < MinTopK:
		topK = MinTopK
	case topK > MaxTopK:
		topK = MaxTopK
	}
	return &RetrievalService{indexStore: indexStore, topK: topK}
}

// TopK returns the effective chunk count per query.
func (s *RetrievalService) TopK() int {
	return s.topK
}

// Retrieve returns the top-K chunks for the query from the session's
// namespace. An empty query or a session without an index fails; an
// indexed session with no matching chunks yields an empty result.
func (s *RetrievalService) Retrieve(ctx context.Context, sess *domain.Session, query string) (domain.RetrievalResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}

	idx, err := s.indexStore.Get(ctx, sess.ID)
	if err != nil {
		return nil, fmt.Errorf("get index for session %s: %w", sess.ID, err)
	}

	logger.Debug("Retrieving top %d chunks for session %s", s.topK, sess.ID)
	result, err := idx.Query(ctx, query, s.topK)
	if err != nil {
		return nil, fmt.Errorf("query session %s: %w", sess.ID, err)
	}
	logger.Debug("Retrieved %d chunks", len(result))

	return result, nil
}
