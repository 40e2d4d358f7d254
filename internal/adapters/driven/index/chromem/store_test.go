package chromem

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvid-labs/askdoc/internal/core/domain"
)

// stubEmbedder maps keyword occurrences to fixed unit vectors so
// similarity search runs without a live embedding service.
type stubEmbedder struct{}

func (stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	switch {
	case strings.Contains(text, "apple"):
		return []float32{1, 0, 0}, nil
	case strings.Contains(text, "banana"):
		return []float32{0, 1, 0}, nil
	}
	return []float32{0, 0, 1}, nil
}

func (s stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := s.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (stubEmbedder) Dimensions() int            { return 3 }
func (stubEmbedder) ModelName() string          { return "stub" }
func (stubEmbedder) Ping(context.Context) error { return nil }
func (stubEmbedder) Close() error               { return nil }

func TestNewStore_RequiresEmbedder(t *testing.T) {
	_, err := NewStore(nil, Config{})
	assert.Error(t, err)
}

func TestStore_CreateGetDrop(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore(stubEmbedder{}, Config{})
	require.NoError(t, err)

	_, err = store.Get(ctx, "session-1")
	assert.ErrorIs(t, err, domain.ErrIndexNotReady)

	idx, err := store.Create(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, "session-1", idx.Namespace())

	_, err = store.Get(ctx, "session-1")
	require.NoError(t, err)

	require.NoError(t, store.Drop(ctx, "session-1"))
	_, err = store.Get(ctx, "session-1")
	assert.ErrorIs(t, err, domain.ErrIndexNotReady)
}

func TestStore_CreateEmptyNamespace(t *testing.T) {
	store, err := NewStore(stubEmbedder{}, Config{})
	require.NoError(t, err)

	_, err = store.Create(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIndex_UpsertAndQuery(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore(stubEmbedder{}, Config{Concurrency: 1})
	require.NoError(t, err)

	idx, err := store.Create(ctx, "session-1")
	require.NoError(t, err)

	require.NoError(t, idx.Upsert(ctx, []domain.Chunk{
		{ID: "c1", DocumentID: "d1", Position: 0, Content: "apple orchards thrive in cool climates"},
		{ID: "c2", DocumentID: "d1", Position: 1, Content: "banana plantations need tropical heat"},
	}))
	assert.Equal(t, 2, idx.Count())

	result, err := idx.Query(ctx, "apple growing", 1)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "c1", result[0].Chunk.ID)
	assert.Equal(t, "d1", result[0].Chunk.DocumentID)
	assert.Equal(t, 0, result[0].Chunk.Position)
	assert.Contains(t, result[0].Chunk.Content, "apple")
}

func TestIndex_QueryReturnsChunkMetadata(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore(stubEmbedder{}, Config{Concurrency: 1})
	require.NoError(t, err)

	idx, err := store.Create(ctx, "session-1")
	require.NoError(t, err)

	require.NoError(t, idx.Upsert(ctx, []domain.Chunk{
		{
			ID:         "c1",
			DocumentID: "d1",
			Position:   0,
			Content:    "apple orchards thrive in cool climates",
			Metadata:   map[string]any{"document_name": "orchards.md"},
		},
	}))

	result, err := idx.Query(ctx, "apple growing", 1)
	require.NoError(t, err)
	require.Len(t, result, 1)

	meta := result[0].Chunk.Metadata
	assert.Equal(t, "orchards.md", meta["document_name"])

	// Record bookkeeping stays on the chunk fields, not in metadata.
	assert.NotContains(t, meta, "document_id")
	assert.NotContains(t, meta, "position")
}

func TestIndex_UpsertIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore(stubEmbedder{}, Config{Concurrency: 1})
	require.NoError(t, err)

	idx, err := store.Create(ctx, "session-1")
	require.NoError(t, err)

	chunk := domain.Chunk{ID: "c1", DocumentID: "d1", Content: "apple pie"}
	require.NoError(t, idx.Upsert(ctx, []domain.Chunk{chunk}))
	require.NoError(t, idx.Upsert(ctx, []domain.Chunk{chunk}))

	assert.Equal(t, 1, idx.Count())
}

func TestIndex_QueryEmptyNamespace(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore(stubEmbedder{}, Config{})
	require.NoError(t, err)

	idx, err := store.Create(ctx, "session-1")
	require.NoError(t, err)

	result, err := idx.Query(ctx, "anything", 4)
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestIndex_QueryClampsK(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore(stubEmbedder{}, Config{Concurrency: 1})
	require.NoError(t, err)

	idx, err := store.Create(ctx, "session-1")
	require.NoError(t, err)

	require.NoError(t, idx.Upsert(ctx, []domain.Chunk{
		{ID: "c1", DocumentID: "d1", Content: "apple"},
	}))

	result, err := idx.Query(ctx, "apple", 10)
	require.NoError(t, err)
	assert.Len(t, result, 1)
}

func TestStore_NamespaceIsolation(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore(stubEmbedder{}, Config{Concurrency: 1})
	require.NoError(t, err)

	idxA, err := store.Create(ctx, "session-a")
	require.NoError(t, err)
	idxB, err := store.Create(ctx, "session-b")
	require.NoError(t, err)

	require.NoError(t, idxA.Upsert(ctx, []domain.Chunk{
		{ID: "a1", DocumentID: "doc-a", Content: "apple"},
	}))
	require.NoError(t, idxB.Upsert(ctx, []domain.Chunk{
		{ID: "b1", DocumentID: "doc-b", Content: "banana"},
	}))

	result, err := idxA.Query(ctx, "apple", 4)
	require.NoError(t, err)
	for _, scored := range result {
		assert.Equal(t, "doc-a", scored.Chunk.DocumentID)
	}
}
