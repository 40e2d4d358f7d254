package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvid-labs/askdoc/internal/core/domain"
)

func newIngestFixture(failFor ...string) (*IngestService, *fakeIndexStore) {
	failures := make(map[string]bool)
	for _, name := range failFor {
		failures[name] = true
	}
	store := newFakeIndexStore()
	svc := NewIngestService(
		&fakeRegistry{normaliser: &fakeNormaliser{failFor: failures}},
		&fakePipeline{},
		store,
	)
	return svc, store
}

func rawDoc(name, content string) domain.RawDocument {
	return domain.RawDocument{Name: name, MIMEType: "text/plain", Content: []byte(content)}
}

func TestIngest(t *testing.T) {
	ctx := context.Background()
	svc, store := newIngestFixture()
	sess := domain.NewSession("sess-1")

	report, err := svc.Ingest(ctx, sess, []domain.RawDocument{
		rawDoc("a.txt", "this is the first document with some content"),
		rawDoc("b.txt", "and a second one"),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, report.DocumentsIndexed)
	assert.Empty(t, report.Failures)
	assert.Positive(t, report.ChunksStored)

	idx, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, report.ChunksStored, idx.Count())
}

func TestIngest_PerDocumentFailures(t *testing.T) {
	ctx := context.Background()
	svc, store := newIngestFixture("broken.pdf")
	sess := domain.NewSession("sess-1")

	report, err := svc.Ingest(ctx, sess, []domain.RawDocument{
		rawDoc("good.txt", "readable content here"),
		rawDoc("broken.pdf", "ignored"),
		rawDoc("also-good.txt", "more readable content"),
	})
	require.NoError(t, err)

	// The broken document is reported; the others still land.
	assert.Equal(t, 2, report.DocumentsIndexed)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "broken.pdf", report.Failures[0].Name)
	assert.ErrorIs(t, report.Failures[0].Err, domain.ErrExtraction)

	idx, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Positive(t, idx.Count())
}

func TestIngest_EmptyBatch(t *testing.T) {
	svc, _ := newIngestFixture()

	_, err := svc.Ingest(context.Background(), domain.NewSession("s"), nil)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIngest_IndexCreateFailure(t *testing.T) {
	store := newFakeIndexStore()
	store.createErr = domain.ErrIndexUnavailable
	svc := NewIngestService(
		&fakeRegistry{normaliser: &fakeNormaliser{}},
		&fakePipeline{},
		store,
	)

	_, err := svc.Ingest(context.Background(), domain.NewSession("s"),
		[]domain.RawDocument{rawDoc("a.txt", "content")})
	require.ErrorIs(t, err, domain.ErrIndexUnavailable)
}

func TestIngest_WhitespaceOnlyDocument(t *testing.T) {
	svc, _ := newIngestFixture()
	sess := domain.NewSession("sess-1")

	report, err := svc.Ingest(context.Background(), sess, []domain.RawDocument{
		rawDoc("blank.txt", ""),
		rawDoc("real.txt", "actual content"),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, report.DocumentsIndexed)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "blank.txt", report.Failures[0].Name)
}

func TestIngest_ChunkMetadataCarriesDocumentName(t *testing.T) {
	ctx := context.Background()
	svc, store := newIngestFixture()
	sess := domain.NewSession("sess-1")

	_, err := svc.Ingest(ctx, sess, []domain.RawDocument{rawDoc("report.txt", "findings go here")})
	require.NoError(t, err)

	idx, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	result, err := idx.Query(ctx, "findings", 1)
	require.NoError(t, err)
	require.NotEmpty(t, result)
	assert.Equal(t, "report.txt", result[0].Chunk.Metadata["document_name"])
}

func TestIngest_UpsertFailureIsPerDocument(t *testing.T) {
	ctx := context.Background()
	store := newFakeIndexStore()
	idx, err := store.Create(ctx, "sess-1")
	require.NoError(t, err)
	idx.(*fakeIndex).upsertErr = errors.New("index write failed")

	svc := NewIngestService(
		&fakeRegistry{normaliser: &fakeNormaliser{}},
		&fakePipeline{},
		store,
	)

	report, err := svc.Ingest(ctx, domain.NewSession("sess-1"),
		[]domain.RawDocument{rawDoc("a.txt", "content")})
	require.NoError(t, err)
	assert.Zero(t, report.DocumentsIndexed)
	require.Len(t, report.Failures, 1)
}
