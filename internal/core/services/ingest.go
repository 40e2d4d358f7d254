package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/corvid-labs/askdoc/internal/core/domain"
	"github.com/corvid-labs/askdoc/internal/core/ports/driven"
	"github.com/corvid-labs/askdoc/internal/logger"
)

// NormaliserRegistry selects a normaliser for an uploaded document.
type NormaliserRegistry interface {
	For(raw *domain.RawDocument) (driven.Normaliser, error)
}

// ChunkPipeline turns a cleaned document into chunks.
type ChunkPipeline interface {
	Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error)
}

// IngestService extracts, chunks and indexes uploaded documents into a
// session's namespace. Documents in a batch are independent: one
// failure is recorded and the rest continue.
type IngestService struct {
	registry   NormaliserRegistry
	pipeline   ChunkPipeline
	indexStore driven.IndexStore
}

// NewIngestService creates an ingest service.
func NewIngestService(registry NormaliserRegistry, pipeline ChunkPipeline, indexStore driven.IndexStore) *IngestService {
	return &IngestService{
		registry:   registry,
		pipeline:   pipeline,
		indexStore: indexStore,
	}
}

// Ingest processes a batch of uploads into the session's namespace.
// A namespace that cannot be created aborts the whole batch; anything
// after that is a per-document failure collected in the report.
func (s *IngestService) Ingest(ctx context.Context, sess *domain.Session, docs []domain.RawDocument) (*domain.IngestReport, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: no documents to ingest", domain.ErrInvalidInput)
	}

	logger.Section("Document Ingestion")
	logger.Info("Ingesting %d documents into session %s", len(docs), sess.ID)

	idx, err := s.indexStore.Create(ctx, sess.ID)
	if err != nil {
		return nil, fmt.Errorf("create index for session %s: %w", sess.ID, err)
	}

	report := &domain.IngestReport{}
	for i := range docs {
		raw := &docs[i]
		stored, err := s.ingestOne(ctx, sess, idx, raw)
		if err != nil {
			logger.Warn("Document %q failed: %v", raw.Name, err)
			report.Failures = append(report.Failures, domain.IngestFailure{Name: raw.Name, Err: err})
			continue
		}
		report.DocumentsIndexed++
		report.ChunksStored += stored
	}

	logger.Info("Ingestion complete: %d indexed, %d chunks, %d failed",
		report.DocumentsIndexed, report.ChunksStored, len(report.Failures))
	return report, nil
}

// ingestOne runs a single document through extract, chunk, and upsert.
func (s *IngestService) ingestOne(ctx context.Context, sess *domain.Session, idx driven.Index, raw *domain.RawDocument) (int, error) {
	normaliser, err := s.registry.For(raw)
	if err != nil {
		return 0, err
	}

	result, err := normaliser.Normalise(ctx, raw)
	if err != nil {
		return 0, fmt.Errorf("normalise %q: %w", raw.Name, err)
	}

	doc := result.Document
	doc.ID = uuid.NewString()
	doc.SessionID = sess.ID
	doc.CreatedAt = time.Now().UTC()

	chunks, err := s.pipeline.Process(ctx, &doc)
	if err != nil {
		return 0, fmt.Errorf("chunk %q: %w", raw.Name, err)
	}
	if len(chunks) == 0 {
		return 0, fmt.Errorf("%w: %q produced no text", domain.ErrExtraction, raw.Name)
	}

	// Carry the document name so answers can cite their sources.
	for i := range chunks {
		if chunks[i].Metadata == nil {
			chunks[i].Metadata = make(map[string]any)
		}
		chunks[i].Metadata["document_name"] = doc.Name
	}

	if err := idx.Upsert(ctx, chunks); err != nil {
		return 0, fmt.Errorf("index %q: %w", raw.Name, err)
	}

	logger.Debug("Indexed %q: %d chunks", raw.Name, len(chunks))
	return len(chunks), nil
}
