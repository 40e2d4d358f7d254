package domain

import "time"

// RawDocument represents opaque uploaded bytes before extraction.
// It is ephemeral: it exists only for the duration of ingestion.
type RawDocument struct {
	// Name is the source identifier, usually the uploaded filename.
	Name string

	// MIMEType is the content type (e.g., "application/pdf").
	MIMEType string

	// Content is the raw bytes.
	Content []byte

	// Metadata contains caller-specific key-value pairs.
	Metadata map[string]any
}

// Document represents an ingested document after extraction and cleaning.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// SessionID links to the ingestion session that owns this document.
	SessionID string

	// Name is the original source identifier (filename).
	Name string

	// Content is the full cleaned text before chunking.
	Content string

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any

	// CreatedAt is when the document was ingested.
	CreatedAt time.Time
}

// Chunk is a bounded-length passage of cleaned document text prepared
// for embedding and retrieval. Chunks are immutable once produced;
// ownership passes to the index store.
type Chunk struct {
	// ID is a stable content-derived identifier. Re-chunking identical
	// input yields identical IDs, making index upserts idempotent.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Position is the ordinal position within the document.
	Position int

	// Content is the text of this chunk, including any leading overlap
	// carried from the previous chunk.
	Content string

	// Start and End delimit the chunk's non-overlap span [Start, End)
	// in the cleaned document text. Concatenating these spans in
	// position order reconstructs the cleaned text with no gaps.
	Start int
	End   int

	// Metadata contains chunk-specific key-value pairs.
	Metadata map[string]any
}

// ScoredChunk is a chunk ranked by similarity to a query.
type ScoredChunk struct {
	// Chunk is the retrieved chunk record.
	Chunk Chunk

	// Similarity is the similarity score in [0, 1], higher is closer.
	Similarity float32
}

// RetrievalResult is an ordered sequence of chunks ranked by descending
// similarity to a query. Duplicates across calls are expected.
type RetrievalResult []ScoredChunk

// Texts returns the chunk contents in rank order.
func (r RetrievalResult) Texts() []string {
	texts := make([]string, len(r))
	for i := range r {
		texts[i] = r[i].Chunk.Content
	}
	return texts
}

// IngestFailure records one document that failed during batch ingestion.
// A failure of one document never aborts the remaining documents.
type IngestFailure struct {
	// Name is the source identifier of the failed document.
	Name string

	// Err is the extraction or indexing error.
	Err error
}

// IngestReport summarises one ingestion batch.
type IngestReport struct {
	// DocumentsIndexed is the number of documents successfully stored.
	DocumentsIndexed int

	// ChunksStored is the total number of chunks upserted.
	ChunksStored int

	// Failures lists documents that could not be processed.
	Failures []IngestFailure
}
