package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Ingestion Errors.

	// ErrExtraction indicates a document could not be parsed into text.
	// The caller decides whether to skip the document or abort the batch.
	ErrExtraction = errors.New("document extraction failed")

	// ErrIndexUnavailable indicates the vector store is unreachable or
	// rejected the request. Ingestion can be retried without losing the session.
	ErrIndexUnavailable = errors.New("vector index unavailable")

	// ErrIndexNotReady indicates no index exists yet for the session.
	// Distinct from ErrIndexUnavailable: the service is fine, the
	// session simply has not ingested any documents.
	ErrIndexNotReady = errors.New("no index for session")

	// Query Errors.

	// ErrQueryFailed indicates embedding or similarity search failed.
	// The session's index persists; the query may be retried.
	ErrQueryFailed = errors.New("retrieval query failed")

	// ErrGeneration indicates the answer generation call failed.
	ErrGeneration = errors.New("answer generation failed")

	// ErrBlockedQuery indicates the query contains blocklisted terms and
	// was rejected before reaching the retriever.
	ErrBlockedQuery = errors.New("query contains blocked terms")

	// Authentication Errors.

	// ErrInvalidCredentials indicates the email/password pair does not match.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrWeakPassword indicates the password fails the strength rules.
	ErrWeakPassword = errors.New("password does not meet strength requirements")

	// ErrInvalidOTP indicates the one-time code is wrong or expired.
	ErrInvalidOTP = errors.New("invalid or expired one-time code")
)
