package driving

import (
	"context"

	"github.com/corvid-labs/askdoc/internal/core/domain"
)

// AssistantService is the application core exposed to user-facing
// adapters: one ingestion+query cycle per session.
type AssistantService interface {
	// StartSession creates a new idle session for the given user.
	StartSession(ctx context.Context, email string, lang domain.Language) (*domain.Session, error)

	// Ingest extracts, chunks and indexes a batch of uploaded documents
	// into the session's namespace. Documents are processed
	// independently; per-document failures are collected in the report,
	// not short-circuited. On total failure the session returns to Idle.
	Ingest(ctx context.Context, sess *domain.Session, docs []domain.RawDocument) (*domain.IngestReport, error)

	// Ask answers a question grounded in the session's indexed
	// documents. Requires the session to be Indexed. The answer is
	// translated when the session language requires it.
	Ask(ctx context.Context, sess *domain.Session, query string) (*Answer, error)

	// Narrate synthesizes an answer as MP3 audio in the session's language.
	Narrate(ctx context.Context, sess *domain.Session, text string) ([]byte, error)

	// EndSession drops the session's index namespace and clears its state.
	EndSession(ctx context.Context, sess *domain.Session) error
}

// Answer is one delivered response.
type Answer struct {
	// Text is the generated answer in English.
	Text string

	// Delivered is the answer in the session language (equal to Text
	// for English sessions).
	Delivered string

	// Sources lists the document names the answer was grounded in.
	Sources []string
}

// AuthService handles registration and two-factor login.
type AuthService interface {
	// Register creates an account after validating password strength.
	Register(ctx context.Context, email, password string) error

	// Login verifies credentials and emails a one-time code.
	Login(ctx context.Context, email, password string) error

	// VerifyOTP checks the one-time code and completes the login.
	VerifyOTP(ctx context.Context, email, code string) error
}

// ExportService emails a session transcript to its user.
type ExportService interface {
	// EmailTranscript formats the session's {query, answer} history as
	// a document and sends it to the session's email address.
	EmailTranscript(ctx context.Context, sess *domain.Session) error
}
