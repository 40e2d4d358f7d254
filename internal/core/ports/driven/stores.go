package driven

import (
	"context"

	"github.com/corvid-labs/askdoc/internal/core/domain"
)

// UserStore persists registered accounts, keyed by email.
type UserStore interface {
	// SaveUser stores a new account. Fails with domain.ErrAlreadyExists
	// if the email is taken.
	SaveUser(ctx context.Context, user *domain.User) error

	// GetUser retrieves an account by email, or domain.ErrNotFound.
	GetUser(ctx context.Context, email string) (*domain.User, error)
}

// SessionStore persists sessions and their {query, answer} transcripts.
type SessionStore interface {
	// SaveSession stores or updates a session's metadata.
	SaveSession(ctx context.Context, sess *domain.Session) error

	// GetSession retrieves a session by ID, with its history in
	// position order, or domain.ErrNotFound.
	GetSession(ctx context.Context, id string) (*domain.Session, error)

	// SaveExchange appends one completed exchange to a session's transcript.
	SaveExchange(ctx context.Context, sessionID string, ex domain.Exchange) error

	// DeleteSession removes a session and its transcript.
	DeleteSession(ctx context.Context, id string) error
}
