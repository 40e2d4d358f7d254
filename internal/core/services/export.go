package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/corvid-labs/askdoc/internal/core/domain"
	"github.com/corvid-labs/askdoc/internal/core/ports/driven"
	"github.com/corvid-labs/askdoc/internal/core/ports/driving"
	"github.com/corvid-labs/askdoc/internal/logger"
)

// Ensure ExportService implements the interface.
var _ driving.ExportService = (*ExportService)(nil)

// ExportService emails session transcripts.
type ExportService struct {
	sessions driven.SessionStore
	mailer   driven.Mailer
}

// NewExportService creates an export service.
func NewExportService(sessions driven.SessionStore, mailer driven.Mailer) *ExportService {
	return &ExportService{sessions: sessions, mailer: mailer}
}

// EmailTranscript formats the session's history as a text document and
// sends it to the session's email address as an attachment.
func (s *ExportService) EmailTranscript(ctx context.Context, sess *domain.Session) error {
	// The store holds the full persisted history, which may be longer
	// than what this process has seen.
	stored, err := s.sessions.GetSession(ctx, sess.ID)
	if err != nil {
		return fmt.Errorf("load session %s: %w", sess.ID, err)
	}

	email := stored.Email
	if email == "" {
		email = sess.Email
	}
	if email == "" {
		return fmt.Errorf("%w: session has no email address", domain.ErrInvalidInput)
	}
	if len(stored.History) == 0 {
		return fmt.Errorf("%w: session has no exchanges to export", domain.ErrInvalidInput)
	}

	transcript := FormatTranscript(stored)
	filename := fmt.Sprintf("transcript-%s.txt", sess.ID)
	subject := "Your askdoc session transcript"
	body := fmt.Sprintf("Attached is the transcript of your session (%d exchanges).", len(stored.History))

	if err := s.mailer.SendAttachment(ctx, email, subject, body, filename, []byte(transcript)); err != nil {
		return fmt.Errorf("email transcript for session %s: %w", sess.ID, err)
	}

	logger.Info("Transcript for session %s sent to %s", sess.ID, email)
	return nil
}

// FormatTranscript renders a session's history as a plain text document.
func FormatTranscript(sess *domain.Session) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Session transcript\n")
	fmt.Fprintf(&b, "Session:  %s\n", sess.ID)
	if sess.Email != "" {
		fmt.Fprintf(&b, "User:     %s\n", sess.Email)
	}
	fmt.Fprintf(&b, "Language: %s\n", sess.Language.Description())
	fmt.Fprintf(&b, "Started:  %s\n", sess.CreatedAt.Format("2006-01-02 15:04:05 UTC"))
	b.WriteString(strings.Repeat("-", 60) + "\n\n")

	for _, ex := range sess.History {
		fmt.Fprintf(&b, "Q%d: %s\n\n", ex.Position+1, ex.Query)
		fmt.Fprintf(&b, "A%d: %s\n\n", ex.Position+1, ex.Answer)
	}

	return b.String()
}
