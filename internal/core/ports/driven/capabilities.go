package driven

import (
	"context"

	"github.com/corvid-labs/askdoc/internal/core/domain"
)

// Translator translates generated answers into the session's language.
// Applied outside the retrieval core, on the Answer Generator's output.
type Translator interface {
	// Translate renders text in the target language.
	Translate(ctx context.Context, text string, target domain.Language) (string, error)
}

// SpeechSynthesizer narrates text as audio.
type SpeechSynthesizer interface {
	// Synthesize returns an MP3 byte stream for the text in the given language.
	Synthesize(ctx context.Context, text string, lang domain.Language) ([]byte, error)
}

// QueryModerator is a pluggable pre-check applied to queries before
// they reach the retriever.
type QueryModerator interface {
	// Blocked reports whether the text contains blocklisted terms.
	Blocked(text string) bool
}

// Mailer delivers one-time codes and session transcripts by email.
type Mailer interface {
	// SendOTP delivers a one-time login code.
	SendOTP(ctx context.Context, to, code string) error

	// SendAttachment delivers a message with a single file attachment.
	SendAttachment(ctx context.Context, to, subject, body, filename string, attachment []byte) error
}
