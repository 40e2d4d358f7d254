package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/corvid-labs/askdoc/internal/core/domain"
	"github.com/corvid-labs/askdoc/internal/core/ports/driven"
	"github.com/corvid-labs/askdoc/internal/core/ports/driving"
	"github.com/corvid-labs/askdoc/internal/logger"
)

// Ensure AssistantService implements the interface.
var _ driving.AssistantService = (*AssistantService)(nil)

// AssistantService orchestrates the session lifecycle: ingestion,
// moderated querying, answer translation, and narration. All state
// lives on the Session passed in; the service itself is stateless.
type AssistantService struct {
	ingest       *IngestService
	retrieval    *RetrievalService
	answers      *AnswerService
	indexStore   driven.IndexStore
	sessionStore driven.SessionStore
	translator   driven.Translator
	speech       driven.SpeechSynthesizer
	moderator    driven.QueryModerator
}

// NewAssistantService creates the assistant.
// The translator, speech and moderator parameters are optional (can be nil).
func NewAssistantService(
	ingest *IngestService,
	retrieval *RetrievalService,
	answers *AnswerService,
	indexStore driven.IndexStore,
	sessionStore driven.SessionStore,
	translator driven.Translator,
	speech driven.SpeechSynthesizer,
	moderator driven.QueryModerator,
) *AssistantService {
	return &AssistantService{
		ingest:       ingest,
		retrieval:    retrieval,
		answers:      answers,
		indexStore:   indexStore,
		sessionStore: sessionStore,
		translator:   translator,
		speech:       speech,
		moderator:    moderator,
	}
}

// StartSession creates and persists a new idle session.
func (s *AssistantService) StartSession(ctx context.Context, email string, lang domain.Language) (*domain.Session, error) {
	if !lang.IsValid() {
		return nil, fmt.Errorf("%w: unknown language %q", domain.ErrInvalidInput, lang)
	}

	sess := domain.NewSession(uuid.NewString())
	sess.Email = email
	sess.Language = lang

	if err := s.sessionStore.SaveSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	logger.Info("Started session %s (%s)", sess.ID, lang)
	return sess, nil
}

// Ingest indexes an upload batch into the session. The session moves
// to Indexed when at least one document succeeds; a batch where every
// document fails returns the session to Idle with an error.
func (s *AssistantService) Ingest(ctx context.Context, sess *domain.Session, docs []domain.RawDocument) (*domain.IngestReport, error) {
	if sess.State != domain.SessionIdle && !sess.State.CanQuery() {
		return nil, fmt.Errorf("%w: cannot ingest in state %s", domain.ErrInvalidInput, sess.State)
	}

	prior := sess.State
	s.transition(ctx, sess, domain.SessionIngesting)

	report, err := s.ingest.Ingest(ctx, sess, docs)
	if err != nil {
		s.transition(ctx, sess, domain.SessionIdle)
		return nil, err
	}

	if report.DocumentsIndexed == 0 {
		// Nothing got in. Keep an existing index usable, otherwise idle.
		if prior.CanQuery() {
			s.transition(ctx, sess, domain.SessionIndexed)
		} else {
			s.transition(ctx, sess, domain.SessionIdle)
		}
		return report, fmt.Errorf("%w: all %d documents failed", domain.ErrExtraction, len(report.Failures))
	}

	s.transition(ctx, sess, domain.SessionIndexed)
	return report, nil
}

// Ask answers a question grounded in the session's indexed documents.
func (s *AssistantService) Ask(ctx context.Context, sess *domain.Session, query string) (*driving.Answer, error) {
	if !sess.State.CanQuery() {
		return nil, fmt.Errorf("%w: no documents indexed for session %s", domain.ErrIndexNotReady, sess.ID)
	}

	if s.moderator != nil && s.moderator.Blocked(query) {
		logger.Warn("Query rejected by moderation")
		return nil, domain.ErrBlockedQuery
	}

	s.transition(ctx, sess, domain.SessionQuerying)

	answer, err := s.ask(ctx, sess, query)
	if err != nil {
		// The index survives a failed query.
		s.transition(ctx, sess, domain.SessionIndexed)
		return nil, err
	}

	ex := sess.Record(query, answer.Text)
	if err := s.sessionStore.SaveExchange(ctx, sess.ID, ex); err != nil {
		logger.Warn("Failed to persist exchange: %v", err)
	}

	s.transition(ctx, sess, domain.SessionAnswered)
	return answer, nil
}

// ask runs retrieve, generate and translate without touching session state.
func (s *AssistantService) ask(ctx context.Context, sess *domain.Session, query string) (*driving.Answer, error) {
	result, err := s.retrieval.Retrieve(ctx, sess, query)
	if err != nil {
		return nil, err
	}

	text, err := s.answers.Generate(ctx, query, result)
	if err != nil {
		return nil, err
	}

	answer := &driving.Answer{
		Text:      text,
		Delivered: text,
		Sources:   sourceNames(result),
	}

	if s.translator != nil && sess.Language.NeedsTranslation() {
		translated, err := s.translator.Translate(ctx, text, sess.Language)
		if err != nil {
			// Deliver the English answer rather than fail the exchange.
			logger.Warn("Translation to %s failed: %v", sess.Language, err)
		} else {
			answer.Delivered = translated
		}
	}

	return answer, nil
}

// Narrate synthesizes text as MP3 audio in the session's language.
func (s *AssistantService) Narrate(ctx context.Context, sess *domain.Session, text string) ([]byte, error) {
	if s.speech == nil {
		return nil, fmt.Errorf("%w: speech synthesis not configured", domain.ErrInvalidInput)
	}
	audio, err := s.speech.Synthesize(ctx, text, sess.Language)
	if err != nil {
		return nil, fmt.Errorf("narrate: %w", err)
	}
	return audio, nil
}

// EndSession drops the session's index namespace and deletes the session.
func (s *AssistantService) EndSession(ctx context.Context, sess *domain.Session) error {
	if err := s.indexStore.Drop(ctx, sess.ID); err != nil {
		logger.Warn("Failed to drop index for session %s: %v", sess.ID, err)
	}
	if err := s.sessionStore.DeleteSession(ctx, sess.ID); err != nil {
		return fmt.Errorf("delete session %s: %w", sess.ID, err)
	}
	sess.State = domain.SessionIdle
	logger.Info("Ended session %s", sess.ID)
	return nil
}

// transition moves the session to the given state and persists it.
// Persistence failures are logged, not surfaced: the in-memory session
// stays authoritative for the rest of the call.
func (s *AssistantService) transition(ctx context.Context, sess *domain.Session, state domain.SessionState) {
	sess.State = state
	if err := s.sessionStore.SaveSession(ctx, sess); err != nil {
		logger.Warn("Failed to persist session state %s: %v", state, err)
	}
}

// sourceNames returns the distinct document names backing a retrieval
// result, in rank order.
func sourceNames(result domain.RetrievalResult) []string {
	seen := make(map[string]bool)
	var names []string
	for _, sc := range result {
		name, _ := sc.Chunk.Metadata["document_name"].(string)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}
