package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/corvid-labs/askdoc/internal/core/domain"
	"github.com/corvid-labs/askdoc/internal/core/ports/driven"
)

// fakeIndexStore is an in-memory driven.IndexStore for tests.
type fakeIndexStore struct {
	mu         sync.Mutex
	indexes    map[string]*fakeIndex
	createErr  error
	getErr     error
	dropCalled []string
}

func newFakeIndexStore() *fakeIndexStore {
	return &fakeIndexStore{indexes: make(map[string]*fakeIndex)}
}

func (s *fakeIndexStore) Create(_ context.Context, namespace string) (driven.Index, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx, ok := s.indexes[namespace]; ok {
		return idx, nil
	}
	idx := &fakeIndex{namespace: namespace, chunks: make(map[string]domain.Chunk)}
	s.indexes[namespace] = idx
	return idx, nil
}

func (s *fakeIndexStore) Get(_ context.Context, namespace string) (driven.Index, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.indexes[namespace]
	if !ok {
		return nil, fmt.Errorf("%w: namespace %q", domain.ErrIndexNotReady, namespace)
	}
	return idx, nil
}

func (s *fakeIndexStore) Drop(_ context.Context, namespace string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropCalled = append(s.dropCalled, namespace)
	delete(s.indexes, namespace)
	return nil
}

// fakeIndex ranks stored chunks by naive term overlap with the query.
type fakeIndex struct {
	namespace string
	mu        sync.Mutex
	chunks    map[string]domain.Chunk
	upsertErr error
	queryErr  error
}

func (f *fakeIndex) Namespace() string { return f.namespace }

func (f *fakeIndex) Upsert(_ context.Context, chunks []domain.Chunk) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range chunks {
		f.chunks[c.ID] = c
	}
	return nil
}

func (f *fakeIndex) Query(_ context.Context, text string, k int) (domain.RetrievalResult, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	var result domain.RetrievalResult
	for _, c := range f.chunks {
		score := float32(0.1)
		for _, w := range strings.Fields(strings.ToLower(text)) {
			if strings.Contains(strings.ToLower(c.Content), w) {
				score += 0.3
			}
		}
		result = append(result, domain.ScoredChunk{Chunk: c, Similarity: score})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Similarity != result[j].Similarity {
			return result[i].Similarity > result[j].Similarity
		}
		return result[i].Chunk.ID < result[j].Chunk.ID
	})
	if len(result) > k {
		result = result[:k]
	}
	return result, nil
}

func (f *fakeIndex) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.chunks)
}

// fakeLLM returns a canned response and records the last prompt.
type fakeLLM struct {
	response   string
	err        error
	lastPrompt string
	calls      int
}

func (f *fakeLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	f.calls++
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeLLM) ModelName() string          { return "fake-model" }
func (f *fakeLLM) Ping(context.Context) error { return nil }
func (f *fakeLLM) Close() error               { return nil }

// fakeNormaliser extracts raw bytes as text, or fails per document name.
type fakeNormaliser struct {
	failFor map[string]bool
}

func (f *fakeNormaliser) SupportedMIMETypes() []string { return []string{"text/plain"} }
func (f *fakeNormaliser) Priority() int                { return 5 }

func (f *fakeNormaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if f.failFor[raw.Name] {
		return nil, fmt.Errorf("%w: unreadable %q", domain.ErrExtraction, raw.Name)
	}
	return &driven.NormaliseResult{
		Document: domain.Document{
			Name:    raw.Name,
			Content: string(raw.Content),
		},
	}, nil
}

// fakeRegistry always returns the single normaliser.
type fakeRegistry struct {
	normaliser driven.Normaliser
	err        error
}

func (f *fakeRegistry) For(*domain.RawDocument) (driven.Normaliser, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.normaliser, nil
}

// fakePipeline cuts content into fixed 20-char chunks.
type fakePipeline struct {
	err error
}

func (f *fakePipeline) Process(_ context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if f.err != nil {
		return nil, f.err
	}
	var chunks []domain.Chunk
	content := doc.Content
	for i := 0; i < len(content); i += 20 {
		end := i + 20
		if end > len(content) {
			end = len(content)
		}
		chunks = append(chunks, domain.Chunk{
			ID:         fmt.Sprintf("%s-%d", doc.ID, len(chunks)),
			DocumentID: doc.ID,
			Position:   len(chunks),
			Content:    content[i:end],
			Start:      i,
			End:        end,
		})
	}
	return chunks, nil
}

// fakeSessionStore is an in-memory driven.SessionStore.
type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
	saveErr  error
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*domain.Session)}
}

func (s *fakeSessionStore) SaveSession(_ context.Context, sess *domain.Session) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *sess
	copied.History = append([]domain.Exchange(nil), sess.History...)
	s.sessions[sess.ID] = &copied
	return nil
}

func (s *fakeSessionStore) GetSession(_ context.Context, id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: session %q", domain.ErrNotFound, id)
	}
	copied := *sess
	copied.History = append([]domain.Exchange(nil), sess.History...)
	return &copied, nil
}

func (s *fakeSessionStore) SaveExchange(_ context.Context, sessionID string, ex domain.Exchange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return fmt.Errorf("%w: session %q", domain.ErrNotFound, sessionID)
	}
	sess.History = append(sess.History, ex)
	return nil
}

func (s *fakeSessionStore) DeleteSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// fakeUserStore is an in-memory driven.UserStore.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*domain.User)}
}

func (s *fakeUserStore) SaveUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.Email]; ok {
		return fmt.Errorf("%w: user %q", domain.ErrAlreadyExists, user.Email)
	}
	copied := *user
	s.users[user.Email] = &copied
	return nil
}

func (s *fakeUserStore) GetUser(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[email]
	if !ok {
		return nil, fmt.Errorf("%w: user %q", domain.ErrNotFound, email)
	}
	copied := *user
	return &copied, nil
}

// fakeMailer records sent mail.
type fakeMailer struct {
	mu          sync.Mutex
	otps        map[string]string
	attachments []sentAttachment
	sendErr     error
}

type sentAttachment struct {
	to       string
	subject  string
	body     string
	filename string
	content  []byte
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{otps: make(map[string]string)}
}

func (m *fakeMailer) SendOTP(_ context.Context, to, code string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.otps[to] = code
	return nil
}

func (m *fakeMailer) SendAttachment(_ context.Context, to, subject, body, filename string, attachment []byte) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attachments = append(m.attachments, sentAttachment{
		to: to, subject: subject, body: body, filename: filename, content: attachment,
	})
	return nil
}

// fakeTranslator prefixes text with the target language.
type fakeTranslator struct {
	err error
}

func (f *fakeTranslator) Translate(_ context.Context, text string, target domain.Language) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("[%s] %s", target, text), nil
}

// fakeSpeech returns the text bytes as pretend audio.
type fakeSpeech struct {
	err error
}

func (f *fakeSpeech) Synthesize(_ context.Context, text string, _ domain.Language) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte("mp3:" + text), nil
}

// fakeModerator blocks queries containing any configured term.
type fakeModerator struct {
	terms []string
}

func (f *fakeModerator) Blocked(text string) bool {
	lower := strings.ToLower(text)
	for _, t := range f.terms {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}
