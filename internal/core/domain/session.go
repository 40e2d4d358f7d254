package domain

import "time"

// SessionState tracks one ingestion+query cycle.
// Transitions: Idle -> Ingesting -> Indexed -> Querying -> Answered -> Querying (loop).
// A failure while Ingesting returns to Idle; a failure while Querying
// returns to Indexed (the index persists even if one query fails).
type SessionState string

// Session lifecycle states.
const (
	// SessionIdle means no documents have been indexed yet.
	SessionIdle SessionState = "idle"

	// SessionIngesting means an upload batch is being processed.
	SessionIngesting SessionState = "ingesting"

	// SessionIndexed means the session has a populated index and can answer queries.
	SessionIndexed SessionState = "indexed"

	// SessionQuerying means a question is being answered.
	SessionQuerying SessionState = "querying"

	// SessionAnswered means the last question completed successfully.
	SessionAnswered SessionState = "answered"
)

// IsValid returns true if the state is recognised.
func (s SessionState) IsValid() bool {
	switch s {
	case SessionIdle, SessionIngesting, SessionIndexed, SessionQuerying, SessionAnswered:
		return true
	default:
		return false
	}
}

// CanQuery returns true if the session may accept a question in this state.
func (s SessionState) CanQuery() bool {
	return s == SessionIndexed || s == SessionAnswered
}

// String returns the string representation.
func (s SessionState) String() string {
	return string(s)
}

// Exchange is one {query, answer} pair in a session's history.
type Exchange struct {
	// Position is the ordinal position within the session.
	Position int

	// Query is the user's question as asked.
	Query string

	// Answer is the generated (untranslated) answer.
	Answer string

	// CreatedAt is when the exchange completed.
	CreatedAt time.Time
}

// Session is the explicit per-session context passed to every component
// call. It replaces shared mutable process state: each session owns its
// index namespace and its own history, and never observes another
// session's chunks.
type Session struct {
	// ID is the unique session identifier and the index namespace key.
	ID string

	// Email identifies the authenticated user, if any.
	Email string

	// Language is the answer delivery language.
	Language Language

	// State is the current lifecycle state.
	State SessionState

	// History is the ordered log of completed exchanges.
	History []Exchange

	// CreatedAt is when the session began.
	CreatedAt time.Time
}

// NewSession creates an idle session with the given id.
func NewSession(id string) *Session {
	return &Session{
		ID:        id,
		Language:  LanguageEnglish,
		State:     SessionIdle,
		CreatedAt: time.Now().UTC(),
	}
}

// Record appends a completed exchange to the session history.
func (s *Session) Record(query, answer string) Exchange {
	ex := Exchange{
		Position:  len(s.History),
		Query:     query,
		Answer:    answer,
		CreatedAt: time.Now().UTC(),
	}
	s.History = append(s.History, ex)
	return ex
}
