package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionState_IsValid(t *testing.T) {
	valid := []SessionState{
		SessionIdle, SessionIngesting, SessionIndexed, SessionQuerying, SessionAnswered,
	}
	for _, s := range valid {
		assert.True(t, s.IsValid(), "expected %q to be valid", s)
	}

	assert.False(t, SessionState("").IsValid())
	assert.False(t, SessionState("bogus").IsValid())
}

func TestSessionState_CanQuery(t *testing.T) {
	assert.False(t, SessionIdle.CanQuery())
	assert.False(t, SessionIngesting.CanQuery())
	assert.True(t, SessionIndexed.CanQuery())
	assert.False(t, SessionQuerying.CanQuery())
	assert.True(t, SessionAnswered.CanQuery())
}

func TestNewSession(t *testing.T) {
	sess := NewSession("sess-1")
	require.NotNil(t, sess)

	assert.Equal(t, "sess-1", sess.ID)
	assert.Equal(t, SessionIdle, sess.State)
	assert.Equal(t, LanguageEnglish, sess.Language)
	assert.Empty(t, sess.History)
	assert.False(t, sess.CreatedAt.IsZero())
}

func TestSession_Record(t *testing.T) {
	sess := NewSession("sess-1")

	first := sess.Record("what is the policy?", "the policy is X")
	second := sess.Record("and the exception?", "there is none")

	require.Len(t, sess.History, 2)
	assert.Equal(t, 0, first.Position)
	assert.Equal(t, 1, second.Position)
	assert.Equal(t, "what is the policy?", sess.History[0].Query)
	assert.Equal(t, "there is none", sess.History[1].Answer)
}
