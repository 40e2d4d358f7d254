package smtp

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capture records the last send call instead of dialling a server.
type capture struct {
	addr string
	from string
	to   []string
	msg  string
	err  error
}

func (c *capture) send(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
	c.addr = addr
	c.from = from
	c.to = to
	c.msg = string(msg)
	return c.err
}

func newTestMailer(t *testing.T, c *capture) *Mailer {
	t.Helper()
	m, err := NewMailer(Config{Host: "mail.example.com", From: "askdoc@example.com"})
	require.NoError(t, err)
	m.send = c.send
	return m
}

func TestNewMailer_Validation(t *testing.T) {
	_, err := NewMailer(Config{From: "a@b.c"})
	assert.Error(t, err)

	_, err = NewMailer(Config{Host: "mail.example.com"})
	assert.Error(t, err)
}

func TestSendOTP(t *testing.T) {
	c := &capture{}
	m := newTestMailer(t, c)

	require.NoError(t, m.SendOTP(context.Background(), "ada@example.com", "123456"))

	assert.Equal(t, "mail.example.com:587", c.addr)
	assert.Equal(t, "askdoc@example.com", c.from)
	assert.Equal(t, []string{"ada@example.com"}, c.to)
	assert.Contains(t, c.msg, "123456")
	assert.Contains(t, c.msg, "Subject: Your login code")
}

func TestSendAttachment(t *testing.T) {
	c := &capture{}
	m := newTestMailer(t, c)

	err := m.SendAttachment(context.Background(), "ada@example.com",
		"Session transcript", "Attached.", "transcript.txt", []byte("Q: hi\nA: hello"))
	require.NoError(t, err)

	assert.Contains(t, c.msg, "multipart/mixed")
	assert.Contains(t, c.msg, `filename="transcript.txt"`)
	assert.Contains(t, c.msg, "Content-Transfer-Encoding: base64")
	assert.Contains(t, c.msg, "Attached.")
}

func TestSendAttachment_RequiresFilename(t *testing.T) {
	m := newTestMailer(t, &capture{})

	err := m.SendAttachment(context.Background(), "ada@example.com", "s", "b", "", nil)
	assert.Error(t, err)
}

func TestDeliver_PropagatesError(t *testing.T) {
	c := &capture{err: errors.New("connection refused")}
	m := newTestMailer(t, c)

	err := m.SendOTP(context.Background(), "ada@example.com", "123456")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "connection refused"))
}

func TestAttachmentMessage_WrapsBase64Lines(t *testing.T) {
	m := newTestMailer(t, &capture{})

	msg, err := m.attachmentMessage("ada@example.com", "s", "b", "big.bin", make([]byte, 600))
	require.NoError(t, err)

	for _, line := range strings.Split(string(msg), "\r\n") {
		assert.LessOrEqual(t, len(line), 78)
	}
}
