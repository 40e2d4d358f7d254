// Package smtp provides a Mailer adapter over SMTP with STARTTLS.
package smtp

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"path/filepath"
	"time"

	"github.com/corvid-labs/askdoc/internal/core/ports/driven"
)

// Ensure Mailer implements the interface.
var _ driven.Mailer = (*Mailer)(nil)

// Default configuration values.
const (
	DefaultPort    = 587
	DefaultTimeout = 30 * time.Second
)

// Config holds configuration for the SMTP mailer.
type Config struct {
	// Host is the SMTP server hostname (required).
	Host string

	// Port is the SMTP server port (default: 587).
	Port int

	// Username authenticates against the server. Empty disables auth.
	Username string

	// Password authenticates against the server.
	Password string

	// From is the sender address (required).
	From string

	// Timeout bounds each delivery (default: 30s).
	Timeout time.Duration
}

// Mailer delivers mail over SMTP.
type Mailer struct {
	cfg Config
	// send is swapped in tests.
	send func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

// NewMailer creates an SMTP mailer.
func NewMailer(cfg Config) (*Mailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp: host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("smtp: from address is required")
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Mailer{cfg: cfg, send: smtp.SendMail}, nil
}

// SendOTP delivers a one-time login code.
func (m *Mailer) SendOTP(ctx context.Context, to, code string) error {
	body := fmt.Sprintf("Your one-time login code is: %s\r\n\r\nIt expires in 10 minutes.\r\n", code)
	msg := m.plainMessage(to, "Your login code", body)
	return m.deliver(ctx, to, msg)
}

// SendAttachment delivers a message with a single file attachment.
func (m *Mailer) SendAttachment(ctx context.Context, to, subject, body, filename string, attachment []byte) error {
	msg, err := m.attachmentMessage(to, subject, body, filename, attachment)
	if err != nil {
		return err
	}
	return m.deliver(ctx, to, msg)
}

// deliver sends one message, bounded by the configured timeout. The
// net/smtp API has no context hook, so the send runs in a goroutine.
func (m *Mailer) deliver(ctx context.Context, to string, msg []byte) error {
	addr := net.JoinHostPort(m.cfg.Host, fmt.Sprint(m.cfg.Port))

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	ctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- m.send(addr, auth, m.cfg.From, []string{to}, msg)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("smtp: deliver to %s: %w", to, ctx.Err())
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("smtp: deliver to %s: %w", to, err)
		}
		return nil
	}
}

// plainMessage builds a text/plain message.
func (m *Mailer) plainMessage(to, subject, body string) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(body)
	return buf.Bytes()
}

// attachmentMessage builds a multipart/mixed message with one attachment.
func (m *Mailer) attachmentMessage(to, subject, body, filename string, attachment []byte) ([]byte, error) {
	if filename == "" {
		return nil, fmt.Errorf("smtp: attachment filename is required")
	}

	const boundary = "askdoc-attachment-boundary"

	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n", boundary)
	buf.WriteString("\r\n")

	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	buf.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(body)
	buf.WriteString("\r\n")

	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	fmt.Fprintf(&buf, "Content-Type: %s\r\n", contentType)
	buf.WriteString("Content-Transfer-Encoding: base64\r\n")
	fmt.Fprintf(&buf, "Content-Disposition: attachment; filename=%q\r\n", filename)
	buf.WriteString("\r\n")

	encoded := base64.StdEncoding.EncodeToString(attachment)
	// RFC 2045 caps encoded lines at 76 characters.
	for len(encoded) > 76 {
		buf.WriteString(encoded[:76])
		buf.WriteString("\r\n")
		encoded = encoded[76:]
	}
	buf.WriteString(encoded)
	buf.WriteString("\r\n")

	fmt.Fprintf(&buf, "--%s--\r\n", boundary)
	return buf.Bytes(), nil
}
