package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccsafarmai/farmai/internal/logging"
	"github.com/ccsafarmai/farmai/internal/server/config"
)

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (l nopLogger) With(...any) logging.Logger          { return l }

type sentEmail struct {
	to, subject, html string
}

type fakeSender struct {
	sent []sentEmail
	err  error
}

func (f *fakeSender) Send(_ context.Context, to, subject, html string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentEmail{to, subject, html})
	return nil
}

func TestMailer_SendVerificationEmail(t *testing.T) {
	s := &fakeSender{}
	m := NewMailer(s, "https://farmai.example/")

	require.NoError(t, m.SendVerificationEmail(context.Background(), "ada@farm.ng", "tok-123"))

	require.Len(t, s.sent, 1)
	got := s.sent[0]
	assert.Equal(t, "ada@farm.ng", got.to)
	assert.Equal(t, "Confirm your email address", got.subject)
	assert.Contains(t, got.html, `href="https://farmai.example/verify?token=tok-123"`)
	assert.Contains(t, got.html, "This link will expire in 1 hour.")
}

func TestMailer_SendPasswordResetEmail(t *testing.T) {
	s := &fakeSender{}
	m := NewMailer(s, "http://localhost:3000")

	require.NoError(t, m.SendPasswordResetEmail(context.Background(), "ada@farm.ng", "tok-9"))

	require.Len(t, s.sent, 1)
	assert.Equal(t, "Reset your password", s.sent[0].subject)
	assert.Contains(t, s.sent[0].html, `href="http://localhost:3000/reset-password?token=tok-9"`)
	assert.True(t, strings.Contains(s.sent[0].html, "Reset Password"))
}

func TestMailer_SenderErrorIsWrapped(t *testing.T) {
	boom := errors.New("smtp down")
	m := NewMailer(&fakeSender{err: boom}, "http://localhost:3000")

	err := m.SendVerificationEmail(context.Background(), "ada@farm.ng", "t")
	require.ErrorIs(t, err, boom)
}

func TestMailer_TokenIsQueryEscaped(t *testing.T) {
	s := &fakeSender{}
	m := NewMailer(s, "http://localhost:3000")

	require.NoError(t, m.SendVerificationEmail(context.Background(), "a@b.c", "a b&c"))
	assert.Contains(t, s.sent[0].html, "b%26c")
	assert.NotContains(t, s.sent[0].html, "a b&c")
}

func TestNewSender(t *testing.T) {
	t.Run("log", func(t *testing.T) {
		s, err := NewSender(&config.Config{EmailProvider: "log"}, nopLogger{})
		require.NoError(t, err)
		assert.IsType(t, &LogSender{}, s)
		require.NoError(t, s.Send(context.Background(), "a@b.c", "s", "<p>x</p>"))
	})

	t.Run("sendgrid", func(t *testing.T) {
		s, err := NewSender(&config.Config{EmailProvider: "sendgrid", SendGridAPIKey: "SG.key", EmailFrom: "CCSA FarmAI <noreply@farmai.example>"}, nopLogger{})
		require.NoError(t, err)
		assert.IsType(t, &SendGridSender{}, s)
	})

	t.Run("smtp", func(t *testing.T) {
		s, err := NewSender(&config.Config{EmailProvider: "smtp", SMTPHost: "smtp.example", SMTPPort: 587, EmailFrom: "noreply@farmai.example"}, nopLogger{})
		require.NoError(t, err)
		assert.IsType(t, &SMTPSender{}, s)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := NewSender(&config.Config{EmailProvider: "pigeon"}, nopLogger{})
		require.Error(t, err)
	})
}
