// Package notify delivers transactional email: verification and password
// reset links, over SendGrid, SMTP or the log (development).
package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"github.com/ccsafarmai/farmai/internal/logging"
	"github.com/ccsafarmai/farmai/internal/server/config"
)

// Sender delivers one HTML email.
type Sender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// Providers accepted by NewSender.
const (
	ProviderLog      = "log"
	ProviderSendGrid = "sendgrid"
	ProviderSMTP     = "smtp"
)

// NewSender picks the Sender configured by cfg.EmailProvider.
func NewSender(cfg *config.Config, log logging.Logger) (Sender, error) {
	switch strings.ToLower(cfg.EmailProvider) {
	case ProviderLog, "":
		return NewLogSender(log), nil
	case ProviderSendGrid:
		return NewSendGridSender(cfg.SendGridAPIKey, cfg.EmailFrom)
	case ProviderSMTP:
		return NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.EmailFrom)
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.EmailProvider)
	}
}

const (
	verificationSubject  = "Confirm your email address"
	passwordResetSubject = "Reset your password"
)

var linkEmail = template.Must(template.New("link").Parse(`<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
  <h1 style="color: #16A34A; text-align: center;">CCSA FarmAI</h1>
  <h2>{{.Title}}</h2>
  <p>{{.Intro}}</p>
  <div style="text-align: center; margin: 24px 0;">
    <a href="{{.Link}}" style="background-color: #16A34A; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px;">
      {{.Button}}
    </a>
  </div>
  <p>{{.Ignore}}</p>
  <p>This link will expire in 1 hour.</p>
</div>
`))

type linkEmailData struct {
	Title  string
	Intro  string
	Link   string
	Button string
	Ignore string
}

// Mailer renders the account emails and hands them to a Sender.
type Mailer struct {
	sender Sender
	appURL string
}

func NewMailer(sender Sender, appURL string) *Mailer {
	return &Mailer{sender: sender, appURL: strings.TrimRight(appURL, "/")}
}

func (m *Mailer) link(path, token string) string {
	return m.appURL + path + "?token=" + url.QueryEscape(token)
}

// SendVerificationEmail sends the link to <app_url>/verify?token=<token>.
func (m *Mailer) SendVerificationEmail(ctx context.Context, email, token string) error {
	return m.send(ctx, email, verificationSubject, linkEmailData{
		Title:  verificationSubject,
		Intro:  "Thank you for signing up for CCSA FarmAI. Please confirm your email address by clicking the link below.",
		Link:   m.link("/verify", token),
		Button: "Confirm Email",
		Ignore: "If you didn't sign up for CCSA FarmAI, you can safely ignore this email.",
	})
}

// SendPasswordResetEmail sends the link to <app_url>/reset-password?token=<token>.
func (m *Mailer) SendPasswordResetEmail(ctx context.Context, email, token string) error {
	return m.send(ctx, email, passwordResetSubject, linkEmailData{
		Title:  passwordResetSubject,
		Intro:  "We received a request to reset your password. Click the button below to create a new password.",
		Link:   m.link("/reset-password", token),
		Button: "Reset Password",
		Ignore: "If you didn't request a password reset, you can safely ignore this email.",
	})
}

func (m *Mailer) send(ctx context.Context, to, subject string, data linkEmailData) error {
	var buf bytes.Buffer
	if err := linkEmail.Execute(&buf, data); err != nil {
		return fmt.Errorf("render email: %w", err)
	}
	if err := m.sender.Send(ctx, to, subject, buf.String()); err != nil {
		return fmt.Errorf("send %q to %s: %w", subject, to, err)
	}
	return nil
}
