package notify

import (
	"context"
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"
)

type smtpDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// newSMTPDialer is a seam for tests.
var newSMTPDialer = func(host string, port int, user, password string) smtpDialer {
	return gomail.NewDialer(host, port, user, password)
}

// SMTPSender delivers email over SMTP with gomail.
type SMTPSender struct {
	dialer smtpDialer
	from   string
}

func NewSMTPSender(host string, port int, user, password, from string) (*SMTPSender, error) {
	if host == "" || from == "" {
		return nil, errors.New("smtp host and from address are required")
	}
	return &SMTPSender{dialer: newSMTPDialer(host, port, user, password), from: from}, nil
}

// Send ignores ctx: gomail has no cancellation support.
func (s *SMTPSender) Send(_ context.Context, to, subject, html string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}
