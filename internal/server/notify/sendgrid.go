package notify

import (
	"context"
	"errors"
	"fmt"
	netmail "net/mail"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type sendGridClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// newSendGridClient is a seam for tests.
var newSendGridClient = func(apiKey string) sendGridClient {
	return sendgrid.NewSendClient(apiKey)
}

// SendGridSender delivers email through the SendGrid v3 API.
type SendGridSender struct {
	client sendGridClient
	from   *mail.Email
}

// NewSendGridSender builds a sender; from is an RFC 5322 address such as
// "CCSA FarmAI <noreply@example.com>".
func NewSendGridSender(apiKey, from string) (*SendGridSender, error) {
	if apiKey == "" {
		return nil, errors.New("sendgrid api key is empty")
	}
	addr, err := netmail.ParseAddress(from)
	if err != nil {
		return nil, fmt.Errorf("parse from address: %w", err)
	}
	return &SendGridSender{
		client: newSendGridClient(apiKey),
		from:   mail.NewEmail(addr.Name, addr.Address),
	}, nil
}

func (s *SendGridSender) Send(ctx context.Context, to, subject, html string) error {
	msg := mail.NewSingleEmail(s.from, subject, mail.NewEmail("", to), "", html)

	resp, err := s.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
