package notify

import (
	"context"

	"github.com/ccsafarmai/farmai/internal/logging"
)

// LogSender writes emails to the log instead of delivering them.
type LogSender struct {
	log logging.Logger
}

func NewLogSender(log logging.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(ctx context.Context, to, subject, html string) error {
	s.log.Info(ctx, "email not delivered (log provider)", "to", to, "subject", subject, "html", html)
	return nil
}
