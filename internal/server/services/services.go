// Package services contains server-side business logic: the auth flow,
// session refresh, usage gate, advisory AI actions, account and admin
// operations. Services return sentinel errors from internal/common; mapping
// them to user-facing messages is left to the transport layer.
package services

import (
	"context"
	"time"
)

// Mailer sends the account emails.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, email, token string) error
	SendPasswordResetEmail(ctx context.Context, email, token string) error
}

// Generator produces text for a system prompt and a user prompt.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// timeNow is a seam for tests.
var timeNow = time.Now
