// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account row. PasswordHash is empty for accounts created without
// a password; EmailVerified is nil until the verification link is used.
type User struct {
	ID            string
	Name          string
	Email         string
	PasswordHash  string
	Role          string
	Image         string
	WalletBalance float64
	EmailVerified *time.Time
	// AIRequests counts reserved AI usages (see usage reservation).
	AIRequests int
	CreatedAt  time.Time
}

// IsVerified reports whether the email address has been confirmed.
func (u *User) IsVerified() bool {
	return u.EmailVerified != nil
}

// UserSummary is a user row enriched with the number of stored prompts,
// as shown in the admin user list.
type UserSummary struct {
	User
	PromptsUsed int
}
