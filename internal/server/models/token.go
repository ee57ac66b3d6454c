package models

import "time"

// Token is a single-use, time-limited token row. Identifier is the email
// address the token was issued for.
type Token struct {
	ID         string
	Identifier string
	Token      string
	Expires    time.Time
}

// Expired reports whether the token is past its expiry at now.
func (t *Token) Expired(now time.Time) bool {
	return t.Expires.Before(now)
}
