// Package common defines shared constants and sentinel errors used across
// FarmAI server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Auth errors.
	ErrorInvalidCredentials    = errors.New("invalid credentials")
	ErrorInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrorAlreadyVerified       = errors.New("email already verified")
	ErrInvalidToken            = errors.New("invalid token")
	ErrTokenExpired            = errors.New("token expired")

	// Account / admin errors.
	ErrorSelfDelete        = errors.New("cannot delete own account")
	ErrorAmountNotPositive = errors.New("amount must be greater than zero")

	// Usage gate.
	ErrorUsageLimit = errors.New("free tier limit reached")
)
