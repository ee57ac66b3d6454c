// Package users persists accounts, wallet balances and AI usage counters.
package users

import (
	"context"
	"time"

	"github.com/ccsafarmai/farmai/internal/server/models"
)

type Repository interface {
	// Create inserts a user and fills in ID and CreatedAt.
	// Returns common.ErrorAlreadyExists when the email is taken.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// List returns every user with its stored prompt count, newest first.
	List(ctx context.Context) ([]models.UserSummary, error)
	Update(ctx context.Context, id, name, email, role string) error
	Delete(ctx context.Context, id string) error

	MarkEmailVerified(ctx context.Context, email string, at time.Time) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateName(ctx context.Context, id, name string) error
	UpdateImage(ctx context.Context, id, image string) error

	// AddToWallet atomically adds amount and returns the new balance.
	AddToWallet(ctx context.Context, id string, amount float64) (float64, error)

	// ReserveAIRequest increments the usage counter only if the user is an
	// admin, is under freeLimit, or has a positive balance. Returns
	// common.ErrorUsageLimit when the condition does not hold.
	ReserveAIRequest(ctx context.Context, id string, freeLimit int) (int, error)
	// ReleaseAIRequest gives back a reservation, never going below zero.
	ReleaseAIRequest(ctx context.Context, id string) error
}
