// Package tokens declares the repository contract for single-use,
// time-limited tokens (email verification and password reset).
package tokens

import (
	"context"

	"github.com/ccsafarmai/farmai/internal/server/models"
)

// Repository defines operations for issuing and consuming tokens.
type Repository interface {
	// DeleteByIdentifier removes every token issued for identifier.
	DeleteByIdentifier(ctx context.Context, identifier string) error
	// Create inserts a token row and fills in its ID.
	Create(ctx context.Context, token *models.Token) (*models.Token, error)
	// Consume deletes the row holding token and returns it, expired or not.
	// Returns common.ErrorNotFound when no such row exists.
	Consume(ctx context.Context, token string) (*models.Token, error)
}
