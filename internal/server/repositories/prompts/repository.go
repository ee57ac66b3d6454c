// Package prompts stores the insert-only log of AI exchanges.
package prompts

import (
	"context"

	"github.com/ccsafarmai/farmai/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, prompt *models.Prompt) (*models.Prompt, error)
	CountByUser(ctx context.Context, userID string) (int, error)
}
