package prompts

import (
	"context"
	"fmt"

	"github.com/ccsafarmai/farmai/internal/dbx"
	"github.com/ccsafarmai/farmai/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, prompt *models.Prompt) (*models.Prompt, error) {
	query :=
		`INSERT INTO prompts (user_id, type, prompt, response)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		prompt.UserID, prompt.Type, prompt.Prompt, prompt.Response).Scan(&prompt.ID, &prompt.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return prompt, nil
}

func (r *PostgresRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM prompts WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
