package tokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ccsafarmai/farmai/internal/common"
	"github.com/ccsafarmai/farmai/internal/dbx"
	"github.com/ccsafarmai/farmai/internal/server/models"
)

// Table names a token table and the column holding the email address.
type Table struct {
	Name             string
	IdentifierColumn string
}

var (
	VerificationTable  = Table{Name: "verification_tokens", IdentifierColumn: "identifier"}
	PasswordResetTable = Table{Name: "password_reset_tokens", IdentifierColumn: "email"}
)

// PostgresRepository implements Repository over dbx.DBTX for one token table.
type PostgresRepository struct {
	db    dbx.DBTX
	table Table
}

// NewPostgresRepository constructs a repository bound to the given DBTX and table.
func NewPostgresRepository(db dbx.DBTX, table Table) *PostgresRepository {
	return &PostgresRepository{db: db, table: table}
}

func (r *PostgresRepository) DeleteByIdentifier(ctx context.Context, identifier string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, r.table.Name, r.table.IdentifierColumn)
	if _, err := r.db.ExecContext(ctx, query, identifier); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Create(ctx context.Context, token *models.Token) (*models.Token, error) {
	query := fmt.Sprintf(
		`INSERT INTO %s (%s, token, expires)
		 VALUES ($1, $2, $3)
		 RETURNING id`, r.table.Name, r.table.IdentifierColumn)

	if err := r.db.QueryRowContext(ctx, query, token.Identifier, token.Token, token.Expires).Scan(&token.ID); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return token, nil
}

// Consume is a single DELETE ... RETURNING, so two concurrent consumers of
// the same token cannot both receive the row.
func (r *PostgresRepository) Consume(ctx context.Context, token string) (*models.Token, error) {
	query := fmt.Sprintf(
		`DELETE FROM %s
		 WHERE token = $1
		 RETURNING id, %s, token, expires`, r.table.Name, r.table.IdentifierColumn)

	t := &models.Token{}
	if err := r.db.QueryRowContext(ctx, query, token).Scan(&t.ID, &t.Identifier, &t.Token, &t.Expires); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}
