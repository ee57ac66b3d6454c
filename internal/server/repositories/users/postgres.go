package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ccsafarmai/farmai/internal/common"
	"github.com/ccsafarmai/farmai/internal/dbx"
	"github.com/ccsafarmai/farmai/internal/server/models"
)

const (
	uniqueViolation = "23505"
	// invalidText is raised when an id is not a valid uuid.
	invalidText = "22P02"
)

const userColumns = `id, name, email, password, role, image, wallet_balance, email_verified, ai_requests, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner, extra ...any) (*models.User, error) {
	var (
		u        models.User
		password sql.NullString
		image    sql.NullString
		verified sql.NullTime
	)
	dest := append([]any{&u.ID, &u.Name, &u.Email, &password, &u.Role, &image,
		&u.WalletBalance, &verified, &u.AIRequests, &u.CreatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	u.PasswordHash = password.String
	u.Image = image.String
	if verified.Valid {
		t := verified.Time
		u.EmailVerified = &t
	}
	return &u, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func wrap(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return common.ErrorAlreadyExists
		case invalidText:
			return common.ErrorNotFound
		}
	}
	return fmt.Errorf("db error: %w", err)
}

// execOne runs an update expected to touch exactly one row.
func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return wrap(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (name, email, password, role, email_verified)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`

	var verified sql.NullTime
	if user.EmailVerified != nil {
		verified = sql.NullTime{Time: *user.EmailVerified, Valid: true}
	}

	err := r.db.QueryRowContext(ctx, query,
		user.Name, user.Email, nullString(user.PasswordHash), user.Role, verified).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return nil, wrap(err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, wrap(err)
	}
	return u, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, wrap(err)
	}
	return u, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.UserSummary, error) {
	query :=
		`SELECT u.id, u.name, u.email, u.password, u.role, u.image, u.wallet_balance,
		        u.email_verified, u.ai_requests, u.created_at, COUNT(p.id)
		 FROM users u
		 LEFT JOIN prompts p ON p.user_id = u.id
		 GROUP BY u.id
		 ORDER BY u.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.UserSummary, 0)
	for rows.Next() {
		var count int
		u, err := scanUser(rows, &count)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, models.UserSummary{User: *u, PromptsUsed: count})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id, name, email, role string) error {
	return r.execOne(ctx,
		`UPDATE users SET name = $2, email = $3, role = $4 WHERE id = $1`,
		id, name, email, role)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	return r.execOne(ctx, `DELETE FROM users WHERE id = $1`, id)
}

func (r *PostgresRepository) MarkEmailVerified(ctx context.Context, email string, at time.Time) error {
	return r.execOne(ctx, `UPDATE users SET email_verified = $2 WHERE email = $1`, email, at)
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.execOne(ctx, `UPDATE users SET password = $2 WHERE id = $1`, id, passwordHash)
}

func (r *PostgresRepository) UpdateName(ctx context.Context, id, name string) error {
	return r.execOne(ctx, `UPDATE users SET name = $2 WHERE id = $1`, id, name)
}

func (r *PostgresRepository) UpdateImage(ctx context.Context, id, image string) error {
	return r.execOne(ctx, `UPDATE users SET image = $2 WHERE id = $1`, id, nullString(image))
}

func (r *PostgresRepository) AddToWallet(ctx context.Context, id string, amount float64) (float64, error) {
	query :=
		`UPDATE users SET wallet_balance = wallet_balance + $2
		 WHERE id = $1
		 RETURNING wallet_balance`

	var balance float64
	if err := r.db.QueryRowContext(ctx, query, id, amount).Scan(&balance); err != nil {
		return 0, wrap(err)
	}
	return balance, nil
}

func (r *PostgresRepository) ReserveAIRequest(ctx context.Context, id string, freeLimit int) (int, error) {
	query :=
		`UPDATE users SET ai_requests = ai_requests + 1
		 WHERE id = $1 AND (role = 'ADMIN' OR ai_requests < $2 OR wallet_balance > 0)
		 RETURNING ai_requests`

	var n int
	err := r.db.QueryRowContext(ctx, query, id, freeLimit).Scan(&n)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrorUsageLimit
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) ReleaseAIRequest(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET ai_requests = GREATEST(ai_requests - 1, 0) WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
