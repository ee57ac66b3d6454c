package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ccsafarmai/farmai/internal/common"
	"github.com/ccsafarmai/farmai/internal/dbx"
	"github.com/ccsafarmai/farmai/internal/server/config"
	"github.com/ccsafarmai/farmai/internal/server/models"
	"github.com/ccsafarmai/farmai/internal/server/repositories/repomanager"
	"github.com/ccsafarmai/farmai/internal/server/repositories/tokens"
)

// newTokenValue is a seam for tests. uuid v4 carries 122 random bits.
var newTokenValue = uuid.NewString

// TokenService issues and consumes single-use verification and password
// reset tokens. The two kinds live in separate tables, so one can never be
// replayed as the other.
type TokenService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	ttl         time.Duration
}

func NewTokenService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *TokenService {
	return &TokenService{db: db, repomanager: m, ttl: cfg.TokenTTL}
}

// IssueVerificationToken replaces any verification token for email with a
// fresh one expiring after the configured TTL.
func (s *TokenService) IssueVerificationToken(ctx context.Context, email string) (*models.Token, error) {
	return s.issue(ctx, s.repomanager.VerificationTokens, email)
}

// IssuePasswordResetToken is IssueVerificationToken for the reset table.
func (s *TokenService) IssuePasswordResetToken(ctx context.Context, email string) (*models.Token, error) {
	return s.issue(ctx, s.repomanager.PasswordResetTokens, email)
}

func (s *TokenService) issue(ctx context.Context, repoFor func(dbx.DBTX) tokens.Repository, email string) (*models.Token, error) {
	t := &models.Token{
		Identifier: email,
		Token:      newTokenValue(),
		Expires:    timeNow().Add(s.ttl),
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := repoFor(tx)
		if err := repo.DeleteByIdentifier(ctx, email); err != nil {
			return fmt.Errorf("error deleting previous tokens: %w", err)
		}
		if _, err := repo.Create(ctx, t); err != nil {
			return fmt.Errorf("error creating token: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ConsumeVerificationToken deletes token through tx and returns its row.
// Unknown and expired tokens both yield common.ErrorInvalidOrExpiredToken;
// an expired row is deleted all the same, so callers should commit tx even
// on that error.
func (s *TokenService) ConsumeVerificationToken(ctx context.Context, tx dbx.DBTX, token string) (*models.Token, error) {
	return consume(ctx, s.repomanager.VerificationTokens(tx), token)
}

// ConsumePasswordResetToken is ConsumeVerificationToken for the reset table.
func (s *TokenService) ConsumePasswordResetToken(ctx context.Context, tx dbx.DBTX, token string) (*models.Token, error) {
	return consume(ctx, s.repomanager.PasswordResetTokens(tx), token)
}

func consume(ctx context.Context, repo tokens.Repository, token string) (*models.Token, error) {
	if token == "" {
		return nil, common.ErrorInvalidOrExpiredToken
	}
	t, err := repo.Consume(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorInvalidOrExpiredToken
		}
		return nil, err
	}
	if t.Expired(timeNow()) {
		return nil, common.ErrorInvalidOrExpiredToken
	}
	return t, nil
}
