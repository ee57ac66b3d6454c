package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ccsafarmai/farmai/internal/common"
	"github.com/ccsafarmai/farmai/internal/server/auth"
	"github.com/ccsafarmai/farmai/internal/server/config"
	"github.com/ccsafarmai/farmai/internal/server/models"
	"github.com/ccsafarmai/farmai/internal/server/repositories/repomanager"
)

// SessionService signs session tokens and refreshes their claims from the
// database on every read.
type SessionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	secret      []byte
	ttl         time.Duration
}

func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *SessionService {
	return &SessionService{db: db, repomanager: m, secret: []byte(cfg.SessionSecret), ttl: cfg.SessionTTL}
}

// Issue signs a session token for user.
func (s *SessionService) Issue(user *models.User) (string, error) {
	claims := claimsFor(user)
	token, err := auth.GenerateToken(claims, s.secret, s.ttl)
	if err != nil {
		return "", fmt.Errorf("error generating session token: %w", err)
	}
	return token, nil
}

// Refresh verifies token and overwrites its claims with the user's current
// values. When the user no longer exists the claims are returned as they
// are and no new token is signed.
func (s *SessionService) Refresh(ctx context.Context, token string) (*auth.Claims, string, error) {
	claims, err := auth.ParseToken(token, s.secret)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, claims.UserID())
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return claims, "", nil
		}
		return nil, "", err
	}

	fresh := claimsFor(user)
	newToken, err := auth.GenerateToken(fresh, s.secret, s.ttl)
	if err != nil {
		return nil, "", fmt.Errorf("error generating session token: %w", err)
	}

	// re-read so the returned claims carry the new iat/exp
	refreshed, err := auth.ParseToken(newToken, s.secret)
	if err != nil {
		return nil, "", err
	}
	return refreshed, newToken, nil
}

func claimsFor(user *models.User) auth.Claims {
	c := auth.Claims{
		Name:          user.Name,
		Email:         user.Email,
		Role:          user.Role,
		WalletBalance: user.WalletBalance,
		EmailVerified: user.EmailVerified,
	}
	c.Subject = user.ID
	return c
}
