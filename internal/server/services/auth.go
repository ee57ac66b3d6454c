package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ccsafarmai/farmai/internal/common"
	"github.com/ccsafarmai/farmai/internal/dbx"
	"github.com/ccsafarmai/farmai/internal/logging"
	"github.com/ccsafarmai/farmai/internal/server/auth"
	"github.com/ccsafarmai/farmai/internal/server/models"
	"github.com/ccsafarmai/farmai/internal/server/repositories/repomanager"
)

type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=1"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

type EmailInput struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordInput struct {
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,min=8,eqfield=Password"`
	Token           string `json:"token"`
}

// LoginResult is the outcome of a credential check. When VerificationSent
// is set the password was not examined and User is nil.
type LoginResult struct {
	User             *models.User
	VerificationSent bool
	Redirect         string
}

// AuthService implements registration, login, email verification and
// password reset.
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *TokenService
	mailer      Mailer
	log         logging.Logger
}

func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, tokens *TokenService, mailer Mailer, log logging.Logger) *AuthService {
	return &AuthService{db: db, repomanager: m, tokens: tokens, mailer: mailer, log: log}
}

// Register creates an unverified USER account and mails a verification link.
// No session is created.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) error {
	in.Email = normalizeEmail(in.Email)
	if err := validateInput(in); err != nil {
		return err
	}

	repo := s.repomanager.Users(s.db)

	_, err := repo.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return common.ErrorAlreadyExists
	case !errors.Is(err, common.ErrorNotFound):
		return fmt.Errorf("error looking up user: %w", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	if _, err := repo.Create(ctx, &models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         common.RoleUser,
	}); err != nil {
		return err
	}

	return s.sendVerification(ctx, in.Email)
}

// Login vouches for the credentials; issuing the session is the caller's job.
// An unverified account gets a fresh verification link instead of a password
// check.
func (s *AuthService) Login(ctx context.Context, in LoginInput, callbackURL string) (*LoginResult, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user.PasswordHash == "" {
		return nil, common.ErrorNotFound
	}

	if !user.IsVerified() {
		if err := s.sendVerification(ctx, user.Email); err != nil {
			return nil, err
		}
		return &LoginResult{VerificationSent: true}, nil
	}

	if !auth.CheckPassword(user.PasswordHash, in.Password) {
		return nil, common.ErrorInvalidCredentials
	}

	return &LoginResult{User: user, Redirect: safeRedirect(callbackURL)}, nil
}

// safeRedirect accepts only same-site absolute paths.
func safeRedirect(callbackURL string) string {
	if strings.HasPrefix(callbackURL, "/") && !strings.HasPrefix(callbackURL, "//") && !strings.Contains(callbackURL, `\`) {
		return callbackURL
	}
	return common.DefaultRedirect
}

// VerifyEmail consumes a verification token and marks its email verified.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	var outcome error

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		t, err := s.tokens.ConsumeVerificationToken(ctx, tx, token)
		if err != nil {
			if errors.Is(err, common.ErrorInvalidOrExpiredToken) {
				// commit: an expired row must stay deleted
				outcome = err
				return nil
			}
			return err
		}

		err = s.repomanager.Users(tx).MarkEmailVerified(ctx, t.Identifier, timeNow())
		if errors.Is(err, common.ErrorNotFound) {
			outcome = err
			return nil
		}
		return err
	})
	if err != nil {
		return err
	}
	return outcome
}

// ForgotPassword mails a reset link when the address belongs to a user.
// The result is the same whether or not it does; delivery problems are
// only logged.
func (s *AuthService) ForgotPassword(ctx context.Context, in EmailInput) error {
	in.Email = normalizeEmail(in.Email)
	if err := validateInput(in); err != nil {
		return err
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, in.Email)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.log.Error(ctx, "forgot password: user lookup failed", "error", err)
		}
		return nil
	}

	t, err := s.tokens.IssuePasswordResetToken(ctx, user.Email)
	if err != nil {
		s.log.Error(ctx, "forgot password: issue token failed", "user_id", user.ID, "error", err)
		return nil
	}
	if err := s.mailer.SendPasswordResetEmail(ctx, user.Email, t.Token); err != nil {
		s.log.Error(ctx, "forgot password: send email failed", "user_id", user.ID, "error", err)
	}
	return nil
}

// ResetPassword consumes a reset token and stores the new password hash in
// the same transaction.
func (s *AuthService) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	if err := validateInput(in); err != nil {
		return err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	var outcome error

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		t, err := s.tokens.ConsumePasswordResetToken(ctx, tx, in.Token)
		if err != nil {
			if errors.Is(err, common.ErrorInvalidOrExpiredToken) {
				outcome = err
				return nil
			}
			return err
		}

		users := s.repomanager.Users(tx)
		user, err := users.GetByEmail(ctx, t.Identifier)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				outcome = err
				return nil
			}
			return err
		}
		return users.UpdatePassword(ctx, user.ID, hash)
	})
	if err != nil {
		return err
	}
	return outcome
}

// ResendVerificationEmail reissues the verification link for an unverified account.
func (s *AuthService) ResendVerificationEmail(ctx context.Context, in EmailInput) error {
	in.Email = normalizeEmail(in.Email)
	if err := validateInput(in); err != nil {
		return err
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, in.Email)
	if err != nil {
		return err
	}
	if user.IsVerified() {
		return common.ErrorAlreadyVerified
	}
	return s.sendVerification(ctx, user.Email)
}

func (s *AuthService) sendVerification(ctx context.Context, email string) error {
	t, err := s.tokens.IssueVerificationToken(ctx, email)
	if err != nil {
		return err
	}
	return s.mailer.SendVerificationEmail(ctx, email, t.Token)
}
