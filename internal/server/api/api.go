// Package api exposes the FarmAI services over HTTP with gin.
package api

import (
	"context"
	"time"

	"github.com/ccsafarmai/farmai/internal/logging"
	"github.com/ccsafarmai/farmai/internal/server/auth"
	"github.com/ccsafarmai/farmai/internal/server/metrics"
	"github.com/ccsafarmai/farmai/internal/server/models"
	"github.com/ccsafarmai/farmai/internal/server/services"
)

type AuthService interface {
	Register(ctx context.Context, in services.RegisterInput) error
	Login(ctx context.Context, in services.LoginInput, callbackURL string) (*services.LoginResult, error)
	VerifyEmail(ctx context.Context, token string) error
	ForgotPassword(ctx context.Context, in services.EmailInput) error
	ResetPassword(ctx context.Context, in services.ResetPasswordInput) error
	ResendVerificationEmail(ctx context.Context, in services.EmailInput) error
}

type SessionService interface {
	Issue(user *models.User) (string, error)
	Refresh(ctx context.Context, token string) (*auth.Claims, string, error)
}

type UsageService interface {
	PromptCount(ctx context.Context, userID string) (int, error)
	Usage(ctx context.Context, userID string) (*services.Usage, error)
}

type AdvisorService interface {
	Assistant(ctx context.Context, userID string, in services.AssistantInput) (string, error)
	Farm(ctx context.Context, userID string, in services.FarmInput) (string, error)
	Soil(ctx context.Context, userID string, in services.SoilInput) (string, error)
	Crop(ctx context.Context, userID string, in services.CropInput) (string, error)
}

type AccountService interface {
	UpdateProfile(ctx context.Context, userID string, in services.UpdateProfileInput) error
	UpdatePassword(ctx context.Context, userID string, in services.UpdatePasswordInput) error
	UpdateProfileImage(ctx context.Context, userID string, in services.UpdateImageInput) error
	PresignProfileImageUpload(ctx context.Context, userID string, in services.UploadURLInput) (*services.UploadURL, error)
	AddFundsToWallet(ctx context.Context, userID string, amount float64) (float64, error)
}

type AdminService interface {
	ListUsers(ctx context.Context, actorID string) ([]models.UserSummary, error)
	CreateUser(ctx context.Context, actorID string, in services.CreateUserInput) (*models.User, error)
	UpdateUser(ctx context.Context, actorID string, in services.UpdateUserInput) error
	DeleteUser(ctx context.Context, actorID, id string) error
}

// RateLimiter is satisfied by *ratelimit.RateLimiter.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
}

// Dependencies bundles what the router needs. Limiter and Metrics may be nil.
type Dependencies struct {
	Auth     AuthService
	Sessions SessionService
	Usage    UsageService
	Advisor  AdvisorService
	Account  AccountService
	Admin    AdminService

	Limiter RateLimiter
	Metrics *metrics.Metrics
	Logger  logging.Logger

	SessionTTL   time.Duration
	SecureCookie bool
}

// Handler holds the route handlers.
type Handler struct {
	Dependencies
	log logging.Logger
}

func NewHandler(d Dependencies) *Handler {
	return &Handler{Dependencies: d, log: d.Logger.With("module", "http_api")}
}
