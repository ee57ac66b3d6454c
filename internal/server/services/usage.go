package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ccsafarmai/farmai/internal/common"
	"github.com/ccsafarmai/farmai/internal/server/config"
	"github.com/ccsafarmai/farmai/internal/server/repositories/repomanager"
)

// Usage is a user's standing against the free tier.
type Usage struct {
	PromptCount   int     `json:"promptCount"`
	FreeTierLimit int     `json:"freeTierLimit"`
	WalletBalance float64 `json:"walletBalance"`
	IsAdmin       bool    `json:"isAdmin"`
	CanUse        bool    `json:"canUse"`
}

// UsageService decides whether a user may call an AI action.
type UsageService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	freeLimit   int
}

func NewUsageService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UsageService {
	return &UsageService{db: db, repomanager: m, freeLimit: cfg.FreeTierLimit}
}

// CanUseAIFeature reports whether userID is an admin, is still inside the
// free tier or has a positive wallet balance. It is advisory; Reserve is
// the gate AI actions go through.
func (s *UsageService) CanUseAIFeature(ctx context.Context, userID string) (bool, error) {
	u, err := s.Usage(ctx, userID)
	if err != nil {
		return false, err
	}
	return u.CanUse, nil
}

// Usage returns the prompt count and the inputs to the usage decision.
func (s *UsageService) Usage(ctx context.Context, userID string) (*Usage, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	count, err := s.PromptCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	isAdmin := user.Role == common.RoleAdmin
	return &Usage{
		PromptCount:   count,
		FreeTierLimit: s.freeLimit,
		WalletBalance: user.WalletBalance,
		IsAdmin:       isAdmin,
		CanUse:        isAdmin || count < s.freeLimit || user.WalletBalance > 0,
	}, nil
}

// PromptCount returns the number of stored prompts for userID.
func (s *UsageService) PromptCount(ctx context.Context, userID string) (int, error) {
	count, err := s.repomanager.Prompts(s.db).CountByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("error counting prompts: %w", err)
	}
	return count, nil
}

// Reserve takes one AI usage for userID. It returns common.ErrorUsageLimit
// when the user may not proceed and common.ErrorNotFound when the user does
// not exist.
func (s *UsageService) Reserve(ctx context.Context, userID string) error {
	repo := s.repomanager.Users(s.db)

	_, err := repo.ReserveAIRequest(ctx, userID, s.freeLimit)
	if err == nil {
		return nil
	}
	if !errors.Is(err, common.ErrorUsageLimit) {
		return fmt.Errorf("error reserving usage: %w", err)
	}

	// the conditional update cannot tell a missing user from a denied one
	if _, gerr := repo.GetByID(ctx, userID); gerr != nil {
		return gerr
	}
	return err
}

// Release gives back a reservation taken by Reserve.
func (s *UsageService) Release(ctx context.Context, userID string) error {
	if err := s.repomanager.Users(s.db).ReleaseAIRequest(ctx, userID); err != nil {
		return fmt.Errorf("error releasing usage: %w", err)
	}
	return nil
}
