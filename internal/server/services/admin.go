package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ccsafarmai/farmai/internal/common"
	"github.com/ccsafarmai/farmai/internal/dbx"
	"github.com/ccsafarmai/farmai/internal/server/auth"
	"github.com/ccsafarmai/farmai/internal/server/models"
	"github.com/ccsafarmai/farmai/internal/server/repositories/repomanager"
	usersrepo "github.com/ccsafarmai/farmai/internal/server/repositories/users"
)

type CreateUserInput struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=USER ADMIN"`
}

type UpdateUserInput struct {
	ID    string `json:"id" validate:"required"`
	Name  string `json:"name" validate:"required,min=2"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,oneof=USER ADMIN"`
}

// AdminService manages user accounts on behalf of an administrator.
// Every call re-reads the actor from the database and refuses with
// common.ErrorUnauthorized unless it is an ADMIN.
type AdminService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewAdminService(db *sql.DB, m repomanager.RepositoryManager) *AdminService {
	return &AdminService{db: db, repomanager: m}
}

func (s *AdminService) authorize(ctx context.Context, actorID string) error {
	if actorID == "" {
		return common.ErrorUnauthorized
	}
	actor, err := s.repomanager.Users(s.db).GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorUnauthorized
		}
		return err
	}
	if actor.Role != common.RoleAdmin {
		return common.ErrorUnauthorized
	}
	return nil
}

func (s *AdminService) ListUsers(ctx context.Context, actorID string) ([]models.UserSummary, error) {
	if err := s.authorize(ctx, actorID); err != nil {
		return nil, err
	}
	return s.repomanager.Users(s.db).List(ctx)
}

func (s *AdminService) CreateUser(ctx context.Context, actorID string, in CreateUserInput) (*models.User, error) {
	if err := s.authorize(ctx, actorID); err != nil {
		return nil, err
	}
	return s.createUser(ctx, s.repomanager.Users(s.db), in)
}

func (s *AdminService) createUser(ctx context.Context, repo usersrepo.Repository, in CreateUserInput) (*models.User, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	_, err := repo.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, common.ErrorAlreadyExists
	case !errors.Is(err, common.ErrorNotFound):
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	return repo.Create(ctx, &models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
	})
}

// UpdateUser changes name, email and role. Changing the email to one
// already in use yields common.ErrorAlreadyExists.
func (s *AdminService) UpdateUser(ctx context.Context, actorID string, in UpdateUserInput) error {
	if err := s.authorize(ctx, actorID); err != nil {
		return err
	}
	in.Email = normalizeEmail(in.Email)
	if err := validateInput(in); err != nil {
		return err
	}

	repo := s.repomanager.Users(s.db)

	existing, err := repo.GetByID(ctx, in.ID)
	if err != nil {
		return err
	}

	if in.Email != existing.Email {
		_, err := repo.GetByEmail(ctx, in.Email)
		switch {
		case err == nil:
			return common.ErrorAlreadyExists
		case !errors.Is(err, common.ErrorNotFound):
			return err
		}
	}

	// the unique index still catches a concurrent taker of the same email
	return repo.Update(ctx, in.ID, in.Name, in.Email, in.Role)
}

// DeleteUser removes a user and, by cascade, their prompts.
func (s *AdminService) DeleteUser(ctx context.Context, actorID, id string) error {
	if err := s.authorize(ctx, actorID); err != nil {
		return err
	}

	repo := s.repomanager.Users(s.db)

	if _, err := repo.GetByID(ctx, id); err != nil {
		return err
	}
	if id == actorID {
		return common.ErrorSelfDelete
	}
	return repo.Delete(ctx, id)
}

// BootstrapAdmin creates a verified ADMIN account without an acting
// administrator. It backs the farmctl create-admin command.
func (s *AdminService) BootstrapAdmin(ctx context.Context, name, email, password string) (*models.User, error) {
	var user *models.User

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		u, err := s.createUser(ctx, repo, CreateUserInput{
			Name:     name,
			Email:    email,
			Password: password,
			Role:     common.RoleAdmin,
		})
		if err != nil {
			return err
		}

		now := timeNow()
		if err := repo.MarkEmailVerified(ctx, u.Email, now); err != nil {
			return err
		}
		u.EmailVerified = &now
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
