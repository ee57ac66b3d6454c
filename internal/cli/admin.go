// Package cli implements farmctl, the operator tool for a FarmAI deployment.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ccsafarmai/farmai/internal/common"
	"github.com/ccsafarmai/farmai/internal/server/models"
)

// AdminCreator is satisfied by *services.AdminService.
type AdminCreator interface {
	BootstrapAdmin(ctx context.Context, name, email, password string) (*models.User, error)
}

var errPasswordMismatch = errors.New("passwords do not match")

// CreateAdmin prompts for the admin's name, email and password and creates
// a verified ADMIN account.
func CreateAdmin(ctx context.Context, svc AdminCreator, reader *bufio.Reader, w io.Writer) error {
	name, err := GetSimpleText(reader, "Name", w)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(reader, "Email", w)
	if err != nil {
		return err
	}

	pw, err := GetPassword("Password", w)
	if err != nil {
		return err
	}
	confirm, err := GetPassword("Confirm password", w)
	if err != nil {
		return err
	}
	if string(pw) != string(confirm) {
		return errPasswordMismatch
	}

	user, err := svc.BootstrapAdmin(ctx, name, email, string(pw))
	switch {
	case errors.Is(err, common.ErrorAlreadyExists):
		return fmt.Errorf("a user with email %s already exists", email)
	case errors.Is(err, common.ErrorValidation):
		return fmt.Errorf("invalid input: %w", err)
	case err != nil:
		return err
	}

	fmt.Fprintf(w, "Admin %s <%s> created (id %s)\n", user.Name, user.Email, user.ID)
	return nil
}
