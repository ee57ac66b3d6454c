// Package repomanager vends repositories bound to a dbx.DBTX so services can
// use the same repository inside or outside a transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/ccsafarmai/farmai/internal/dbx"
	"github.com/ccsafarmai/farmai/internal/server/repositories/prompts"
	"github.com/ccsafarmai/farmai/internal/server/repositories/tokens"
	"github.com/ccsafarmai/farmai/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	VerificationTokens(db dbx.DBTX) tokens.Repository
	PasswordResetTokens(db dbx.DBTX) tokens.Repository
	Prompts(db dbx.DBTX) prompts.Repository
}
