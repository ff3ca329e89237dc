package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/verificationtokens"
)

// RepositoryManager vends repositories bound to a DBTX and runs units of
// work that must commit or fail together.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error

	// DB is the non-transactional handle repositories use outside InTx.
	DB() dbx.DBTX

	Users(db dbx.DBTX) users.Repository
	VerificationTokens(db dbx.DBTX) verificationtokens.Repository

	// InTx runs fn inside a transaction. Repositories obtained from tx
	// see and commit the same unit of work.
	InTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error
}
