package dbx_test

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/verificationtokens"
)

// Redeeming a verification link marks the user verified and drops the
// token in one transaction.
func ExampleWithTx() {
	var (
		db    *sql.DB
		ctx   = context.Background()
		email = "a@x.com"
		token = "0f3a"
		now   = time.Now()
	)

	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := users.NewPostgresRepository(tx).MarkVerified(ctx, email, now); err != nil {
			return err
		}
		return verificationtokens.NewPostgresRepository(tx).Delete(ctx, token)
	})
	_ = err
}
