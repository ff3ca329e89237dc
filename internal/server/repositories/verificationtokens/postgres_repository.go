package verificationtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, token *models.VerificationToken) error {

	query :=
		`INSERT INTO verification_tokens (token, identifier, purpose, expires_at)
		 VALUES ($1, $2, $3, $4)
		 `

	_, err := r.db.ExecContext(ctx, query, token.Token, token.Identifier, string(token.Purpose), token.ExpiresAt)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Find(ctx context.Context, token string) (*models.VerificationToken, error) {
	query :=
		`SELECT token, identifier, purpose, expires_at, created_at FROM verification_tokens
		 WHERE token = $1
		 `
	return r.scanOne(r.db.QueryRowContext(ctx, query, token))
}

func (r *PostgresRepository) Consume(ctx context.Context, token string, purpose models.TokenPurpose) (*models.VerificationToken, error) {
	query :=
		`DELETE FROM verification_tokens
		 WHERE token = $1 AND purpose = $2
		 RETURNING token, identifier, purpose, expires_at, created_at
		 `
	return r.scanOne(r.db.QueryRowContext(ctx, query, token, string(purpose)))
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.VerificationToken, error) {
	var (
		t       models.VerificationToken
		purpose string
	)

	err := row.Scan(&t.Token, &t.Identifier, &purpose, &t.ExpiresAt, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	t.Purpose = models.TokenPurpose(purpose)
	return &t, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, token string) error {
	query :=
		`DELETE FROM verification_tokens
		 WHERE token = $1
		 `

	_, err := r.db.ExecContext(ctx, query, token)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query :=
		`DELETE FROM verification_tokens
		 WHERE expires_at < $1
		 `

	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return n, nil
}
