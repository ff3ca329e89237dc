package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/dbx"
)

// SQLiteRepository keeps the session in the single-row "session" table.
// Timestamps are stored as RFC 3339 text in UTC.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Load(ctx context.Context) (*Session, error) {
	var (
		s                 Session
		expires, savedRaw string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT access_token, email, expires_at, saved_at FROM session WHERE id = 1`,
	).Scan(&s.AccessToken, &s.Email, &expires, &savedRaw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if s.ExpiresAt, err = time.Parse(time.RFC3339Nano, expires); err != nil {
		return nil, fmt.Errorf("malformed session expiry %q: %w", expires, err)
	}
	if s.SavedAt, err = time.Parse(time.RFC3339Nano, savedRaw); err != nil {
		return nil, fmt.Errorf("malformed session timestamp %q: %w", savedRaw, err)
	}
	return &s, nil
}

// Save replaces whatever session was stored before.
func (r *SQLiteRepository) Save(ctx context.Context, s Session) error {
	if s.SavedAt.IsZero() {
		s.SavedAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO session (id, access_token, email, expires_at, saved_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			access_token = excluded.access_token,
			email        = excluded.email,
			expires_at   = excluded.expires_at,
			saved_at     = excluded.saved_at
	`, s.AccessToken, s.Email, s.ExpiresAt.UTC().Format(time.RFC3339Nano), s.SavedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM session`); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
