// Package session persists the CLI's signed-in session between runs. At
// most one session is stored at a time.
package session

import (
	"context"
	"time"
)

type Session struct {
	AccessToken string
	Email       string
	ExpiresAt   time.Time
	SavedAt     time.Time
}

// Expired reports whether the credential is no longer usable at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Repository stores the current session. Load returns (nil, nil) when
// nobody is signed in.
type Repository interface {
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, s Session) error
	Clear(ctx context.Context) error
}
