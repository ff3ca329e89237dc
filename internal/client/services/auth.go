// Package services contains application services for the gauth CLI.
// AuthService drives the account lifecycle against the server and keeps the
// session credential in the local session database.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/client/repositories/session"
)

// AuthService defines account operations for the CLI. All methods honor
// context cancellation.
type AuthService interface {
	Register(ctx context.Context, name, email string, password []byte) (*client.User, bool, error)
	Verify(ctx context.Context, token, email string) error
	ResendVerification(ctx context.Context, email string) error
	Login(ctx context.Context, email string, password []byte) (*client.Session, error)
	// RestoreSession reloads a saved, unexpired credential and returns the
	// email it belongs to. ok is false when there is nothing to restore.
	RestoreSession(ctx context.Context) (email string, ok bool, err error)
	WhoAmI(ctx context.Context) (*client.User, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token string, password []byte) error
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client   client.Client
	db       *sql.DB
	sessions session.Repository
	now      func() time.Time
}

// NewAuthService constructs an AuthService bound to the given API client and
// the session database.
func NewAuthService(c client.Client, db *sql.DB) AuthService {
	return &authService{client: c, db: db, sessions: session.NewSQLiteRepository(db), now: time.Now}
}

func (a *authService) Register(ctx context.Context, name, email string, password []byte) (*client.User, bool, error) {
	return a.client.Register(ctx, name, email, password)
}

func (a *authService) Verify(ctx context.Context, token, email string) error {
	return a.client.Verify(ctx, token, email)
}

func (a *authService) ResendVerification(ctx context.Context, email string) error {
	return a.client.ResendVerification(ctx, email)
}

// Login authenticates and persists the credential so the next run can
// restore it.
func (a *authService) Login(ctx context.Context, email string, password []byte) (*client.Session, error) {
	sess, err := a.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	err = a.sessions.Save(ctx, session.Session{
		AccessToken: sess.AccessToken,
		Email:       sess.User.Email,
		ExpiresAt:   sess.ExpiresAt,
		SavedAt:     a.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("session saving error: %w", err)
	}
	return sess, nil
}

func (a *authService) RestoreSession(ctx context.Context) (string, bool, error) {
	s, err := a.sessions.Load(ctx)
	if err != nil || s == nil {
		return "", false, err
	}
	if s.Expired(a.now()) {
		return "", false, a.sessions.Clear(ctx)
	}

	a.client.SetAccessToken(s.AccessToken)
	return s.Email, true, nil
}

// WhoAmI asks the server for the signed-in account. A rejected credential
// clears the saved session.
func (a *authService) WhoAmI(ctx context.Context) (*client.User, error) {
	s, err := a.sessions.Load(ctx)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, client.ErrNotLoggedIn
	}

	u, err := a.client.Me(ctx)
	if errors.Is(err, client.ErrUnauthorized) {
		_ = a.Logout(ctx)
	}
	return u, err
}

func (a *authService) RequestPasswordReset(ctx context.Context, email string) error {
	return a.client.RequestPasswordReset(ctx, email)
}

func (a *authService) ResetPassword(ctx context.Context, token string, password []byte) error {
	return a.client.ResetPassword(ctx, token, password)
}

// Logout forgets the credential locally. Session credentials are stateless,
// so the server is not contacted.
func (a *authService) Logout(ctx context.Context) error {
	a.client.SetAccessToken("")
	return a.sessions.Clear(ctx)
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// Close releases the client connection and the session database.
func (a *authService) Close(ctx context.Context) error {
	return errors.Join(a.client.Close(), a.db.Close())
}
