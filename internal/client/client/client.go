package client

import (
	"context"
	"time"
)

// User is the account view returned by the server.
type User struct {
	ID            string
	Name          string
	Email         string
	Role          string
	EmailVerified bool
}

// Session is a signed-in state.
type Session struct {
	AccessToken string
	ExpiresAt   time.Time
	User        User
}

type Client interface {
	Close() error
	Register(ctx context.Context, name, email string, password []byte) (*User, bool, error)
	Verify(ctx context.Context, token, email string) error
	ResendVerification(ctx context.Context, email string) error
	Login(ctx context.Context, email string, password []byte) (*Session, error)
	Me(ctx context.Context) (*User, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token string, password []byte) error
	Ping(ctx context.Context) error

	// SetAccessToken replaces the credential sent with authenticated calls.
	SetAccessToken(token string)
}
