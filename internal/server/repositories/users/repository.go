// Package users stores registered accounts.
package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// Repository persists users. Implementations return common.ErrorNotFound
// for missing rows and common.ErrorAlreadyExists when the email is taken.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// MarkVerified sets email_verified_at on the account with this email.
	// An already verified account keeps its original timestamp.
	MarkVerified(ctx context.Context, email string, at time.Time) error
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
}
