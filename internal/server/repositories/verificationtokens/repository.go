// Package verificationtokens declares the server-side repository contract
// for single-use tokens (email verification and password reset).
package verificationtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// Repository defines operations for issuing, looking up and redeeming
// one-time tokens.
type Repository interface {
	// Create stores a new token. A duplicate token value yields
	// common.ErrorAlreadyExists.
	Create(ctx context.Context, token *models.VerificationToken) error

	// Find looks up a token by its opaque value regardless of purpose.
	// Implementations return common.ErrorNotFound when the token is absent.
	Find(ctx context.Context, token string) (*models.VerificationToken, error)

	// Consume atomically deletes the token if it exists with the given
	// purpose and returns what was deleted. Of several concurrent callers
	// at most one gets the row; the rest get common.ErrorNotFound.
	Consume(ctx context.Context, token string, purpose models.TokenPurpose) (*models.VerificationToken, error)

	// Delete removes a token by value. Deleting a non-existent token is
	// not an error.
	Delete(ctx context.Context, token string) error

	// DeleteExpired removes every token whose expiry is before now and
	// reports how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
