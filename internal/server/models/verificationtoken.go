package models

import "time"

// TokenPurpose separates one-time tokens that share the same table.
// A token is only ever redeemable for the purpose it was issued with.
type TokenPurpose string

const (
	PurposeEmailVerification TokenPurpose = "email_verification"
	PurposePasswordReset     TokenPurpose = "password_reset"
)

// VerificationToken is a single-use secret bound to an identifier (the
// account email) with an absolute expiry.
type VerificationToken struct {
	Token      string
	Identifier string
	Purpose    TokenPurpose
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

// Expired reports whether the token is unusable at now. A token is still
// valid at exactly ExpiresAt.
func (t *VerificationToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
