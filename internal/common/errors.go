// Package common defines shared constants and sentinel errors used across
// client and server layers of gophauth. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorValidation   = errors.New("validation error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")
	ErrorRateLimited  = errors.New("rate limited")

	// Verification/reset token errors (expired or issued for another address).
	ErrorInvalidToken = errors.New("invalid token")

	// Notifier errors.
	ErrorNotificationFailed = errors.New("notification failed")

	// Session credential errors.
	ErrTokenExpired = errors.New("token expired")
)
