package services

import (
	"errors"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

// Kind is the stable, machine-readable category of a service error.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindConflict     Kind = "conflict"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindInvalid      Kind = "invalid"
	KindRateLimited  Kind = "rate_limited"
	KindDependency   Kind = "dependency"
	KindInternal     Kind = "internal"
)

// Messages shown to callers. They are part of the API contract.
const (
	MsgMissingFields       = "Missing fields"
	MsgUserExists          = "User exists"
	MsgInvalidLink         = "Invalid verification link"
	MsgTokenNotFound       = "Verification token not found or already used"
	MsgTokenInvalid        = "Token invalid or expired"
	MsgCredentialsRequired = "Email and password are required."
	MsgInvalidCredentials  = "Invalid email or password."
	MsgVerifyFirst         = "Please verify your email before logging in."
	MsgResetTokenNotFound  = "Reset token not found or already used"
	MsgTooManyRequests     = "Too many requests, try again later."
	MsgNotificationFailed  = "Could not send email, try again later."
	MsgUserNotFound        = "User not found"
	MsgInternal            = "Internal server error."
)

// Error is what every AccountService operation returns on failure.
// Message is safe to show; Err is for logs and errors.Is.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string // per-field validation messages
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf classifies err. Errors that are not *Error are internal.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

func newError(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

func validationError(msg string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: msg, Fields: fields, Err: common.ErrorValidation}
}

func internalError(cause error) *Error {
	return &Error{Kind: KindInternal, Message: MsgInternal, Err: errors.Join(common.ErrorInternal, cause)}
}
