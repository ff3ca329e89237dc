package client

import (
	"errors"

	"google.golang.org/grpc/codes"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotLoggedIn  = errors.New("not logged in")
)

// APIError is a rejection reported by the server, e.g. "User exists".
type APIError struct {
	Code    codes.Code
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}
