package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gophauth/internal/server/services"
)

type errorResponse struct {
	Kind   services.Kind     `json:"kind"`
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

var statusByKind = map[services.Kind]int{
	services.KindValidation:   http.StatusBadRequest,
	services.KindConflict:     http.StatusConflict,
	services.KindUnauthorized: http.StatusUnauthorized,
	services.KindForbidden:    http.StatusForbidden,
	services.KindNotFound:     http.StatusNotFound,
	services.KindInvalid:      http.StatusBadRequest,
	services.KindRateLimited:  http.StatusTooManyRequests,
	services.KindDependency:   http.StatusServiceUnavailable,
	services.KindInternal:     http.StatusInternalServerError,
}

// StatusFor maps a service error kind to an HTTP status.
func StatusFor(kind services.Kind) int {
	if code, ok := statusByKind[kind]; ok {
		return code
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError never exposes causes: internal failures carry a fixed message.
func writeError(w http.ResponseWriter, err error) {
	var se *services.Error
	if !errors.As(err, &se) {
		se = &services.Error{Kind: services.KindInternal, Message: services.MsgInternal}
	}
	writeJSON(w, StatusFor(se.Kind), errorResponse{Kind: se.Kind, Error: se.Message, Fields: se.Fields})
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		return &services.Error{Kind: services.KindValidation, Message: "Invalid request body", Err: err}
	}
	return nil
}
