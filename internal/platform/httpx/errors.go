// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"
)

// Sentinel errors for domain layer.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrDuplicate    = errors.New("duplicate entry")
	ErrValidation   = errors.New("validation failed")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// Error pairs a sentinel kind with the message shown to clients.
type Error struct {
	Kind error
	Msg  string
}

// NewError builds an Error of the given kind.
func NewError(kind error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

// RespondError maps domain errors to JSON message responses. Unclassified
// errors become a generic 500 so store details never reach the client.
func RespondError(w http.ResponseWriter, err error) {
	msg := err.Error()
	var public *Error
	if errors.As(err, &public) {
		msg = public.Msg
	}
	switch {
	case errors.Is(err, ErrNotFound):
		Message(w, http.StatusNotFound, msg)
	case errors.Is(err, ErrDuplicate):
		Message(w, http.StatusBadRequest, msg)
	case errors.Is(err, ErrValidation):
		Message(w, http.StatusBadRequest, msg)
	case errors.Is(err, ErrForbidden):
		Message(w, http.StatusForbidden, msg)
	case errors.Is(err, ErrUnauthorized):
		Message(w, http.StatusUnauthorized, msg)
	default:
		Message(w, http.StatusInternalServerError, "Server error")
	}
}
