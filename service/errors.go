package service

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers map them onto HTTP statuses.
var (
	ErrValidation         = errors.New("validation failed")
	ErrUnauthenticated    = errors.New("Token is not valid")
	ErrForbidden          = errors.New("Access denied. Admin privileges required.")
	ErrNotFound           = errors.New("Not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("Invalid credentials")
)

// Error carries a client-facing message for one of the error kinds.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

// Invalid returns a validation error with the given message.
func Invalid(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

// NotFound returns a not-found error with the given message.
func NotFound(msg string) error {
	return &Error{Kind: ErrNotFound, Msg: msg}
}

// Conflict returns a duplicate-resource error with the given message.
func Conflict(msg string) error {
	return &Error{Kind: ErrConflict, Msg: msg}
}

// Message returns the client-facing text of a domain error and false for
// anything unexpected.
func Message(err error) (string, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg, true
	}
	for _, kind := range []error{ErrValidation, ErrUnauthenticated, ErrForbidden, ErrNotFound, ErrConflict, ErrInvalidCredentials} {
		if errors.Is(err, kind) {
			return kind.Error(), true
		}
	}
	return "", false
}
