package service

import (
	"errors"
	"fmt"
)

// Error kinds. Every error the service returns on purpose wraps one of these,
// and the API picks the HTTP status with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	// ErrAssistant marks an unexpected failure while dispatching an assistant task
	ErrAssistant = errors.New("assistant failure")
)

// Error is a client-facing message tagged with its kind
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
