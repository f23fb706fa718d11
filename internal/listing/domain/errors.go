package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotConfirmed  = errors.New("email address is not confirmed")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrNetwork            = errors.New("network error")
	ErrFetch              = errors.New("failed to fetch records")
	ErrWrite              = errors.New("failed to write record")
	ErrNotFound           = errors.New("record not found")
	ErrQuotaExceeded      = errors.New("image quota exceeded")
	ErrProfileIncomplete  = errors.New("profile must be completed before creating an ad")
	ErrSubmissionInFlight = errors.New("a submission is already in progress")
	ErrUnauthenticated    = errors.New("authentication required")
)

// ValidationError is a local, pre-flight failure tied to one input field.
// No remote call is made once one of these is produced.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError builds a *ValidationError for field.
func NewValidationError(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
