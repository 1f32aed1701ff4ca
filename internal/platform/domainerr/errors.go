// Package domainerr defines the error taxonomy shared by the domain, application and HTTP layers.
package domainerr

import (
	"errors"
	"fmt"
)

// Sentinel categories. A DomainError matches exactly one of them under errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state transition")
	ErrInternal     = errors.New("internal error")
)

// DomainError carries a category, a client-safe message and an optional cause.
// Error() only ever returns the message; the cause stays reachable through Unwrap.
type DomainError struct {
	Err     error
	Message string
	Cause   error
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is the category of this error.
func (e *DomainError) Is(target error) bool {
	return target == e.Err
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// NewNotFoundError builds a not-found error for the given entity and key.
func NewNotFoundError(entity, key string) *DomainError {
	return &DomainError{Err: ErrNotFound, Message: fmt.Sprintf("%s not found: %s", entity, key)}
}

// NewValidationError builds a client-facing validation error.
func NewValidationError(message string) *DomainError {
	return &DomainError{Err: ErrValidation, Message: message}
}

// NewConflictError builds a concurrency conflict error.
func NewConflictError(message string) *DomainError {
	return &DomainError{Err: ErrConflict, Message: message}
}

// NewInvalidStateError builds an error for a refused state transition.
func NewInvalidStateError(from, to string) *DomainError {
	return &DomainError{
		Err:     ErrInvalidState,
		Message: fmt.Sprintf("cannot transition from %s to %s", from, to),
	}
}

// NewInternalError hides cause behind a generic message.
func NewInternalError(message string, cause error) *DomainError {
	return &DomainError{Err: ErrInternal, Message: message, Cause: cause}
}

// As extracts the DomainError from err's chain.
func As(err error) (*DomainError, bool) {
	var domErr *DomainError
	if errors.As(err, &domErr) {
		return domErr, true
	}
	return nil, false
}
