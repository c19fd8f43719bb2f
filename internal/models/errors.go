package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced record does not exist
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a unique field is already taken
	ErrDuplicate = errors.New("already exists")

	// ErrInvalidReference is returned when a foreign key points nowhere
	ErrInvalidReference = errors.New("invalid reference")

	// ErrRequestInProgress is returned when another request holds the same idempotency key
	ErrRequestInProgress = errors.New("a request with this idempotency key is still in progress")
)

// ValidationError describes input rejected before it reaches the store
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

// NewValidationError creates a validation error for a field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
