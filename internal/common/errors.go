package common

import (
	"errors"
	"sort"
	"strings"
)

var (
	// repository specific errors
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("user with this email already exists")
	ErrTransientStore = errors.New("storage temporarily unavailable")

	// service specific errors
	ErrValidation      = errors.New("validation failed")
	ErrAuthFailure     = errors.New("incorrect login or password")
	ErrUnauthenticated = errors.New("authentication required")
)

// ValidationError carries field level messages. It matches ErrValidation with errors.Is.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
