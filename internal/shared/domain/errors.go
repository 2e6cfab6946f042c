package domain

import (
	"errors"
	"fmt"
)

// Validation kinds. Match them with errors.Is.
var (
	ErrInvalidNationalID = errors.New("invalid national id")
	ErrInvalidEmail      = errors.New("invalid email")
	ErrInvalidPhone      = errors.New("invalid phone")
	ErrInvalidCard       = errors.New("invalid card")
	ErrInvalidField      = errors.New("invalid field")
)

// ErrOptimisticLock is returned when an aggregate was saved by someone else
// after it was loaded.
var ErrOptimisticLock = errors.New("aggregate was modified concurrently")

// ValidationError reports a rejected input. Kind is one of the sentinels
// above; Field names the attribute when more than one can fail.
type ValidationError struct {
	Kind   error
	Field  string
	Reason string
}

// NewValidationError creates a validation error of the given kind.
func NewValidationError(kind error, field, reason string) *ValidationError {
	return &ValidationError{Kind: kind, Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("%s: %s %s", e.Kind, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

// IsValidationError reports whether err is a rejected-input error.
func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

// NotFoundError reports a lookup miss in a static registry.
type NotFoundError struct {
	Kind error
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Key)
}

func (e *NotFoundError) Unwrap() error {
	return e.Kind
}
