// Package apperr defines the error taxonomy shared by the service layers.
package apperr

import (
	"errors"
	"fmt"
)

// ErrNotFound marks lookups of tasks or users that do not exist.
var ErrNotFound = errors.New("not found")

// ValidationError reports a rejected field before any state is changed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidation builds a ValidationError for the given field.
func NewValidation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// InvalidRuleError is a validation failure specific to recurrence rules.
type InvalidRuleError struct {
	ValidationError
}

// NewInvalidRule builds an InvalidRuleError for the given rule field.
func NewInvalidRule(field, reason string) *InvalidRuleError {
	return &InvalidRuleError{ValidationError{Field: field, Reason: reason}}
}

// Unwrap lets errors.As treat an invalid rule as a ValidationError too.
func (e *InvalidRuleError) Unwrap() error {
	return &e.ValidationError
}

// IsValidation reports whether err is any kind of validation failure.
// InvalidRuleError unwraps to ValidationError, so one check covers both.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
