// Package errors provides the error kinds surfaced by the shop services.
package errors

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrNotFound is the root of every "identifier has no matching entity" error.
var ErrNotFound = errors.New("not found")

var ErrProductNotFound = fmt.Errorf("product %w", ErrNotFound)
var ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)
var ErrCartNotFound = fmt.Errorf("cart %w", ErrNotFound)

// ErrValidation is the root of every ValidationError.
var ErrValidation = errors.New("validation failed")

// ValidationError reports the constraints a transfer object violated, keyed by field name.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError converts validator errors into a ValidationError.
// Errors that are not validator.ValidationErrors are returned unchanged.
func NewValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	fields := make(map[string]string, len(validationErrors))
	for _, fieldErr := range validationErrors {
		fields[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
	}
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(ErrValidation.Error())
	for i, field := range slices.Sorted(maps.Keys(e.Fields)) {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		b.WriteString(field)
		b.WriteString(" ")
		b.WriteString(e.Fields[field])
	}
	return b.String()
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
