package parser

import (
	"errors"
	"fmt"
)

// Service errors
var (
	// ErrParseFailure means the provider was unreachable, timed out, or
	// returned something unusable. Nothing was persisted or cached.
	ErrParseFailure = errors.New("could not understand input")

	// ErrValidation means the provider answered but a field failed
	// validation. Use errors.As with *ValidationError for the field.
	ErrValidation = errors.New("validation failed")
)

// ValidationError reports which parsed field was unusable.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
