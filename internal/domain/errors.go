package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("product not found")
	ErrNoImages       = errors.New("at least one image is required")
	ErrBadCredentials = errors.New("invalid email or password")
)

// ValidationError rejects a request before anything is written.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a client input error (including ErrNoImages).
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) || errors.Is(err, ErrNoImages)
}
