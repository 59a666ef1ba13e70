package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// It is wrapped by ValidationError with the offending field.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyUsername is returned when a user has no username.
	ErrEmptyUsername = errors.New("username cannot be empty")

	// ErrInvalidUsername is returned when a username exceeds MaxUsernameLength.
	ErrInvalidUsername = errors.New("invalid username")

	// ErrEmptyHashedPassword is returned when a user record carries no password hash.
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")

	// ErrMissingSubject is returned when verified token claims carry no subject.
	ErrMissingSubject = errors.New("token has no subject")
)

// ValidationError reports which field of an entity failed validation.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError for field.
// err is the specific cause; it may be nil.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap exposes both the specific cause and ErrValidation to errors.Is.
func (e *ValidationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrValidation}
	}
	return []error{e.Err, ErrValidation}
}
