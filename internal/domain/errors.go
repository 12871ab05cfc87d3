package domain

import (
	"errors"
	"strings"
)

var (
	// ErrValidation signals malformed or missing required input.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidID signals an identifier that does not match the storage format.
	ErrInvalidID = errors.New("invalid id")
	// ErrPropertyNotFound signals a well-formed property id with no record.
	ErrPropertyNotFound = errors.New("property not found")
	// ErrUserNotFound signals a missing user.
	ErrUserNotFound = errors.New("user not found")
	// ErrAlreadyExists signals a duplicate unique field.
	ErrAlreadyExists = errors.New("already exists")
	// ErrUnauthorized signals a missing, invalid or expired credential.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials signals a failed sign-in.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrNotImplemented signals an unconfigured optional collaborator.
	ErrNotImplemented = errors.New("not implemented")
)

// FieldError describes one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError wraps ErrValidation with the offending fields.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError returns nil when fields is empty.
func NewValidationError(fields []FieldError) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// Fields extracts the field list from a validation error, if any.
func Fields(err error) []FieldError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}
