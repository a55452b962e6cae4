package service

import "errors"

// Error kinds. Callers match them with errors.Is and read the user-facing
// message through errors.As on ValidationError or NotFoundError.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrStorage    = errors.New("storage failure")
)

// ValidationError is a request the caller must fix.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NotFoundError is an unknown category or a missing item.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

func notFound(msg string) error {
	return &NotFoundError{Message: msg}
}
