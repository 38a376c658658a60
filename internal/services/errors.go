package services

import "errors"

var (
	ErrEmailTaken       = errors.New("email is already registered")
	ErrUnknownIdentity  = errors.New("user not found")
	ErrPasswordMismatch = errors.New("invalid credentials")
	ErrUserNotFound     = errors.New("user not found")
	ErrUserOwnsFiles    = errors.New("user still owns catalogue files")
	ErrFileNotFound     = errors.New("file not found")
)

// ValidationError is a malformed or missing input, reported as 400.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
