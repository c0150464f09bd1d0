package services

import "errors"

// Shared error classes. Handlers map these to HTTP statuses:
// ErrValidation 400, ErrNotFound 404, ErrConflict 409,
// ErrConfiguration 500. Wrap with fmt.Errorf("%w: detail", ...) or
// log.ErrorWithType and classify with errors.Is.
var (
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrConfiguration = errors.New("configuration error")
)
