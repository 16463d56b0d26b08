package domain

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to callers. HTTP mapping lives in httpserver.
var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrMethodNotAllowed  = errors.New("method not allowed")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrValidation        = errors.New("validation")
)

var (
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)
	ErrBookNotFound     = fmt.Errorf("book %w", ErrNotFound)
	ErrCartLineNotFound = fmt.Errorf("cart line %w", ErrNotFound)

	ErrInvalidCredentials = fmt.Errorf("email or password is not correct: %w", ErrUnauthorized)
)
