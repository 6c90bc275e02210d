package store

import "errors"

// Sentinel error kinds the HTTP layer maps onto status codes. The original
// storefront swallowed most of these cases silently; here every validation
// gap becomes an explicit rejection.
var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation")
	ErrDuplicateEmail    = errors.New("duplicate email")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInsufficientStock = errors.New("insufficient stock")
)
