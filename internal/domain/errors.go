package domain

import "errors"

// Sentinel errors shared by repositories, services and the auth layer.
var (
	ErrNotFound           = errors.New("not found")
	ErrMalformedID        = errors.New("malformed id")
	ErrDuplicateEmail     = errors.New("duplicate email")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidToken       = errors.New("invalid token")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
