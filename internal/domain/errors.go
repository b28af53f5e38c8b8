package domain

import "errors"

// Authentication errors
var (
	// ErrInvalidCredentials covers unknown email, wrong password and inactive
	// account alike, so sign-in responses never reveal which one failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrTokenInvalid       = errors.New("invalid or expired token")
)

// Resource errors
var (
	ErrNotFound    = errors.New("resource not found")
	ErrEmailExists = errors.New("email already exists")
	ErrValidation  = errors.New("invalid input")
	ErrRateLimited = errors.New("too many requests")
)
