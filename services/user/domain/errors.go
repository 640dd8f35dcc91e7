package domain

import "errors"

// Sentinel errors for the user domain. Use errors.Is() to check these.
var (
	// ErrUserNotFound indicates no user exists for the requested id or email.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials indicates a failed login. It deliberately does
	// not distinguish a bad password from an unknown email.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken indicates signup with an already registered email.
	ErrEmailTaken = errors.New("email already registered")
)
