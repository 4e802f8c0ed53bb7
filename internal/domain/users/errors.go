package users

import "errors"

var (
	// ErrUserNotFound is returned when no user matches the lookup
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials is returned for an unknown username or a wrong password
	ErrInvalidCredentials = errors.New("no active account found with the given credentials")
	// ErrInvalidToken is returned for malformed, expired or mistyped tokens
	ErrInvalidToken = errors.New("token is invalid or expired")
)
