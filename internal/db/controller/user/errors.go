package user

import "errors"

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")

	// ErrUserNotFound is returned when no active account matches the lookup.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials is returned for every authentication failure.
	// It deliberately does not distinguish unknown users from wrong
	// passwords or inactive accounts.
	ErrInvalidCredentials = errors.New("invalid username or password")
)
