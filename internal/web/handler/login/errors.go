// Package login provides HTTP handlers for user authentication.
package login

import "github.com/pkg/errors"

var (
	// ErrNilDependency is returned when Init receives a nil app, config
	// or user store.
	ErrNilDependency = errors.New("app, cfg or user store is nil")
)
