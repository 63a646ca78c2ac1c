package admin

import "github.com/pkg/errors"

var (
	// ErrNilDependency is returned when Init receives a nil dependency.
	ErrNilDependency = errors.New("app, cfg, request store or setting store is nil")
)
