package submit

import "github.com/pkg/errors"

var (
	// ErrNilDependency is returned when Init receives a nil dependency.
	ErrNilDependency = errors.New("app, cfg, store, directory or mailer is nil")
)
