package directory

import "github.com/pkg/errors"

// ErrUnexpectedStatus is returned when the directory API answers with a
// non-200 status code.
var ErrUnexpectedStatus = errors.New("directory API returned unexpected status")
