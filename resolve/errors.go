package resolve

import (
	"github.com/jmgilman/go/shell/errors"
	"github.com/jmgilman/go/shell/exec"
)

// ErrCommandNotFound returns the error for a name that resolves to nothing.
func ErrCommandNotFound(name string) errors.PlatformError {
	return exec.NewCommandNotFound(name)
}

// IsCommandNotFound reports whether err is a command-not-found failure.
func IsCommandNotFound(err error) bool {
	return exec.IsCommandNotFound(err)
}

// IsSystemError reports whether err signals an unexpected lookup result.
func IsSystemError(err error) bool {
	return exec.IsSystemError(err)
}
