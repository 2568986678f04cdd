package exec

import (
	"fmt"

	"github.com/jmgilman/go/shell/errors"
)

// launcherNotFound is the status env(1) exits with when it cannot find the
// command it was asked to launch. Commands may exit with it too.
const launcherNotFound = 127

// ExecError reports a process that could not be started or waited on.
// It implements errors.PlatformError with code SPAWN_FAILED.
type ExecError struct {
	// Op is the failed operation: "start" or "wait".
	Op string

	// Command is the full argument vector, starting with the executable path.
	Command []string

	// Err is the underlying error from the operating system.
	Err error
}

// Error implements the error interface.
func (e *ExecError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code(), e.Message())
}

// Unwrap returns the underlying error.
func (e *ExecError) Unwrap() error {
	return e.Err
}

// Code returns errors.CodeSpawnFailed.
func (e *ExecError) Code() errors.ErrorCode {
	return errors.CodeSpawnFailed
}

// Classification returns errors.ClassificationPermanent.
func (e *ExecError) Classification() errors.ErrorClassification {
	return errors.ClassificationPermanent
}

// Message describes the failed operation and its cause.
func (e *ExecError) Message() string {
	return fmt.Sprintf("failed to %s %v: %v", e.Op, e.Command, e.Err)
}

// Context returns the command and operation.
func (e *ExecError) Context() map[string]any {
	return map[string]any{
		"op":      e.Op,
		"command": e.Command,
	}
}

// NewCommandNotFound returns the error reported when name does not resolve to
// an executable.
func NewCommandNotFound(name string) errors.PlatformError {
	return errors.WithContext(
		errors.Newf(errors.CodeCommandNotFound, "command '%s' not found", name),
		"command", name,
	)
}

// IsCommandNotFound reports whether err is a command-not-found failure.
func IsCommandNotFound(err error) bool {
	return errors.HasCode(err, errors.CodeCommandNotFound)
}

// NewSystemError returns the error reported when the environment answers a
// lookup in an unexpected way.
func NewSystemError(format string, args ...any) errors.PlatformError {
	return errors.Newf(errors.CodeSystem, format, args...)
}

// IsSystemError reports whether err is a system error.
func IsSystemError(err error) bool {
	return errors.HasCode(err, errors.CodeSystem)
}

func errAlreadyRun(unit Runnable) error {
	return errors.WithContext(
		errors.New(errors.CodeConflict, "unit has already run"),
		"unit", unit.String(),
	)
}
