package errors

// ErrorCode represents a specific error condition.
// Codes are strings so they read well in logs and serialize naturally to JSON.
type ErrorCode string

const (
	// Resolution errors.

	// CodeCommandNotFound indicates a command name did not resolve to an executable.
	CodeCommandNotFound ErrorCode = "COMMAND_NOT_FOUND"

	// CodeSystem indicates the environment answered a lookup in an unexpected way,
	// for example a path lookup that printed more than one line.
	CodeSystem ErrorCode = "SYSTEM_ERROR"

	// Execution errors.

	// CodeSpawnFailed indicates the operating system refused to start a process.
	CodeSpawnFailed ErrorCode = "SPAWN_FAILED"

	// CodeIO indicates reading from or writing to a channel or file failed.
	CodeIO ErrorCode = "IO_ERROR"

	// CodeTimeout indicates a run exceeded its context deadline.
	CodeTimeout ErrorCode = "TIMEOUT"

	// CodeCanceled indicates a run was canceled through its context.
	CodeCanceled ErrorCode = "CANCELED"

	// Validation errors.

	// CodeInvalidInput indicates an argument was rejected before anything ran.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeInvalidConfig indicates a configuration or manifest error.
	CodeInvalidConfig ErrorCode = "INVALID_CONFIGURATION"

	// CodeConflict indicates the operation conflicts with the unit's state,
	// such as running a single-shot unit twice.
	CodeConflict ErrorCode = "CONFLICT"

	// System errors.

	// CodeInternal indicates an internal invariant was violated.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// CodeUnknown indicates an unclassified error.
	CodeUnknown ErrorCode = "UNKNOWN"
)
