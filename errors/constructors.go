package errors

import (
	stderrors "errors"
	"fmt"
)

// New creates a PlatformError with the given code and message.
//
// Example:
//
//	err := errors.New(errors.CodeCommandNotFound, "command 'ls65535' not found")
func New(code ErrorCode, message string) PlatformError {
	return &platformError{
		code:           code,
		classification: getDefaultClassification(code),
		message:        message,
	}
}

// Newf creates a PlatformError with a formatted message.
func Newf(code ErrorCode, format string, args ...any) PlatformError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps err with a code and message while preserving the chain.
// A wrapped PlatformError keeps its classification. Returns nil if err is nil.
//
// Example:
//
//	if err := cmd.Start(); err != nil {
//	    return errors.Wrap(err, errors.CodeSpawnFailed, "failed to start /bin/ls")
//	}
func Wrap(err error, code ErrorCode, message string) PlatformError {
	if err == nil {
		return nil
	}

	classification := getDefaultClassification(code)
	var platformErr PlatformError
	if stderrors.As(err, &platformErr) {
		classification = platformErr.Classification()
	}

	return &platformError{
		code:           code,
		classification: classification,
		message:        message,
		cause:          err,
	}
}

// Wrapf wraps err with a formatted message. Returns nil if err is nil.
func Wrapf(err error, code ErrorCode, format string, args ...any) PlatformError {
	if err == nil {
		return nil
	}
	return Wrap(err, code, fmt.Sprintf(format, args...))
}
