package errors

import "fmt"

// PlatformError extends the standard error interface with a code, a retry
// classification and contextual metadata.
type PlatformError interface {
	error

	// Code returns the error code identifying the type of error.
	Code() ErrorCode

	// Classification returns whether the error is retryable or permanent.
	Classification() ErrorClassification

	// Message returns the human-readable error message without the cause.
	Message() string

	// Context returns a copy of the attached metadata, or nil if none.
	Context() map[string]any

	// Unwrap returns the wrapped cause, or nil.
	Unwrap() error
}

// platformError is the concrete implementation of PlatformError.
// It is private to enforce construction through package functions.
type platformError struct {
	code           ErrorCode
	classification ErrorClassification
	message        string
	context        map[string]any
	cause          error
}

// Error formats the error as "[CODE] message" or "[CODE] message: cause".
func (e *platformError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.code, e.message)
}

func (e *platformError) Code() ErrorCode {
	return e.code
}

func (e *platformError) Classification() ErrorClassification {
	return e.classification
}

func (e *platformError) Message() string {
	return e.message
}

func (e *platformError) Context() map[string]any {
	return copyContext(e.context)
}

func (e *platformError) Unwrap() error {
	return e.cause
}

func copyContext(ctx map[string]any) map[string]any {
	if ctx == nil {
		return nil
	}
	out := make(map[string]any, len(ctx))
	for k, v := range ctx {
		out[k] = v
	}
	return out
}
