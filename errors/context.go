package errors

import stderrors "errors"

// WithContext returns a copy of err with one context field added.
// Errors that are not PlatformErrors are converted using CodeUnknown.
// Returns nil if err is nil.
//
// Example:
//
//	err = errors.WithContext(err, "command", "rev")
func WithContext(err error, key string, value any) PlatformError {
	return WithContextMap(err, map[string]any{key: value})
}

// WithContextMap returns a copy of err with the given fields merged into its
// context. New fields override existing ones with the same key.
func WithContextMap(err error, ctx map[string]any) PlatformError {
	if err == nil {
		return nil
	}

	base := asPlatform(err)
	merged := copyContext(base.Context())
	if merged == nil {
		merged = make(map[string]any, len(ctx))
	}
	for k, v := range ctx {
		merged[k] = v
	}

	return &platformError{
		code:           base.Code(),
		classification: base.Classification(),
		message:        base.Message(),
		context:        merged,
		cause:          base.Unwrap(),
	}
}

// asPlatform returns err as a PlatformError, converting plain errors.
func asPlatform(err error) PlatformError {
	var platformErr PlatformError
	if stderrors.As(err, &platformErr) {
		return platformErr
	}
	return &platformError{
		code:           CodeUnknown,
		classification: ClassificationPermanent,
		message:        err.Error(),
		cause:          err,
	}
}
