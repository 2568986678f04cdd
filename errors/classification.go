package errors

// ErrorClassification indicates whether retrying the failed operation may succeed.
type ErrorClassification string

const (
	// ClassificationRetryable marks temporary failures, such as a timeout.
	ClassificationRetryable ErrorClassification = "RETRYABLE"

	// ClassificationPermanent marks failures that will repeat on retry.
	ClassificationPermanent ErrorClassification = "PERMANENT"
)

// IsRetryable returns true if the classification indicates retry should be attempted.
func (c ErrorClassification) IsRetryable() bool {
	return c == ClassificationRetryable
}

// defaultClassifications maps error codes to their default classification.
var defaultClassifications = map[ErrorCode]ErrorClassification{
	CodeTimeout:  ClassificationRetryable,
	CodeCanceled: ClassificationRetryable,

	CodeCommandNotFound: ClassificationPermanent,
	CodeSystem:          ClassificationPermanent,
	CodeSpawnFailed:     ClassificationPermanent,
	CodeIO:              ClassificationPermanent,
	CodeInvalidInput:    ClassificationPermanent,
	CodeInvalidConfig:   ClassificationPermanent,
	CodeConflict:        ClassificationPermanent,
	CodeInternal:        ClassificationPermanent,
	CodeUnknown:         ClassificationPermanent,
}

// getDefaultClassification returns ClassificationPermanent for unmapped codes.
func getDefaultClassification(code ErrorCode) ErrorClassification {
	if class, ok := defaultClassifications[code]; ok {
		return class
	}
	return ClassificationPermanent
}
