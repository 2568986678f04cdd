package errors

// ErrorResponse is the flat JSON form of an error. The wrapped chain is
// excluded; Code, Message and Context carry what a consumer needs.
type ErrorResponse struct {
	Code           string         `json:"code"`
	Message        string         `json:"message"`
	Classification string         `json:"classification"`
	Context        map[string]any `json:"context,omitempty"`
}

// ToJSON converts any error to an ErrorResponse. Returns nil if err is nil.
// Plain errors are reported with CodeUnknown and their Error() text.
func ToJSON(err error) *ErrorResponse {
	if err == nil {
		return nil
	}

	message := err.Error()
	var context map[string]any
	var platformErr PlatformError
	if As(err, &platformErr) {
		message = platformErr.Message()
		context = platformErr.Context()
	}

	return &ErrorResponse{
		Code:           string(GetCode(err)),
		Message:        message,
		Classification: string(GetClassification(err)),
		Context:        context,
	}
}
