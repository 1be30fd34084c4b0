package platformerrors

import (
	"errors"
	"net/http"
)

// ErrorBody is the JSON error payload returned to API callers.
// The browser client reads Message, so it is always populated.
type ErrorBody struct {
	Message   string `json:"message"`
	Error     string `json:"error,omitempty"`
	ModelID   string `json:"modelId,omitempty"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// ToErrorBody converts err into a status code and payload.
// Non-platform errors are reported as internal errors.
func ToErrorBody(err error) (int, ErrorBody) {
	if err == nil {
		return http.StatusInternalServerError, ErrorBody{Message: "An unknown error occurred"}
	}

	var platformErr *PlatformError
	if !errors.As(err, &platformErr) {
		return http.StatusInternalServerError, ErrorBody{
			Message: "An unknown error occurred",
			Error:   err.Error(),
		}
	}

	body := ErrorBody{
		Message:   platformErr.Message,
		ModelID:   platformErr.ContextString(ContextModelID),
		Code:      platformErr.UUID,
		RequestID: platformErr.RequestID,
	}
	if platformErr.Err != nil {
		body.Error = platformErr.Err.Error()
	}
	return ErrorTypeToHTTPStatus(platformErr.Type), body
}
