package dto

const (
	ErrorTypeInvalidRequest = "invalid_request"
	ErrorTypeInternal       = "internal_error"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

func NewErrorResponse(errorType string, message string, code int) *ErrorResponse {
	return &ErrorResponse{
		Error:   errorType,
		Message: message,
		Code:    code,
	}
}
