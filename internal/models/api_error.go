package models

import "fmt"

// ErrorCode код ошибки API
type ErrorCode string

const (
	ErrorCodeInternalServerError ErrorCode = "internal_server_error"
	ErrorCodeNotFound            ErrorCode = "not_found"
	ErrorCodeNoData              ErrorCode = "no_data"
	ErrorCodeInvalidMetric       ErrorCode = "invalid_metric"
)

// APIError ошибка, возвращаемая клиенту в JSON
type APIError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	StatusCode int       `json:"-"`
}

func (e APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// NewAPIError создает ошибку API
func NewAPIError(code ErrorCode, message string, statusCode int) APIError {
	return APIError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}
