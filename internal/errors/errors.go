package errors

import (
	"net/http"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int    `json:"status_code"`
	ErrorCode  string `json:"error_code"`
	Message    string `json:"message"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// Predefined error types for common scenarios
var (
	// 401 Unauthorized
	ErrInvalidAPIKey = New(http.StatusUnauthorized, "INVALID_API_KEY", "invalid API key")

	// 404 Not Found
	ErrNotFound = New(http.StatusNotFound, "NOT_FOUND", "The requested resource was not found")

	// 429 Too Many Requests
	ErrRateLimitExceeded = New(http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Rate limit exceeded")

	// 500 Internal Server Error
	ErrDatabase = New(http.StatusInternalServerError, "DATABASE_ERROR", "database error")
)
