// Package response defines the unified API response envelope.
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Response unified API response structure
type Response struct {
	Success bool       `json:"success"`
	Message string     `json:"message"` // User-friendly message
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo detailed error information
type ErrorInfo struct {
	Location string `json:"location"`        // Business error code, e.g., "USER_NOT_FOUND"
	Data     any    `json:"data,omitempty"`  // Detailed error description
	Stack    string `json:"stack,omitempty"` // Diagnostic stack trace, debug builds only
}

// Success successful response
func Success(c echo.Context, statusCode int, data any, message string) error {
	if message == "" {
		message = "Success"
	}

	return c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error error response
func Error(c echo.Context, statusCode int, location string, message string, details any) error {
	if message == "" {
		message = http.StatusText(statusCode)
	}

	return c.JSON(statusCode, Response{
		Success: false,
		Message: message,
		Error: &ErrorInfo{
			Location: location,
			Data:     details,
		},
	})
}

// BindingError binding error response
func BindingError(c echo.Context, location string, message string) error {
	return Error(c, http.StatusBadRequest, location, message, nil)
}

// Unauthorized 401 error
func Unauthorized(c echo.Context, location string, message string) error {
	return Error(c, http.StatusUnauthorized, location, message, nil)
}

// NotFound 404 error
func NotFound(c echo.Context, location string, message string) error {
	return Error(c, http.StatusNotFound, location, message, nil)
}

// InternalServerError 500 error
func InternalServerError(c echo.Context, location string, message string) error {
	return Error(c, http.StatusInternalServerError, location, message, nil)
}
