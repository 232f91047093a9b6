// Package middleware contains the HTTP middleware chain.
package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"tasker/config"
	"tasker/internal/delivery/http/response"
	domainerrors "tasker/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ErrorMiddleware is the single conversion point between errors and HTTP
// responses. Everything a handler can surface maps to one AppError; anything
// unrecognized becomes a 500 without leaking internals.
type ErrorMiddleware struct {
	logger *slog.Logger
	debug  bool
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(logger *slog.Logger, cfg *config.Config) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger: logger,
		debug:  cfg.Env.Debug,
	}
}

// HandleHTTPError handles errors as Echo's HTTPErrorHandler
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	// Try to parse as AppError
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		var details any
		if appErr.Details() != "" {
			details = appErr.Details()
		}
		m.writeError(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), details, err)

		return
	}

	// Check if it's Echo's HTTPError (unknown routes, oversized bodies)
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := http.StatusText(httpErr.Code)
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}
		m.writeError(c, httpErr.Code, "HTTP_ERROR", message, nil, err)

		return
	}

	// Default to internal error, log and return a generic message.
	m.logger.Error("Unhandled error",
		slog.String("error", err.Error()),
		slog.String("path", c.Request().URL.Path),
		slog.String("method", c.Request().Method),
	)

	m.writeError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil, err)
}

func (m *ErrorMiddleware) writeError(c echo.Context, status int, location, message string, details any, err error) {
	info := &response.ErrorInfo{
		Location: location,
		Data:     details,
	}
	if m.debug {
		// %+v renders the pkg/errors stack when one was attached.
		info.Stack = fmt.Sprintf("%+v", err)
	}

	if jsonErr := c.JSON(status, response.Response{
		Success: false,
		Message: message,
		Error:   info,
	}); jsonErr != nil {
		m.logger.Error("Failed to write error response", slog.Any("error", jsonErr))
	}
}
