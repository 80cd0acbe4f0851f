package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/wildcloud/starter-api/internal/core/domain"
)

// errorBody is the inner error object of the canonical envelope.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// errorResponse is the canonical envelope for all API errors.
type errorResponse struct {
	Error     errorBody `json:"error"`
	Timestamp string    `json:"timestamp"`
	Path      string    `json:"path,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Renders coded application errors with their fixed code->status table.
//   - Maps known sentinel errors to deterministic codes.
//   - Logs unexpected errors internally and reports a generic internal
//     error without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := resolveError(err, log, c)
		_ = c.JSON(status, errorResponse{
			Error:     body,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Path:      c.Request().URL.Path,
		})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorBody) {
	// Coded application errors carry their own status.
	var appErr *domain.Error
	if errors.As(err, &appErr) {
		if appErr.Code.Status() >= http.StatusInternalServerError {
			log.Error().Err(err).Str("method", c.Request().Method).Str("path", c.Path()).Msg("service error")
		}
		return appErr.Code.Status(), errorBody{
			Code:    string(appErr.Code),
			Message: appErr.Message,
			Details: appErr.Details,
		}
	}

	// Known sentinel errors -> deterministic codes.
	switch {
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, errorBody{
			Code:    string(domain.CodeConflict),
			Message: "this email is already registered, use another or sign in",
		}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, errorBody{
			Code:    string(domain.CodeNotFound),
			Message: "user not found",
		}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorBody{
			Code:    string(domain.CodeAuthRequired),
			Message: "invalid email or password",
		}
	}

	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorBody{
			Code:    statusCode(he.Code),
			Message: fmt.Sprintf("%v", he.Message),
		}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorBody{
		Code:    string(domain.CodeInternal),
		Message: "internal server error",
	}
}

// statusCode maps a bare HTTP status onto the closest machine-readable
// code for errors that did not originate as coded errors.
func statusCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return string(domain.CodeBadRequest)
	case http.StatusUnauthorized:
		return string(domain.CodeAuthRequired)
	case http.StatusForbidden:
		return string(domain.CodeForbidden)
	case http.StatusNotFound:
		return string(domain.CodeNotFound)
	case http.StatusConflict:
		return string(domain.CodeConflict)
	default:
		return string(domain.CodeInternal)
	}
}
