package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode is a stable machine-readable code carried on every API error.
type ErrorCode string

const (
	CodeAuthRequired      ErrorCode = "AUTH_REQUIRED"
	CodeInvalidToken      ErrorCode = "AUTH_INVALID_TOKEN"
	CodeForbidden         ErrorCode = "AUTH_INSUFFICIENT_PERMISSIONS"
	CodeBadRequest        ErrorCode = "GENERAL_BAD_REQUEST"
	CodeMissingParams     ErrorCode = "REQUEST_MISSING_PARAMS"
	CodeInvalidParams     ErrorCode = "REQUEST_INVALID_PARAMS"
	CodeNotFound          ErrorCode = "RESOURCE_NOT_FOUND"
	CodeConflict          ErrorCode = "RESOURCE_CONFLICT"
	CodeInternal          ErrorCode = "GENERAL_INTERNAL_ERROR"
	CodeCacheServiceError ErrorCode = "SERVICE_KV_ERROR"
	CodeDatabaseError     ErrorCode = "SERVICE_DATABASE_ERROR"
)

// errorStatus maps every code to its HTTP status. Codes absent from the
// table render as 500.
var errorStatus = map[ErrorCode]int{
	CodeAuthRequired:      http.StatusUnauthorized,
	CodeInvalidToken:      http.StatusUnauthorized,
	CodeForbidden:         http.StatusForbidden,
	CodeBadRequest:        http.StatusBadRequest,
	CodeMissingParams:     http.StatusBadRequest,
	CodeInvalidParams:     http.StatusBadRequest,
	CodeNotFound:          http.StatusNotFound,
	CodeConflict:          http.StatusConflict,
	CodeInternal:          http.StatusInternalServerError,
	CodeCacheServiceError: http.StatusInternalServerError,
	CodeDatabaseError:     http.StatusInternalServerError,
}

var errorMessage = map[ErrorCode]string{
	CodeAuthRequired:      "authentication required, please sign in first",
	CodeInvalidToken:      "invalid or expired token",
	CodeForbidden:         "insufficient permissions",
	CodeBadRequest:        "bad request",
	CodeMissingParams:     "missing required parameters",
	CodeInvalidParams:     "invalid parameters",
	CodeNotFound:          "resource not found",
	CodeConflict:          "resource conflict",
	CodeInternal:          "internal server error",
	CodeCacheServiceError: "key-value store operation failed",
	CodeDatabaseError:     "database operation failed",
}

// Status returns the HTTP status for the code.
func (c ErrorCode) Status() int {
	if s, ok := errorStatus[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Error is a coded application error. It carries the underlying cause for
// logging while the code and message are what the client sees.
type Error struct {
	Code    ErrorCode
	Message string
	Details any
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// NewError builds a coded error. An empty message falls back to the code's
// default text.
func NewError(code ErrorCode, message string) *Error {
	if message == "" {
		message = errorMessage[code]
	}
	return &Error{Code: code, Message: message}
}

// WrapError builds a coded error preserving the underlying cause.
func WrapError(code ErrorCode, message string, cause error) *Error {
	e := NewError(code, message)
	e.cause = cause
	return e
}

// WithDetails attaches structured diagnostic payload rendered under
// error.details in the response envelope.
func (e *Error) WithDetails(details any) *Error {
	e.Details = details
	return e
}

// CacheError wraps a key-value store failure for the named operation.
func CacheError(operation string, cause error) *Error {
	return WrapError(CodeCacheServiceError, fmt.Sprintf("kv %s operation failed", operation), cause)
}

// DatabaseError wraps a durable-store failure for the named operation.
func DatabaseError(operation string, cause error) *Error {
	return WrapError(CodeDatabaseError, fmt.Sprintf("database %s operation failed", operation), cause)
}

// Sentinel errors used by services; the HTTP error handler maps them onto
// coded responses.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
