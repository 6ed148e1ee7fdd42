package errors

import (
	"errors"
	"net/http"
)

// Error kinds. Every error returned by a service wraps exactly one of these.
var (
	// ErrValidation is returned for malformed or missing input.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized is returned for bad credentials and invalid or expired tokens.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is returned when an authenticated identity is not permitted.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound is returned for missing or access-masked resources.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned on uniqueness violations.
	ErrConflict = errors.New("conflict")
	// ErrUnsupportedMedia is returned when an upload has a disallowed extension.
	ErrUnsupportedMedia = errors.New("unsupported media type")
	// ErrTooLarge is returned when an upload exceeds the configured size.
	ErrTooLarge = errors.New("payload too large")
	// ErrInternal is returned for unexpected store failures.
	ErrInternal = errors.New("internal error")
)

const internalMessage = "internal server error"

// Error is a classified error carrying a caller-safe message.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes both the kind and the underlying cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// New creates a classified error with a message safe to return to clients.
func New(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Internal wraps an unexpected failure. The cause is kept for logging only.
func Internal(err error) *Error {
	return &Error{Kind: ErrInternal, Message: internalMessage, Err: err}
}

// Classify returns err unchanged when it already carries a kind, and wraps it
// as an internal error otherwise.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	return Internal(err)
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrInternal):
		return NewHTTPError(http.StatusInternalServerError, internalMessage, "INTERNAL_ERROR")
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusBadRequest, message(err), "VALIDATION_ERROR")
	case errors.Is(err, ErrUnauthorized):
		return NewHTTPError(http.StatusUnauthorized, message(err), "UNAUTHORIZED")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, message(err), "FORBIDDEN")
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, message(err), "NOT_FOUND")
	case errors.Is(err, ErrConflict):
		return NewHTTPError(http.StatusConflict, message(err), "CONFLICT")
	case errors.Is(err, ErrUnsupportedMedia):
		return NewHTTPError(http.StatusUnsupportedMediaType, message(err), "UNSUPPORTED_MEDIA_TYPE")
	case errors.Is(err, ErrTooLarge):
		return NewHTTPError(http.StatusRequestEntityTooLarge, message(err), "PAYLOAD_TOO_LARGE")
	default:
		return NewHTTPError(http.StatusInternalServerError, internalMessage, "INTERNAL_ERROR")
	}
}

func message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
