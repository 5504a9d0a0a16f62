package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrValidation is returned when request input is malformed or incomplete.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized is returned when a bearer token is missing, invalid or expired.
	ErrUnauthorized = errors.New("could not validate credentials")
	// ErrInvalidCredentials is returned when username or password is incorrect.
	ErrInvalidCredentials = errors.New("incorrect username or password")
	// ErrAlreadyRegistered is returned when the username or email is taken.
	ErrAlreadyRegistered = errors.New("username or email already registered")
	// ErrTaskNotFound is returned when a task does not exist or belongs to another user.
	ErrTaskNotFound = errors.New("task not found")
	// ErrUnknownProvider is returned for OAuth providers that are not configured.
	ErrUnknownProvider = errors.New("unknown oauth provider")
	// ErrUpstream is returned when an OAuth provider answers with an error or garbage.
	ErrUpstream = errors.New("oauth provider request failed")
	// ErrUpstreamUnavailable is returned when an OAuth provider does not answer in time.
	ErrUpstreamUnavailable = errors.New("oauth provider unavailable")
	// ErrPersistence is returned when the storage layer fails.
	ErrPersistence = errors.New("storage failure")
)

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

// Validation wraps a user-facing validation message.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Persistence wraps a storage error for the named operation.
func Persistence(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}

// MapErrorToHTTP maps domain errors to HTTP errors.
// Only validation messages carry the wrapped detail; everything else uses the sentinel text.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
	case errors.Is(err, ErrAlreadyRegistered):
		return NewHTTPError(http.StatusBadRequest, "Username or email already registered", "ALREADY_REGISTERED")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, "Incorrect username or password", "INVALID_CREDENTIALS")
	case errors.Is(err, ErrUnauthorized):
		return NewHTTPError(http.StatusUnauthorized, "Could not validate credentials", "UNAUTHORIZED")
	case errors.Is(err, ErrTaskNotFound):
		return NewHTTPError(http.StatusNotFound, "Task not found", "TASK_NOT_FOUND")
	case errors.Is(err, ErrUnknownProvider):
		return NewHTTPError(http.StatusNotFound, ErrUnknownProvider.Error(), "UNKNOWN_PROVIDER")
	case errors.Is(err, ErrUpstreamUnavailable):
		return NewHTTPError(http.StatusGatewayTimeout, ErrUpstreamUnavailable.Error(), "UPSTREAM_UNAVAILABLE")
	case errors.Is(err, ErrUpstream):
		return NewHTTPError(http.StatusBadGateway, ErrUpstream.Error(), "UPSTREAM_ERROR")
	case errors.Is(err, ErrPersistence):
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "PERSISTENCE_ERROR")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
