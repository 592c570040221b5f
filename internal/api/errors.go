// errors.go - Structured error handling for API responses
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/urban-jungle/backend/internal/advice"
	"github.com/urban-jungle/backend/internal/interchange"
)

// APIError represents a structured API error response
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	// NeedsCredential tells the client to ask for an advice API key.
	NeedsCredential bool `json:"needsCredential,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error constructors for consistent error handling

// NewBadRequestError creates a 400 Bad Request error
func NewBadRequestError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusBadRequest,
		Code:    "BAD_REQUEST",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// NewValidationError creates a 400 validation error for a specific field
func NewValidationError(field string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "VALIDATION_ERROR",
		Message: fmt.Sprintf("validation failed for field: %s", field),
	}
}

// NewInvalidCSVError creates a 400 error for an import that could not be read
func NewInvalidCSVError(cause error) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "INVALID_CSV",
		Message: cause.Error(),
	}
}

// NewNotFoundError creates a 404 Not Found error
func NewNotFoundError(resource string, id string) *APIError {
	return &APIError{
		Status:  http.StatusNotFound,
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

// NewNothingToExportError creates a 409 error for an empty log export
func NewNothingToExportError() *APIError {
	return &APIError{
		Status:  http.StatusConflict,
		Code:    "NOTHING_TO_EXPORT",
		Message: "No data to export.",
	}
}

// NewInternalError creates a 500 Internal Server Error
func NewInternalError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "INTERNAL_ERROR",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// NewAdviceError maps an advice failure onto a response. Provider details
// are not passed to the client.
func NewAdviceError(err error, message string) *APIError {
	if errors.Is(err, advice.ErrCredential) {
		return &APIError{
			Status:          http.StatusUnauthorized,
			Code:            "CREDENTIAL_REQUIRED",
			Message:         "The advice service needs a valid API key. Link a paid API key and try again.",
			NeedsCredential: true,
		}
	}
	return &APIError{
		Status:  http.StatusBadGateway,
		Code:    "ADVICE_UNAVAILABLE",
		Message: message,
	}
}

// importError maps a CSV decode failure.
func importError(err error) *APIError {
	if errors.Is(err, interchange.ErrTooFewRows) || errors.Is(err, interchange.ErrMissingColumns) {
		return NewInvalidCSVError(err)
	}
	return NewInternalError("failed to import CSV", err)
}

// ErrorHandler middleware for Echo. Server-side error details are withheld.
// Usage: e.HTTPErrorHandler = api.ErrorHandler
func ErrorHandler(err error, c echo.Context) {
	handleError(err, c, false)
}

// NewErrorHandler returns an error handler that includes the underlying
// error text of 5xx responses when showDetails is set. Meant for development.
func NewErrorHandler(showDetails bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		handleError(err, c, showDetails)
	}
}

func handleError(err error, c echo.Context, showDetails bool) {
	if c.Response().Committed {
		return
	}

	var apiErr *APIError
	var httpErr *echo.HTTPError

	switch {
	case errors.As(err, &apiErr):
	case errors.As(err, &httpErr):
		apiErr = &APIError{
			Status:  httpErr.Code,
			Code:    "HTTP_ERROR",
			Message: fmt.Sprintf("%v", httpErr.Message),
		}
	default:
		apiErr = &APIError{
			Status:  http.StatusInternalServerError,
			Code:    "UNKNOWN_ERROR",
			Message: "An unexpected error occurred",
			Details: err.Error(),
		}
	}

	// storage paths and provider messages stay on the server
	if apiErr.Status >= http.StatusInternalServerError && !showDetails && apiErr.Details != "" {
		redacted := *apiErr
		redacted.Details = ""
		apiErr = &redacted
	}

	if c.Request().Method == http.MethodHead {
		c.NoContent(apiErr.Status)
		return
	}
	c.JSON(apiErr.Status, apiErr)
}
