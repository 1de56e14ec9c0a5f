package errors

import (
	"net/http"
	"time"
)

// ErrorCode represents a standardized error code
type ErrorCode string

const (
	// Request errors (400xx)
	ErrInvalidRequest  ErrorCode = "40001"
	ErrMissingIdentity ErrorCode = "40002"

	// Authentication errors (401xx)
	ErrUnauthorized ErrorCode = "40101"

	// Configuration errors surfaced to the caller (422xx)
	ErrClientResolutionFailed ErrorCode = "42201"

	// Server errors (500xx)
	ErrInternalServer ErrorCode = "50001"
	ErrStorage        ErrorCode = "50002"
)

// APIError represents a standardized API error
type APIError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Details    any       `json:"details,omitempty"`
	HTTPStatus int       `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// ErrorBody is the error object inside an error response
type ErrorBody struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   any       `json:"details,omitempty"`
	Timestamp string    `json:"timestamp"`
}

// ErrorResponse represents the error response format
type ErrorResponse struct {
	Error     ErrorBody `json:"error"`
	RequestID string    `json:"request_id"`
	Path      string    `json:"path,omitempty"`
	Method    string    `json:"method,omitempty"`
}

// Common errors
var (
	// ErrUnauthorizedError deliberately carries no detail about whether the
	// tenant is unknown or the token mismatched.
	ErrUnauthorizedError = &APIError{
		Code:       ErrUnauthorized,
		Message:    "Unauthorized",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrMissingIdentityError = &APIError{
		Code:       ErrMissingIdentity,
		Message:    "No client identity could be derived from the payload",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrInternalServerError = &APIError{
		Code:       ErrInternalServer,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
	}

	ErrStorageError = &APIError{
		Code:       ErrStorage,
		Message:    "Storage temporarily unavailable",
		HTTPStatus: http.StatusInternalServerError,
	}
)

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) *APIError {
	return &APIError{
		Code:       ErrInvalidRequest,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewClientResolutionError creates a resolution-failure error whose message
// names the identifiers that had no match
func NewClientResolutionError(message string) *APIError {
	return &APIError{
		Code:       ErrClientResolutionFailed,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// NewErrorResponse builds the standard error response envelope
func NewErrorResponse(err *APIError, requestID, path, method string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorBody{
			Code:      err.Code,
			Message:   err.Message,
			Details:   err.Details,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
		RequestID: requestID,
		Path:      path,
		Method:    method,
	}
}
