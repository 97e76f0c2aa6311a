package apperrors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenInvalid     = errors.New("invalid token")
	ErrTokenNotFound    = errors.New("token not found")
	ErrInvalidFormat    = errors.New("invalid token format")
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Remote backend errors
var (
	ErrNetwork           = errors.New("network error")
	ErrMalformedResponse = errors.New("malformed response from backend")
	ErrRemoteFailure     = errors.New("backend reported failure")
	ErrRequestCancelled  = errors.New("request cancelled")
)

// Academic invariants
var (
	ErrDuplicateOfficeHourDay = errors.New("office hours already defined for this day")
	ErrSelfPrerequisite       = errors.New("a module cannot be its own prerequisite")
	ErrUnknownCollection      = errors.New("unknown collection")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// NewValidationError wraps ErrValidationFailed with a user facing message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err       error
	Message   string
	StatusMsg string
	Code      string
	Details   map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// RemoteError is a failure reported by the backend inside the response envelope
// (success=false). Message is the server text, surfaced verbatim.
type RemoteError struct {
	StatusCode int
	Message    string
}

// NewRemoteError creates a RemoteError, falling back to a generic message
func NewRemoteError(status int, message string) *RemoteError {
	return &RemoteError{StatusCode: status, Message: message}
}

// Error implements error interface
func (e *RemoteError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend reported failure (status %d)", e.StatusCode)
}

// Unwrap lets errors.Is(err, ErrRemoteFailure) match, and maps well-known statuses
// onto the resource sentinels.
func (e *RemoteError) Unwrap() []error {
	errs := []error{ErrRemoteFailure}
	switch e.StatusCode {
	case 400, 422:
		errs = append(errs, ErrValidationFailed)
	case 401:
		errs = append(errs, ErrTokenInvalid)
	case 403:
		errs = append(errs, ErrPermissionDenied)
	case 404:
		errs = append(errs, ErrResourceNotFound)
	case 409:
		errs = append(errs, ErrConflict)
	}
	return errs
}

// Message extracts the user facing text of err, the way the dashboard shows it.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var remote *RemoteError
	if errors.As(err, &remote) {
		return remote.Error()
	}
	var custom *CustomError
	if errors.As(err, &custom) {
		return custom.Error()
	}
	switch {
	case errors.Is(err, ErrRequestCancelled):
		return ErrRequestCancelled.Error()
	case errors.Is(err, ErrNetwork):
		return "Unable to reach the server. Please try again."
	case errors.Is(err, ErrMalformedResponse):
		return "Unexpected response from the server."
	}
	return err.Error()
}
