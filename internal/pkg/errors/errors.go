// Package errors provides domain-specific error types for the garage API.
//
// Repository operations surface an *AppError describing the outcome kind;
// the HTTP layer maps it to a status code and response body without
// inspecting business logic.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a structured application error with HTTP status and error code.
type AppError struct {
	// Code is a machine-readable error code (e.g., "CUSTOMER_NOT_FOUND").
	Code string `json:"code"`

	// Message is a human-readable error message, sent to the client verbatim.
	Message string `json:"message"`

	// HTTPStatus is the corresponding HTTP status code.
	HTTPStatus int `json:"-"`

	// Params carries structured context merged into the response body
	// (e.g., the dependent vehicleCount on a blocked delete).
	Params map[string]interface{} `json:"params,omitempty"`

	// Err is the wrapped underlying error.
	Err error `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an existing error into an AppError.
func Wrap(err error, code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// WithParams attaches structured parameters to the error.
func (e *AppError) WithParams(params map[string]interface{}) *AppError {
	if e == nil || len(params) == 0 {
		return e
	}
	e.Params = params
	return e
}

// Outcome-kind constructors. Conflicts (duplicate plates, deletes blocked
// by dependents) report 400 to match the API's external contract.

// Validation creates a 400 error for a missing or malformed field.
func Validation(code, message string) *AppError {
	return New(code, message, http.StatusBadRequest)
}

// NotFound creates a 404 error for an unresolvable id or reference.
func NotFound(code, message string) *AppError {
	return New(code, message, http.StatusNotFound)
}

// Conflict creates a 400 error for a uniqueness violation or a blocked
// destructive operation.
func Conflict(code, message string) *AppError {
	return New(code, message, http.StatusBadRequest)
}

// Internal creates a 500 error wrapping an unexpected store failure.
// The message is what the client sees; err is logged only.
func Internal(message string, err error) *AppError {
	return Wrap(err, CodeInternal, message, http.StatusInternalServerError)
}

// IsAppError checks if an error is an AppError and returns it.
func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
