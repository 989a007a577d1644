package apperrors

import (
	"fmt"
	"net/http"
)

// Error is an application error carrying the HTTP status it maps to.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error.
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Validation is a 400: a required field is missing or malformed.
func Validation(message string) *Error {
	return New(http.StatusBadRequest, message, nil)
}

// NotFound is a 404: the id has no matching record.
func NotFound(message string) *Error {
	return New(http.StatusNotFound, message, nil)
}

// Conflict is a 409.
func Conflict(message string) *Error {
	return New(http.StatusConflict, message, nil)
}

// Unauthorized is a 401.
func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message, nil)
}

// Internal is a 500: a storage or other unexpected fault. Not retried.
func Internal(message string, err error) *Error {
	return New(http.StatusInternalServerError, message, err)
}
