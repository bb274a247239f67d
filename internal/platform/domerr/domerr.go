// Package domerr defines the domain error taxonomy shared by every
// feature package and its mapping to HTTP responses.
package domerr

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeInvalidArgument = "INVALID_ARGUMENT"
	CodeValidation      = "VALIDATION_FAILED"
	CodeAlreadyBorrowed = "ALREADY_BORROWED"
	CodeBookUnavailable = "BOOK_UNAVAILABLE"
	CodeAlreadyReturned = "ALREADY_RETURNED"
	CodeConflict        = "CONFLICT"
	CodeRetryExhausted  = "CONFLICT_RETRY_EXHAUSTED"
	CodeInternal        = "INTERNAL"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Error struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func Unauthorized(msg string) error {
	return &Error{Code: CodeUnauthorized, Message: msg}
}

func Forbidden(msg string) error {
	return &Error{Code: CodeForbidden, Message: msg}
}

func NotFound(msg string) error {
	return &Error{Code: CodeNotFound, Message: msg}
}

func InvalidArgument(msg string) error {
	return &Error{Code: CodeInvalidArgument, Message: msg}
}

// Validation carries every violated field, not just the first.
func Validation(fields []FieldError) error {
	return &Error{Code: CodeValidation, Message: "validation failed", Fields: fields}
}

func AlreadyBorrowed() error {
	return &Error{Code: CodeAlreadyBorrowed, Message: "user already has an active borrowing for this book"}
}

func BookUnavailable() error {
	return &Error{Code: CodeBookUnavailable, Message: "book is not available for borrowing"}
}

func AlreadyReturned() error {
	return &Error{Code: CodeAlreadyReturned, Message: "borrowing has already been returned"}
}

func Conflict(msg string) error {
	return &Error{Code: CodeConflict, Message: msg}
}

func RetryExhausted() error {
	return &Error{Code: CodeRetryExhausted, Message: "operation could not complete due to concurrent updates, retry later"}
}

func Internal(msg string) error {
	return &Error{Code: CodeInternal, Message: msg}
}

// CodeOf extracts the taxonomy code, or "" for untyped errors.
func CodeOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeValidation, CodeAlreadyBorrowed, CodeBookUnavailable, CodeAlreadyReturned:
		return http.StatusUnprocessableEntity
	case CodeConflict, CodeRetryExhausted:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

type body struct {
	Error *Error `json:"error"`
}

// Payload renders err as a response body. Untyped errors are masked as
// INTERNAL so driver details never leak to clients.
func Payload(err error) any {
	var de *Error
	if errors.As(err, &de) {
		return body{Error: de}
	}
	return body{Error: &Error{Code: CodeInternal, Message: "internal error"}}
}
