// Package apperr defines the failure kinds returned by dashboard operations.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure. The string value is what callers see as errorKind.
type Kind string

const (
	KindValidation      Kind = "ValidationError"
	KindUnauthenticated Kind = "AuthenticationRequired"
	KindForbidden       Kind = "PermissionDenied"
	KindNotFound        Kind = "NotFound"
	KindInternal        Kind = "InternalError"
)

// Error is a failure with a stable kind and a caller-facing message.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string // field-level violations, ValidationError only
	Err     error             // underlying cause, never shown to callers
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Validation returns a ValidationError listing the offending fields.
func Validation(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: "invalid input", Fields: fields}
}

// Unauthenticated returns an AuthenticationRequired error.
func Unauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

// Forbidden returns a PermissionDenied error.
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// NotFound returns a NotFound error for the named resource.
func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: resource + " not found"}
}

// Internal wraps an unexpected failure. The message is generic on purpose;
// the cause is kept for logging.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "something went wrong", Err: err}
}

// KindOf reports the kind of err. Errors that are not *Error are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// From returns err as an *Error, wrapping anything else as internal.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}

// Status maps a kind to its HTTP status code.
func Status(k Kind) int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
