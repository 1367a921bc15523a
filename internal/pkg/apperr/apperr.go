// Package apperr carries the error kinds that services return and the HTTP
// layer turns into status codes.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindNotFound
	KindConflict
	KindUpstreamAI
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUpstreamAI:
		return "upstream_ai"
	case KindPersistence:
		return "persistence"
	default:
		return "internal"
	}
}

// HTTPStatus maps a kind onto the status code returned to clients.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error is a user-facing failure. Message is safe to show; Details is a
// diagnostic string and Err the wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Details string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, message string, cause error) *Error {
	e := &Error{Kind: kind, Message: message, Err: cause}
	if cause != nil {
		e.Details = cause.Error()
	}
	return e
}

func Validation(message string) *Error { return newError(KindValidation, message, nil) }

func Unauthorized(message string) *Error { return newError(KindUnauthorized, message, nil) }

func NotFound(message string) *Error { return newError(KindNotFound, message, nil) }

func Conflict(message string) *Error { return newError(KindConflict, message, nil) }

func UpstreamAI(message string, cause error) *Error {
	return newError(KindUpstreamAI, message, cause)
}

func Persistence(message string, cause error) *Error {
	return newError(KindPersistence, message, cause)
}

func Internal(message string, cause error) *Error {
	return newError(KindInternal, message, cause)
}

// WithDetails replaces the diagnostic string.
func (e *Error) WithDetails(details string) *Error {
	e.Details = details
	return e
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns KindInternal for errors that are not *Error.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
