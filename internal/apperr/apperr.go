// Package apperr defines the error kinds the API surfaces to callers and
// their HTTP status mapping.
package apperr

import (
	"net/http"

	"github.com/pkg/errors"
)

type Kind string

const (
	KindValidation        Kind = "validation_error"
	KindAuthentication    Kind = "authentication_error"
	KindNotFound          Kind = "not_found"
	KindStore             Kind = "store_error"
	KindSignatureMismatch Kind = "signature_mismatch"
	KindConflict          Kind = "conflict"
	KindInternal          Kind = "internal_error"
)

// Error carries a machine-readable kind next to a message that is safe to
// show to the caller. Err holds the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func Authentication(msg string) *Error {
	return &Error{Kind: KindAuthentication, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func SignatureMismatch(msg string) *Error {
	return &Error{Kind: KindSignatureMismatch, Message: msg}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// Store wraps a record store failure. The cause keeps its stack trace so the
// handler log line points at the failing query.
func Store(err error, msg string) *Error {
	return &Error{Kind: KindStore, Message: msg, Err: errors.WithStack(err)}
}

// Internal wraps a failure of an external collaborator other than the record
// store, such as the payment gateway.
func Internal(err error, msg string) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: errors.WithStack(err)}
}

// KindOf reports the kind of err, or KindInternal when err does not carry one.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// MessageOf returns the caller-facing message for err. Errors without a kind
// never leak their text.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal server error"
}

func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation, KindSignatureMismatch:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
