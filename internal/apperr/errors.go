// Package apperr defines the error kinds the HTTP layer knows how to render.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	InternalFailure Kind = iota
	Unauthenticated
	Forbidden
	BadRequest
	NotFound
	ServiceUnavailable
	BadGateway
)

var kindNames = map[Kind]string{
	InternalFailure:    "internal_failure",
	Unauthenticated:    "unauthenticated",
	Forbidden:          "forbidden",
	BadRequest:         "bad_request",
	NotFound:           "not_found",
	ServiceUnavailable: "service_unavailable",
	BadGateway:         "bad_gateway",
}

var kindStatus = map[Kind]int{
	InternalFailure:    http.StatusInternalServerError,
	Unauthenticated:    http.StatusUnauthorized,
	Forbidden:          http.StatusForbidden,
	BadRequest:         http.StatusBadRequest,
	NotFound:           http.StatusNotFound,
	ServiceUnavailable: http.StatusServiceUnavailable,
	BadGateway:         http.StatusBadGateway,
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[InternalFailure]
}

// HTTPStatus returns the fixed status code for the kind.
func (k Kind) HTTPStatus() int {
	if status, ok := kindStatus[k]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Error carries a client-safe Message and the underlying cause, which is
// only ever logged.
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

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf reports the kind of the first *Error in err's chain. Anything else
// is an InternalFailure.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return InternalFailure
}

// MessageOf returns the client-safe message for err.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return "Internal server error."
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
