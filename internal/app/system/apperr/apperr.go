// Package apperr is the error taxonomy shared by services and handlers.
//
// Services return *Error values built with the constructors below. The
// HTTP edge turns them into a status code and a JSON envelope with Write.
// Anything that is not an *Error is treated as Internal.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure.
type Kind string

const (
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	KindForbidden       Kind = "FORBIDDEN"
	KindNotFound        Kind = "NOT_FOUND"
	KindInvalidInput    Kind = "INVALID_INPUT"
	KindConflict        Kind = "CONFLICT"
	KindRateLimited     Kind = "RATE_LIMITED"
	KindInternal        Kind = "INTERNAL"
)

// Metadata describes how a Kind is surfaced to callers.
type Metadata struct {
	HTTPStatus    int
	PublicMessage string
	// ShowMessage allows the error's own message to reach the client.
	ShowMessage bool
}

var metadataByKind = map[Kind]Metadata{
	KindUnauthenticated: {http.StatusUnauthorized, "authentication required", true},
	KindForbidden:       {http.StatusForbidden, "access denied", true},
	KindNotFound:        {http.StatusNotFound, "not found", true},
	KindInvalidInput:    {http.StatusBadRequest, "invalid input", true},
	KindConflict:        {http.StatusConflict, "conflict", true},
	KindRateLimited:     {http.StatusTooManyRequests, "too many requests", true},
	KindInternal:        {http.StatusInternalServerError, "internal server error", false},
}

// MetadataFor returns the metadata for k, falling back to Internal.
func MetadataFor(k Kind) Metadata {
	if m, ok := metadataByKind[k]; ok {
		return m
	}
	return metadataByKind[KindInternal]
}

// Error is a classified failure with an optional cause.
type Error struct {
	kind    Kind
	message string
	cause   error
}

func newErr(k Kind, msg string) *Error { return &Error{kind: k, message: msg} }

func Unauthenticated(msg string) *Error { return newErr(KindUnauthenticated, msg) }
func Forbidden(msg string) *Error       { return newErr(KindForbidden, msg) }
func NotFound(msg string) *Error        { return newErr(KindNotFound, msg) }
func InvalidInput(msg string) *Error    { return newErr(KindInvalidInput, msg) }
func Conflict(msg string) *Error        { return newErr(KindConflict, msg) }
func RateLimited(msg string) *Error     { return newErr(KindRateLimited, msg) }

// Internal wraps an unexpected failure. msg names the operation and is
// only ever logged.
func Internal(err error, msg string) *Error {
	return &Error{kind: KindInternal, message: msg, cause: err}
}

// Kind returns the error's kind; a nil *Error reports Internal.
func (e *Error) Kind() Kind {
	if e == nil {
		return KindInternal
	}
	return e.kind
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.kind, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.kind, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// As extracts an *Error from err's chain, or returns nil.
func As(err error) *Error {
	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}
	return nil
}

// KindOf returns the kind of err; nil errors and untyped errors are Internal.
func KindOf(err error) Kind {
	if e := As(err); e != nil {
		return e.kind
	}
	return KindInternal
}

// Is reports whether err is an *Error of kind k.
func Is(err error, k Kind) bool {
	e := As(err)
	return e != nil && e.kind == k
}
