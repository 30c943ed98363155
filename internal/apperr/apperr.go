// Package apperr defines the error kinds shared by every component. Components
// return *Error values explicitly; only the HTTP layer maps kinds to statuses.
package apperr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies an application failure.
type Kind string

const (
	KindUnauthenticated     Kind = "UNAUTHENTICATED"
	KindForbidden           Kind = "FORBIDDEN"
	KindValidation          Kind = "VALIDATION_ERROR"
	KindNotFound            Kind = "NOT_FOUND"
	KindConflict            Kind = "CONFLICT"
	KindInvalidCredentials  Kind = "INVALID_CREDENTIALS"
	KindUpstreamUnavailable Kind = "UPSTREAM_UNAVAILABLE"
	KindUpstreamError       Kind = "UPSTREAM_ERROR"
	KindNoStructuredOutput  Kind = "NO_STRUCTURED_OUTPUT"
	KindUnparsableOutput    Kind = "UNPARSABLE_OUTPUT"
	KindFeatureDisabled     Kind = "FEATURE_DISABLED"
	KindPayloadTooLarge     Kind = "PAYLOAD_TOO_LARGE"
	KindInternal            Kind = "INTERNAL_ERROR"
)

// Error carries a kind, a short user-facing message and an optional
// diagnostic detail. The wrapped cause stays reachable through errors.Is/As.
type Error struct {
	Kind    Kind
	Message string
	Detail  string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Cause is kept for github.com/pkg/errors compatibility.
func (e *Error) Cause() error {
	return e.cause
}

// New returns an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap returns an error of the given kind wrapping cause. The cause message
// becomes the detail unless one is set later with WithDetail.
func Wrap(cause error, kind Kind, message string) *Error {
	e := &Error{Kind: kind, Message: message, cause: cause}
	if cause != nil {
		e.Detail = cause.Error()
	}
	return e
}

// WithDetail returns a copy of e carrying detail.
func (e *Error) WithDetail(detail string) *Error {
	cp := *e
	cp.Detail = detail
	return &cp
}

// KindOf reports the kind of err, or KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	return KindOf(err) == kind
}

// Constructors for the kinds used across packages.

func Validation(message string) *Error {
	return New(KindValidation, message)
}

func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

func Internal(cause error, message string) *Error {
	return Wrap(errors.WithStack(cause), KindInternal, message)
}
