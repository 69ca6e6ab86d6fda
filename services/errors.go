package services

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation
	KindNotFound
	KindUnavailable
	KindForbidden
	KindUnauthenticated
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not found"
	case KindUnavailable:
		return "unavailable"
	case KindForbidden:
		return "forbidden"
	case KindUnauthenticated:
		return "unauthenticated"
	}
	return "unexpected"
}

// Error is a failure with a message that is safe to show to the caller.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func ValidationError(format string, args ...interface{}) *Error {
	return newError(KindValidation, format, args...)
}

func NotFoundError(format string, args ...interface{}) *Error {
	return newError(KindNotFound, format, args...)
}

func UnavailableError(format string, args ...interface{}) *Error {
	return newError(KindUnavailable, format, args...)
}

func ForbiddenError(format string, args ...interface{}) *Error {
	return newError(KindForbidden, format, args...)
}

func UnauthenticatedError(format string, args ...interface{}) *Error {
	return newError(KindUnauthenticated, format, args...)
}

// Unexpected wraps a failure the caller cannot act on.
func Unexpected(err error) *Error {
	return &Error{Kind: KindUnexpected, Message: "Server error", Err: err}
}

// KindOf classifies err; anything that is not an *Error is unexpected.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}
