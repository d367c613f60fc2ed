package domain

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind is the stable, machine-checkable class of a workflow failure.
type ErrorKind string

const (
	KindNotFound        ErrorKind = "NOT_FOUND"
	KindConflict        ErrorKind = "CONFLICT"
	KindAuthorization   ErrorKind = "AUTHORIZATION"
	KindTimeout         ErrorKind = "TIMEOUT"
	KindInvalidArgument ErrorKind = "INVALID_ARGUMENT"
	KindInternal        ErrorKind = "INTERNAL"
)

// Error carries a kind plus a human-readable message. Err is the underlying
// cause, if any, and is never shown to callers.
type Error struct {
	Kind    ErrorKind
	Message string
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

var (
	ErrPropertyRented          = &Error{Kind: KindConflict, Message: "property is currently rented"}
	ErrDuplicatePendingRequest = &Error{Kind: KindConflict, Message: "a pending request for this property already exists"}
	ErrRequestNotPending       = &Error{Kind: KindConflict, Message: "request is not pending"}
	ErrAgreementClosed         = &Error{Kind: KindConflict, Message: "rental agreement has already ended"}
)

func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Forbiddenf(format string, args ...any) *Error {
	return &Error{Kind: KindAuthorization, Message: fmt.Sprintf(format, args...)}
}

func InvalidArgumentf(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// Timeout wraps a cause that exceeded the operation's time bound.
func Timeout(msg string, err error) *Error {
	return &Error{Kind: KindTimeout, Message: msg, Err: err}
}

// Internal wraps an unexpected storage or infrastructure failure.
func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf classifies any error. Untyped errors are INTERNAL unless they are a
// context deadline.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindInternal
}

// MessageOf returns the caller-safe message for err.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "operation timed out"
	}
	return "internal error"
}
