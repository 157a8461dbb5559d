package errors

import (
	"errors"
	"fmt"
)

// Code classifies an error for transport mapping
type Code string

// Codes the engine produces
const (
	CodeInvalidArgument    Code = "INVALID_ARGUMENT"
	CodeNotFound           Code = "NOT_FOUND"
	CodeAlreadyExists      Code = "ALREADY_EXISTS"
	CodeFailedPrecondition Code = "FAILED_PRECONDITION"
	CodeAborted            Code = "ABORTED"
	CodeInternal           Code = "INTERNAL"
	CodeUnavailable        Code = "UNAVAILABLE"
)

func (c Code) String() string {
	return string(c)
}

// Error is the engine's structured error
type Error struct {
	Code    Code           `json:"code"`
	Reason  Reason         `json:"reason,omitempty"`
	Message string         `json:"message"`
	Meta    map[string]any `json:"meta,omitempty"`
	Cause   error          `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// WithReason sets the reason and returns e
func (e *Error) WithReason(reason Reason) *Error {
	e.Reason = reason
	return e
}

// WithMeta records one metadata entry and returns e
func (e *Error) WithMeta(key string, value any) *Error {
	if e.Meta == nil {
		e.Meta = make(map[string]any, 1)
	}
	e.Meta[key] = value
	return e
}

func newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// InvalidArgument reports bad caller input
func InvalidArgument(msg string) *Error { return &Error{Code: CodeInvalidArgument, Message: msg} }

// InvalidArgumentf is InvalidArgument with formatting
func InvalidArgumentf(format string, args ...any) *Error {
	return newf(CodeInvalidArgument, format, args...)
}

// NotFoundf reports a missing record
func NotFoundf(format string, args ...any) *Error { return newf(CodeNotFound, format, args...) }

// AlreadyExistsf reports a create on a taken key
func AlreadyExistsf(format string, args ...any) *Error {
	return newf(CodeAlreadyExists, format, args...)
}

// FailedPreconditionf reports an operation the current state does not allow
func FailedPreconditionf(format string, args ...any) *Error {
	return newf(CodeFailedPrecondition, format, args...)
}

// Abortedf reports a write that lost a race
func Abortedf(format string, args ...any) *Error { return newf(CodeAborted, format, args...) }

// Internalf reports a server fault
func Internalf(format string, args ...any) *Error { return newf(CodeInternal, format, args...) }

// Wrap adds context to err. An *Error anywhere in the chain lends its code,
// reason and metadata; otherwise the result is CodeInternal. Nil stays nil.
func Wrap(err error, msg string) *Error {
	if err == nil {
		return nil
	}
	wrapped := &Error{Code: CodeInternal, Message: msg, Cause: err}
	var inner *Error
	if errors.As(err, &inner) {
		wrapped.Code = inner.Code
		wrapped.Reason = inner.Reason
		wrapped.Meta = inner.Meta
	}
	return wrapped
}

// Wrapf is Wrap with formatting
func Wrapf(err error, format string, args ...any) *Error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// recode wraps err under a new code. The cause's metadata is copied, its
// reason is not.
func recode(err error, code Code, format string, args ...any) *Error {
	e := newf(code, format, args...)
	e.Cause = err
	var inner *Error
	if errors.As(err, &inner) {
		for k, v := range inner.Meta {
			e.WithMeta(k, v)
		}
	}
	return e
}
