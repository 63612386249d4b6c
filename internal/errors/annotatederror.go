// Package errors provides error annotation with structured logging attributes.
//
// It re-exports the standard library helpers so that callers never need to
// import both this package and the stdlib errors package.
package errors

import (
	"errors"
	"fmt"
	"log/slog"
)

// annotatedError carries a message, optional slog attributes, and the wrapped
// cause. The attributes surface in logs through SlogError.
type annotatedError struct {
	msg   string
	attrs []slog.Attr
	cause error
}

func (e *annotatedError) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return e.msg + ": " + e.cause.Error()
}

func (e *annotatedError) Unwrap() error {
	return e.cause
}

// NewSentinel creates a sentinel error that can be matched with Is.
func NewSentinel(msg string) error {
	return &annotatedError{msg: msg, attrs: nil, cause: nil}
}

// Wrap annotates err with a message and optional slog attributes.
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	return &annotatedError{msg: msg, attrs: attrs, cause: err}
}

// DecoratePanic converts a recovered panic value into an error so that it
// can be logged through SlogError.
func DecoratePanic(recovered any) error {
	return &annotatedError{msg: "panic", attrs: []slog.Attr{slog.Any("recovered", recovered)}, cause: fmt.Errorf("%v", recovered)}
}

// SlogError flattens the full error message and every attribute attached with
// Wrap along the chain into a single "error" group for logging.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.Group("error", slog.String("message", "<nil>"))
	}
	args := []any{slog.String("message", err.Error())}
	for e := err; e != nil; e = errors.Unwrap(e) {
		var annotated *annotatedError
		if ok := As(e, &annotated); !ok {
			break
		}
		for _, attr := range annotated.attrs {
			args = append(args, attr)
		}
		if annotated.cause == nil {
			break
		}
		e = annotated
	}
	return slog.Group("error", args...)
}

// New wraps [errors.New].
func New(msg string) error {
	return errors.New(msg)
}

// Is wraps [errors.Is].
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps [errors.As].
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Unwrap wraps [errors.Unwrap].
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// Join wraps [errors.Join].
func Join(errs ...error) error {
	return errors.Join(errs...)
}
