package errors

import (
	"fmt"
	"strings"
)

// Error is the concrete engine error value: a Kind, a sentinel, optional
// free-form context, and an optional wrapped cause. Callers dispatch on
// Kind/sentinel with errors.Is; humans read Error() for the full chain.
type Error struct {
	Kind    Kind
	Err     error
	Context string
	cause   error
}

// New builds a fresh Error of the given Kind wrapping sentinel, with
// optional printf-style context.
func New(kind Kind, sentinel error, format string, args ...interface{}) *Error {
	e := &Error{Kind: kind, Err: sentinel}
	if format != "" {
		e.Context = fmt.Sprintf(format, args...)
	}
	return e
}

// Wrap attaches cause as the underlying reason for a new Error of the given
// Kind/sentinel. errors.Is/errors.As see only the sentinel (see Unwrap);
// the cause is reachable via Cause and is appended to Error()'s text.
func Wrap(kind Kind, sentinel error, cause error, format string, args ...interface{}) *Error {
	e := New(kind, sentinel, format, args...)
	e.cause = cause
	return e
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	if e.Context != "" {
		b.WriteString(" (")
		b.WriteString(e.Context)
		b.WriteString(")")
	}
	if e.cause != nil {
		b.WriteString(": ")
		b.WriteString(e.cause.Error())
	}
	return b.String()
}

// Unwrap exposes the sentinel for errors.Is/errors.As. The accumulated
// cause (if any) is reachable via Cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Cause returns the underlying error this Error was wrapped around, if any.
func (e *Error) Cause() error {
	return e.cause
}

// Chain accumulates multiple errors raised over the lifetime of a single
// execution (e.g. one per failed host-function call), generalizing the
// teacher's WrappableError/AddError accumulation pattern so a caller can log
// every failure encountered while still returning one terminal error.
type Chain struct {
	errs []error
}

// Add appends err to the chain. A nil err is a no-op, matching AddError's
// guard.
func (c *Chain) Add(err error) {
	if err == nil {
		return
	}
	c.errs = append(c.errs, err)
}

// Errors returns the accumulated errors in the order they were added.
func (c *Chain) Errors() []error {
	return c.errs
}

// IsEmpty reports whether no error has been accumulated.
func (c *Chain) IsEmpty() bool {
	return len(c.errs) == 0
}

// Error renders every accumulated error, joined with "; ", so a single log call
// can record the complete failure history of an execution.
func (c *Chain) Error() string {
	if len(c.errs) == 0 {
		return ""
	}
	parts := make([]string, len(c.errs))
	for i, e := range c.errs {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "; ")
}
