// Package rsherr defines the error taxonomy used throughout the rush
// expression engine: every failure the evaluator can produce carries a Kind
// plus a human-readable message, and may wrap an earlier error to form a
// cause chain.
package rsherr

import (
	"errors"
	"fmt"
)

// Kind classifies a rush error by the phase of evaluation that produced it.
type Kind int

const (
	// Parse covers lexing/parsing failures: empty input, non-UTF8, invalid
	// syntax, excess trailing text, unexpected end of input.
	Parse Kind = iota

	// TypeMismatch covers wrong operand or argument types for an operator
	// or function.
	TypeMismatch

	// ValueError covers out-of-range indices, missing object keys, invalid
	// character ordinals, bad regexes, bad format strings, arity mismatches
	// on user-supplied callbacks.
	ValueError

	// Conversion covers a string that doesn't parse as the requested type.
	Conversion

	// IO covers failures reported by the driver, never by the core.
	IO
)

func (k Kind) String() string {
	switch k {
	case Parse:
		return "parse error"
	case TypeMismatch:
		return "type mismatch"
	case ValueError:
		return "value error"
	case Conversion:
		return "conversion error"
	case IO:
		return "I/O error"
	default:
		panic(fmt.Sprintf("unknown error kind: %d", k))
	}
}

// Error is a rush error: it carries a Kind, a message describing what went
// wrong, and optionally wraps a prior error to form a cause chain.
type Error struct {
	kind Kind
	msg  string
	wrap error
}

func (e *Error) Error() string {
	return e.msg
}

// Kind returns the classification of the error.
func (e *Error) Kind() Kind {
	return e.kind
}

// Unwrap gives the error that e wraps, if any.
func (e *Error) Unwrap() error {
	return e.wrap
}

// New returns a new Error of the given kind with a literal message.
func New(kind Kind, msg string) error {
	return &Error{kind: kind, msg: msg}
}

// Newf returns a new Error of the given kind, with a message built from a
// format string and arguments.
func Newf(kind Kind, format string, a ...interface{}) error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, a...)}
}

// Wrap returns a new Error of the given kind with a literal message that
// wraps a prior error for the cause chain.
func Wrap(cause error, kind Kind, msg string) error {
	return &Error{kind: kind, msg: msg, wrap: cause}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(cause error, kind Kind, format string, a ...interface{}) error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, a...), wrap: cause}
}

// KindOf returns the Kind of err if it is (or wraps down to) an *Error, and
// false otherwise.
func KindOf(err error) (Kind, bool) {
	var rerr *Error
	if !errors.As(err, &rerr) {
		return 0, false
	}
	return rerr.kind, true
}

// CauseChain renders err and every error it wraps, one per line, each cause
// on its own line behind a fixed "  caused by: " prefix, for display to an
// operator.
func CauseChain(err error) string {
	msg := err.Error()
	type unwrapper interface{ Unwrap() error }
	for {
		u, ok := err.(unwrapper)
		if !ok {
			break
		}
		cause := u.Unwrap()
		if cause == nil {
			break
		}
		msg += "\n  caused by: " + cause.Error()
		err = cause
	}
	return msg
}
