// Package apperr classifies the failures a run can end with.
package apperr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind is the class of a run failure.
type Kind int

const (
	// Unknown is returned by KindOf for errors not built by this package.
	Unknown Kind = iota
	// Config errors are detected before any read is processed.
	Config
	// Resource errors come from opening inputs, the output folder or a sink.
	Resource
	// Record errors concern a single read and are recoverable.
	Record
	// Write errors come from appending to or closing a sink.
	Write
)

func (k Kind) String() string {
	switch k {
	case Config:
		return "configuration error"
	case Resource:
		return "resource error"
	case Record:
		return "record error"
	case Write:
		return "write failure"
	default:
		return "error"
	}
}

// Error is a classified failure. Op names the step that failed.
type Error struct {
	Kind Kind
	Op   string
	Err  error

	// Help is extra text shown to the user, e.g. the barcode table format.
	Help string
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Cause lets errors.Cause walk past the classification.
func (e *Error) Cause() error { return e.Err }

func newf(k Kind, op, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Op: op, Err: errors.Errorf(format, args...)}
}

// Configf returns a Config error.
func Configf(op, format string, args ...interface{}) *Error {
	return newf(Config, op, format, args...)
}

// Resourcef returns a Resource error.
func Resourcef(op, format string, args ...interface{}) *Error {
	return newf(Resource, op, format, args...)
}

// Wrap classifies err. A nil err gives nil.
func Wrap(k Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: k, Op: op, Err: err}
}

// WithHelp attaches help text to e and returns it.
func (e *Error) WithHelp(help string) *Error {
	e.Help = help
	return e
}

// KindOf reports the kind of the outermost classified error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// HelpOf returns the help text attached anywhere in err's chain.
func HelpOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Help
	}
	return ""
}
