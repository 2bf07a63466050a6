// Package errors provides categorized CLI errors with remediation steps.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory classifies a CLI error for display.
type ErrorCategory int

const (
	// Argument errors come from bad flags or positional arguments.
	Argument ErrorCategory = iota
	// Configuration errors come from config files or environment values.
	Configuration
	// Prerequisite errors mean something the command needs is missing.
	Prerequisite
	// Runtime errors happen while the command is running.
	Runtime
)

func (c ErrorCategory) String() string {
	switch c {
	case Argument:
		return "Argument Error"
	case Configuration:
		return "Configuration Error"
	case Prerequisite:
		return "Prerequisite Error"
	case Runtime:
		return "Runtime Error"
	default:
		return "Error"
	}
}

// CLIError is an error with a category, optional usage line and the steps a
// user can take to fix it.
type CLIError struct {
	Category    ErrorCategory
	Message     string
	Usage       string
	Remediation []string
	cause       error
}

func (e *CLIError) Error() string {
	return e.Message
}

// Unwrap returns the wrapped cause, if any.
func (e *CLIError) Unwrap() error {
	return e.cause
}

func newError(cat ErrorCategory, msg string, remediation []string) *CLIError {
	return &CLIError{Category: cat, Message: msg, Remediation: remediation}
}

func NewArgumentError(msg string, remediation ...string) *CLIError {
	return newError(Argument, msg, remediation)
}

func NewArgumentErrorWithUsage(msg, usage string, remediation ...string) *CLIError {
	err := newError(Argument, msg, remediation)
	err.Usage = usage
	return err
}

func NewConfigError(msg string, remediation ...string) *CLIError {
	return newError(Configuration, msg, remediation)
}

func NewPrerequisiteError(msg string, remediation ...string) *CLIError {
	return newError(Prerequisite, msg, remediation)
}

func NewRuntimeError(msg string, remediation ...string) *CLIError {
	return newError(Runtime, msg, remediation)
}

// Wrap converts err into a CLIError of the given category. Returns nil for a
// nil error.
func Wrap(err error, cat ErrorCategory, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	wrapped := newError(cat, err.Error(), remediation)
	wrapped.cause = err
	return wrapped
}

// WrapWithMessage is Wrap with a "msg: err" message.
func WrapWithMessage(err error, cat ErrorCategory, msg string, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	wrapped := newError(cat, fmt.Sprintf("%s: %s", msg, err.Error()), remediation)
	wrapped.cause = err
	return wrapped
}

// AsCLIError returns the first CLIError in err's chain, or nil.
func AsCLIError(err error) *CLIError {
	var cliErr *CLIError
	if stderrors.As(err, &cliErr) {
		return cliErr
	}
	return nil
}
