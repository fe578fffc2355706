package errors

import (
	"errors"
	"fmt"
)

// Exit codes for browser-conf
const (
	ExitSuccess         = 0
	ExitGeneralError    = 1
	ExitValidationError = 2
	ExitResourceError   = 3
	ExitWriteError      = 4
	ExitConfigError     = 5
)

// Kind classifies an Error for callers that branch on failure category.
type Kind string

const (
	KindGeneral    Kind = "general"
	KindValidation Kind = "validation"
	KindResource   Kind = "resource"
	KindWrite      Kind = "write"
	KindConfig     Kind = "config"
)

// Error is the base error type for browser-conf
type Error struct {
	Code    int
	Kind    Kind
	Path    string // offending key path for validation errors, file path otherwise
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for this error
func (e *Error) ExitCode() int {
	return e.Code
}

// New creates a new Error
func New(code int, message string) *Error {
	return &Error{
		Code:    code,
		Kind:    kindForCode(code),
		Message: message,
	}
}

// Wrap wraps an existing error with an Error
func Wrap(code int, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Kind:    kindForCode(code),
		Message: message,
		Cause:   cause,
	}
}

func kindForCode(code int) Kind {
	switch code {
	case ExitValidationError:
		return KindValidation
	case ExitResourceError:
		return KindResource
	case ExitWriteError:
		return KindWrite
	case ExitConfigError:
		return KindConfig
	default:
		return KindGeneral
	}
}

// Common error constructors

// ValidationError returns an error for malformed or contradictory input at the given key path.
func ValidationError(path, format string, args ...any) *Error {
	return &Error{
		Code:    ExitValidationError,
		Kind:    KindValidation,
		Path:    path,
		Message: fmt.Sprintf(format, args...),
	}
}

// ResourceError returns an error for a missing directory or unreadable input file.
func ResourceError(path, message string, cause error) *Error {
	return &Error{
		Code:    ExitResourceError,
		Kind:    KindResource,
		Path:    path,
		Message: message,
		Cause:   cause,
	}
}

// WriteError returns an error for a failed output write.
func WriteError(path string, cause error) *Error {
	return &Error{
		Code:    ExitWriteError,
		Kind:    KindWrite,
		Path:    path,
		Message: "failed to write output",
		Cause:   cause,
	}
}

// ConfigError returns an error for an unreadable or unparsable configuration document.
func ConfigError(message string, cause error) *Error {
	return Wrap(ExitConfigError, message, cause)
}

// IsKind reports whether err carries an Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// GetExitCode extracts the exit code from an error
func GetExitCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.ExitCode()
	}
	return ExitGeneralError
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
