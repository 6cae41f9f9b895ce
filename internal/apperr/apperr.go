// Package apperr defines the application error type used for user-facing
// failures.
package apperr

import "fmt"

// Error is a user-facing error with an optional underlying cause.
type Error struct {
	Cause   error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Fmt returns a copy of the error with its message treated as a format
// string.
func (e *Error) Fmt(args ...any) *Error {
	return &Error{
		Cause:   e.Cause,
		Message: fmt.Sprintf(e.Message, args...),
	}
}

// Wrap returns a copy of the error carrying an underlying cause.
func (e *Error) Wrap(cause error) *Error {
	return &Error{
		Cause:   cause,
		Message: e.Message,
	}
}
