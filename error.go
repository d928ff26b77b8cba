package tosfetch

import (
	"errors"
	"fmt"
	"time"
)

// Application error codes.
const (
	EINVALIDURL        = "invalid_url"
	EUNSUPPORTEDSCHEME = "unsupported_scheme"
	EBLOCKED           = "blocked"
	EUNAUTHORIZED      = "unauthorized"
	ETIMEOUT           = "timeout"
	EUNREACHABLE       = "unreachable"
	EHTTP              = "http_error"
	ERENDERING         = "rendering_unavailable"
	EINSUFFICIENT      = "insufficient_content"
	EEXHAUSTED         = "exhausted"
	ECANCELED          = "canceled"
	EINTERNAL          = "internal"
)

// Error represents an application-specific error. Message is meant to be
// shown to end users verbatim.
type Error struct {
	Code    string
	Message string

	// Status is the HTTP status code for EHTTP, EBLOCKED and EUNAUTHORIZED.
	Status int

	// RetryAfter is the delay the server asked for with a Retry-After header.
	RetryAfter time.Duration

	// Attempts records every backend attempt made before EEXHAUSTED.
	Attempts []Attempt

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface. Not used by the application otherwise.
func (e *Error) Error() string {
	return fmt.Sprintf("tosfetch error: code=%s message=%s", e.Code, e.Message)
}

// Unwrap returns the underlying cause so errors.Is can see through it.
func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrapf is like Errorf but keeps err as the underlying cause.
func Wrapf(err error, code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error.".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// ErrorAttempts returns the backend attempts attached to an application error.
func ErrorAttempts(err error) []Attempt {
	var e *Error
	if errors.As(err, &e) {
		return e.Attempts
	}
	return nil
}
