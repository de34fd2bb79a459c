package quote

import (
	"errors"
	"fmt"
)

// Wire error codes returned to clients. Business failures carry one of
// these in the response body; they are stable identifiers the frontend
// switches on, not display text.
const (
	CodeMissingURL       = "MISSING_URL"
	CodeInvalidURL       = "INVALID_URL"
	CodeTimeout          = "TIMEOUT"
	CodeNetwork          = "NETWORK"
	CodeUnreadablePage   = "UNREADABLE_PAGE"
	CodeServerError      = "SERVER_ERROR"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
)

// Error pairs a wire code with the underlying cause. The code travels to
// the client; the cause stays in the logs.
type Error struct {
	Code string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Code
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code string, err error) *Error {
	return &Error{Code: code, Err: err}
}

// CodeOf extracts the wire code from an error chain. Anything that is
// not a quote error is an internal failure.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	var qe *Error
	if errors.As(err, &qe) {
		return qe.Code
	}
	return CodeServerError
}
