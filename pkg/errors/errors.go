// Package errors gives every failure in electoral a machine-readable code.
//
// Codes let callers branch without string matching: the HTTP server maps
// them to status codes and the TUI drops STALE selections. Both show
// [UserMessage] to users instead of the full chain.
//
//	ds, err := src.Load(ctx, year)
//	if errors.Is(err, errors.ErrCodeNotFound) {
//	    return nil, errors.New(errors.ErrCodeNotFound, "no results for %d", year)
//	}
//
// The package also holds the validators for user input (years, state
// abbreviations, chart names, URLs); see validation.go.
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error category.
type Code string

const (
	// Input and dataset validation; the server answers 422.
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidRecord  Code = "INVALID_RECORD"
	ErrCodeInvalidYear    Code = "INVALID_YEAR"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidChart   Code = "INVALID_CHART"
	ErrCodeUnknownState   Code = "UNKNOWN_STATE"
	ErrCodeDuplicateState Code = "DUPLICATE_STATE"

	ErrCodeNotFound Code = "NOT_FOUND"
	ErrCodeNetwork  Code = "NETWORK_ERROR"
	ErrCodeTimeout  Code = "TIMEOUT"

	// ErrCodeStale marks a year selection superseded by a newer one.
	ErrCodeStale Code = "STALE"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

var invalidCodes = map[Code]bool{
	ErrCodeInvalidInput:   true,
	ErrCodeInvalidRecord:  true,
	ErrCodeInvalidYear:    true,
	ErrCodeInvalidFormat:  true,
	ErrCodeInvalidChart:   true,
	ErrCodeUnknownState:   true,
	ErrCodeDuplicateState: true,
}

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an error with code and a formatted message that wraps cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// Is reports whether any coded error in err's chain has code.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode returns the code of the outermost coded error in err's chain, or
// "" when there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of the outermost coded error, without the
// code or the cause. Other errors are returned as their Error string.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsInvalid reports whether err's outermost code is a validation code.
func IsInvalid(err error) bool {
	return invalidCodes[GetCode(err)]
}
