// Package errors carries the coded error type shared by the ledger, the
// record store and the CLI.
//
//	err := errors.Newf(errors.ErrCodeNotFound, "trade %q not found", id)
//	if errors.HasCode(err, errors.ErrCodeNotFound) { ... }
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies the class of an error.
type ErrorCode int

const (
	ErrCodeUnknown ErrorCode = 1

	// Input errors (100-199)
	ErrCodeValidation       ErrorCode = 100
	ErrCodeInvalidDirection ErrorCode = 101
	ErrCodeInvalidStatus    ErrorCode = 102
	ErrCodeConfig           ErrorCode = 103

	// Record store errors (200-299)
	ErrCodeNotFound ErrorCode = 200
	ErrCodeStorage  ErrorCode = 201
)

// Error is an error with a code, a message and an optional cause.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func New(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode returns the code of the first *Error in err's chain, or
// ErrCodeUnknown.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodeUnknown
}

func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}
