package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Store errors
	ErrKeyConflict ErrorCode = "KEY_CONFLICT"
	ErrKeyNotFound ErrorCode = "KEY_NOT_FOUND"
	ErrIOFailure   ErrorCode = "IO_FAILURE"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"
)

// M8Error represents a structured error with code and details
type M8Error struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *M8Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *M8Error) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *M8Error) Is(target error) bool {
	var targetErr *M8Error
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new M8Error with the given code and message
func New(code ErrorCode, message string) *M8Error {
	return &M8Error{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new M8Error with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *M8Error {
	return &M8Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an M8Error
func Wrap(err error, code ErrorCode, message string) *M8Error {
	if err == nil {
		return nil
	}
	return &M8Error{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *M8Error {
	if err == nil {
		return nil
	}
	return &M8Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *M8Error) WithDetail(key string, value interface{}) *M8Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *M8Error) WithDetails(details map[string]interface{}) *M8Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var m8Err *M8Error
	if errors.As(err, &m8Err) {
		return m8Err.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an M8Error
func GetErrorCode(err error) ErrorCode {
	var m8Err *M8Error
	if errors.As(err, &m8Err) {
		return m8Err.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not an M8Error
func GetErrorDetails(err error) map[string]interface{} {
	var m8Err *M8Error
	if errors.As(err, &m8Err) {
		return m8Err.Details
	}
	return nil
}

// UserMessage returns the human-readable message of an error without its code.
// Front-ends display this text as-is. Wrapped causes are appended so IO failures
// keep their underlying reason.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var m8Err *M8Error
	if errors.As(err, &m8Err) {
		if m8Err.Wrapped != nil {
			return m8Err.Message + ": " + UserMessage(m8Err.Wrapped)
		}
		return m8Err.Message
	}
	return err.Error()
}
