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
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"
	ErrPermission    ErrorCode = "PERMISSION"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Descriptor errors
	ErrDescriptorRead  ErrorCode = "DESCRIPTOR_READ"
	ErrDescriptorParse ErrorCode = "DESCRIPTOR_PARSE"

	// Pack errors
	ErrPackNotFound ErrorCode = "PACK_NOT_FOUND"
	ErrPackInvalid  ErrorCode = "PACK_INVALID"
	ErrPayloadOpen  ErrorCode = "PAYLOAD_OPEN"

	// Unpacking errors
	ErrDirCreate     ErrorCode = "DIR_CREATE"
	ErrStreamCorrupt ErrorCode = "STREAM_CORRUPT"
	ErrRenameMap     ErrorCode = "RENAME_MAP"
	ErrRename        ErrorCode = "RENAME"
	ErrListener      ErrorCode = "LISTENER"
	ErrInterrupted   ErrorCode = "INTERRUPTED"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrFileCreate   ErrorCode = "FILE_CREATE"
	ErrFileWrite    ErrorCode = "FILE_WRITE"

	// Post-install errors
	ErrQueueCommit ErrorCode = "QUEUE_COMMIT"
	ErrUpdateCheck ErrorCode = "UPDATE_CHECK"
	ErrExecute     ErrorCode = "EXECUTE"
	ErrRecordRead  ErrorCode = "RECORD_READ"
	ErrRecordWrite ErrorCode = "RECORD_WRITE"
)

// PackdropError represents a structured error with code and details
type PackdropError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *PackdropError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *PackdropError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *PackdropError) Is(target error) bool {
	var targetErr *PackdropError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new PackdropError with the given code and message
func New(code ErrorCode, message string) *PackdropError {
	return &PackdropError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new PackdropError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *PackdropError {
	return &PackdropError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a PackdropError
func Wrap(err error, code ErrorCode, message string) *PackdropError {
	if err == nil {
		return nil
	}
	return &PackdropError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *PackdropError {
	if err == nil {
		return nil
	}
	return &PackdropError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *PackdropError) WithDetail(key string, value interface{}) *PackdropError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *PackdropError) WithDetails(details map[string]interface{}) *PackdropError {
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
	var pdErr *PackdropError
	if errors.As(err, &pdErr) {
		return pdErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a PackdropError
func GetErrorCode(err error) ErrorCode {
	var pdErr *PackdropError
	if errors.As(err, &pdErr) {
		return pdErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a PackdropError
func GetErrorDetails(err error) map[string]interface{} {
	var pdErr *PackdropError
	if errors.As(err, &pdErr) {
		return pdErr.Details
	}
	return nil
}