package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new AppError with a formatted message
func Newf(code, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an error with additional context, keeping the code of an inner AppError
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// AsAppError finds the outermost AppError in the chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// IsFormat reports whether err is an unsupported or unparsable upload
func IsFormat(err error) bool {
	return GetCode(err) == CodeFormatError
}

// IsComputation reports whether err came from a statistic that cannot be computed on the data
func IsComputation(err error) bool {
	return GetCode(err) == CodeComputationError
}

// Predefined error codes
const (
	CodeConfigInvalid    = "CONFIG_INVALID"
	CodeValidationError  = "VALIDATION_ERROR"
	CodeInternalError    = "INTERNAL_ERROR"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeFormatError      = "FORMAT_ERROR"
	CodeComputationError = "COMPUTATION_ERROR"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func ValidationError(message string) *AppError {
	return New(CodeValidationError, message)
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

// FormatError reports an upload that is unsupported or cannot be parsed
func FormatError(message string) *AppError {
	return New(CodeFormatError, message)
}

// FormatErrorf is FormatError with a cause attached
func FormatErrorf(cause error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    CodeFormatError,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// ComputationError reports a statistic that is undefined for the given data
func ComputationError(message string) *AppError {
	return New(CodeComputationError, message)
}

func ComputationErrorf(format string, args ...interface{}) *AppError {
	return Newf(CodeComputationError, format, args...)
}
