package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeLoad         ErrorType = "LOAD"
	ErrTypeTypeCoercion ErrorType = "TYPE_COERCION"
	ErrTypeWrite        ErrorType = "WRITE"
	ErrTypeConfig       ErrorType = "CONFIG"
)

// Sentinel causes for load failures that callers may want to match on
var (
	ErrEmptyInput      = stderrors.New("input has no header line")
	ErrMalformedHeader = stderrors.New("header has fewer than 4 identifier columns")
	ErrMissingParent   = stderrors.New("destination directory does not exist")
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewLoadError reports a missing, unreadable or structurally invalid input table
func NewLoadError(message string, cause error) *AppError {
	return NewAppError(ErrTypeLoad, message, cause)
}

// NewTypeCoercionError reports a cast failure on a row that already passed
// the drop step. It always means the input broke an upstream contract.
func NewTypeCoercionError(message string, cause error) *AppError {
	return NewAppError(ErrTypeTypeCoercion, message, cause)
}

// NewWriteError reports an output destination that cannot be written
func NewWriteError(message string, cause error) *AppError {
	return NewAppError(ErrTypeWrite, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// TypeOf returns the ErrorType of the first AppError in err's chain, or ""
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// IsLoadError reports whether err is or wraps a LOAD AppError
func IsLoadError(err error) bool {
	return TypeOf(err) == ErrTypeLoad
}

// IsTypeCoercionError reports whether err is or wraps a TYPE_COERCION AppError
func IsTypeCoercionError(err error) bool {
	return TypeOf(err) == ErrTypeTypeCoercion
}

// IsWriteError reports whether err is or wraps a WRITE AppError
func IsWriteError(err error) bool {
	return TypeOf(err) == ErrTypeWrite
}

// IsConfigError reports whether err is or wraps a CONFIG AppError
func IsConfigError(err error) bool {
	return TypeOf(err) == ErrTypeConfig
}
