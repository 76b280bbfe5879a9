package errors

import (
	"errors"
	"fmt"
)

// State error codes returned by session actions.
const (
	CodeAlreadyStarted     = "ALREADY_STARTED"
	CodeNotStarted         = "NOT_STARTED"
	CodeAlreadyEnded       = "ALREADY_ENDED"
	CodeAlreadyPaused      = "ALREADY_PAUSED"
	CodeNotPaused          = "NOT_PAUSED"
	CodeSessionClosed      = "SESSION_CLOSED"
	CodeSessionAlreadyOpen = "SESSION_ALREADY_OPEN"
)

// Sentinels for use with errors.Is. AppError.Is compares type and code only.
var (
	ErrAlreadyStarted     = &AppError{Type: ErrorTypeState, Code: CodeAlreadyStarted}
	ErrNotStarted         = &AppError{Type: ErrorTypeState, Code: CodeNotStarted}
	ErrAlreadyEnded       = &AppError{Type: ErrorTypeState, Code: CodeAlreadyEnded}
	ErrAlreadyPaused      = &AppError{Type: ErrorTypeState, Code: CodeAlreadyPaused}
	ErrNotPaused          = &AppError{Type: ErrorTypeState, Code: CodeNotPaused}
	ErrSessionClosed      = &AppError{Type: ErrorTypeState, Code: CodeSessionClosed}
	ErrSessionAlreadyOpen = &AppError{Type: ErrorTypeState, Code: CodeSessionAlreadyOpen}
)

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
		Code:    "VALIDATION_FAILED",
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewStateError creates an error for an action that is not allowed in the
// current session state. code is one of the Code* constants.
func NewStateError(code string, message string) *AppError {
	return &AppError{
		Type:    ErrorTypeState,
		Message: message,
		Code:    code,
		Context: make(map[string]interface{}),
	}
}

// NewPersistenceError creates a new remote persistence error
func NewPersistenceError(operation string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypePersistence,
		Message: fmt.Sprintf("remote operation failed: %s", operation),
		Code:    "PERSISTENCE_ERROR",
		Cause:   cause,
		Context: map[string]interface{}{
			"operation": operation,
		},
	}
}

// NewLocalStorageError creates a new local storage error
func NewLocalStorageError(operation string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeLocalStorage,
		Message: fmt.Sprintf("local storage operation failed: %s", operation),
		Code:    "LOCAL_STORAGE_ERROR",
		Cause:   cause,
		Context: map[string]interface{}{
			"operation": operation,
		},
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string, identifier string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, identifier),
		Code:    "NOT_FOUND",
		Context: map[string]interface{}{
			"resource":   resource,
			"identifier": identifier,
		},
	}
}

// NewInvalidInputError creates a new invalid input error
func NewInvalidInputError(field string, value interface{}, reason string) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidInput,
		Message: fmt.Sprintf("invalid input for %s: %s", field, reason),
		Code:    "INVALID_INPUT",
		Context: map[string]interface{}{
			"field":  field,
			"value":  value,
			"reason": reason,
		},
	}
}

// NewTimeoutError creates a new timeout error
func NewTimeoutError(operation string, timeout interface{}) *AppError {
	return &AppError{
		Type:    ErrorTypeTimeout,
		Message: fmt.Sprintf("operation timed out: %s", operation),
		Code:    "TIMEOUT",
		Context: map[string]interface{}{
			"operation": operation,
			"timeout":   timeout,
		},
	}
}

// WrapError wraps an existing error with additional context
func WrapError(err error, errorType ErrorType, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
		Code:    errorType.String(),
		Cause:   err,
		Context: make(map[string]interface{}),
	}
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsErrorType checks if the error is of the specified type
func IsErrorType(err error, errorType ErrorType) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.IsType(errorType)
	}
	return false
}

// GetUserMessage returns a user-friendly error message
func GetUserMessage(err error) string {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeValidation, ErrorTypeState, ErrorTypeNotFound, ErrorTypeInvalidInput:
			return appErr.Message
		case ErrorTypePersistence:
			return "Saving to the server failed. Your changes are kept locally."
		case ErrorTypeLocalStorage:
			return "Local backup is unavailable. Changes are still saved to the server."
		case ErrorTypeTimeout:
			return "The operation timed out. Please try again."
		default:
			return "An unexpected error occurred. Please try again."
		}
	}
	return err.Error()
}

// GetErrorCode returns the error code for the error
func GetErrorCode(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return "UNKNOWN_ERROR"
}

// ShouldLogError determines if an error should be logged based on its type
func ShouldLogError(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeValidation, ErrorTypeState, ErrorTypeNotFound, ErrorTypeInvalidInput:
			return false // These are user errors, not system errors
		default:
			return true
		}
	}
	return true // Unknown errors should be logged
}
