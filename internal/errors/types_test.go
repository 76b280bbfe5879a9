package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorType_String(t *testing.T) {
	tests := []struct {
		name      string
		errorType ErrorType
		expected  string
	}{
		{"Validation", ErrorTypeValidation, "validation"},
		{"State", ErrorTypeState, "state"},
		{"Persistence", ErrorTypePersistence, "persistence"},
		{"LocalStorage", ErrorTypeLocalStorage, "local_storage"},
		{"NotFound", ErrorTypeNotFound, "not_found"},
		{"InvalidInput", ErrorTypeInvalidInput, "invalid_input"},
		{"Timeout", ErrorTypeTimeout, "timeout"},
		{"Unknown", ErrorType(999), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.errorType.String()
			if result != tt.expected {
				t.Errorf("ErrorType.String() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		expected string
	}{
		{
			name: "Error without cause",
			appError: &AppError{
				Type:    ErrorTypeState,
				Message: "work has already started",
			},
			expected: "state: work has already started",
		},
		{
			name: "Error with cause",
			appError: &AppError{
				Type:    ErrorTypePersistence,
				Message: "update work log",
				Cause:   errors.New("503"),
			},
			expected: "persistence: update work log (caused by: 503)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.appError.Error()
			if result != tt.expected {
				t.Errorf("AppError.Error() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	appErr := NewPersistenceError("update work log", cause)

	if !errors.Is(appErr, cause) {
		t.Errorf("errors.Is should find the wrapped cause")
	}
}

func TestAppError_IsSentinel(t *testing.T) {
	err := NewStateError(CodeAlreadyStarted, "work has already started")
	wrapped := fmt.Errorf("start: %w", err)

	if !errors.Is(wrapped, ErrAlreadyStarted) {
		t.Errorf("errors.Is should match ErrAlreadyStarted through wrapping")
	}
	if errors.Is(wrapped, ErrAlreadyEnded) {
		t.Errorf("errors.Is should not match a different state code")
	}
	if errors.Is(NewValidationError("x", nil), ErrNotStarted) {
		t.Errorf("errors.Is should not match across error types")
	}
}

func TestAppError_Context(t *testing.T) {
	appErr := &AppError{Type: ErrorTypePersistence}

	if _, ok := appErr.GetContext("status"); ok {
		t.Errorf("GetContext should report missing key on empty context")
	}

	appErr.WithContext("status", 503).WithContext("work_log_id", "wl-1")

	status, ok := appErr.GetContext("status")
	if !ok || status != 503 {
		t.Errorf("GetContext(status) = %v, %v, want 503, true", status, ok)
	}
	id, ok := appErr.GetContext("work_log_id")
	if !ok || id != "wl-1" {
		t.Errorf("GetContext(work_log_id) = %v, %v, want wl-1, true", id, ok)
	}
}

func TestAppError_IsType(t *testing.T) {
	appErr := &AppError{Type: ErrorTypeLocalStorage}

	if !appErr.IsType(ErrorTypeLocalStorage) {
		t.Errorf("IsType should return true for matching type")
	}
	if appErr.IsType(ErrorTypePersistence) {
		t.Errorf("IsType should return false for a different type")
	}
}
