package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "worklog/internal/errors"
	"worklog/internal/validation"
)

func TestErrorHandler_Handle(t *testing.T) {
	eh := NewErrorHandler()

	violation := validation.NewValidationError()
	violation.AddError("end_time", validation.ErrorTypeEndBeforeStart, "end time must be after start time", nil)

	tests := []struct {
		name      string
		operation string
		err       error
		expected  string
	}{
		{
			name:      "Validation error",
			operation: "edit time",
			err:       violation,
			expected:  "failed to edit time: end time must be after start time",
		},
		{
			name:      "Not found error",
			operation: "open session",
			err:       apperrors.NewNotFoundError("project", "p9"),
			expected:  "failed to open session: project not found: p9",
		},
		{
			name:      "Persistence error",
			operation: "save",
			err:       apperrors.NewPersistenceError("update work log", errors.New("503")),
			expected:  "failed to save: Saving to the server failed. Your changes are kept locally.",
		},
		{
			name:      "Regular error",
			operation: "process",
			err:       errors.New("regular error"),
			expected:  "failed to process: regular error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.EqualError(t, eh.Handle(tt.operation, tt.err), tt.expected)
		})
	}
}

func TestErrorHandler_Message(t *testing.T) {
	eh := NewErrorHandler()

	assert.Equal(t, "work has not started", eh.Message(apperrors.NewStateError(apperrors.CodeNotStarted, "work has not started")))
	assert.Equal(t, "plain", eh.Message(errors.New("plain")))
}

func TestErrorHandler_Classification(t *testing.T) {
	eh := NewErrorHandler()

	assert.True(t, eh.IsValidationError(validation.NewValidationError()))
	assert.True(t, eh.IsValidationError(apperrors.NewValidationError("bad", nil)))
	assert.True(t, eh.IsNotFoundError(apperrors.NewNotFoundError("project", "x")))
	assert.True(t, eh.IsPersistenceError(apperrors.NewPersistenceError("create work log", nil)))
	assert.False(t, eh.IsPersistenceError(errors.New("other")))
	assert.Equal(t, "NOT_FOUND", eh.GetErrorCode(apperrors.NewNotFoundError("project", "x")))
}
