package validation

import (
	"time"
	"unicode/utf8"

	"worklog/internal/config"
)

// Validator provides common validation utilities
type Validator struct {
	config *config.ValidationConfig
}

// NewValidator creates a new validator instance using default limits
func NewValidator() *Validator {
	return &Validator{}
}

// NewValidatorWithConfig creates a new validator instance with configuration
func NewValidatorWithConfig(cfg config.ValidationConfig) *Validator {
	return &Validator{config: &cfg}
}

// IsValidMemoLength checks the memo length in characters against the configured limit
func (v *Validator) IsValidMemoLength(memo string) bool {
	return utf8.RuneCountInString(memo) <= v.MemoMaxLength()
}

// IsValidTimeRange checks if start time is strictly before end time
func (v *Validator) IsValidTimeRange(startTime time.Time, endTime *time.Time) bool {
	if endTime == nil {
		return true // Still running
	}
	return startTime.Before(*endTime)
}

// IsValidDuration checks that a duration does not exceed the configured maximum
func (v *Validator) IsValidDuration(duration time.Duration) bool {
	return duration <= v.MaxDuration()
}

// IsInFuture reports whether t is strictly after now
func (v *Validator) IsInFuture(t, now time.Time) bool {
	return t.After(now)
}

// IsTooOld reports whether t is before the start of the retention window
func (v *Validator) IsTooOld(t, now time.Time) bool {
	return t.Before(now.Add(-v.RetentionWindow()))
}

// RetentionWindow returns configured retention window or default
func (v *Validator) RetentionWindow() time.Duration {
	if v.config != nil {
		return v.config.RetentionWindow
	}
	return 30 * 24 * time.Hour
}

// MaxDuration returns configured maximum duration or default
func (v *Validator) MaxDuration() time.Duration {
	if v.config != nil {
		return v.config.MaxDuration
	}
	return 24 * time.Hour
}

// MemoMaxLength returns configured maximum memo length or default
func (v *Validator) MemoMaxLength() int {
	if v.config != nil {
		return v.config.MemoMaxLength
	}
	return 2000
}
