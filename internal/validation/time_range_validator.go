package validation

import (
	"fmt"
	"time"

	"worklog/internal/config"
)

// TimeRangeValidator checks candidate start/end pairs of a work log. Rules
// are evaluated in a fixed order and the first failing rule is reported.
type TimeRangeValidator struct {
	validator *Validator
	now       func() time.Time
}

// NewTimeRangeValidator creates a validator with default limits and the wall clock
func NewTimeRangeValidator() *TimeRangeValidator {
	return &TimeRangeValidator{
		validator: NewValidator(),
		now:       time.Now,
	}
}

// NewTimeRangeValidatorWithConfig creates a validator with configured limits.
// A nil now uses the wall clock.
func NewTimeRangeValidatorWithConfig(cfg config.ValidationConfig, now func() time.Time) *TimeRangeValidator {
	if now == nil {
		now = time.Now
	}
	return &TimeRangeValidator{
		validator: NewValidatorWithConfig(cfg),
		now:       now,
	}
}

// Validate checks a start time and optional end time:
//  1. end must be strictly after start
//  2. neither may be in the future
//  3. neither may be older than the retention window
//  4. end - start must not exceed the maximum duration
func (trv *TimeRangeValidator) Validate(startTime time.Time, endTime *time.Time) error {
	if startTime.IsZero() {
		ve := NewValidationError()
		ve.AddRequiredError("start_time")
		return ve
	}

	if !trv.validator.IsValidTimeRange(startTime, endTime) {
		return newViolation("end_time", ErrorTypeEndBeforeStart,
			"end time must be after start time", *endTime)
	}

	now := trv.now()

	if trv.validator.IsInFuture(startTime, now) {
		return newViolation("start_time", ErrorTypeFutureTime,
			"start time cannot be in the future", startTime)
	}
	if endTime != nil && trv.validator.IsInFuture(*endTime, now) {
		return newViolation("end_time", ErrorTypeFutureTime,
			"end time cannot be in the future", *endTime)
	}

	if trv.validator.IsTooOld(startTime, now) {
		return newViolation("start_time", ErrorTypeTooOld,
			fmt.Sprintf("start time cannot be older than %s", formatWindow(trv.validator.RetentionWindow())), startTime)
	}
	if endTime != nil && trv.validator.IsTooOld(*endTime, now) {
		return newViolation("end_time", ErrorTypeTooOld,
			fmt.Sprintf("end time cannot be older than %s", formatWindow(trv.validator.RetentionWindow())), *endTime)
	}

	if endTime != nil {
		duration := endTime.Sub(startTime)
		if !trv.validator.IsValidDuration(duration) {
			return newViolation("duration", ErrorTypeDurationTooLong,
				fmt.Sprintf("work cannot span more than %s", formatWindow(trv.validator.MaxDuration())), duration)
		}
	}

	return nil
}

// ValidateBreak checks a break duration against the elapsed time of the pair.
// The elapsed check only applies once both times are known.
func (trv *TimeRangeValidator) ValidateBreak(breakTime time.Duration, startTime, endTime *time.Time) error {
	if breakTime < 0 {
		return newViolation("break_time", ErrorTypeNegativeBreak,
			"break time cannot be negative", breakTime)
	}

	if startTime != nil && endTime != nil && breakTime > endTime.Sub(*startTime) {
		return newViolation("break_time", ErrorTypeBreakExceedsElapsed,
			"break time cannot exceed the time worked", breakTime)
	}

	return nil
}

// ValidateMemo checks the memo length
func (trv *TimeRangeValidator) ValidateMemo(memo string) error {
	if !trv.validator.IsValidMemoLength(memo) {
		ve := NewValidationError()
		ve.AddInvalidLengthError("memo", memo, trv.validator.MemoMaxLength())
		return ve
	}
	return nil
}

// formatWindow renders whole days as "30 days" and anything else as a duration
func formatWindow(d time.Duration) string {
	if d >= 24*time.Hour && d%(24*time.Hour) == 0 {
		days := int(d / (24 * time.Hour))
		if days == 1 {
			return "24 hours"
		}
		return fmt.Sprintf("%d days", days)
	}
	return d.String()
}
