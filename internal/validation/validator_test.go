package validation

import (
	"strings"
	"testing"
	"time"

	"worklog/internal/config"
)

func TestValidator_IsValidMemoLength(t *testing.T) {
	cfg := config.NewConfig().Validation
	cfg.MemoMaxLength = 5
	v := NewValidatorWithConfig(cfg)

	if !v.IsValidMemoLength("hello") {
		t.Error("5 characters should be accepted")
	}
	if v.IsValidMemoLength("hello!") {
		t.Error("6 characters should be rejected")
	}
	// Counted in characters, not bytes
	if !v.IsValidMemoLength("作業メモ") {
		t.Error("4 multi-byte characters should be accepted")
	}
	if !NewValidator().IsValidMemoLength(strings.Repeat("a", 2000)) {
		t.Error("default limit should allow 2000 characters")
	}
}

func TestValidator_IsValidTimeRange(t *testing.T) {
	v := NewValidator()
	now := time.Now()
	before := now.Add(-time.Hour)

	if !v.IsValidTimeRange(now, nil) {
		t.Error("open range should be valid")
	}
	if !v.IsValidTimeRange(before, &now) {
		t.Error("start before end should be valid")
	}
	if v.IsValidTimeRange(now, &now) {
		t.Error("equal start and end should be invalid")
	}
	if v.IsValidTimeRange(now, &before) {
		t.Error("end before start should be invalid")
	}
}

func TestValidator_Limits(t *testing.T) {
	v := NewValidator()
	if v.RetentionWindow() != 30*24*time.Hour {
		t.Errorf("RetentionWindow() = %v", v.RetentionWindow())
	}
	if v.MaxDuration() != 24*time.Hour {
		t.Errorf("MaxDuration() = %v", v.MaxDuration())
	}

	cfg := config.NewConfig().Validation
	cfg.MaxDuration = 12 * time.Hour
	v = NewValidatorWithConfig(cfg)
	if v.IsValidDuration(13 * time.Hour) {
		t.Error("13h should exceed a 12h limit")
	}
	if !v.IsValidDuration(12 * time.Hour) {
		t.Error("exactly the limit should be accepted")
	}
}

func TestValidator_Window(t *testing.T) {
	v := NewValidator()
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)

	if !v.IsInFuture(now.Add(time.Second), now) {
		t.Error("one second ahead should be in the future")
	}
	if v.IsInFuture(now, now) {
		t.Error("now should not be in the future")
	}
	if !v.IsTooOld(now.AddDate(0, 0, -31), now) {
		t.Error("31 days ago should be too old")
	}
	if v.IsTooOld(now.AddDate(0, 0, -30), now) {
		t.Error("exactly 30 days ago should be accepted")
	}
}
