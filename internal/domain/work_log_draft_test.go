package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var base = time.Date(2026, 3, 31, 9, 0, 0, 0, time.UTC)

func at(offset time.Duration) *time.Time {
	t := base.Add(offset)
	return &t
}

func TestNewWorkLogDraft(t *testing.T) {
	result := NewWorkLogDraft("p1")

	assert.Equal(t, "p1", result.ProjectID)
	assert.Empty(t, result.WorkLogID)
	assert.Nil(t, result.StartTime)
	assert.Nil(t, result.EndTime)
	assert.Zero(t, result.BreakTime)
	assert.False(t, result.IsStarted())
	assert.False(t, result.HasRemoteRecord())
}

func TestWorkLogDraft_States(t *testing.T) {
	tests := []struct {
		name    string
		draft   WorkLogDraft
		started bool
		ended   bool
		running bool
	}{
		{"empty", WorkLogDraft{}, false, false, false},
		{"running", WorkLogDraft{StartTime: at(0)}, true, false, true},
		{"ended", WorkLogDraft{StartTime: at(0), EndTime: at(time.Hour)}, true, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.started, tt.draft.IsStarted())
			assert.Equal(t, tt.ended, tt.draft.IsEnded())
			assert.Equal(t, tt.running, tt.draft.IsRunning())
		})
	}
}

func TestWorkLogDraft_NetWorkTime(t *testing.T) {
	now := base.Add(3 * time.Hour)

	tests := []struct {
		name     string
		draft    WorkLogDraft
		elapsed  time.Duration
		expected time.Duration
	}{
		{"not started", WorkLogDraft{BreakTime: time.Hour}, 0, 0},
		{"running uses now", WorkLogDraft{StartTime: at(0), BreakTime: 30 * time.Minute}, 3 * time.Hour, 150 * time.Minute},
		{"ended uses end", WorkLogDraft{StartTime: at(0), EndTime: at(time.Hour)}, time.Hour, time.Hour},
		{"break larger than elapsed clamps", WorkLogDraft{StartTime: at(0), EndTime: at(time.Hour), BreakTime: 2 * time.Hour}, time.Hour, 0},
		{"end before start", WorkLogDraft{StartTime: at(time.Hour), EndTime: at(0)}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.elapsed, tt.draft.Elapsed(now))
			assert.Equal(t, tt.expected, tt.draft.NetWorkTime(now))
		})
	}
}

func TestWorkLogDraft_Clone(t *testing.T) {
	original := WorkLogDraft{ProjectID: "p1", StartTime: at(0), EndTime: at(time.Hour)}
	clone := original.Clone()

	*clone.StartTime = base.Add(time.Minute)
	*clone.EndTime = base.Add(2 * time.Hour)

	assert.Equal(t, base, *original.StartTime)
	assert.Equal(t, base.Add(time.Hour), *original.EndTime)
}

func TestProject_DisplayName(t *testing.T) {
	assert.Equal(t, "Site renewal", Project{Title: "Site renewal"}.DisplayName())
	assert.Equal(t, "Acme / Site renewal", Project{Title: "Site renewal", CompanyName: "Acme"}.DisplayName())
}
