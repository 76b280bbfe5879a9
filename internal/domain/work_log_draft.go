package domain

import (
	"time"
)

// WorkLogDraft is the in-progress work log being edited in a session.
// Dirty and saving flags are tracked by the autosave coordinator, not here.
type WorkLogDraft struct {
	ProjectID           string
	WorkLogID           string
	StartTime           *time.Time
	EndTime             *time.Time
	BreakTime           time.Duration
	Memo                string
	LastModifiedLocally time.Time
}

// NewWorkLogDraft creates an empty draft for the given project.
func NewWorkLogDraft(projectID string) WorkLogDraft {
	return WorkLogDraft{ProjectID: projectID}
}

// IsStarted returns true once a start time is set.
func (d WorkLogDraft) IsStarted() bool {
	return d.StartTime != nil
}

// IsEnded returns true once an end time is set.
func (d WorkLogDraft) IsEnded() bool {
	return d.EndTime != nil
}

// IsRunning returns true if work has started but not ended.
func (d WorkLogDraft) IsRunning() bool {
	return d.IsStarted() && !d.IsEnded()
}

// HasRemoteRecord returns true once the backend has assigned an ID.
func (d WorkLogDraft) HasRemoteRecord() bool {
	return d.WorkLogID != ""
}

// Elapsed returns the time between start and end, or between start and now
// while running. It is zero before the draft is started.
func (d WorkLogDraft) Elapsed(now time.Time) time.Duration {
	if d.StartTime == nil {
		return 0
	}
	end := now
	if d.EndTime != nil {
		end = *d.EndTime
	}
	if end.Before(*d.StartTime) {
		return 0
	}
	return end.Sub(*d.StartTime)
}

// NetWorkTime returns elapsed time minus breaks, clamped at zero.
func (d WorkLogDraft) NetWorkTime(now time.Time) time.Duration {
	net := d.Elapsed(now) - d.BreakTime
	if net < 0 {
		return 0
	}
	return net
}

// Clone returns a deep copy so callers can't mutate shared time pointers.
func (d WorkLogDraft) Clone() WorkLogDraft {
	c := d
	if d.StartTime != nil {
		t := *d.StartTime
		c.StartTime = &t
	}
	if d.EndTime != nil {
		t := *d.EndTime
		c.EndTime = &t
	}
	return c
}
