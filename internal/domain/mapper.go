package domain

import (
	"time"
)

// DraftSnapshot is the serialized form of a draft in the local backup.
// LastModified is stamped by the store at write time.
type DraftSnapshot struct {
	ProjectID           string     `json:"project_id"`
	WorkLogID           string     `json:"work_log_id,omitempty"`
	StartTime           *time.Time `json:"start_time,omitempty"`
	EndTime             *time.Time `json:"end_time,omitempty"`
	BreakSeconds        int64      `json:"break_seconds"`
	Memo                string     `json:"memo,omitempty"`
	LastModifiedLocally time.Time  `json:"last_modified_locally"`
	LastModified        time.Time  `json:"last_modified"`
}

// DraftMapper handles conversion between drafts and their local snapshots.
type DraftMapper struct{}

// NewDraftMapper creates a new DraftMapper instance.
func NewDraftMapper() *DraftMapper {
	return &DraftMapper{}
}

// ToSnapshot converts a draft to a snapshot stamped with lastModified.
func (m *DraftMapper) ToSnapshot(draft WorkLogDraft, lastModified time.Time) DraftSnapshot {
	d := draft.Clone()
	return DraftSnapshot{
		ProjectID:           d.ProjectID,
		WorkLogID:           d.WorkLogID,
		StartTime:           d.StartTime,
		EndTime:             d.EndTime,
		BreakSeconds:        int64(d.BreakTime / time.Second),
		Memo:                d.Memo,
		LastModifiedLocally: d.LastModifiedLocally,
		LastModified:        lastModified,
	}
}

// FromSnapshot converts a snapshot back to a draft.
func (m *DraftMapper) FromSnapshot(s DraftSnapshot) WorkLogDraft {
	d := WorkLogDraft{
		ProjectID:           s.ProjectID,
		WorkLogID:           s.WorkLogID,
		StartTime:           s.StartTime,
		EndTime:             s.EndTime,
		BreakTime:           time.Duration(s.BreakSeconds) * time.Second,
		Memo:                s.Memo,
		LastModifiedLocally: s.LastModifiedLocally,
	}
	return d.Clone()
}
