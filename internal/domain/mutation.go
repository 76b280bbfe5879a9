package domain

import (
	"time"
)

// SavePolicy says how a mutation should reach the remote store. Every
// mutation is written to the local backup regardless of policy.
type SavePolicy int

const (
	SaveNone SavePolicy = iota
	SaveDebounced
	SaveImmediate
)

func (p SavePolicy) String() string {
	switch p {
	case SaveDebounced:
		return "debounced"
	case SaveImmediate:
		return "immediate"
	default:
		return "none"
	}
}

// Mutation is one edit to a WorkLogDraft. The concrete types below are the
// only implementations.
type Mutation interface {
	mutation()
}

// SetStart sets the start time. Manual marks a user correction of the field.
type SetStart struct {
	At     time.Time
	Manual bool
}

// SetEnd sets the end time.
type SetEnd struct {
	At time.Time
}

// SetMemo replaces the memo text.
type SetMemo struct {
	Text string
}

// SetBreak replaces the accumulated break time.
type SetBreak struct {
	Duration time.Duration
}

// AttachWorkLog records the ID the backend assigned to the draft.
type AttachWorkLog struct {
	ID string
}

func (SetStart) mutation()      {}
func (SetEnd) mutation()        {}
func (SetMemo) mutation()       {}
func (SetBreak) mutation()      {}
func (AttachWorkLog) mutation() {}

// Apply mutates draft, stamps LastModifiedLocally with now and returns how
// the change should be saved remotely.
//
// Setting the start for the first time, setting the end, manual time
// corrections and attaching a new record are saved immediately. Memo and break
// edits are debounced.
func Apply(draft *WorkLogDraft, m Mutation, now time.Time) SavePolicy {
	policy := SaveNone

	switch m := m.(type) {
	case SetStart:
		policy = SaveDebounced
		if draft.StartTime == nil || m.Manual {
			policy = SaveImmediate
		}
		at := m.At
		draft.StartTime = &at
	case SetEnd:
		at := m.At
		draft.EndTime = &at
		policy = SaveImmediate
	case SetMemo:
		draft.Memo = m.Text
		policy = SaveDebounced
	case SetBreak:
		draft.BreakTime = m.Duration
		policy = SaveDebounced
	case AttachWorkLog:
		draft.WorkLogID = m.ID
		policy = SaveImmediate
	default:
		return SaveNone
	}

	draft.LastModifiedLocally = now
	return policy
}

// Describe returns a short name for logs.
func Describe(m Mutation) string {
	switch m.(type) {
	case SetStart:
		return "set_start"
	case SetEnd:
		return "set_end"
	case SetMemo:
		return "set_memo"
	case SetBreak:
		return "set_break"
	case AttachWorkLog:
		return "attach_work_log"
	default:
		return "unknown"
	}
}
