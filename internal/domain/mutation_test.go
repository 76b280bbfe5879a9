package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApply(t *testing.T) {
	now := base.Add(5 * time.Hour)

	tests := []struct {
		name     string
		draft    WorkLogDraft
		mutation Mutation
		expected SavePolicy
		check    func(t *testing.T, d WorkLogDraft)
	}{
		{
			name:     "first start is immediate",
			draft:    NewWorkLogDraft("p1"),
			mutation: SetStart{At: base},
			expected: SaveImmediate,
			check: func(t *testing.T, d WorkLogDraft) {
				assert.Equal(t, base, *d.StartTime)
			},
		},
		{
			name:     "restating start is debounced",
			draft:    WorkLogDraft{StartTime: at(0)},
			mutation: SetStart{At: base.Add(time.Minute)},
			expected: SaveDebounced,
		},
		{
			name:     "manual start correction is immediate",
			draft:    WorkLogDraft{StartTime: at(0)},
			mutation: SetStart{At: base.Add(time.Minute), Manual: true},
			expected: SaveImmediate,
		},
		{
			name:     "end is immediate",
			draft:    WorkLogDraft{StartTime: at(0)},
			mutation: SetEnd{At: base.Add(time.Hour)},
			expected: SaveImmediate,
			check: func(t *testing.T, d WorkLogDraft) {
				assert.Equal(t, base.Add(time.Hour), *d.EndTime)
			},
		},
		{
			name:     "memo is debounced",
			draft:    WorkLogDraft{},
			mutation: SetMemo{Text: "review"},
			expected: SaveDebounced,
			check: func(t *testing.T, d WorkLogDraft) {
				assert.Equal(t, "review", d.Memo)
			},
		},
		{
			name:     "break is debounced",
			draft:    WorkLogDraft{},
			mutation: SetBreak{Duration: 15 * time.Minute},
			expected: SaveDebounced,
			check: func(t *testing.T, d WorkLogDraft) {
				assert.Equal(t, 15*time.Minute, d.BreakTime)
			},
		},
		{
			name:     "attach is immediate",
			draft:    WorkLogDraft{},
			mutation: AttachWorkLog{ID: "wl-1"},
			expected: SaveImmediate,
			check: func(t *testing.T, d WorkLogDraft) {
				assert.Equal(t, "wl-1", d.WorkLogID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := tt.draft
			policy := Apply(&draft, tt.mutation, now)

			assert.Equal(t, tt.expected, policy)
			assert.Equal(t, now, draft.LastModifiedLocally)
			if tt.check != nil {
				tt.check(t, draft)
			}
		})
	}
}

func TestApply_DoesNotAliasMutationTime(t *testing.T) {
	draft := NewWorkLogDraft("p1")
	m := SetStart{At: base}
	Apply(&draft, m, base)

	m.At = base.Add(time.Hour)
	assert.Equal(t, base, *draft.StartTime)
}

func TestSavePolicy_String(t *testing.T) {
	assert.Equal(t, "none", SaveNone.String())
	assert.Equal(t, "debounced", SaveDebounced.String())
	assert.Equal(t, "immediate", SaveImmediate.String())
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "set_start", Describe(SetStart{}))
	assert.Equal(t, "set_end", Describe(SetEnd{}))
	assert.Equal(t, "set_memo", Describe(SetMemo{}))
	assert.Equal(t, "set_break", Describe(SetBreak{}))
	assert.Equal(t, "attach_work_log", Describe(AttachWorkLog{}))
}
