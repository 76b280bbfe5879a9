package services

import (
	"context"
	"time"

	"worklog/internal/domain"
)

// AutoSaveStatus is the read-only save state of a draft shown to the user
type AutoSaveStatus struct {
	IsDirty      bool      `json:"is_dirty"`
	IsSaving     bool      `json:"is_saving"`
	LastAutoSave time.Time `json:"last_auto_save"`
	LastError    error     `json:"-"`
}

// TimeField names the time a manual edit applies to
type TimeField string

const (
	FieldStart TimeField = "start"
	FieldEnd   TimeField = "end"
)

// DraftSummary is a human-readable view of a draft's durations
type DraftSummary struct {
	Elapsed string `json:"elapsed"`
	Break   string `json:"break"`
	Net     string `json:"net"`
	Running bool   `json:"running"`
	Paused  bool   `json:"paused"`
}

// TimeService handles time parsing and duration formatting
type TimeService interface {
	// Time parsing
	ParseTime(input string, ref time.Time) (time.Time, error)
	ParseBreak(input string) (time.Duration, error)

	// Duration operations
	FormatDuration(duration time.Duration) string
	CalculateDuration(start time.Time, end *time.Time) string
	SummarizeDraft(draft domain.WorkLogDraft, paused bool, now time.Time) *DraftSummary

	IsToday(t time.Time) bool
}

// AutoSaver decides when a changing draft is written locally and remotely
type AutoSaver interface {
	// Apply mutates the draft, writes the local backup and schedules the
	// remote save the mutation calls for.
	Apply(m domain.Mutation) domain.SavePolicy
	Draft() domain.WorkLogDraft
	Status() AutoSaveStatus

	// Flush cancels any pending debounce, saves if dirty and waits for
	// in-flight saves to settle.
	Flush(ctx context.Context) error
	// Retry saves now if the draft is dirty.
	Retry()
	// Close cancels pending timers. Later mutations are ignored.
	Close()
}

// SessionController drives one work-log session for one project
type SessionController interface {
	ID() string
	Project() domain.Project
	Draft() domain.WorkLogDraft
	Status() AutoSaveStatus
	IsPaused() bool

	Start(ctx context.Context) error
	Pause() error
	Resume() error
	End(ctx context.Context) error
	EditTime(field TimeField, value time.Time) error
	EditMemo(text string) error
	EditBreak(d time.Duration) error
	Retry()

	SubmitMemoAndClose(ctx context.Context, memo string) error
	Discard() error

	// Done is closed once the session has been closed or discarded.
	Done() <-chan struct{}
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	TimeService TimeService
	Sessions    *SessionManager
}

// NewServiceContainer wires the services around a session manager
func NewServiceContainer(sessions *SessionManager) *ServiceContainer {
	return &ServiceContainer{
		TimeService: NewTimeService(),
		Sessions:    sessions,
	}
}
