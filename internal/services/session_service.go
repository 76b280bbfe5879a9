package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"worklog/internal/api"
	"worklog/internal/domain"
	"worklog/internal/drafts"
	"worklog/internal/errors"
	"worklog/internal/logging"
	"worklog/internal/notify"
	"worklog/internal/validation"
)

// SessionOptions configures sessions opened by a SessionManager
type SessionOptions struct {
	DebounceDelay time.Duration
	SaveTimeout   time.Duration
	// RecoveryTTL is the age after which an offered backup is marked stale.
	// Zero never marks a backup stale.
	RecoveryTTL time.Duration
	Now         func() time.Time
	Logger      *slog.Logger
	OnStatus    func(projectID string, status AutoSaveStatus)
}

// Recovery offers a local backup found when a session opened. Exactly one
// of Accept or Discard takes effect.
type Recovery struct {
	Draft domain.WorkLogDraft
	// Stale is set when the backup is older than the recovery TTL.
	Stale bool

	once    sync.Once
	accept  func() error
	discard func()
}

// Accept replaces the session's draft with the recovered one.
func (r *Recovery) Accept() error {
	var err error = errors.NewInvalidInputError("recovery", nil, "recovery already resolved")
	r.once.Do(func() { err = r.accept() })
	return err
}

// Discard drops the local backup.
func (r *Recovery) Discard() {
	r.once.Do(r.discard)
}

// SessionManager opens sessions, at most one per project
type SessionManager struct {
	api       api.API
	local     *drafts.Store
	notifier  notify.Notifier
	validator *validation.TimeRangeValidator
	opts      SessionOptions
	logger    *slog.Logger

	mu       sync.Mutex
	sessions map[string]*sessionControllerImpl
	opening  map[string]bool
}

// NewSessionManager creates a new SessionManager instance
func NewSessionManager(client api.API, local *drafts.Store, notifier notify.Notifier, validator *validation.TimeRangeValidator, opts SessionOptions) *SessionManager {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if validator == nil {
		validator = validation.NewTimeRangeValidator()
	}
	if notifier == nil {
		notifier = notify.Noop{}
	}
	return &SessionManager{
		api:       client,
		local:     local,
		notifier:  notifier,
		validator: validator,
		opts:      opts,
		logger:    logging.OrDiscard(opts.Logger),
		sessions:  make(map[string]*sessionControllerImpl),
		opening:   make(map[string]bool),
	}
}

// Open fetches the project and starts an empty session for it. Any local
// backup for the project is returned as a Recovery offer, stale or not.
func (m *SessionManager) Open(ctx context.Context, projectID string) (SessionController, *Recovery, error) {
	if projectID == "" {
		return nil, nil, errors.NewInvalidInputError("project_id", projectID, "project id cannot be empty")
	}

	m.mu.Lock()
	if _, ok := m.sessions[projectID]; ok || m.opening[projectID] {
		m.mu.Unlock()
		return nil, nil, errors.NewStateError(errors.CodeSessionAlreadyOpen, "a session is already open for project "+projectID)
	}
	m.opening[projectID] = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		delete(m.opening, projectID)
		m.mu.Unlock()
	}()

	project, err := m.api.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}

	session := m.newSession(*project)

	var recovery *Recovery
	if snapshot, ok := m.local.Load(projectID); ok {
		recovery = session.recoveryFor(domain.NewDraftMapper().FromSnapshot(snapshot))
		recovery.Stale = m.local.IsStale(snapshot, m.opts.RecoveryTTL)
	}

	m.mu.Lock()
	m.sessions[projectID] = session
	m.mu.Unlock()

	m.logger.Info("session opened", "session", session.id, "project", projectID, "recovery", recovery != nil, "stale", recovery != nil && recovery.Stale)
	return session, recovery, nil
}

// Get returns the open session for a project
func (m *SessionManager) Get(projectID string) (SessionController, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[projectID]
	if !ok {
		return nil, false
	}
	return session, true
}

// Shutdown flushes every open session and stops its timers. Local backups
// of sessions that could not be saved are kept for recovery.
func (m *SessionManager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	sessions := make([]*sessionControllerImpl, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	var firstErr error
	for _, s := range sessions {
		if err := s.saver.Flush(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
		s.saver.Close()
		s.finish()
	}
	return firstErr
}

func (m *SessionManager) release(projectID string, s *sessionControllerImpl) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sessions[projectID] == s {
		delete(m.sessions, projectID)
	}
}

func (m *SessionManager) newSession(project domain.Project) *sessionControllerImpl {
	s := &sessionControllerImpl{
		id:        uuid.New().String(),
		project:   project,
		api:       m.api,
		local:     m.local,
		validator: m.validator,
		now:       m.opts.Now,
		done:      make(chan struct{}),
	}
	s.logger = m.logger.With("session", s.id, "project", project.ID)
	s.onClose = func() { m.release(project.ID, s) }

	var onStatus func(AutoSaveStatus)
	if m.opts.OnStatus != nil {
		onStatus = func(status AutoSaveStatus) { m.opts.OnStatus(project.ID, status) }
	}
	s.saver = newAutoSaver(domain.NewWorkLogDraft(project.ID), m.api, m.local, m.notifier, AutoSaverOptions{
		DebounceDelay: m.opts.DebounceDelay,
		SaveTimeout:   m.opts.SaveTimeout,
		Now:           m.opts.Now,
		Logger:        m.opts.Logger,
		OnStatus:      onStatus,
	})
	return s
}

// sessionControllerImpl implements the SessionController interface
type sessionControllerImpl struct {
	id        string
	project   domain.Project
	api       api.API
	local     *drafts.Store
	saver     *autoSaverImpl
	validator *validation.TimeRangeValidator
	now       func() time.Time
	logger    *slog.Logger
	onClose   func()

	// createMu serializes creation of the remote record
	createMu sync.Mutex

	mu       sync.Mutex
	pausedAt *time.Time
	closed   bool

	done     chan struct{}
	doneOnce sync.Once
}

func (s *sessionControllerImpl) ID() string {
	return s.id
}

func (s *sessionControllerImpl) Project() domain.Project {
	return s.project
}

func (s *sessionControllerImpl) Draft() domain.WorkLogDraft {
	return s.saver.Draft()
}

func (s *sessionControllerImpl) Status() AutoSaveStatus {
	return s.saver.Status()
}

func (s *sessionControllerImpl) IsPaused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pausedAt != nil
}

func (s *sessionControllerImpl) Done() <-chan struct{} {
	return s.done
}

func (s *sessionControllerImpl) Retry() {
	s.saver.Retry()
}

// Start sets the start time to now and creates the remote record. The
// local backup is written before the backend is contacted.
func (s *sessionControllerImpl) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errSessionClosed()
	}
	if s.saver.Draft().IsStarted() {
		s.mu.Unlock()
		return errors.NewStateError(errors.CodeAlreadyStarted, "work has already started")
	}
	s.saver.Apply(domain.SetStart{At: s.now()})
	s.mu.Unlock()

	s.logger.Info("work started")
	s.ensureRemote(ctx)
	return nil
}

// Pause records when the pause began. The paused time is added to the break
// on Resume.
func (s *sessionControllerImpl) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkRunningLocked(); err != nil {
		return err
	}
	if s.pausedAt != nil {
		return errors.NewStateError(errors.CodeAlreadyPaused, "work is already paused")
	}

	now := s.now()
	s.pausedAt = &now
	return nil
}

func (s *sessionControllerImpl) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkRunningLocked(); err != nil {
		return err
	}
	if s.pausedAt == nil {
		return errors.NewStateError(errors.CodeNotPaused, "work is not paused")
	}

	s.resumeLocked()
	return nil
}

func (s *sessionControllerImpl) resumeLocked() {
	s.resumeAtLocked(s.now())
}

// resumeAtLocked closes the open pause at the given time and adds its length
// to the break. A pause that began after at adds nothing.
func (s *sessionControllerImpl) resumeAtLocked(at time.Time) {
	paused := at.Sub(*s.pausedAt)
	s.pausedAt = nil
	if paused <= 0 {
		return
	}
	s.saver.Apply(domain.SetBreak{Duration: s.saver.Draft().BreakTime + paused})
}

func (s *sessionControllerImpl) checkRunningLocked() error {
	if s.closed {
		return errSessionClosed()
	}
	draft := s.saver.Draft()
	if !draft.IsStarted() {
		return errors.NewStateError(errors.CodeNotStarted, "work has not started")
	}
	if draft.IsEnded() {
		return errors.NewStateError(errors.CodeAlreadyEnded, "work has already ended")
	}
	return nil
}

// End sets the end time to now, resuming first when paused.
func (s *sessionControllerImpl) End(ctx context.Context) error {
	s.mu.Lock()
	if err := s.checkRunningLocked(); err != nil {
		s.mu.Unlock()
		return err
	}

	now := s.now()
	draft := s.saver.Draft()
	if err := s.validator.Validate(*draft.StartTime, &now); err != nil {
		s.mu.Unlock()
		return err
	}

	if s.pausedAt != nil {
		s.resumeLocked()
	}
	s.saver.Apply(domain.SetEnd{At: now})
	s.mu.Unlock()

	s.logger.Info("work ended")
	s.ensureRemote(ctx)
	return nil
}

// EditTime validates and commits a manual correction of the start or end
// time. A rejected edit leaves the draft untouched.
func (s *sessionControllerImpl) EditTime(field TimeField, value time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errSessionClosed()
	}

	draft := s.saver.Draft()
	start, end := draft.StartTime, draft.EndTime

	switch field {
	case FieldStart:
		start = &value
	case FieldEnd:
		if start == nil {
			return errors.NewStateError(errors.CodeNotStarted, "set a start time before the end time")
		}
		end = &value
	default:
		return errors.NewInvalidInputError("field", field, "must be start or end")
	}

	if err := s.validator.Validate(*start, end); err != nil {
		return err
	}

	if field == FieldStart {
		s.saver.Apply(domain.SetStart{At: value, Manual: true})
		return nil
	}

	// Setting an end finishes the work, so an open pause ends with it.
	if s.pausedAt != nil {
		s.resumeAtLocked(value)
	}
	s.saver.Apply(domain.SetEnd{At: value})
	return nil
}

func (s *sessionControllerImpl) EditMemo(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errSessionClosed()
	}
	if err := s.validator.ValidateMemo(text); err != nil {
		return err
	}

	s.saver.Apply(domain.SetMemo{Text: text})
	return nil
}

func (s *sessionControllerImpl) EditBreak(d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errSessionClosed()
	}
	draft := s.saver.Draft()
	if err := s.validator.ValidateBreak(d, draft.StartTime, draft.EndTime); err != nil {
		return err
	}

	s.saver.Apply(domain.SetBreak{Duration: d})
	return nil
}

// SubmitMemoAndClose sets the final memo, waits for pending saves and closes
// the session. If the final save fails the session stays open with its local
// backup so the user can retry or discard.
func (s *sessionControllerImpl) SubmitMemoAndClose(ctx context.Context, memo string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errSessionClosed()
	}
	if err := s.validator.ValidateMemo(memo); err != nil {
		s.mu.Unlock()
		return err
	}
	draft := s.saver.Draft()
	if s.pausedAt != nil && draft.IsRunning() {
		s.resumeLocked()
	}
	if memo != draft.Memo {
		s.saver.Apply(domain.SetMemo{Text: memo})
	}
	s.mu.Unlock()

	if draft.IsStarted() && !s.ensureRemote(ctx) {
		if err := s.saver.Status().LastError; err != nil {
			return err
		}
		return errors.NewPersistenceError("create work log", nil)
	}

	if err := s.saver.Flush(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	s.saver.Close()
	s.local.Clear(s.project.ID)
	s.mu.Unlock()

	s.logger.Info("session submitted")
	s.finish()
	return nil
}

// Discard closes the session without a final save and drops the local backup.
func (s *sessionControllerImpl) Discard() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.saver.Close()
	s.local.Clear(s.project.ID)
	s.mu.Unlock()

	s.logger.Info("session discarded")
	s.finish()
	return nil
}

// ensureRemote creates the remote record if the draft has none yet and
// reports whether one exists afterwards. Failures are reported through the
// autosaver and never returned.
func (s *sessionControllerImpl) ensureRemote(ctx context.Context) bool {
	s.createMu.Lock()
	defer s.createMu.Unlock()

	draft := s.saver.Draft()
	if draft.HasRemoteRecord() {
		return true
	}
	if !draft.IsStarted() {
		return false
	}

	id, err := s.api.CreateWorkLog(ctx, api.CreateWorkLogRequest{
		ProjectID: draft.ProjectID,
		StartTime: *draft.StartTime,
	})
	if err != nil {
		s.saver.reportFailure("create work log", err)
		return false
	}

	s.logger.Info("work log created", "work_log_id", id)
	s.saver.Apply(domain.AttachWorkLog{ID: id})
	return true
}

func (s *sessionControllerImpl) recoveryFor(draft domain.WorkLogDraft) *Recovery {
	return &Recovery{
		Draft: draft.Clone(),
		accept: func() error {
			s.mu.Lock()
			defer s.mu.Unlock()

			if s.closed {
				return errSessionClosed()
			}
			if s.saver.mutated() {
				return errors.NewStateError(errors.CodeAlreadyStarted, "session was edited before recovery")
			}
			recovered := draft.Clone()
			recovered.ProjectID = s.project.ID
			s.saver.restore(recovered)
			s.logger.Info("local backup recovered", "work_log_id", recovered.WorkLogID)
			return nil
		},
		discard: func() {
			// Once edited, the backup already holds this session's draft.
			if s.saver.mutated() {
				return
			}
			s.local.Clear(s.project.ID)
			s.logger.Info("local backup discarded")
		},
	}
}

func errSessionClosed() error {
	return errors.NewStateError(errors.CodeSessionClosed, "session is closed")
}

func (s *sessionControllerImpl) finish() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.doneOnce.Do(func() {
		close(s.done)
		if s.onClose != nil {
			s.onClose()
		}
	})
}
