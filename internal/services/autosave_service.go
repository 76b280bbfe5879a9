package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"worklog/internal/api"
	"worklog/internal/domain"
	"worklog/internal/drafts"
	"worklog/internal/errors"
	"worklog/internal/logging"
	"worklog/internal/notify"
)

const (
	defaultDebounceDelay = time.Second
	defaultSaveTimeout   = 10 * time.Second
)

// AutoSaverOptions configures an AutoSaver. Zero values use defaults.
type AutoSaverOptions struct {
	DebounceDelay time.Duration
	SaveTimeout   time.Duration
	Now           func() time.Time
	Logger        *slog.Logger
	// OnStatus is called after every status change, outside any lock.
	OnStatus func(AutoSaveStatus)
}

// autoSaverImpl implements AutoSaver for a single draft.
//
// Every mutation bumps rev; a successful save of revision r sets savedRev to
// r. The draft is dirty while rev != savedRev. Remote writes are serialized
// by saveMu and always send the draft as it is when the write starts.
type autoSaverImpl struct {
	writer   api.WorkLogWriter
	local    *drafts.Store
	notifier notify.Notifier
	opts     AutoSaverOptions
	logger   *slog.Logger

	saveMu sync.Mutex

	mu           sync.Mutex
	draft        domain.WorkLogDraft
	rev          uint64
	savedRev     uint64
	saving       bool
	lastAutoSave time.Time
	lastErr      error
	timer        *time.Timer
	timerGen     uint64
	closed       bool
	pending      int
	settled      chan struct{}
}

// NewAutoSaver creates an AutoSaver for draft.
func NewAutoSaver(draft domain.WorkLogDraft, writer api.WorkLogWriter, local *drafts.Store, notifier notify.Notifier, opts AutoSaverOptions) AutoSaver {
	return newAutoSaver(draft, writer, local, notifier, opts)
}

func newAutoSaver(draft domain.WorkLogDraft, writer api.WorkLogWriter, local *drafts.Store, notifier notify.Notifier, opts AutoSaverOptions) *autoSaverImpl {
	if opts.DebounceDelay <= 0 {
		opts.DebounceDelay = defaultDebounceDelay
	}
	if opts.SaveTimeout <= 0 {
		opts.SaveTimeout = defaultSaveTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if notifier == nil {
		notifier = notify.Noop{}
	}

	return &autoSaverImpl{
		writer:   writer,
		local:    local,
		notifier: notifier,
		opts:     opts,
		logger:   logging.OrDiscard(opts.Logger).With("project", draft.ProjectID),
		draft:    draft.Clone(),
	}
}

func (a *autoSaverImpl) Apply(m domain.Mutation) domain.SavePolicy {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		a.logger.Debug("mutation after close ignored", "mutation", domain.Describe(m))
		return domain.SaveNone
	}

	policy := domain.Apply(&a.draft, m, a.opts.Now())
	a.rev++
	// Local writes happen under the lock so they stay in mutation order.
	a.local.Save(a.draft)

	switch policy {
	case domain.SaveImmediate:
		a.stopTimerLocked()
		a.startSaveLocked()
	case domain.SaveDebounced:
		a.scheduleLocked()
	}
	status := a.statusLocked()
	a.mu.Unlock()

	a.logger.Debug("draft mutated", "mutation", domain.Describe(m), "policy", policy.String())
	a.emit(status)
	return policy
}

// restore replaces the draft wholesale with a recovered one. The result is
// dirty and saved immediately when it has a remote record.
func (a *autoSaverImpl) restore(draft domain.WorkLogDraft) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.draft = draft.Clone()
	a.draft.LastModifiedLocally = a.opts.Now()
	a.rev++
	a.local.Save(a.draft)
	a.stopTimerLocked()
	a.startSaveLocked()
	status := a.statusLocked()
	a.mu.Unlock()

	a.emit(status)
}

// mutated reports whether any mutation has been applied
func (a *autoSaverImpl) mutated() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rev > 0
}

func (a *autoSaverImpl) Draft() domain.WorkLogDraft {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.draft.Clone()
}

func (a *autoSaverImpl) Status() AutoSaveStatus {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.statusLocked()
}

func (a *autoSaverImpl) Flush(ctx context.Context) error {
	a.mu.Lock()
	a.stopTimerLocked()
	a.mu.Unlock()

	if err := a.save(ctx, true); err != nil {
		return err
	}
	return a.wait(ctx)
}

func (a *autoSaverImpl) Retry() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed || a.rev == a.savedRev {
		return
	}
	a.stopTimerLocked()
	a.startSaveLocked()
}

func (a *autoSaverImpl) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.closed = true
	a.stopTimerLocked()
}

// reportFailure surfaces a remote failure that happened outside the save
// path, such as creating the record.
func (a *autoSaverImpl) reportFailure(op string, err error) {
	a.mu.Lock()
	a.lastErr = err
	status := a.statusLocked()
	a.mu.Unlock()

	a.logger.Warn("remote operation failed", "op", op, "error", err)
	a.notifyFailure(err)
	a.emit(status)
}

func (a *autoSaverImpl) scheduleLocked() {
	a.stopTimerLocked()
	gen := a.timerGen
	a.timer = time.AfterFunc(a.opts.DebounceDelay, func() {
		a.fire(gen)
	})
}

func (a *autoSaverImpl) fire(gen uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	// A stop after the timer already fired bumps timerGen.
	if a.closed || gen != a.timerGen {
		return
	}
	a.timer = nil
	a.startSaveLocked()
}

func (a *autoSaverImpl) stopTimerLocked() {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.timerGen++
}

func (a *autoSaverImpl) startSaveLocked() {
	if a.pending == 0 {
		a.settled = make(chan struct{})
	}
	a.pending++

	go func() {
		a.save(context.Background(), false)

		a.mu.Lock()
		a.pending--
		if a.pending == 0 {
			close(a.settled)
		}
		a.mu.Unlock()
	}()
}

// wait blocks until no background save is pending
func (a *autoSaverImpl) wait(ctx context.Context) error {
	a.mu.Lock()
	if a.pending == 0 {
		a.mu.Unlock()
		return nil
	}
	settled := a.settled
	a.mu.Unlock()

	select {
	case <-settled:
		return nil
	case <-ctx.Done():
		return errors.NewTimeoutError("wait for pending saves", ctx.Err())
	}
}

// save writes the current draft remotely if it is dirty and has a record.
// Background saves queued before Close are dropped; a flush always runs.
func (a *autoSaverImpl) save(ctx context.Context, flush bool) error {
	a.saveMu.Lock()
	defer a.saveMu.Unlock()

	a.mu.Lock()
	if a.draft.WorkLogID == "" || a.rev == a.savedRev || (a.closed && !flush) {
		a.mu.Unlock()
		return nil
	}
	draft := a.draft.Clone()
	rev := a.rev
	a.saving = true
	status := a.statusLocked()
	a.mu.Unlock()
	a.emit(status)

	ctx, cancel := context.WithTimeout(ctx, a.opts.SaveTimeout)
	err := a.writer.UpdateWorkLog(ctx, draft.WorkLogID, api.NewUpdateRequest(draft))
	cancel()

	a.mu.Lock()
	a.saving = false
	if err != nil {
		a.lastErr = err
		status = a.statusLocked()
		a.mu.Unlock()

		a.logger.Warn("autosave failed", "work_log_id", draft.WorkLogID, "rev", rev, "error", err)
		a.notifyFailure(err)
		a.emit(status)
		return err
	}

	if rev > a.savedRev {
		a.savedRev = rev
	}
	a.lastAutoSave = a.opts.Now()
	a.lastErr = nil
	// Edits made while the request was in flight keep their backup and timer.
	if a.rev == rev {
		a.stopTimerLocked()
		a.local.Clear(draft.ProjectID)
	}
	status = a.statusLocked()
	a.mu.Unlock()

	a.logger.Debug("autosave succeeded", "work_log_id", draft.WorkLogID, "rev", rev)
	a.notifier.Notify(notify.Notification{
		Title:   "Saved",
		Variant: notify.VariantSuccess,
	})
	a.emit(status)
	return nil
}

func (a *autoSaverImpl) notifyFailure(err error) {
	a.notifier.Notify(notify.Notification{
		Title:       "Save failed",
		Description: errors.GetUserMessage(err),
		Variant:     notify.VariantDestructive,
	})
}

func (a *autoSaverImpl) statusLocked() AutoSaveStatus {
	return AutoSaveStatus{
		IsDirty:      a.rev != a.savedRev,
		IsSaving:     a.saving,
		LastAutoSave: a.lastAutoSave,
		LastError:    a.lastErr,
	}
}

func (a *autoSaverImpl) emit(status AutoSaveStatus) {
	if a.opts.OnStatus != nil {
		a.opts.OnStatus(status)
	}
}
