// Package drafts keeps a best-effort local backup of work-log drafts so an
// interrupted session can be recovered.
package drafts

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"worklog/internal/domain"
	apperrors "worklog/internal/errors"
	"worklog/internal/logging"
)

// KeyPrefix prefixes every draft key in the backing store.
const KeyPrefix = "worklog-draft:"

// KeyValueStore is the local durable storage a Store writes through to.
type KeyValueStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// KeyLister is implemented by backing stores that can enumerate keys.
type KeyLister interface {
	Keys(prefix string) ([]string, error)
}

var errListUnsupported = errors.New("backing store cannot list keys")

// Store saves draft snapshots keyed by project. Save and Clear never return
// errors: failures are logged and the caller carries on.
type Store struct {
	kv     KeyValueStore
	mapper *domain.DraftMapper
	logger *slog.Logger
	now    func() time.Time
}

// NewStore creates a Store over kv.
func NewStore(kv KeyValueStore, logger *slog.Logger) *Store {
	return &Store{
		kv:     kv,
		mapper: domain.NewDraftMapper(),
		logger: logging.OrDiscard(logger),
		now:    time.Now,
	}
}

// Key returns the storage key for a project.
func Key(projectID string) string {
	return KeyPrefix + projectID
}

// Save overwrites the snapshot for draft.ProjectID, stamping it with the
// current time.
func (s *Store) Save(draft domain.WorkLogDraft) {
	snapshot := s.mapper.ToSnapshot(draft, s.now())

	data, err := json.Marshal(snapshot)
	if err != nil {
		s.logFailure("encode draft", draft.ProjectID, err)
		return
	}

	if err := s.kv.Set(Key(draft.ProjectID), string(data)); err != nil {
		s.logFailure("save draft", draft.ProjectID, err)
	}
}

// Load returns the last snapshot saved for projectID. Unreadable snapshots
// are logged and reported as missing.
func (s *Store) Load(projectID string) (domain.DraftSnapshot, bool) {
	value, ok, err := s.kv.Get(Key(projectID))
	if err != nil {
		s.logFailure("load draft", projectID, err)
		return domain.DraftSnapshot{}, false
	}
	if !ok {
		return domain.DraftSnapshot{}, false
	}

	var snapshot domain.DraftSnapshot
	if err := json.Unmarshal([]byte(value), &snapshot); err != nil {
		s.logFailure("decode draft", projectID, err)
		return domain.DraftSnapshot{}, false
	}

	return snapshot, true
}

// Clear removes the snapshot for projectID.
func (s *Store) Clear(projectID string) {
	if err := s.kv.Remove(Key(projectID)); err != nil {
		s.logFailure("clear draft", projectID, err)
	}
}

// List returns every readable snapshot, most recently written first.
func (s *Store) List() ([]domain.DraftSnapshot, error) {
	lister, ok := s.kv.(KeyLister)
	if !ok {
		return nil, apperrors.NewLocalStorageError("list drafts", errListUnsupported)
	}

	keys, err := lister.Keys(KeyPrefix)
	if err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrorTypeLocalStorage, "failed to list drafts")
	}

	snapshots := make([]domain.DraftSnapshot, 0, len(keys))
	for _, key := range keys {
		if snapshot, ok := s.Load(strings.TrimPrefix(key, KeyPrefix)); ok {
			snapshots = append(snapshots, snapshot)
		}
	}

	sort.SliceStable(snapshots, func(i, j int) bool {
		return snapshots[i].LastModified.After(snapshots[j].LastModified)
	})

	return snapshots, nil
}

// IsStale reports whether a snapshot is older than ttl. A ttl of zero
// disables the check.
func (s *Store) IsStale(snapshot domain.DraftSnapshot, ttl time.Duration) bool {
	if ttl <= 0 {
		return false
	}
	return s.now().Sub(snapshot.LastModified) > ttl
}

func (s *Store) logFailure(op, projectID string, err error) {
	s.logger.Warn("local draft backup failed",
		"op", op,
		"project", projectID,
		"error", apperrors.NewLocalStorageError(op, err),
	)
}
