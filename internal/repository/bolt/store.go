// Package bolt stores local draft backups in a BoltDB file.
package bolt

import (
	"bytes"
	"errors"
	"io/fs"
	"time"

	bolt "go.etcd.io/bbolt"

	apperrors "worklog/internal/errors"
)

var draftsBucket = []byte("drafts")

var errStoreLocked = errors.New(
	"draft store is locked: is another wl session running?",
)

// Store is a key/value store on a single bolt bucket.
type Store struct {
	db *bolt.DB
}

// New opens (or creates) the bolt file at dbPath.
func New(dbPath string) (*Store, error) {
	var fileMode fs.FileMode = 0o600

	db, err := bolt.Open(
		dbPath,
		fileMode,
		&bolt.Options{Timeout: 1 * time.Second},
	)
	if err != nil {
		if errors.Is(err, bolt.ErrTimeout) {
			return nil, apperrors.NewLocalStorageError("open draft store", errStoreLocked)
		}

		return nil, apperrors.NewLocalStorageError("open draft store", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(draftsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, apperrors.NewLocalStorageError("create drafts bucket", err)
	}

	return &Store{db: db}, nil
}

// Close closes the bolt file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (string, bool, error) {
	var (
		value string
		found bool
	)

	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(draftsBucket).Get([]byte(key))
		if v == nil {
			return nil
		}
		// v is only valid inside the transaction
		value = string(v)
		found = true
		return nil
	})
	if err != nil {
		return "", false, apperrors.NewLocalStorageError("get draft", err)
	}

	return value, found, nil
}

// Set stores value under key.
func (s *Store) Set(key, value string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(draftsBucket).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return apperrors.NewLocalStorageError("set draft", err)
	}
	return nil
}

// Remove deletes key.
func (s *Store) Remove(key string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(draftsBucket).Delete([]byte(key))
	})
	if err != nil {
		return apperrors.NewLocalStorageError("remove draft", err)
	}
	return nil
}

// Keys returns every key with the given prefix in byte order.
func (s *Store) Keys(prefix string) ([]string, error) {
	var keys []string

	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(draftsBucket).Cursor()
		p := []byte(prefix)

		for k, _ := c.Seek(p); k != nil && bytes.HasPrefix(k, p); k, _ = c.Next() {
			keys = append(keys, string(k))
		}

		return nil
	})
	if err != nil {
		return nil, apperrors.NewLocalStorageError("list drafts", err)
	}

	return keys, nil
}
