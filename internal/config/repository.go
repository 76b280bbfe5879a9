package config

import (
	"fmt"
	"os"

	"worklog/internal/repository/bolt"
	"worklog/internal/repository/sqlite"
)

// LocalStore is the key/value store backing local draft backups
type LocalStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
	Keys(prefix string) ([]string, error)
	Close() error
}

// Environment selects how the local store is created
type Environment string

const (
	EnvProduction Environment = "production"
	EnvTesting    Environment = "testing"
)

// GetEnvironment reads WL_ENV, defaulting to production
func GetEnvironment() Environment {
	if os.Getenv("WL_ENV") == string(EnvTesting) {
		return EnvTesting
	}
	return EnvProduction
}

// CreateLocalStore opens the configured local draft store backend
func CreateLocalStore(config *Config) (LocalStore, error) {
	if GetEnvironment() == EnvTesting {
		return CreateTestLocalStore()
	}

	if err := os.MkdirAll(config.Local.Dir, os.FileMode(config.Local.DirPermissions)); err != nil {
		return nil, fmt.Errorf("failed to create local store directory: %w", err)
	}

	path := config.GetLocalStorePath()

	switch config.Local.Backend {
	case BackendBolt:
		store, err := bolt.New(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open bolt store: %w", err)
		}
		return store, nil
	case BackendSQLite:
		store, err := sqlite.New(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return store, nil
	default:
		return nil, &ConfigError{Field: "local.backend", Message: "unknown backend " + config.Local.Backend}
	}
}

// CreateTestLocalStore creates an in-memory store for testing
func CreateTestLocalStore() (LocalStore, error) {
	store, err := sqlite.New(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize test store: %w", err)
	}
	return store, nil
}
