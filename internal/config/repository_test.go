package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCreateLocalStore(t *testing.T) {
	t.Setenv("WL_ENV", "")

	backends := []string{BackendSQLite, BackendBolt}
	for _, backend := range backends {
		t.Run(backend, func(t *testing.T) {
			cfg := NewConfig()
			cfg.Local.Dir = filepath.Join(t.TempDir(), "nested")
			cfg.Local.Backend = backend

			store, err := CreateLocalStore(cfg)
			if err != nil {
				t.Fatalf("CreateLocalStore() error = %v", err)
			}
			defer store.Close()

			if _, err := os.Stat(cfg.GetLocalStorePath()); err != nil {
				t.Errorf("expected store file at %s: %v", cfg.GetLocalStorePath(), err)
			}

			if err := store.Set("worklog-draft:p1", "{}"); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			value, ok, err := store.Get("worklog-draft:p1")
			if err != nil || !ok || value != "{}" {
				t.Errorf("Get() = %q, %v, %v", value, ok, err)
			}
		})
	}
}

func TestCreateLocalStore_BoltLockedByAnotherHandle(t *testing.T) {
	t.Setenv("WL_ENV", "")

	cfg := NewConfig()
	cfg.Local.Dir = t.TempDir()
	cfg.Local.Backend = BackendBolt

	store, err := CreateLocalStore(cfg)
	if err != nil {
		t.Fatalf("CreateLocalStore() error = %v", err)
	}
	defer store.Close()

	second, err := CreateLocalStore(cfg)
	if err == nil {
		second.Close()
		t.Fatal("expected the second open to fail while the store is held")
	}
	if !strings.Contains(err.Error(), "locked") {
		t.Errorf("error = %v, want a locked store error", err)
	}
}

func TestCreateLocalStore_UnknownBackend(t *testing.T) {
	t.Setenv("WL_ENV", "")

	cfg := NewConfig()
	cfg.Local.Dir = t.TempDir()
	cfg.Local.Backend = "redis"

	if _, err := CreateLocalStore(cfg); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestCreateLocalStore_TestingEnvironment(t *testing.T) {
	t.Setenv("WL_ENV", "testing")

	cfg := NewConfig()
	cfg.Local.Dir = filepath.Join(t.TempDir(), "unused")

	store, err := CreateLocalStore(cfg)
	if err != nil {
		t.Fatalf("CreateLocalStore() error = %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(cfg.Local.Dir); !os.IsNotExist(err) {
		t.Errorf("testing environment should not touch the filesystem")
	}
}

func TestGetEnvironment(t *testing.T) {
	t.Setenv("WL_ENV", "testing")
	if GetEnvironment() != EnvTesting {
		t.Errorf("GetEnvironment() = %v, want testing", GetEnvironment())
	}

	t.Setenv("WL_ENV", "")
	if GetEnvironment() != EnvProduction {
		t.Errorf("GetEnvironment() = %v, want production", GetEnvironment())
	}
}
