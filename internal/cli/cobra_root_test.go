package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worklog/internal/config"
	"worklog/internal/drafts"
	"worklog/internal/services"
)

func isolateConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, ".local", "share"))
	for _, kv := range os.Environ() {
		if key, _, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(key, "WL_") {
			t.Setenv(key, "")
		}
	}
	xdg.Reload()
}

func TestRootCommand_Setup(t *testing.T) {
	isolateConfig(t)

	var built *config.Config
	cleaned := false
	out := &bytes.Buffer{}

	root := NewRootCommand(func(cfg *config.Config) (*App, func(), error) {
		built = cfg
		store, err := config.CreateTestLocalStore()
		if err != nil {
			return nil, nil, err
		}
		local := drafts.NewStore(store, nil)
		sessions := services.NewSessionManager(newStubAPI(), local, nil, nil, services.SessionOptions{})
		app := NewApp(services.NewServiceContainer(sessions), local, cfg, WithIO(&bytes.Buffer{}, out))
		return app, func() {
			cleaned = true
			store.Close()
		}, nil
	})

	root.SetArgs([]string{"--debounce", "250ms", "--backend", "bolt", "--notify=false", "drafts", "list"})
	require.NoError(t, root.Execute(context.Background()))

	require.NotNil(t, built)
	assert.Equal(t, 250*time.Millisecond, built.Autosave.DebounceDelay)
	assert.Equal(t, config.BackendBolt, built.Local.Backend)
	assert.False(t, built.Notifications.Enabled)
	assert.True(t, cleaned)
	assert.Contains(t, out.String(), "No unsaved drafts")
}

func TestRootCommand_ConfigFile(t *testing.T) {
	isolateConfig(t)

	path := filepath.Join(t.TempDir(), "wl.toml")
	require.NoError(t, os.WriteFile(path, []byte("[autosave]\ndebounce_delay = \"2s\"\n"), 0600))

	var built *config.Config
	root := NewRootCommand(func(cfg *config.Config) (*App, func(), error) {
		built = cfg
		store, err := config.CreateTestLocalStore()
		if err != nil {
			return nil, nil, err
		}
		local := drafts.NewStore(store, nil)
		sessions := services.NewSessionManager(newStubAPI(), local, nil, nil, services.SessionOptions{})
		return NewApp(services.NewServiceContainer(sessions), local, cfg, WithIO(&bytes.Buffer{}, &bytes.Buffer{})), func() { store.Close() }, nil
	})

	root.SetArgs([]string{"--config", path, "drafts"})
	require.NoError(t, root.Execute(context.Background()))
	assert.Equal(t, 2*time.Second, built.Autosave.DebounceDelay)
}

func TestRootCommand_InvalidOverride(t *testing.T) {
	isolateConfig(t)

	root := NewRootCommand(func(cfg *config.Config) (*App, func(), error) {
		t.Fatal("builder must not run with an invalid configuration")
		return nil, nil, nil
	})

	root.SetArgs([]string{"--debounce=-1s", "drafts"})
	assert.Error(t, root.Execute(context.Background()))
}
