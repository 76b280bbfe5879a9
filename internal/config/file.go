package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
)

// fileConfig mirrors Config for TOML decoding. Durations are strings
// ("1s", "30m") and every field is optional.
type fileConfig struct {
	Autosave struct {
		DebounceDelay *string `toml:"debounce_delay"`
		SaveTimeout   *string `toml:"save_timeout"`
	} `toml:"autosave"`
	Validation struct {
		RetentionWindow *string `toml:"retention_window"`
		MaxDuration     *string `toml:"max_duration"`
		MemoMaxLength   *int    `toml:"memo_max_length"`
	} `toml:"validation"`
	Local struct {
		Backend     *string `toml:"backend"`
		Dir         *string `toml:"dir"`
		Filename    *string `toml:"filename"`
		RecoveryTTL *string `toml:"recovery_ttl"`
	} `toml:"local"`
	Remote struct {
		BaseURL         *string `toml:"base_url"`
		Token           *string `toml:"token"`
		Timeout         *string `toml:"timeout"`
		MaxRetries      *int    `toml:"max_retries"`
		ProjectCacheTTL *string `toml:"project_cache_ttl"`
	} `toml:"remote"`
	Notifications struct {
		Enabled *bool `toml:"enabled"`
		Desktop *bool `toml:"desktop"`
	} `toml:"notifications"`
	Logging struct {
		Debug      *bool   `toml:"debug"`
		File       *string `toml:"file"`
		MaxSizeMB  *int    `toml:"max_size_mb"`
		MaxBackups *int    `toml:"max_backups"`
		MaxAgeDays *int    `toml:"max_age_days"`
	} `toml:"logging"`
	Application struct {
		Timeout *string `toml:"timeout"`
	} `toml:"application"`
}

// DefaultFilePath returns $XDG_CONFIG_HOME/wl/config.toml, or WL_CONFIG when set.
func DefaultFilePath() (string, error) {
	if p := os.Getenv("WL_CONFIG"); p != "" {
		return p, nil
	}
	if xdg.ConfigHome == "" {
		return "", fmt.Errorf("no config directory available")
	}
	return filepath.Join(xdg.ConfigHome, "wl", "config.toml"), nil
}

// LoadFile applies the TOML file at path on top of c. A missing file is not
// an error.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	c.applyFile(&fc)
	return nil
}

func (c *Config) applyFile(fc *fileConfig) {
	setDuration(&c.Autosave.DebounceDelay, fc.Autosave.DebounceDelay)
	setDuration(&c.Autosave.SaveTimeout, fc.Autosave.SaveTimeout)

	setDuration(&c.Validation.RetentionWindow, fc.Validation.RetentionWindow)
	setDuration(&c.Validation.MaxDuration, fc.Validation.MaxDuration)
	setValue(&c.Validation.MemoMaxLength, fc.Validation.MemoMaxLength)

	setValue(&c.Local.Backend, fc.Local.Backend)
	setValue(&c.Local.Dir, fc.Local.Dir)
	setValue(&c.Local.Filename, fc.Local.Filename)
	setDuration(&c.Local.RecoveryTTL, fc.Local.RecoveryTTL)

	setValue(&c.Remote.BaseURL, fc.Remote.BaseURL)
	setValue(&c.Remote.Token, fc.Remote.Token)
	setDuration(&c.Remote.Timeout, fc.Remote.Timeout)
	setValue(&c.Remote.MaxRetries, fc.Remote.MaxRetries)
	setDuration(&c.Remote.ProjectCacheTTL, fc.Remote.ProjectCacheTTL)

	setValue(&c.Notifications.Enabled, fc.Notifications.Enabled)
	setValue(&c.Notifications.Desktop, fc.Notifications.Desktop)

	setValue(&c.Logging.Debug, fc.Logging.Debug)
	setValue(&c.Logging.File, fc.Logging.File)
	setValue(&c.Logging.MaxSizeMB, fc.Logging.MaxSizeMB)
	setValue(&c.Logging.MaxBackups, fc.Logging.MaxBackups)
	setValue(&c.Logging.MaxAgeDays, fc.Logging.MaxAgeDays)

	setDuration(&c.Application.Timeout, fc.Application.Timeout)
}

func setValue[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func setDuration(dst *time.Duration, src *string) {
	if src != nil {
		*dst = ParseDurationWithFallback(*src, *dst)
	}
}
