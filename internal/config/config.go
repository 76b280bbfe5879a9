package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
)

// Local store backends
const (
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
)

// Config holds all configuration options for the work-log client
type Config struct {
	Autosave      AutosaveConfig
	Validation    ValidationConfig
	Local         LocalConfig
	Remote        RemoteConfig
	Notifications NotificationsConfig
	Logging       LoggingConfig
	Application   ApplicationConfig
}

// AutosaveConfig holds autosave scheduling configuration
type AutosaveConfig struct {
	DebounceDelay time.Duration `env:"WL_AUTOSAVE_DEBOUNCE"`
	SaveTimeout   time.Duration `env:"WL_AUTOSAVE_SAVE_TIMEOUT"`
}

// ValidationConfig holds time validation rules configuration
type ValidationConfig struct {
	RetentionWindow time.Duration `env:"WL_VALIDATION_RETENTION"`
	MaxDuration     time.Duration `env:"WL_VALIDATION_MAX_DURATION"`
	MemoMaxLength   int           `env:"WL_VALIDATION_MEMO_MAX"`
}

// LocalConfig holds local draft backup configuration
type LocalConfig struct {
	Backend        string        `env:"WL_LOCAL_BACKEND"`
	Dir            string        `env:"WL_LOCAL_DIR"`
	Filename       string        `env:"WL_LOCAL_FILENAME"`
	RecoveryTTL    time.Duration `env:"WL_LOCAL_RECOVERY_TTL"`
	DirPermissions uint32        `env:"WL_LOCAL_DIR_PERMISSIONS"`
}

// RemoteConfig holds REST backend configuration
type RemoteConfig struct {
	BaseURL         string        `env:"WL_REMOTE_BASE_URL"`
	Token           string        `env:"WL_REMOTE_TOKEN"`
	Timeout         time.Duration `env:"WL_REMOTE_TIMEOUT"`
	MaxRetries      int           `env:"WL_REMOTE_MAX_RETRIES"`
	ProjectCacheTTL time.Duration `env:"WL_REMOTE_PROJECT_CACHE_TTL"`
}

// NotificationsConfig holds user notification configuration
type NotificationsConfig struct {
	Enabled bool `env:"WL_NOTIFY_ENABLED"`
	Desktop bool `env:"WL_NOTIFY_DESKTOP"`
}

// LoggingConfig holds structured logging configuration
type LoggingConfig struct {
	Debug      bool   `env:"WL_LOG_DEBUG"`
	File       string `env:"WL_LOG_FILE"`
	MaxSizeMB  int    `env:"WL_LOG_MAX_SIZE_MB"`
	MaxBackups int    `env:"WL_LOG_MAX_BACKUPS"`
	MaxAgeDays int    `env:"WL_LOG_MAX_AGE_DAYS"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout time.Duration `env:"WL_APP_TIMEOUT"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	defaultDir := filepath.Join(xdg.DataHome, "wl")

	return &Config{
		Autosave: AutosaveConfig{
			DebounceDelay: 1000 * time.Millisecond,
			SaveTimeout:   10 * time.Second,
		},
		Validation: ValidationConfig{
			RetentionWindow: 30 * 24 * time.Hour,
			MaxDuration:     24 * time.Hour,
			MemoMaxLength:   2000,
		},
		Local: LocalConfig{
			Backend:        BackendSQLite,
			Dir:            defaultDir,
			Filename:       "drafts.db",
			RecoveryTTL:    30 * time.Minute,
			DirPermissions: 0755,
		},
		Remote: RemoteConfig{
			BaseURL:         "http://localhost:8080/api",
			Timeout:         30 * time.Second,
			MaxRetries:      3,
			ProjectCacheTTL: 5 * time.Minute,
		},
		Notifications: NotificationsConfig{
			Enabled: true,
			Desktop: false,
		},
		Logging: LoggingConfig{
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Application: ApplicationConfig{
			Timeout: 12 * time.Hour,
		},
	}
}

// GetLocalStorePath returns the full path to the local draft store file
func (c *Config) GetLocalStorePath() string {
	return filepath.Join(c.Local.Dir, c.Local.Filename)
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() error {
	// Autosave configuration
	if v := os.Getenv("WL_AUTOSAVE_DEBOUNCE"); v != "" {
		c.Autosave.DebounceDelay = ParseDurationWithFallback(v, c.Autosave.DebounceDelay)
	}
	if v := os.Getenv("WL_AUTOSAVE_SAVE_TIMEOUT"); v != "" {
		c.Autosave.SaveTimeout = ParseDurationWithFallback(v, c.Autosave.SaveTimeout)
	}

	// Validation configuration
	if v := os.Getenv("WL_VALIDATION_RETENTION"); v != "" {
		c.Validation.RetentionWindow = ParseDurationWithFallback(v, c.Validation.RetentionWindow)
	}
	if v := os.Getenv("WL_VALIDATION_MAX_DURATION"); v != "" {
		c.Validation.MaxDuration = ParseDurationWithFallback(v, c.Validation.MaxDuration)
	}
	if v := os.Getenv("WL_VALIDATION_MEMO_MAX"); v != "" {
		c.Validation.MemoMaxLength = ParseIntWithFallback(v, c.Validation.MemoMaxLength)
	}

	// Local store configuration
	if v := os.Getenv("WL_LOCAL_BACKEND"); v != "" {
		c.Local.Backend = v
	}
	if v := os.Getenv("WL_LOCAL_DIR"); v != "" {
		c.Local.Dir = v
	}
	if v := os.Getenv("WL_LOCAL_FILENAME"); v != "" {
		c.Local.Filename = v
	}
	if v := os.Getenv("WL_LOCAL_RECOVERY_TTL"); v != "" {
		c.Local.RecoveryTTL = ParseDurationWithFallback(v, c.Local.RecoveryTTL)
	}
	if v := os.Getenv("WL_LOCAL_DIR_PERMISSIONS"); v != "" {
		c.Local.DirPermissions = ParseUint32WithFallback(v, 8, c.Local.DirPermissions)
	}

	// Remote configuration
	if v := os.Getenv("WL_REMOTE_BASE_URL"); v != "" {
		c.Remote.BaseURL = v
	}
	if v := os.Getenv("WL_REMOTE_TOKEN"); v != "" {
		c.Remote.Token = v
	}
	if v := os.Getenv("WL_REMOTE_TIMEOUT"); v != "" {
		c.Remote.Timeout = ParseDurationWithFallback(v, c.Remote.Timeout)
	}
	if v := os.Getenv("WL_REMOTE_MAX_RETRIES"); v != "" {
		c.Remote.MaxRetries = ParseIntWithFallback(v, c.Remote.MaxRetries)
	}
	if v := os.Getenv("WL_REMOTE_PROJECT_CACHE_TTL"); v != "" {
		c.Remote.ProjectCacheTTL = ParseDurationWithFallback(v, c.Remote.ProjectCacheTTL)
	}

	// Notifications configuration
	if v := os.Getenv("WL_NOTIFY_ENABLED"); v != "" {
		c.Notifications.Enabled = ParseBoolWithFallback(v, c.Notifications.Enabled)
	}
	if v := os.Getenv("WL_NOTIFY_DESKTOP"); v != "" {
		c.Notifications.Desktop = ParseBoolWithFallback(v, c.Notifications.Desktop)
	}

	// Logging configuration
	if v := os.Getenv("WL_LOG_DEBUG"); v != "" {
		c.Logging.Debug = ParseBoolWithFallback(v, c.Logging.Debug)
	}
	if v := os.Getenv("WL_LOG_FILE"); v != "" {
		c.Logging.File = v
	}
	if v := os.Getenv("WL_LOG_MAX_SIZE_MB"); v != "" {
		c.Logging.MaxSizeMB = ParseIntWithFallback(v, c.Logging.MaxSizeMB)
	}
	if v := os.Getenv("WL_LOG_MAX_BACKUPS"); v != "" {
		c.Logging.MaxBackups = ParseIntWithFallback(v, c.Logging.MaxBackups)
	}
	if v := os.Getenv("WL_LOG_MAX_AGE_DAYS"); v != "" {
		c.Logging.MaxAgeDays = ParseIntWithFallback(v, c.Logging.MaxAgeDays)
	}

	// Application configuration
	if v := os.Getenv("WL_APP_TIMEOUT"); v != "" {
		c.Application.Timeout = ParseDurationWithFallback(v, c.Application.Timeout)
	}

	return nil
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	// Autosave configuration
	if c.Autosave.DebounceDelay <= 0 {
		return &ConfigError{Field: "autosave.debounce_delay", Message: "debounce delay must be positive"}
	}
	if c.Autosave.SaveTimeout <= 0 {
		return &ConfigError{Field: "autosave.save_timeout", Message: "save timeout must be positive"}
	}

	// Validation rules
	if c.Validation.RetentionWindow <= 0 {
		return &ConfigError{Field: "validation.retention_window", Message: "retention window must be positive"}
	}
	if c.Validation.MaxDuration <= 0 {
		return &ConfigError{Field: "validation.max_duration", Message: "max duration must be positive"}
	}
	if c.Validation.MemoMaxLength < 1 {
		return &ConfigError{Field: "validation.memo_max_length", Message: "memo max length must be at least 1"}
	}

	// Local store configuration
	if c.Local.Backend != BackendSQLite && c.Local.Backend != BackendBolt {
		return &ConfigError{Field: "local.backend", Message: "backend must be one of: sqlite, bolt"}
	}
	if c.Local.Dir == "" {
		return &ConfigError{Field: "local.dir", Message: "local store directory cannot be empty"}
	}
	if c.Local.Filename == "" {
		return &ConfigError{Field: "local.filename", Message: "local store filename cannot be empty"}
	}
	if c.Local.RecoveryTTL < 0 {
		return &ConfigError{Field: "local.recovery_ttl", Message: "recovery ttl cannot be negative"}
	}

	// Remote configuration
	if c.Remote.BaseURL == "" {
		return &ConfigError{Field: "remote.base_url", Message: "base url cannot be empty"}
	}
	if c.Remote.Timeout <= 0 {
		return &ConfigError{Field: "remote.timeout", Message: "remote timeout must be positive"}
	}
	if c.Remote.MaxRetries < 0 {
		return &ConfigError{Field: "remote.max_retries", Message: "max retries cannot be negative"}
	}

	// Application configuration
	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}

// ParseDurationWithFallback parses a duration string with a fallback value
func ParseDurationWithFallback(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return fallback
}

// ParseIntWithFallback parses an integer string with a fallback value
func ParseIntWithFallback(s string, fallback int) int {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return fallback
}

// ParseBoolWithFallback parses a boolean string with a fallback value
func ParseBoolWithFallback(s string, fallback bool) bool {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return fallback
}

// ParseUint32WithFallback parses a uint32 string with a fallback value
func ParseUint32WithFallback(s string, base int, fallback uint32) uint32 {
	if u, err := strconv.ParseUint(s, base, 32); err == nil {
		return uint32(u)
	}
	return fallback
}
