package config

import (
	"time"
)

// Loader handles loading configuration from multiple sources
type Loader struct {
	config   *Config
	filePath string
}

// NewLoader creates a new configuration loader reading the default config file
func NewLoader() *Loader {
	path, _ := DefaultFilePath()
	return &Loader{
		config:   NewConfig(),
		filePath: path,
	}
}

// NewLoaderWithFile creates a loader that reads the given TOML file
func NewLoaderWithFile(path string) *Loader {
	return &Loader{
		config:   NewConfig(),
		filePath: path,
	}
}

// Load loads configuration using the cascading strategy:
// 1. Start with defaults
// 2. Override with the TOML config file
// 3. Override with environment variables
// 4. Override with command line flags (LoadWithOverrides)
func (l *Loader) Load() (*Config, error) {
	if l.filePath != "" {
		if err := l.config.LoadFile(l.filePath); err != nil {
			return nil, err
		}
	}

	if err := l.config.LoadFromEnvironment(); err != nil {
		return nil, err
	}

	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	return l.config, nil
}

// LoadWithOverrides loads configuration and applies command line overrides
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	config, err := l.Load()
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		l.applyOverrides(config, overrides)
	}

	// Re-validate after applying overrides
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// ConfigOverrides holds command line flag overrides
type ConfigOverrides struct {
	// Autosave overrides
	DebounceDelay *time.Duration

	// Local store overrides
	LocalBackend  *string
	LocalDir      *string
	LocalFilename *string

	// Remote overrides
	RemoteBaseURL *string
	RemoteToken   *string

	// Notification overrides
	Notify  *bool
	Desktop *bool

	// Logging overrides
	Debug   *bool
	LogFile *string
}

// applyOverrides applies command line overrides to the configuration
func (l *Loader) applyOverrides(config *Config, overrides *ConfigOverrides) {
	setValue(&config.Autosave.DebounceDelay, overrides.DebounceDelay)

	setValue(&config.Local.Backend, overrides.LocalBackend)
	setValue(&config.Local.Dir, overrides.LocalDir)
	setValue(&config.Local.Filename, overrides.LocalFilename)

	setValue(&config.Remote.BaseURL, overrides.RemoteBaseURL)
	setValue(&config.Remote.Token, overrides.RemoteToken)

	setValue(&config.Notifications.Enabled, overrides.Notify)
	setValue(&config.Notifications.Desktop, overrides.Desktop)

	setValue(&config.Logging.Debug, overrides.Debug)
	setValue(&config.Logging.File, overrides.LogFile)
}
