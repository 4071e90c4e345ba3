package config

import (
	"time"
)

// DefaultSyncTimeoutMS bounds blocking dispatches issued by tooling when the
// config does not say otherwise.
const DefaultSyncTimeoutMS = 30000

// Config holds the main configuration for the dispatcher.
type Config struct {
	Version  string         `json:"version"            yaml:"version"`
	Logging  LoggingConfig  `json:"logging,omitempty"  yaml:"logging,omitempty"`
	Dispatch DispatchConfig `json:"dispatch,omitempty" yaml:"dispatch,omitempty"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `json:"level,omitempty"  yaml:"level,omitempty"`
	File   string `json:"file,omitempty"   yaml:"file,omitempty"`
	ToFile bool   `json:"to_file,omitempty" yaml:"to_file,omitempty"`
}

// DispatchConfig holds main-thread dispatch configuration.
type DispatchConfig struct {
	// Backend forces a backend by display name. The
	// AURORAVIEW_MAINTHREAD_BACKEND environment variable still wins.
	Backend string `json:"backend,omitempty" yaml:"backend,omitempty"`

	// SyncTimeoutMS bounds blocking dispatches issued by the CLI doctor
	// probe, in milliseconds.
	SyncTimeoutMS int `json:"sync_timeout_ms,omitempty" yaml:"sync_timeout_ms,omitempty"`

	// Priorities overrides per-backend registry priorities, keyed by
	// display name.
	Priorities map[string]int `json:"priorities,omitempty" yaml:"priorities,omitempty"`
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	return &Config{
		Version: "1",
		Dispatch: DispatchConfig{
			SyncTimeoutMS: DefaultSyncTimeoutMS,
		},
	}
}

// SyncTimeout returns the configured sync dispatch bound as a duration.
func (c *Config) SyncTimeout() time.Duration {
	ms := c.Dispatch.SyncTimeoutMS
	if ms <= 0 {
		ms = DefaultSyncTimeoutMS
	}
	return time.Duration(ms) * time.Millisecond
}
