// Package config handles configuration loading and validation for lifeline.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/colonyops/lifeline/internal/core/notify"
)

// Config holds the application configuration.
type Config struct {
	API     APIConfig   `yaml:"api"`
	Push    PushConfig  `yaml:"push"`
	Badge   BadgeConfig `yaml:"badge"`
	Mute    []string    `yaml:"mute"`
	Theme   string      `yaml:"theme"`
	DataDir string      `yaml:"-"` // set by caller, not from config file
}

// APIConfig holds connection settings for the donation service API.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
}

// PushConfig holds the push feed connection settings.
type PushConfig struct {
	FeedURL string `yaml:"feed_url"`
	Enabled *bool  `yaml:"enabled"`
}

// BadgeConfig holds unread badge behavior settings.
type BadgeConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"`
}

// Supported TUI themes.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	// Push is opt-in. It needs a feed URL, so a bare config cannot
	// enable it.
	enabled := false
	return Config{
		API: APIConfig{
			BaseURL: "https://api.lifeline.example.com",
			Timeout: 10 * time.Second,
		},
		Push: PushConfig{
			Enabled: &enabled,
		},
		Badge: BadgeConfig{
			PollInterval: 60 * time.Second,
		},
		Theme: ThemeDark,
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	// Token can come from the environment instead of the config file
	if cfg.API.Token == "" {
		cfg.API.Token = os.Getenv("LIFELINE_TOKEN")
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaults.API.BaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = defaults.API.Timeout
	}
	if c.Badge.PollInterval == 0 {
		c.Badge.PollInterval = defaults.Badge.PollInterval
	}
	if c.Push.Enabled == nil {
		c.Push.Enabled = defaults.Push.Enabled
	}
	if c.Theme == "" {
		c.Theme = defaults.Theme
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url cannot be empty")
	}

	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if c.Badge.PollInterval < time.Second {
		return fmt.Errorf("badge.poll_interval must be at least 1s")
	}

	if c.PushEnabled() && c.Push.FeedURL == "" {
		return fmt.Errorf("push.feed_url is required when push is enabled")
	}

	if c.Theme != ThemeDark && c.Theme != ThemeLight {
		return fmt.Errorf("theme must be %q or %q", ThemeDark, ThemeLight)
	}

	for i, pattern := range c.Mute {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("mute[%d]: invalid pattern %q", i, pattern)
		}
	}

	return nil
}

// PushEnabled reports whether the push feed should be connected.
func (c *Config) PushEnabled() bool {
	return c.Push.Enabled != nil && *c.Push.Enabled
}

// Muted reports whether a notification type matches any mute pattern.
// Patterns use glob syntax against the type string, e.g. "donation_*".
func (c *Config) Muted(t notify.Type) bool {
	for _, pattern := range c.Mute {
		if ok, _ := doublestar.Match(pattern, string(t)); ok {
			return true
		}
	}
	return false
}

// CacheFile returns the path to the local SQLite cache.
func (c *Config) CacheFile() string {
	return filepath.Join(c.DataDir, "lifeline.db")
}

// LogFile returns the path to the application log file.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "lifeline.log")
}
