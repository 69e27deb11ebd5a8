package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/lifeline/internal/core/notify"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "https://api.lifeline.example.com", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, 60*time.Second, cfg.Badge.PollInterval)
	assert.Equal(t, ThemeDark, cfg.Theme)
	assert.False(t, cfg.PushEnabled(), "push is opt-in")
}

func TestLoad_PushEnabledRequiresFeedURL(t *testing.T) {
	path := writeConfig(t, `
push:
  enabled: true
`)
	_, err := Load(path, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "push.feed_url")
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://donate.example.org
  token: tok-123
  timeout: 5s
push:
  feed_url: wss://donate.example.org/feed
  enabled: true
badge:
  poll_interval: 30s
mute:
  - "donation_*"
theme: light
`)

	dataDir := t.TempDir()
	cfg, err := Load(path, dataDir)
	require.NoError(t, err)

	assert.Equal(t, "https://donate.example.org", cfg.API.BaseURL)
	assert.Equal(t, "tok-123", cfg.API.Token)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, "wss://donate.example.org/feed", cfg.Push.FeedURL)
	assert.True(t, cfg.PushEnabled())
	assert.Equal(t, 30*time.Second, cfg.Badge.PollInterval)
	assert.Equal(t, ThemeLight, cfg.Theme)
	assert.Equal(t, dataDir, cfg.DataDir)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().API.BaseURL, cfg.API.BaseURL)
}

func TestLoad_TokenFromEnv(t *testing.T) {
	t.Setenv("LIFELINE_TOKEN", "env-token")

	cfg, err := Load("", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.API.Token)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "api: [not a map")
	_, err := Load(path, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		cfg := DefaultConfig()
		cfg.DataDir = "/tmp/lifeline"
		cfg.Push.FeedURL = "wss://example.com/feed"
		return cfg
	}

	t.Run("valid", func(t *testing.T) {
		cfg := valid()
		assert.NoError(t, cfg.Validate())
	})

	t.Run("empty data dir", func(t *testing.T) {
		cfg := valid()
		cfg.DataDir = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("poll interval too short", func(t *testing.T) {
		cfg := valid()
		cfg.Badge.PollInterval = 100 * time.Millisecond
		assert.Error(t, cfg.Validate())
	})

	t.Run("bad theme", func(t *testing.T) {
		cfg := valid()
		cfg.Theme = "solarized"
		assert.Error(t, cfg.Validate())
	})

	t.Run("bad mute pattern", func(t *testing.T) {
		cfg := valid()
		cfg.Mute = []string{"[unclosed"}
		assert.Error(t, cfg.Validate())
	})
}

func TestMuted(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mute = []string{"donation_*", "system_announcement"}

	assert.True(t, cfg.Muted(notify.TypeDonationReminder))
	assert.True(t, cfg.Muted(notify.TypeDonationCompleted))
	assert.True(t, cfg.Muted(notify.TypeSystemAnnouncement))
	assert.False(t, cfg.Muted(notify.TypeBloodNeeded))
}

func TestValidateDeep(t *testing.T) {
	t.Run("bad api scheme", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DataDir = t.TempDir()
		cfg.API.BaseURL = "ftp://example.com"
		assert.Error(t, cfg.ValidateDeep(""))
	})

	t.Run("bad feed scheme", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DataDir = t.TempDir()
		cfg.Push.FeedURL = "https://example.com/feed"
		assert.Error(t, cfg.ValidateDeep(""))
	})

	t.Run("config path is a directory", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DataDir = t.TempDir()
		cfg.Push.FeedURL = "wss://example.com/feed"
		assert.Error(t, cfg.ValidateDeep(t.TempDir()))
	})

	t.Run("valid", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DataDir = t.TempDir()
		cfg.Push.FeedURL = "wss://example.com/feed"
		assert.NoError(t, cfg.ValidateDeep(""))
	})
}
