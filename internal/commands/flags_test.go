package commands

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLogFile(t *testing.T) {
	stateHome := t.TempDir()
	t.Setenv("XDG_STATE_HOME", stateHome)

	assert.Equal(t, filepath.Join(stateHome, "lifeline", "lifeline.log"), DefaultLogFile())
}

func TestDefaultDataDir(t *testing.T) {
	dataHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)

	assert.Equal(t, filepath.Join(dataHome, "lifeline"), DefaultDataDir())
}

func TestDefaultConfigPath(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)

	assert.Equal(t, filepath.Join(configHome, "lifeline", "config.yaml"), DefaultConfigPath())
}
