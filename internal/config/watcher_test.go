package config

import (
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_InitialSnapshot(t *testing.T) {
	path := writeConfig(t, "version: \"1\"\n")

	w, err := NewWatcher(path, func(*Config, error) {})
	require.NoError(t, err)
	t.Cleanup(w.Close)

	cfg := w.Snapshot()
	require.NotNil(t, cfg)
	assert.Equal(t, "1", cfg.Version)
	assert.Equal(t, uint32(0), w.ReloadCount())
}

func TestWatcher_InvalidInitialConfig(t *testing.T) {
	path := writeConfig(t, "version: \"2\"\n")

	_, err := NewWatcher(path, func(*Config, error) {})
	assert.Error(t, err)
}

func TestWatcher_Reload(t *testing.T) {
	path := writeConfig(t, "version: \"1\"\n")

	var reloaded atomic.Int32
	w, err := NewWatcher(path, func(cfg *Config, err error) {
		if err == nil && cfg.Dispatch.Backend == "nuke" {
			reloaded.Add(1)
		}
	})
	require.NoError(t, err)
	t.Cleanup(w.Close)

	require.NoError(t, os.WriteFile(path, []byte("version: \"1\"\ndispatch:\n  backend: nuke\n"), 0o600))

	assert.Eventually(t, func() bool {
		return reloaded.Load() > 0
	}, 5*time.Second, 50*time.Millisecond)

	assert.Equal(t, "nuke", w.Snapshot().Dispatch.Backend)
}
