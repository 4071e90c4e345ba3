package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAndValidate(t *testing.T) {
	path := writeConfig(t, `
version: "1"
logging:
  level: debug
dispatch:
  backend: maya
  sync_timeout_ms: 5000
  priorities:
    qt: 30
    blender: 90
`)

	cfg, err := LoadAndValidate(path)
	require.NoError(t, err)

	assert.Equal(t, "1", cfg.Version)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "maya", cfg.Dispatch.Backend)
	assert.Equal(t, 5*time.Second, cfg.SyncTimeout())
	assert.Equal(t, map[string]int{"qt": 30, "blender": 90}, cfg.Dispatch.Priorities)
}

func TestLoadAndValidate_MissingVersion(t *testing.T) {
	path := writeConfig(t, `
dispatch:
  backend: maya
`)

	_, err := LoadAndValidate(path)
	assert.ErrorContains(t, err, "config validation failed")
}

func TestLoadAndValidate_UnknownKey(t *testing.T) {
	path := writeConfig(t, `
version: "1"
dispatch:
  backends: maya
`)

	_, err := LoadAndValidate(path)
	assert.ErrorContains(t, err, "config validation failed")
}

func TestLoadAndValidate_BadYAML(t *testing.T) {
	path := writeConfig(t, "version: [")

	_, err := LoadAndValidate(path)
	assert.ErrorContains(t, err, "invalid YAML")
}

func TestLoadAndValidate_FileMissing(t *testing.T) {
	_, err := LoadAndValidate(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "1", cfg.Version)
	assert.Equal(t, 30*time.Second, cfg.SyncTimeout())
}

func TestSyncTimeout_ZeroFallsBack(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, 30*time.Second, cfg.SyncTimeout())
}
