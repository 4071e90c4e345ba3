package mapsafe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	doc := map[string]any{
		"version":         "1",
		"sync_timeout_ms": 5000,
		"ratio":           0.5,
		"enabled":         true,
	}

	assert.Equal(t, "1", Get(doc, "version", ""))
	assert.Equal(t, 5000, Get(doc, "sync_timeout_ms", 0))
	assert.Equal(t, 0.5, Get(doc, "ratio", 0.0))
	assert.True(t, Get(doc, "enabled", false))

	assert.Equal(t, "auto", Get(doc, "missing", "auto"))
	assert.Equal(t, 30000, Get(doc, "version", 30000), "type mismatch falls back to default")
}

func TestGet_NumericConversion(t *testing.T) {
	doc := map[string]any{"timeout": float64(250), "priority": 80}
	assert.Equal(t, 250, Get(doc, "timeout", 0))
	assert.Equal(t, 80.0, Get(doc, "priority", 0.0))
}

func TestSection(t *testing.T) {
	doc := map[string]any{
		"dispatch": map[string]any{"backend": "maya"},
		"flat":     "value",
	}

	assert.Equal(t, "maya", Get(Section(doc, "dispatch"), "backend", "auto"))
	assert.Equal(t, "auto", Get(Section(doc, "flat"), "backend", "auto"))
	assert.Equal(t, "auto", Get(Section(doc, "missing"), "backend", "auto"))
}
