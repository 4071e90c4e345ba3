package backend

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGoroutineID(t *testing.T) {
	assert.Equal(t, GoroutineID(), GoroutineID(), "stable within a goroutine")

	other := make(chan uint64, 1)
	go func() { other <- GoroutineID() }()
	assert.NotEqual(t, GoroutineID(), <-other, "differs across goroutines")
}

func TestBase_IsMainThread(t *testing.T) {
	// Tests never run on the process main goroutine.
	assert.False(t, Base{}.IsMainThread())
}

func TestProtect_LogsPanic(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	assert.NotPanics(t, func() {
		Protect(log, func() { panic("timer callback blew up") })()
	})
	assert.Contains(t, buf.String(), "timer callback blew up")
}

func TestProtect_NilLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		Protect(nil, func() { panic("x") })()
	})
}

func TestProtect_PassThrough(t *testing.T) {
	ran := false
	Protect(nil, func() { ran = true })()
	assert.True(t, ran)
}
