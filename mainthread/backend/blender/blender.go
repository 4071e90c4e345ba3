// Package blender adapts Blender's one-shot application timer to the
// main-thread dispatch contract. Blender has no native blocking primitive;
// the sync path is built from the timer plus a result holder.
package blender

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/loonghao/auroraview-sub000/mainthread/backend"
)

// Name is the backend display name.
const Name = "blender"

// ErrNotInstalled is returned when a dispatch is attempted before the
// Blender bridge has been installed.
var ErrNotInstalled = errors.New("blender: application bridge not installed")

// Runtime is the surface of the Blender bridge this adapter needs: a
// one-shot application timer whose callback fires on Blender's main thread.
type Runtime interface {
	RegisterTimer(delay time.Duration, fn func())
}

type holder struct{ rt Runtime }

var installed atomic.Pointer[holder]

// Install sets the process-wide Blender bridge handle. Nil uninstalls it.
func Install(rt Runtime) {
	if rt == nil {
		installed.Store(nil)
		return
	}
	installed.Store(&holder{rt: rt})
}

func current() Runtime {
	if h := installed.Load(); h != nil {
		return h.rt
	}
	return nil
}

// Backend dispatches through Blender's application timer.
type Backend struct {
	backend.Base
	log *slog.Logger
}

// New creates the Blender backend.
func New() *Backend {
	return &Backend{log: slog.Default().With("backend", Name)}
}

// Spec returns the lazy registry spec for this backend.
func Spec() backend.Spec {
	return backend.Spec{Name: Name, New: func() backend.Backend { return New() }}
}

func (b *Backend) Name() string { return Name }

func (b *Backend) Available() bool {
	return backend.Probe(current())
}

func (b *Backend) RunDeferred(fn func()) {
	rt := current()
	if rt == nil {
		b.log.Error("Blender bridge not installed; dropping deferred callable")
		return
	}
	rt.RegisterTimer(0, backend.Protect(b.log, fn))
}

// RunSync builds the blocking call from the timer primitive: register a
// zero-delay timer, block on the result holder until the callback settles
// it or ctx expires.
func (b *Backend) RunSync(ctx context.Context, fn backend.Task) (any, error) {
	rt := current()
	if rt == nil {
		return nil, ErrNotInstalled
	}
	if b.IsMainThread() {
		return fn()
	}
	return backend.SyncViaDeferred(ctx, func(run func()) {
		rt.RegisterTimer(0, run)
	}, fn)
}

var _ backend.Backend = (*Backend)(nil)
