// Package unreal adapts Unreal Engine's scripting tick to the main-thread
// dispatch contract. Work is scheduled as a one-shot callback on the next
// game-thread tick; the sync path is built from the tick plus a result
// holder since the engine exposes no blocking call.
package unreal

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/loonghao/auroraview-sub000/mainthread/backend"
)

// Name is the backend display name.
const Name = "unreal"

// ErrNotInstalled is returned when a dispatch is attempted before the
// engine bridge has been installed.
var ErrNotInstalled = errors.New("unreal: engine bridge not installed")

// Runtime is the surface of the engine bridge this adapter needs.
// RegisterNextTick fires fn exactly once on the next game-thread tick;
// IsGameThread is the engine's own thread-identity query.
type Runtime interface {
	RegisterNextTick(fn func())
	IsGameThread() bool
}

type holder struct{ rt Runtime }

var installed atomic.Pointer[holder]

// Install sets the process-wide engine bridge handle. Nil uninstalls it.
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

// Backend dispatches onto the Unreal game thread.
type Backend struct {
	log *slog.Logger
}

// New creates the Unreal backend.
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
		b.log.Error("Engine bridge not installed; dropping deferred callable")
		return
	}
	rt.RegisterNextTick(backend.Protect(b.log, fn))
}

func (b *Backend) RunSync(ctx context.Context, fn backend.Task) (any, error) {
	rt := current()
	if rt == nil {
		return nil, ErrNotInstalled
	}
	// The game thread cannot wait on its own next tick.
	if rt.IsGameThread() {
		return fn()
	}
	return backend.SyncViaDeferred(ctx, rt.RegisterNextTick, fn)
}

// IsMainThread reports whether the caller is on the game thread, Unreal's
// designated main thread for scripting APIs.
func (b *Backend) IsMainThread() bool {
	if rt := current(); rt != nil {
		return rt.IsGameThread()
	}
	return backend.Base{}.IsMainThread()
}

var _ backend.Backend = (*Backend)(nil)
