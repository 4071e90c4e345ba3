// Package nuke adapts Foundry Nuke's deferred-eval queue and blocking eval
// primitive to the main-thread dispatch contract.
package nuke

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/loonghao/auroraview-sub000/mainthread/backend"
)

// Name is the backend display name.
const Name = "nuke"

// ErrNotInstalled is returned when a dispatch is attempted before the Nuke
// scripting bridge has been installed.
var ErrNotInstalled = errors.New("nuke: scripting bridge not installed")

// Runtime is the surface of the Nuke scripting bridge this adapter needs.
// ExecuteInMainThread queues fn for evaluation between script executions;
// ExecuteInMainThreadWithResult blocks the caller on the eval result.
type Runtime interface {
	ExecuteInMainThread(fn func())
	ExecuteInMainThreadWithResult(fn func() (any, error)) (any, error)
	IsMainThread() bool
}

type holder struct{ rt Runtime }

var installed atomic.Pointer[holder]

// Install sets the process-wide Nuke bridge handle. Nil uninstalls it.
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

// Backend dispatches through the Nuke scripting bridge.
type Backend struct {
	log *slog.Logger
}

// New creates the Nuke backend.
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
		b.log.Error("Nuke bridge not installed; dropping deferred callable")
		return
	}
	rt.ExecuteInMainThread(backend.Protect(b.log, fn))
}

func (b *Backend) RunSync(ctx context.Context, fn backend.Task) (any, error) {
	rt := current()
	if rt == nil {
		return nil, ErrNotInstalled
	}
	// Inline when already on the main thread; the blocking eval would
	// otherwise wait on an eval queue that is waiting on us.
	if rt.IsMainThread() {
		return fn()
	}
	return backend.SyncViaNative(ctx, rt.ExecuteInMainThreadWithResult, fn)
}

func (b *Backend) IsMainThread() bool {
	if rt := current(); rt != nil {
		return rt.IsMainThread()
	}
	return backend.Base{}.IsMainThread()
}

var _ backend.Backend = (*Backend)(nil)
