// Package maya adapts Autodesk Maya's deferred-call queue and blocking
// call-with-result primitive to the main-thread dispatch contract.
package maya

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/loonghao/auroraview-sub000/mainthread/backend"
)

// Name is the backend display name.
const Name = "maya"

// ErrNotInstalled is returned when a dispatch is attempted before the Maya
// scripting bridge has been installed.
var ErrNotInstalled = errors.New("maya: scripting bridge not installed")

// Runtime is the narrow surface of the Maya scripting bridge this adapter
// needs. The embedding glue installs it once Maya's command engine is up.
//
// Contract:
//   - ExecuteDeferred queues fn on Maya's deferred-call (idle event) queue.
//   - ExecuteInMainThreadWithResult runs fn on the Maya main thread and
//     blocks the caller until it returns.
//   - IsMainThread answers Maya's own thread-identity query; Maya's main
//     thread is not necessarily the process's initial OS thread.
type Runtime interface {
	ExecuteDeferred(fn func())
	ExecuteInMainThreadWithResult(fn func() (any, error)) (any, error)
	IsMainThread() bool
}

type holder struct{ rt Runtime }

var installed atomic.Pointer[holder]

// Install sets the process-wide Maya bridge handle. Passing nil uninstalls
// it; availability reports false until a handle is installed again.
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

// Backend dispatches through the Maya scripting bridge.
type Backend struct {
	log *slog.Logger
}

// New creates the Maya backend.
func New() *Backend {
	return &Backend{log: slog.Default().With("backend", Name)}
}

// Spec returns the lazy registry spec for this backend.
func Spec() backend.Spec {
	return backend.Spec{Name: Name, New: func() backend.Backend { return New() }}
}

// Name returns the backend display name.
func (b *Backend) Name() string { return Name }

// Available probes for an installed, responsive Maya bridge.
func (b *Backend) Available() bool {
	return backend.Probe(current())
}

// RunDeferred queues fn on Maya's deferred-call queue. Panics inside fn are
// logged; the caller has no result channel.
func (b *Backend) RunDeferred(fn func()) {
	rt := current()
	if rt == nil {
		b.log.Error("Maya bridge not installed; dropping deferred callable")
		return
	}
	rt.ExecuteDeferred(backend.Protect(b.log, fn))
}

// RunSync executes fn on the Maya main thread and blocks until it finishes.
// Callers already on the main thread run inline; marshaling back through
// the idle queue while it is blocked on this very call would deadlock.
func (b *Backend) RunSync(ctx context.Context, fn backend.Task) (any, error) {
	rt := current()
	if rt == nil {
		return nil, ErrNotInstalled
	}
	if rt.IsMainThread() {
		return fn()
	}
	return backend.SyncViaNative(ctx, rt.ExecuteInMainThreadWithResult, fn)
}

// IsMainThread answers Maya's thread-identity query.
func (b *Backend) IsMainThread() bool {
	if rt := current(); rt != nil {
		return rt.IsMainThread()
	}
	return backend.Base{}.IsMainThread()
}

var _ backend.Backend = (*Backend)(nil)
