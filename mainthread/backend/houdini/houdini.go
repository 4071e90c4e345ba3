// Package houdini adapts SideFX Houdini's main-thread executor to the
// main-thread dispatch contract.
package houdini

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/loonghao/auroraview-sub000/mainthread/backend"
)

// Name is the backend display name.
const Name = "houdini"

// ErrNotInstalled is returned when a dispatch is attempted before the
// Houdini scripting bridge has been installed.
var ErrNotInstalled = errors.New("houdini: scripting bridge not installed")

// Runtime is the surface of the Houdini scripting bridge this adapter
// needs: the deferred executor and its result-returning variant, both
// serviced by Houdini's UI event loop.
type Runtime interface {
	Execute(fn func())
	ExecuteWithResult(fn func() (any, error)) (any, error)
	IsMainThread() bool
}

type holder struct{ rt Runtime }

var installed atomic.Pointer[holder]

// Install sets the process-wide Houdini bridge handle. Nil uninstalls it.
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

// Backend dispatches through the Houdini main-thread executor.
type Backend struct {
	log *slog.Logger
}

// New creates the Houdini backend.
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
		b.log.Error("Houdini bridge not installed; dropping deferred callable")
		return
	}
	rt.Execute(backend.Protect(b.log, fn))
}

func (b *Backend) RunSync(ctx context.Context, fn backend.Task) (any, error) {
	rt := current()
	if rt == nil {
		return nil, ErrNotInstalled
	}
	if rt.IsMainThread() {
		return fn()
	}
	return backend.SyncViaNative(ctx, rt.ExecuteWithResult, fn)
}

func (b *Backend) IsMainThread() bool {
	if rt := current(); rt != nil {
		return rt.IsMainThread()
	}
	return backend.Base{}.IsMainThread()
}

var _ backend.Backend = (*Backend)(nil)
