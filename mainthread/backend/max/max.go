// Package max adapts 3ds Max to the main-thread dispatch contract. Max
// hosts a Qt event loop, so scheduling goes through a single-shot timer on
// the embedded toolkit; there is no native blocking primitive.
package max

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/loonghao/auroraview-sub000/mainthread/backend"
)

// Name is the backend display name.
const Name = "max"

// ErrNotInstalled is returned when a dispatch is attempted before the Max
// bridge has been installed.
var ErrNotInstalled = errors.New("max: qt bridge not installed")

// Runtime is the surface of the Max bridge this adapter needs: a zero-delay
// single-shot timer on the Qt loop Max runs its UI on.
type Runtime interface {
	SingleShot(fn func())
}

type holder struct{ rt Runtime }

var installed atomic.Pointer[holder]

// Install sets the process-wide Max bridge handle. Nil uninstalls it.
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

// Backend dispatches through the Qt loop embedded in 3ds Max.
type Backend struct {
	backend.Base
	log *slog.Logger
}

// New creates the Max backend.
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
		b.log.Error("Max bridge not installed; dropping deferred callable")
		return
	}
	rt.SingleShot(backend.Protect(b.log, fn))
}

func (b *Backend) RunSync(ctx context.Context, fn backend.Task) (any, error) {
	rt := current()
	if rt == nil {
		return nil, ErrNotInstalled
	}
	if b.IsMainThread() {
		return fn()
	}
	return backend.SyncViaDeferred(ctx, rt.SingleShot, fn)
}

var _ backend.Backend = (*Backend)(nil)
