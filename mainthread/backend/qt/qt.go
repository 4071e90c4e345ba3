// Package qt adapts a generic Qt-style GUI toolkit to the main-thread
// dispatch contract, for tools running outside any recognized host. The
// toolkit only offers a single-shot timer; blocking dispatch is built from
// it.
package qt

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/loonghao/auroraview-sub000/mainthread/backend"
)

// Name is the backend display name.
const Name = "qt"

// ErrNotInstalled is returned when a dispatch is attempted before the
// toolkit bridge has been installed.
var ErrNotInstalled = errors.New("qt: toolkit bridge not installed")

// Runtime is the surface of the toolkit bridge this adapter needs: a
// single-shot timer whose callback fires on the GUI thread.
type Runtime interface {
	SingleShot(delay time.Duration, fn func())
}

type holder struct{ rt Runtime }

var installed atomic.Pointer[holder]

// Install sets the process-wide toolkit bridge handle. Nil uninstalls it.
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

// Backend dispatches through the toolkit's single-shot timer.
type Backend struct {
	backend.Base
	log *slog.Logger
}

// New creates the toolkit backend.
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
		b.log.Error("Toolkit bridge not installed; dropping deferred callable")
		return
	}
	rt.SingleShot(0, backend.Protect(b.log, fn))
}

func (b *Backend) RunSync(ctx context.Context, fn backend.Task) (any, error) {
	rt := current()
	if rt == nil {
		return nil, ErrNotInstalled
	}
	if b.IsMainThread() {
		return fn()
	}
	return backend.SyncViaDeferred(ctx, func(run func()) {
		rt.SingleShot(0, run)
	}, fn)
}

var _ backend.Backend = (*Backend)(nil)
