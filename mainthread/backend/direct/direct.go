// Package direct is the last-resort backend: it executes callables on the
// calling goroutine without any marshaling. It is always available and does
// not enforce thread affinity; off-thread use is logged so misrouted calls
// surface in diagnostics instead of crashing silently inside a host.
package direct

import (
	"context"
	"log/slog"

	"github.com/loonghao/auroraview-sub000/mainthread/backend"
)

// Name is the backend display name.
const Name = "direct"

// Backend executes work inline on the calling goroutine.
type Backend struct {
	backend.Base
	log *slog.Logger
}

// New creates the fallback backend.
func New() *Backend {
	return &Backend{log: slog.Default().With("backend", Name)}
}

// Spec returns the lazy registry spec for this backend.
func Spec() backend.Spec {
	return backend.Spec{Name: Name, New: func() backend.Backend { return New() }}
}

func (b *Backend) Name() string { return Name }

// Available always reports true; the fallback tier keeps the registry from
// ever being empty.
func (b *Backend) Available() bool { return true }

func (b *Backend) RunDeferred(fn func()) {
	b.warnOffThread()
	backend.Protect(b.log, fn)()
}

func (b *Backend) RunSync(_ context.Context, fn backend.Task) (any, error) {
	b.warnOffThread()
	return fn()
}

func (b *Backend) warnOffThread() {
	if !b.IsMainThread() {
		b.log.Warn("Direct backend invoked off the main thread; no marshaling will occur")
	}
}

var _ backend.Backend = (*Backend)(nil)
