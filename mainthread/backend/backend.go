package backend

import (
	"context"
	"log/slog"
	"runtime"
)

// Task is a unit of work executed on the host main thread.
type Task func() (any, error)

// Backend adapts one host application's native call primitives to the
// uniform dispatch contract.
//
// Contract:
//   - Available must never panic and must not block; any detection failure
//     reports false.
//   - RunDeferred schedules fn to run later, exactly once, on the host main
//     thread and returns immediately. The caller has no channel for the
//     result; panics inside fn must at minimum be logged by the adapter.
//   - RunSync executes fn on the host main thread and blocks until it
//     finishes. When the caller is already on the main thread, fn runs
//     inline with zero marshaling; anything else would deadlock against a
//     blocked event loop. The ctx deadline bounds the caller's wait only;
//     work already submitted to the host cannot be retracted. Errors from
//     fn are returned unchanged and panics from fn are re-raised on the
//     calling goroutine. Backends do not normalize failures; that is the
//     facade's job.
//   - IsMainThread reports whether the calling goroutine is the host main
//     thread.
type Backend interface {
	Name() string
	Available() bool
	RunDeferred(fn func())
	RunSync(ctx context.Context, fn Task) (any, error)
	IsMainThread() bool
}

// mainGoroutineID is the ID of the goroutine that ran package
// initialization, which the Go runtime guarantees is the process main
// goroutine.
var mainGoroutineID uint64

func init() {
	mainGoroutineID = GoroutineID()
}

// GoroutineID returns the current goroutine's ID.
func GoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] >= '0' && buf[i] <= '9' {
			id = id*10 + uint64(buf[i]-'0')
		} else {
			break
		}
	}
	return id
}

// Base supplies the default main-thread identity test: compare against the
// process main goroutine. Hosts whose canonical main thread differs, or
// that expose their own thread-identity query, override it.
type Base struct{}

// IsMainThread reports whether the caller runs on the process main goroutine.
func (Base) IsMainThread() bool {
	return GoroutineID() == mainGoroutineID
}

// Protect wraps a deferred callable so a panic is logged instead of tearing
// down the host event loop. The caller of RunDeferred has no way to observe
// the failure, so logging is the floor.
func Protect(log *slog.Logger, fn func()) func() {
	if log == nil {
		log = slog.Default()
	}
	return func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("Panic in deferred main-thread callable", "panic", r)
			}
		}()
		fn()
	}
}
