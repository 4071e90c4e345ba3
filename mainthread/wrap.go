package mainthread

import (
	"time"

	"github.com/loonghao/auroraview-sub000/mainthread/backend"
)

// Deferred returns a closure that schedules fn on the main thread each
// time it is called, without waiting.
func (d *Dispatcher) Deferred(fn func()) func() error {
	return func() error { return d.RunOnMain(fn) }
}

// Synced returns a closure that runs fn on the main thread and waits for
// its result each time it is called.
func (d *Dispatcher) Synced(fn backend.Task) func() (any, error) {
	return func() (any, error) { return d.RunOnMainSync(fn) }
}

// SyncedTimeout is Synced with a bound on each call's wait.
func (d *Dispatcher) SyncedTimeout(fn backend.Task, timeout time.Duration) func() (any, error) {
	return func() (any, error) { return d.RunOnMainSyncTimeout(fn, timeout) }
}

// Guard wraps a value whose methods must only run on the main thread,
// typically a host API handle. Every access goes through the dispatcher,
// so callers never touch the value from the wrong goroutine.
type Guard[T any] struct {
	d     *Dispatcher
	value T
}

// NewGuard wraps value behind dispatcher d.
func NewGuard[T any](d *Dispatcher, value T) *Guard[T] {
	return &Guard[T]{d: d, value: value}
}

// Do runs fn against the guarded value on the main thread and waits.
func (g *Guard[T]) Do(fn func(T) error) error {
	_, err := g.d.RunOnMainSync(func() (any, error) {
		return nil, fn(g.value)
	})
	return err
}

// With runs fn against the guarded value on the main thread and returns
// its result.
func (g *Guard[T]) With(fn func(T) (any, error)) (any, error) {
	return g.d.RunOnMainSync(func() (any, error) { return fn(g.value) })
}

// Async schedules fn against the guarded value without waiting.
func (g *Guard[T]) Async(fn func(T)) error {
	return g.d.RunOnMain(func() { fn(g.value) })
}

// Deferred wraps fn via the Default dispatcher.
func Deferred(fn func()) func() error { return Default().Deferred(fn) }

// Synced wraps fn via the Default dispatcher.
func Synced(fn backend.Task) func() (any, error) { return Default().Synced(fn) }

// SyncedTimeout wraps fn via the Default dispatcher with a bounded wait.
func SyncedTimeout(fn backend.Task, timeout time.Duration) func() (any, error) {
	return Default().SyncedTimeout(fn, timeout)
}
