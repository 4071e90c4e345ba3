package backend

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// call is the transient result holder that bridges one blocking dispatch
// across the thread boundary. Its fields are written exactly once, by the
// executing side, before done is closed; a caller that gave up never reads
// them again, so a late write after timeout is harmless.
type call struct {
	done      chan struct{}
	value     any
	err       error
	panicked  any
	hasPanic  bool
	abandoned atomic.Bool
}

func newCall() *call {
	return &call{done: make(chan struct{})}
}

// bind returns the closure handed to the host scheduling primitive.
func (c *call) bind(fn Task) func() {
	return func() {
		defer func() {
			if r := recover(); r != nil {
				c.panicked = r
				c.hasPanic = true
			}
			if c.abandoned.Load() {
				slog.Debug("Main-thread callable completed after caller stopped waiting")
			}
			close(c.done)
		}()
		c.value, c.err = fn()
	}
}

// wait blocks until the callable settles or ctx expires. Panics captured on
// the main thread are re-raised here, on the calling goroutine.
func (c *call) wait(ctx context.Context) (any, error) {
	select {
	case <-c.done:
		if c.hasPanic {
			panic(c.panicked)
		}
		return c.value, c.err
	case <-ctx.Done():
		c.abandoned.Store(true)
		return nil, ctx.Err()
	}
}

// SyncViaDeferred builds a blocking dispatch-with-result from a one-shot
// scheduling primitive. It is the sync path for hosts that only expose a
// timer or tick callback: schedule the callable, then block the caller on
// the result holder, bounded by ctx. The wait is never unbounded past the
// ctx deadline; a host main thread that never becomes free (shutdown, modal
// loop) releases the caller via ctx rather than hanging it.
func SyncViaDeferred(ctx context.Context, schedule func(func()), fn Task) (any, error) {
	c := newCall()
	schedule(c.bind(fn))
	return c.wait(ctx)
}

// SyncViaNative bounds a host-native blocking primitive with ctx. The native
// call runs on a helper goroutine so the caller can stop waiting at the
// deadline; the host-side work itself cannot be retracted once submitted.
func SyncViaNative(ctx context.Context, invoke func(func() (any, error)) (any, error), fn Task) (any, error) {
	c := newCall()
	go c.bind(func() (any, error) {
		return invoke(fn)
	})()
	return c.wait(ctx)
}
