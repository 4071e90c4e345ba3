package mainthread

import (
	"fmt"
	"time"

	"github.com/loonghao/auroraview-sub000/mainthread/backend"
)

// Future is the handle to a callable scheduled on the main thread. The
// body runs to completion inside a single marshaled call; the Future only
// lets other goroutines wait for the outcome.
type Future struct {
	done  chan struct{}
	value any
	err   error
}

// RunOnMainFuture schedules fn on the main thread and returns immediately
// with a Future for its result. A panic inside fn resolves the Future
// with an error instead of crashing the host loop.
func (d *Dispatcher) RunOnMainFuture(fn backend.Task) *Future {
	f := &Future{done: make(chan struct{})}

	err := d.RunOnMain(func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				f.err = fmt.Errorf("panic in main-thread callable: %v", r)
			}
		}()
		f.value, f.err = fn()
	})
	if err != nil {
		f.err = err
		close(f.done)
	}
	return f
}

// Wait blocks until the callable has run and returns its result.
func (f *Future) Wait() (any, error) {
	<-f.done
	return f.value, f.err
}

// WaitTimeout is Wait with a bound. On expiry it returns a TimeoutError;
// the callable still runs, its result readable by a later Wait.
func (f *Future) WaitTimeout(timeout time.Duration) (any, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-time.After(timeout):
		return nil, &TimeoutError{Timeout: timeout}
	}
}

// Done returns a channel closed when the callable has run.
func (f *Future) Done() <-chan struct{} { return f.done }

// RunOnMainFuture schedules fn via the Default dispatcher.
func RunOnMainFuture(fn backend.Task) *Future { return Default().RunOnMainFuture(fn) }
