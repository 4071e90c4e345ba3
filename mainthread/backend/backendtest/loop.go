// Package backendtest provides a fake host main loop for exercising
// adapters without a real host application.
package backendtest

import (
	"sync/atomic"

	"github.com/loonghao/auroraview-sub000/mainthread/backend"
)

// Loop runs scheduled callables serially on a dedicated goroutine, standing
// in for a host's main-thread event loop.
type Loop struct {
	tasks chan func()
	quit  chan struct{}
	done  chan struct{}
	gid   atomic.Uint64
}

// NewLoop starts the loop goroutine.
func NewLoop() *Loop {
	l := &Loop{
		tasks: make(chan func(), 64),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *Loop) run() {
	defer close(l.done)
	l.gid.Store(backend.GoroutineID())
	for {
		select {
		case fn := <-l.tasks:
			fn()
		case <-l.quit:
			return
		}
	}
}

// Schedule queues fn for execution on the loop goroutine.
func (l *Loop) Schedule(fn func()) {
	select {
	case l.tasks <- fn:
	case <-l.quit:
	}
}

// OnLoop reports whether the caller is the loop goroutine.
func (l *Loop) OnLoop() bool {
	return backend.GoroutineID() == l.gid.Load()
}

// Close stops the loop goroutine and waits for it to exit.
func (l *Loop) Close() {
	close(l.quit)
	<-l.done
}
