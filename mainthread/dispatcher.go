package mainthread

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/loonghao/auroraview-sub000/internal/config"
	"github.com/loonghao/auroraview-sub000/mainthread/backend"
)

// Dispatcher marshals callables onto the host main thread through whichever
// backend its registry resolves. It is safe for concurrent use. Most
// programs use the process-wide Default dispatcher; tests build their own
// with New so catalogue and teardown state stay isolated.
type Dispatcher struct {
	registry *backend.Registry
	log      *slog.Logger
	shutdown atomic.Bool

	mu    sync.Mutex
	depth map[uint64]int
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithRegistry replaces the backend registry.
func WithRegistry(r *backend.Registry) Option {
	return func(d *Dispatcher) { d.registry = r }
}

// WithLogger sets the dispatcher's logger.
func WithLogger(log *slog.Logger) Option {
	return func(d *Dispatcher) { d.log = log }
}

// New creates a Dispatcher. Without options it carries the built-in
// catalogue, seeded lazily on first resolution.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		log:   slog.Default().With("component", "mainthread"),
		depth: make(map[uint64]int),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.registry == nil {
		d.registry = backend.NewRegistry(
			backend.WithBuiltins(Builtins),
			backend.WithLogger(d.log),
		)
	}
	return d
}

var (
	defaultOnce sync.Once
	defaultD    *Dispatcher
)

// Default returns the process-wide dispatcher, built on first use.
func Default() *Dispatcher {
	defaultOnce.Do(func() { defaultD = New() })
	return defaultD
}

// Registry exposes the backend catalogue for registration and diagnostics.
func (d *Dispatcher) Registry() *backend.Registry { return d.registry }

// RunOnMain schedules fn on the main thread and returns without waiting
// for it. Panics inside fn are recovered and logged by the backend.
func (d *Dispatcher) RunOnMain(fn func()) error {
	if d.shutdown.Load() {
		return &ShutdownError{}
	}
	b, err := d.registry.Resolve()
	if err != nil {
		return err
	}
	b.RunDeferred(d.tracked(fn))
	return nil
}

// RunOnMainSync runs fn on the main thread and waits for its result. When
// the caller is already on the main thread the callable runs inline.
// Errors returned by fn come back unchanged; panics inside fn re-raise on
// the calling goroutine. The wait is unbounded; use RunOnMainSyncTimeout
// to bound it.
func (d *Dispatcher) RunOnMainSync(fn backend.Task) (any, error) {
	return d.dispatchSync(context.Background(), fn)
}

// RunOnMainSyncTimeout is RunOnMainSync with a bound on the wait. On
// expiry it returns a TimeoutError; the callable may still run on the
// main thread later, and its late result is discarded.
func (d *Dispatcher) RunOnMainSyncTimeout(fn backend.Task, timeout time.Duration) (any, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	v, err := d.dispatchSync(ctx, fn)
	if errors.Is(err, context.DeadlineExceeded) {
		return nil, &TimeoutError{Timeout: timeout}
	}
	return v, err
}

func (d *Dispatcher) dispatchSync(ctx context.Context, fn backend.Task) (any, error) {
	if d.shutdown.Load() {
		return nil, &ShutdownError{}
	}
	b, err := d.registry.Resolve()
	if err != nil {
		return nil, err
	}

	// A goroutine already executing a marshaled callable can only dispatch
	// again if the backend will run it inline; queueing behind itself
	// would never complete.
	if d.inFlight(backend.GoroutineID()) && !b.IsMainThread() {
		return nil, &DeadlockError{Backend: b.Name()}
	}

	id := shortID()
	d.log.Debug("Dispatching callable to main thread", "id", id, "backend", b.Name())

	v, err := b.RunSync(ctx, func() (any, error) {
		gid := backend.GoroutineID()
		d.enter(gid)
		defer d.exit(gid)
		return fn()
	})
	if err != nil {
		d.log.Debug("Main-thread dispatch finished with error", "id", id, "error", err)
	}
	return v, err
}

// IsMainThread reports whether the calling goroutine is the host main
// thread according to the active backend.
func (d *Dispatcher) IsMainThread() bool {
	b, err := d.registry.Resolve()
	if err != nil {
		return backend.Base{}.IsMainThread()
	}
	return b.IsMainThread()
}

// Shutdown marks the dispatcher as torn down. Every subsequent dispatch
// fails fast with a ShutdownError. Work already marshaled is not
// retracted.
func (d *Dispatcher) Shutdown() {
	if d.shutdown.CompareAndSwap(false, true) {
		d.log.Info("Main-thread dispatcher shut down")
	}
}

// ApplyConfig applies the dispatch section of a loaded config: priority
// overrides first, then the forced backend name. The environment variable
// override still wins over the configured name.
func (d *Dispatcher) ApplyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	for name, priority := range cfg.Dispatch.Priorities {
		if !d.registry.Reprioritize(name, priority) {
			d.log.Warn("Priority override names an unknown backend", "backend", name)
		}
	}
	d.registry.SetOverride(cfg.Dispatch.Backend)
}

// tracked wraps a deferred callable with reentrancy accounting so nested
// blocking dispatches from inside it are caught.
func (d *Dispatcher) tracked(fn func()) func() {
	return func() {
		gid := backend.GoroutineID()
		d.enter(gid)
		defer d.exit(gid)
		fn()
	}
}

func (d *Dispatcher) enter(gid uint64) {
	d.mu.Lock()
	d.depth[gid]++
	d.mu.Unlock()
}

func (d *Dispatcher) exit(gid uint64) {
	d.mu.Lock()
	if d.depth[gid] <= 1 {
		delete(d.depth, gid)
	} else {
		d.depth[gid]--
	}
	d.mu.Unlock()
}

func (d *Dispatcher) inFlight(gid uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.depth[gid] > 0
}

func shortID() string {
	return uuid.NewString()[:8]
}

// RunOnMain schedules fn on the main thread via the Default dispatcher.
func RunOnMain(fn func()) error { return Default().RunOnMain(fn) }

// RunOnMainSync runs fn on the main thread via the Default dispatcher and
// waits for its result.
func RunOnMainSync(fn backend.Task) (any, error) { return Default().RunOnMainSync(fn) }

// RunOnMainSyncTimeout runs fn on the main thread via the Default
// dispatcher, bounding the wait.
func RunOnMainSyncTimeout(fn backend.Task, timeout time.Duration) (any, error) {
	return Default().RunOnMainSyncTimeout(fn, timeout)
}

// IsMainThread reports main-thread identity via the Default dispatcher.
func IsMainThread() bool { return Default().IsMainThread() }
