package backend

import (
	"errors"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/loonghao/auroraview-sub000/internal/envvar"
)

// ErrNoBackend is returned when the whole catalogue, including the
// always-available fallback tier, is exhausted. This is a build or
// registration defect, not a runtime condition to recover from.
var ErrNoBackend = errors.New("no main-thread backend available")

// Factory creates a backend instance. Factories run only when a resolution
// pass reaches their entry; registering one is free.
type Factory func() Backend

// Spec references a backend implementation, resolvable lazily through its
// factory. Name is the display name used for override matching and
// diagnostics; specs are matched by name when re-registered.
type Spec struct {
	Name string
	New  Factory
}

// Registration pairs a spec with its registry priority.
type Registration struct {
	Spec     Spec
	Priority int
}

// Seeder supplies the built-in catalogue. It runs at most once per registry
// generation; Clear resets the generation so the next resolution re-seeds
// identically to first use.
type Seeder func() []Registration

// Status is a diagnostic snapshot of one catalogue entry.
type Status struct {
	Name      string
	Priority  int
	Available bool
}

type entry struct {
	spec     Spec
	instance Backend
	priority int
}

// backend instantiates the entry on first use. Availability is still probed
// fresh on every pass; only construction is cached.
func (e *entry) backend() Backend {
	if e.instance == nil {
		e.instance = e.spec.New()
	}
	return e.instance
}

// Registry owns the priority-ordered backend catalogue and resolves the
// active backend on demand. Mutations are rare (startup-time) and take the
// catalogue lock; steady-state resolution is a single atomic load of the
// cached backend.
type Registry struct {
	log      *slog.Logger
	seeder   Seeder
	cached   atomic.Pointer[Backend]
	mu       sync.Mutex
	entries  []*entry
	override string
	seeded   bool
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithBuiltins sets the seeder for the built-in catalogue.
func WithBuiltins(seeder Seeder) RegistryOption {
	return func(r *Registry) { r.seeder = seeder }
}

// WithLogger sets the registry's logger.
func WithLogger(log *slog.Logger) RegistryOption {
	return func(r *Registry) { r.log = log }
}

// NewRegistry creates an empty registry. Built-ins, when configured, are
// seeded lazily on the first resolution so host SDKs that are not loaded
// yet are not probed at process start.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{log: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds spec at the given priority. Registering a name that is
// already present updates the existing entry in place rather than
// duplicating it. The resolution cache is invalidated.
func (r *Registry) Register(spec Spec, priority int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invalidateLocked()
	r.registerLocked(spec, priority)
}

func (r *Registry) registerLocked(spec Spec, priority int) {
	for _, e := range r.entries {
		if e.spec.Name == spec.Name {
			e.spec = spec
			e.priority = priority
			e.instance = nil
			r.sortLocked()
			return
		}
	}
	r.entries = append(r.entries, &entry{spec: spec, priority: priority})
	r.sortLocked()
}

// sortLocked keeps entries in descending priority order. The stable sort
// preserves insertion order between entries of equal priority.
func (r *Registry) sortLocked() {
	sort.SliceStable(r.entries, func(i, j int) bool {
		return r.entries[i].priority > r.entries[j].priority
	})
}

// Reprioritize moves the named entry to a new priority without touching
// its spec or instance. It reports whether the name was found. The
// resolution cache is invalidated.
func (r *Registry) Reprioritize(name string, priority int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if strings.EqualFold(e.spec.Name, name) {
			e.priority = priority
			r.sortLocked()
			r.invalidateLocked()
			return true
		}
	}
	return false
}

// Unregister removes the entry with the given display name. It reports
// whether an entry was removed. The resolution cache is invalidated.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, e := range r.entries {
		if e.spec.Name == name {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			r.invalidateLocked()
			return true
		}
	}
	return false
}

// Clear empties the catalogue and resets the seeded flag, so a subsequent
// resolution re-seeds the built-in defaults exactly as on first use.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = nil
	r.seeded = false
	r.invalidateLocked()
}

// SetOverride forces a backend by display name, typically from the config
// file. The environment variable override still wins. An empty name clears
// the override. Matching is case-insensitive and soft: an unmatched or
// unavailable name falls through to the normal priority search.
func (r *Registry) SetOverride(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.override = name
	r.invalidateLocked()
}

func (r *Registry) invalidateLocked() {
	r.cached.Store(nil)
}

func (r *Registry) seedLocked() {
	if r.seeded || r.seeder == nil {
		return
	}
	r.seeded = true
	for _, reg := range r.seeder() {
		r.registerLocked(reg.Spec, reg.Priority)
	}
}

// Resolve returns the active backend, selecting it if no selection is
// cached: seed built-ins if needed, honor the environment or config
// override, then walk entries by descending priority and return the first
// one whose availability probe passes. Availability is probed fresh on
// every pass, never remembered, so hosts whose SDK only finishes loading
// after their own startup sequence are picked up late.
func (r *Registry) Resolve() (Backend, error) {
	if b := r.cached.Load(); b != nil {
		return *b, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if b := r.cached.Load(); b != nil {
		return *b, nil
	}

	r.seedLocked()

	if name := os.Getenv(envvar.AuroraViewMainThreadBackend); name != "" {
		if b := r.namedLocked(name); b != nil {
			r.cacheLocked(b)
			return b, nil
		}
		r.log.Warn("Main-thread backend override did not match an available backend; falling back to priority order",
			"override", name, "source", envvar.AuroraViewMainThreadBackend)
	} else if r.override != "" {
		if b := r.namedLocked(r.override); b != nil {
			r.cacheLocked(b)
			return b, nil
		}
		r.log.Warn("Configured main-thread backend is not available; falling back to priority order",
			"override", r.override, "source", "config")
	}

	for _, e := range r.entries {
		b := e.backend()
		if b.Available() {
			r.cacheLocked(b)
			return b, nil
		}
	}

	return nil, ErrNoBackend
}

func (r *Registry) cacheLocked(b Backend) {
	r.cached.Store(&b)
}

func (r *Registry) namedLocked(name string) Backend {
	for _, e := range r.entries {
		if strings.EqualFold(e.spec.Name, name) {
			if b := e.backend(); b.Available() {
				return b
			}
			return nil
		}
	}
	return nil
}

// List returns a diagnostic snapshot of the catalogue in priority order,
// probing availability fresh. It seeds built-ins if needed but never
// touches the resolution cache.
func (r *Registry) List() []Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seedLocked()

	statuses := make([]Status, 0, len(r.entries))
	for _, e := range r.entries {
		statuses = append(statuses, Status{
			Name:      e.spec.Name,
			Priority:  e.priority,
			Available: e.backend().Available(),
		})
	}
	return statuses
}

// IsHostEnvironment reports whether any host-specific-tier backend is
// available, answering "are we running inside a recognized host" without
// resolving or caching a backend for the generic and fallback tiers.
func (r *Registry) IsHostEnvironment() bool {
	_, ok := r.CurrentHostName()
	return ok
}

// CurrentHostName returns the display name of the highest-priority
// available host-specific backend.
func (r *Registry) CurrentHostName() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seedLocked()

	for _, e := range r.entries {
		if e.priority < PriorityHostThreshold {
			break
		}
		if e.backend().Available() {
			return e.spec.Name, true
		}
	}
	return "", false
}
