package backend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/loonghao/auroraview-sub000/internal/envvar"
)

// stubBackend is a controllable backend for registry tests. Callables run
// inline on the calling goroutine.
type stubBackend struct {
	Base
	name      string
	available bool
	deferred  int
}

func (s *stubBackend) Name() string       { return s.name }
func (s *stubBackend) Available() bool    { return s.available }
func (s *stubBackend) IsMainThread() bool { return true }

func (s *stubBackend) RunDeferred(fn func()) {
	s.deferred++
	fn()
}

func (s *stubBackend) RunSync(_ context.Context, fn Task) (any, error) {
	return fn()
}

func stubSpec(s *stubBackend) Spec {
	return Spec{Name: s.name, New: func() Backend { return s }}
}

func TestRegistry_PriorityMonotonicSelection(t *testing.T) {
	low := &stubBackend{name: "low", available: true}
	high := &stubBackend{name: "high", available: true}
	unavailable := &stubBackend{name: "top", available: false}

	reg := NewRegistry()
	reg.Register(stubSpec(low), 10)
	reg.Register(stubSpec(unavailable), 90)
	reg.Register(stubSpec(high), 50)

	b, err := reg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "high", b.Name())
}

func TestRegistry_ReregisterUpdatesInPlace(t *testing.T) {
	a := &stubBackend{name: "a", available: true}
	b := &stubBackend{name: "b", available: true}

	reg := NewRegistry()
	reg.Register(stubSpec(a), 10)
	reg.Register(stubSpec(b), 20)
	require.Len(t, reg.List(), 2)

	// Bump a above b; the catalogue must not grow.
	reg.Register(stubSpec(a), 30)
	statuses := reg.List()
	require.Len(t, statuses, 2)
	assert.Equal(t, "a", statuses[0].Name)
	assert.Equal(t, 30, statuses[0].Priority)

	resolved, err := reg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "a", resolved.Name())
}

func TestRegistry_Reprioritize(t *testing.T) {
	a := &stubBackend{name: "a", available: true}
	b := &stubBackend{name: "b", available: true}

	reg := NewRegistry()
	reg.Register(stubSpec(a), 10)
	reg.Register(stubSpec(b), 20)

	resolved, err := reg.Resolve()
	require.NoError(t, err)
	require.Equal(t, "b", resolved.Name())

	assert.True(t, reg.Reprioritize("A", 30)) // name match is case-insensitive
	assert.False(t, reg.Reprioritize("missing", 30))

	resolved, err = reg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "a", resolved.Name())
}

func TestRegistry_StableTieBreak(t *testing.T) {
	first := &stubBackend{name: "first", available: true}
	second := &stubBackend{name: "second", available: true}

	reg := NewRegistry()
	reg.Register(stubSpec(first), 10)
	reg.Register(stubSpec(second), 10)

	b, err := reg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "first", b.Name())
}

func TestRegistry_Unregister(t *testing.T) {
	a := &stubBackend{name: "a", available: true}

	reg := NewRegistry()
	reg.Register(stubSpec(a), 10)

	assert.True(t, reg.Unregister("a"))
	assert.False(t, reg.Unregister("a"))

	_, err := reg.Resolve()
	assert.ErrorIs(t, err, ErrNoBackend)
}

func TestRegistry_ResolveCaches(t *testing.T) {
	calls := 0
	a := &stubBackend{name: "a", available: true}
	reg := NewRegistry()
	reg.Register(Spec{Name: "a", New: func() Backend {
		calls++
		return a
	}}, 10)

	for i := 0; i < 3; i++ {
		_, err := reg.Resolve()
		require.NoError(t, err)
	}
	assert.Equal(t, 1, calls)
}

func TestRegistry_MutationInvalidatesCache(t *testing.T) {
	a := &stubBackend{name: "a", available: true}
	b := &stubBackend{name: "b", available: true}

	reg := NewRegistry()
	reg.Register(stubSpec(a), 10)

	resolved, err := reg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "a", resolved.Name())

	reg.Register(stubSpec(b), 20)

	resolved, err = reg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "b", resolved.Name())
}

func TestRegistry_ClearReseedsBuiltins(t *testing.T) {
	seeds := 0
	a := &stubBackend{name: "builtin", available: true}
	reg := NewRegistry(WithBuiltins(func() []Registration {
		seeds++
		return []Registration{{Spec: stubSpec(a), Priority: PriorityFallback}}
	}))

	b, err := reg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "builtin", b.Name())
	assert.Equal(t, 1, seeds)

	// Seeding happens once per generation.
	_, err = reg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, 1, seeds)

	reg.Clear()

	b, err = reg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "builtin", b.Name())
	assert.Equal(t, 2, seeds)
	assert.Len(t, reg.List(), 1)
}

func TestRegistry_EnvOverride(t *testing.T) {
	low := &stubBackend{name: "low", available: true}
	high := &stubBackend{name: "high", available: true}

	reg := NewRegistry()
	reg.Register(stubSpec(low), 10)
	reg.Register(stubSpec(high), 90)

	t.Setenv(envvar.AuroraViewMainThreadBackend, "LOW")

	b, err := reg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "low", b.Name(), "override match is case-insensitive")
}

func TestRegistry_EnvOverrideUnmatchedFallsThrough(t *testing.T) {
	high := &stubBackend{name: "high", available: true}

	reg := NewRegistry()
	reg.Register(stubSpec(high), 90)

	t.Setenv(envvar.AuroraViewMainThreadBackend, "does-not-exist")

	b, err := reg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "high", b.Name())
}

func TestRegistry_EnvOverrideUnavailableFallsThrough(t *testing.T) {
	dead := &stubBackend{name: "dead", available: false}
	alive := &stubBackend{name: "alive", available: true}

	reg := NewRegistry()
	reg.Register(stubSpec(dead), 90)
	reg.Register(stubSpec(alive), 10)

	t.Setenv(envvar.AuroraViewMainThreadBackend, "dead")

	b, err := reg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "alive", b.Name())
}

func TestRegistry_ConfigOverride(t *testing.T) {
	low := &stubBackend{name: "low", available: true}
	high := &stubBackend{name: "high", available: true}

	reg := NewRegistry()
	reg.Register(stubSpec(low), 10)
	reg.Register(stubSpec(high), 90)

	reg.SetOverride("low")

	b, err := reg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "low", b.Name())

	// Clearing the override restores priority order.
	reg.SetOverride("")

	b, err = reg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "high", b.Name())
}

func TestRegistry_FreshAvailabilityProbe(t *testing.T) {
	late := &stubBackend{name: "late", available: false}
	fallback := &stubBackend{name: "fallback", available: true}

	reg := NewRegistry()
	reg.Register(stubSpec(late), 90)
	reg.Register(stubSpec(fallback), 0)

	b, err := reg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "fallback", b.Name())

	// The host SDK finishes loading; a post-mutation resolution must pick
	// it up rather than remembering the earlier failed probe.
	late.available = true
	reg.Register(stubSpec(late), 90)

	b, err = reg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "late", b.Name())
}

func TestRegistry_HostEnvironmentDetection(t *testing.T) {
	generic := &stubBackend{name: "generic", available: true}
	fallback := &stubBackend{name: "fallback", available: true}
	host := &stubBackend{name: "host", available: false}

	reg := NewRegistry()
	reg.Register(stubSpec(generic), PriorityQt)
	reg.Register(stubSpec(fallback), PriorityFallback)
	reg.Register(stubSpec(host), PriorityMaya)

	assert.False(t, reg.IsHostEnvironment(), "generic and fallback tiers alone are not a host")
	_, ok := reg.CurrentHostName()
	assert.False(t, ok)

	host.available = true

	assert.True(t, reg.IsHostEnvironment())
	name, ok := reg.CurrentHostName()
	assert.True(t, ok)
	assert.Equal(t, "host", name)
}

func TestRegistry_ListDoesNotTouchCache(t *testing.T) {
	a := &stubBackend{name: "a", available: true}
	reg := NewRegistry()
	reg.Register(stubSpec(a), 10)

	statuses := reg.List()
	require.Len(t, statuses, 1)
	assert.True(t, statuses[0].Available)

	// List must not have cached a selection; flipping availability before
	// the first Resolve changes the outcome.
	a.available = false
	_, err := reg.Resolve()
	assert.ErrorIs(t, err, ErrNoBackend)
}

func TestRegistry_EmptyCatalogue(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Resolve()
	assert.ErrorIs(t, err, ErrNoBackend)
}

// MockBackend records how the registry drives the backend surface.
type MockBackend struct {
	mock.Mock
	Base
}

func (m *MockBackend) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockBackend) Available() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockBackend) RunDeferred(fn func()) {
	m.Called()
	fn()
}

func (m *MockBackend) RunSync(ctx context.Context, fn Task) (any, error) {
	m.Called(ctx)
	return fn()
}

func TestRegistry_ProbeCountAcrossResolutions(t *testing.T) {
	mockBackend := new(MockBackend)
	mockBackend.On("Name").Return("mock")
	mockBackend.On("Available").Return(true)

	reg := NewRegistry()
	reg.Register(Spec{Name: "mock", New: func() Backend { return mockBackend }}, 10)

	b, err := reg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "mock", b.Name())

	// The cached selection must answer without another probe.
	_, err = reg.Resolve()
	require.NoError(t, err)
	mockBackend.AssertNumberOfCalls(t, "Available", 1)

	// Invalidation forces a fresh probe.
	reg.SetOverride("mock")
	_, err = reg.Resolve()
	require.NoError(t, err)
	mockBackend.AssertNumberOfCalls(t, "Available", 2)
	mockBackend.AssertExpectations(t)
}
