package mainthread

import (
	"errors"
	"fmt"
	"time"
)

// ErrDispatch is the base sentinel for failures of the dispatch machinery
// itself. Timeout, deadlock, and shutdown errors all match it via
// errors.Is. Errors returned by the dispatched callable are never wrapped
// and never match it.
var ErrDispatch = errors.New("main-thread dispatch failed")

// TimeoutError reports that a blocking dispatch was not serviced within
// its bound. The callable may still run later; its effects are discarded.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("main-thread dispatch timed out after %s", e.Timeout)
}

func (e *TimeoutError) Is(target error) bool { return target == ErrDispatch }

// DeadlockError reports a blocking dispatch that would never complete:
// the calling goroutine is already inside a marshaled callable, and the
// backend would queue behind it instead of running inline.
type DeadlockError struct {
	Backend string
}

func (e *DeadlockError) Error() string {
	return fmt.Sprintf("main-thread dispatch would deadlock: goroutine is already inside a marshaled callable on backend %q", e.Backend)
}

func (e *DeadlockError) Is(target error) bool { return target == ErrDispatch }

// ShutdownError reports a dispatch attempted after Shutdown.
type ShutdownError struct{}

func (e *ShutdownError) Error() string {
	return "main-thread dispatcher is shut down"
}

func (e *ShutdownError) Is(target error) bool { return target == ErrDispatch }
