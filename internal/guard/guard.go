// Package guard bounds the wall-clock time of operations whose underlying
// work cannot be cancelled, and force-exits the process at end of run when
// abandoned work would otherwise keep it alive.
package guard

import "time"

// Run executes op with a wall-clock limit. op runs in its own goroutine; if
// it finishes within limit its value is returned and the deadline is
// discarded. If the deadline fires first, onTimeout is invoked exactly once,
// the coordinator records the timeout, and Run returns the zero value with
// timedOut set.
//
// op is never cancelled and never joined: after a timeout it keeps running in
// the background for as long as it pleases. Callers must not assume the work
// has stopped, only that Run has stopped waiting for it. Every timed-out call
// therefore leaks a goroutine until the work completes on its own; use this
// as a last resort when no real cancellation mechanism exists.
func Run[T any](co *Coordinator, limit time.Duration, op func() T, onTimeout func()) (value T, timedOut bool) {
	// Buffered so the abandoned goroutine can deliver its result and exit
	// even when nobody is listening any more.
	done := make(chan T, 1)
	go func() {
		done <- op()
	}()

	timer := time.NewTimer(limit)
	defer timer.Stop()

	select {
	case v := <-done:
		return v, false
	case <-timer.C:
		onTimeout()
		co.MarkTimedOut()
		var zero T
		return zero, true
	}
}
