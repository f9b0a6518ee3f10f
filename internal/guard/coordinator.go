package guard

import (
	"os"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// Coordinator remembers whether any guarded operation ever timed out.
// Timeouts can happen in fire-and-forget calls whose caller has long since
// moved on, so the flag lives on one shared object created at process start
// and consulted once at the very end of the run.
type Coordinator struct {
	logger   *logrus.Logger
	timedOut atomic.Bool

	// exit is swappable so tests can observe the forced exit.
	exit func(code int)
}

// NewCoordinator creates a Coordinator that logs through logger and exits via
// os.Exit.
func NewCoordinator(logger *logrus.Logger) *Coordinator {
	return &Coordinator{logger: logger, exit: os.Exit}
}

// MarkTimedOut records that a guarded operation hit its deadline. Safe to
// call from any number of goroutines; setting the flag again is harmless.
func (c *Coordinator) MarkTimedOut() {
	c.timedOut.Store(true)
}

// HadTimeout reports whether any guarded operation timed out.
func (c *Coordinator) HadTimeout() bool {
	return c.timedOut.Load()
}

// CheckAndExit force-terminates the process if any guarded operation timed
// out, after waiting grace for trailing log writes and cleanup to finish. An
// abandoned operation can keep the process alive indefinitely, and exiting
// here is the only way to guarantee termination. Call it exactly once, at the
// very end of a run; it is a no-op when nothing timed out.
func (c *Coordinator) CheckAndExit(grace time.Duration) {
	if !c.timedOut.Load() {
		return
	}
	c.logger.Warnf("An operation timed out and was abandoned, forcing exit in %s to avoid hanging on its background work", grace)
	time.Sleep(grace)
	c.exit(1)
}
