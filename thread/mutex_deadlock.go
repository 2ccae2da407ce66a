//go:build threadglue_deadlock

package thread

import (
	"time"

	deadlock "github.com/sasha-s/go-deadlock"
)

// DeadlockDetection is true if Mutex reports potential deadlocks.
const DeadlockDetection = true

type nativeMutex = deadlock.Mutex

func init() {
	deadlock.Opts.DeadlockTimeout = 30 * time.Second
	// The default handler exits the process.
	deadlock.Opts.OnPotentialDeadlock = func() {
		lib.log().Error("potential deadlock detected")
	}
}
