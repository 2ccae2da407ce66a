//go:build !threadglue_deadlock

package thread

import "sync"

// DeadlockDetection is true if Mutex reports potential deadlocks.
const DeadlockDetection = false

type nativeMutex = sync.Mutex
