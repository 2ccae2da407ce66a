package thread

// Version is the threadglue release.
const Version = "0.3.0"

// Info describes the compiled-in backend and the runtime settings in effect.
type Info struct {
	Version string

	// Backend is "posix" or "winevent", fixed at build time by the
	// threadglue_event tag and the target OS.
	Backend string

	// CancelSupported is false on the event backend, where Thread.Cancel
	// always fails with ErrCancel and never touches the target.
	CancelSupported bool

	// HappensBefore reports whether Mutex, Cond, Once, Create and Join
	// currently record edges, as set by THREADGLUE_HBCHECK or
	// SetHappensBefore. Marks taken while it is false are ordered with
	// nothing.
	HappensBefore bool

	// MaxThreads is the cap on live threads from THREADGLUE_MAX_THREADS;
	// Create fails with ErrThreadLimit beyond it. 0 means no cap.
	MaxThreads int64

	// DeadlockDetection is true in builds with the threadglue_deadlock tag,
	// where Mutex reports lock-order inversions and long waits.
	DeadlockDetection bool
}

// GetInfo returns a snapshot of the capabilities and settings. HappensBefore
// and MaxThreads reflect the values at the time of the call; the other
// fields are fixed for the life of the process.
//
//	info := thread.GetInfo()
//	if !info.CancelSupported {
//		// fall back to a shutdown flag checked by the worker
//	}
func GetInfo() Info {
	return Info{
		Version:           Version,
		Backend:           lib.backend.Name(),
		CancelSupported:   lib.backend.CancelSupported(),
		HappensBefore:     lib.tracker.Enabled(),
		MaxThreads:        lib.maxThreads.Load(),
		DeadlockDetection: DeadlockDetection,
	}
}
