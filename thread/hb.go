package thread

import "github.com/kolkov/threadglue/internal/thread/hb"

// Mark is a position in the happens-before order recorded by the
// primitives. The zero Mark was taken with tracking disabled and is ordered
// with nothing.
type Mark = hb.Stamp

// SetHappensBefore turns edge recording on or off. It is normally set once
// through THREADGLUE_HBCHECK; marks taken across a toggle may miss edges.
//
// Threads started by Create drop their tracking state when they exit.
// Goroutines not started by Create keep theirs until tracking is turned off,
// which discards all recorded state.
func SetHappensBefore(on bool) {
	lib.tracker.SetEnabled(on)
	if !on {
		lib.tracker.Reset()
	}
}

// Stamp returns the calling thread's current position in the
// happens-before order.
func Stamp() Mark {
	return lib.tracker.Stamp()
}

// HappensBefore reports whether a is guaranteed visible to the thread that
// took b, through the edges recorded by Mutex, Cond, Once, Create and Join.
func HappensBefore(a, b Mark) bool {
	return a.HappensBefore(b)
}
