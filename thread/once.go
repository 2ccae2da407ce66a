package thread

import (
	"github.com/kolkov/threadglue/internal/thread/goroutine"
	"github.com/kolkov/threadglue/internal/thread/once"
)

// OnceState is the state of a Once.
type OnceState = once.State

const (
	OnceNotStarted = once.NotStarted
	OnceInProgress = once.InProgress
	OnceDone       = once.Done
)

// Once is a run-once gate. The zero value is a fresh gate; declare it
// statically:
//
//	var setup thread.Once
//
//	func get() *Config {
//		setup.Do(loadConfig)
//		return cfg
//	}
//
// A Once must not be copied after first use.
type Once struct {
	g once.Gate
}

// Do runs f if no call on o has completed it yet. Every call returns only
// after f has completed, and the completion happens before every return.
//
// If f does not return normally (it panics or its thread is canceled), the
// gate goes back to not started and the next caller runs f.
func (o *Once) Do(f func()) {
	ran := o.g.Ran(func() {
		f()
		lib.tracker.Release(o)
	})
	if ran {
		var tid uint64
		if ctx := goroutine.Current(); ctx != nil {
			tid = ctx.ThreadID
		}
		lib.log().Debug("once initializer completed", "tid", tid)
	}
	lib.tracker.Acquire(o)
}

// State returns the gate state. It may be stale by the time the caller looks
// at it; use it for diagnostics and tests.
func (o *Once) State() OnceState {
	return o.g.State()
}
