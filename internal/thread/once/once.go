// Package once implements the run-once gate as an explicit state machine.
//
// A Gate moves monotonically through three states:
//
//	NotStarted → InProgress → Done
//
// The first caller moves the gate to InProgress and runs the initializer.
// Callers arriving while the gate is InProgress block on the gate's mutex
// until the initializer finishes. Once Done, callers return after a single
// atomic load.
//
// If the initializer does not return normally (it panics, or its thread is
// canceled and unwinds through it), the gate goes back to NotStarted and the
// next blocked caller runs the initializer again. A completed initializer is
// never run twice.
//
// Happens-before: the initializer's completion happens before every return
// from Ran on the same gate, through the mutex for slow-path callers and
// through the atomic state for fast-path callers.
package once

import (
	"sync"
	"sync/atomic"
)

// State is the position of a gate in its state machine.
type State int32

const (
	// NotStarted means no initializer has completed and none is running.
	NotStarted State = iota
	// InProgress means an initializer is running.
	InProgress
	// Done means an initializer ran to completion.
	Done
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case InProgress:
		return "in-progress"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// Gate is a run-once gate.
//
// The zero value is a fresh gate in the NotStarted state; it is the static
// initializer value. A Gate must not be copied after first use.
type Gate struct {
	state atomic.Int32
	mu    sync.Mutex
}

// State returns the current state. The result may be stale by the time the
// caller looks at it; use it for diagnostics and tests.
func (g *Gate) State() State {
	return State(g.state.Load())
}

// Ran runs f if no initializer has completed on g yet, and returns once an
// initializer has completed. It reports whether this call ran f to
// completion.
//
// Calling Ran on the same gate from inside f deadlocks.
func (g *Gate) Ran(f func()) bool {
	if State(g.state.Load()) == Done {
		return false
	}
	return g.doSlow(f)
}

func (g *Gate) doSlow(f func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if State(g.state.Load()) == Done {
		return false
	}

	g.state.Store(int32(InProgress))
	completed := false
	defer func() {
		if completed {
			g.state.Store(int32(Done))
		} else {
			g.state.Store(int32(NotStarted))
		}
	}()

	f()
	completed = true
	return true
}
