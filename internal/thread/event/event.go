// Package event provides the auto-reset event primitive the event backend
// builds its condition variable on.
//
// An Event is either signaled or not. Set signals it; a Wait that observes the
// signaled state consumes it, releasing exactly one waiter and returning the
// event to non-signaled. Setting an already signaled event has no further
// effect: signals do not accumulate.
//
// On Windows the event is a kernel event object created with
// CreateEvent(manualReset=FALSE). Elsewhere it is a one-slot channel with the
// same observable behavior.
package event

import (
	"errors"
	"time"
)

// Infinite is the timeout value for an unbounded Wait.
const Infinite time.Duration = -1

// maxTimedWait is the largest finite millisecond count accepted by the
// native wait call. 0xFFFFFFFF is INFINITE and must never be produced by a
// finite timeout.
const maxTimedWait = 0xFFFFFFFE

// ErrClosed is returned by operations on a closed event.
var ErrClosed = errors.New("event: closed")

// Event is an auto-reset event.
type Event struct {
	p *platformEvent
}

// New creates a non-signaled auto-reset event.
func New() (*Event, error) {
	p, err := newPlatformEvent()
	if err != nil {
		return nil, err
	}
	return &Event{p: p}, nil
}

// Set signals the event, releasing one current or future waiter.
func (e *Event) Set() error {
	return e.p.set()
}

// Reset returns the event to the non-signaled state.
func (e *Event) Reset() error {
	return e.p.reset()
}

// Wait blocks until the event is signaled or timeout elapses.
//
// A negative timeout (Infinite) waits without bound. Returns true if the
// event was consumed and false on timeout.
func (e *Event) Wait(timeout time.Duration) (bool, error) {
	return e.p.wait(timeout)
}

// Close releases the native resources. Waiting on or setting a closed event
// is a caller error; Set and Wait report ErrClosed when they can detect it.
func (e *Event) Close() error {
	return e.p.close()
}

// Milliseconds converts a finite timeout to the millisecond count passed to
// a native wait.
//
// The result is rounded up so the native wait never returns before d has
// elapsed, and clamped below the INFINITE sentinel so a very large finite
// timeout can never turn into an unbounded wait. Non-positive durations map
// to 0 (poll).
func Milliseconds(d time.Duration) uint32 {
	if d <= 0 {
		return 0
	}
	ms := d / time.Millisecond
	if d%time.Millisecond != 0 {
		ms++
	}
	if ms > maxTimedWait {
		return maxTimedWait
	}
	return uint32(ms)
}
