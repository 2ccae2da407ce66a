package winevent

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kolkov/threadglue/internal/thread/backend"
	"github.com/kolkov/threadglue/internal/thread/event"
	"github.com/kolkov/threadglue/internal/thread/goroutine"
)

// cond emulates a condition variable on an auto-reset event.
//
// guard protects two counters:
//
//	waiters  threads between registration and re-acquiring guard after the
//	         event wait, including those whose wait already ended
//	tickets  signals issued but not yet claimed by a waiter
//
// Invariant: 0 <= tickets <= waiters.
//
// Signal issues a ticket only while tickets < waiters, so a signal with no
// uncovered waiter is dropped instead of being stored in the event. A waiter
// released by the event claims one ticket and sets the event again if
// tickets remain, because an auto-reset event collapses back-to-back Sets
// into one release. A waiter whose event wait timed out claims a ticket only
// if tickets would otherwise exceed the remaining waiters: the signal was
// meant for it and raced with its timeout. Otherwise it leaves the ticket for
// a waiter still blocked. Whenever tickets reach zero the event is reset, so
// no stale signal survives for a later waiter.
//
// A woken waiter that fails to re-arm or reset the event still reports the
// wakeup. The failure is recorded in armErr and returned by every later
// Signal and Wait, since the remaining ticket holders may never be released.
type cond struct {
	guard     sync.Mutex
	waiters   int
	tickets   int
	destroyed bool
	armErr    error
	ev        autoResetEvent
}

// autoResetEvent is the subset of *event.Event the cond uses.
type autoResetEvent interface {
	Set() error
	Reset() error
	Wait(timeout time.Duration) (bool, error)
	Close() error
}

// ErrRearm is returned once a woken waiter failed to hand the event on.
var ErrRearm = errors.New("event re-arm failed")

func newCond() (*cond, error) {
	ev, err := event.New()
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return &cond{ev: ev}, nil
}

func (c *cond) broken() error {
	if c.armErr == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrRearm, c.armErr)
}

// Signal implements backend.Cond.
func (c *cond) Signal() error {
	c.guard.Lock()
	defer c.guard.Unlock()

	if c.destroyed {
		return backend.ErrDestroyed
	}
	if err := c.broken(); err != nil {
		return err
	}
	if c.tickets >= c.waiters {
		return nil
	}
	if err := c.ev.Set(); err != nil {
		return err
	}
	c.tickets++
	return nil
}

// Wait implements backend.Cond. The control block is ignored: this backend
// has no cancellation points.
//
// A wakeup from an event set that carries no ticket is reported as woken;
// callers re-check their predicate anyway.
func (c *cond) Wait(l sync.Locker, timeout time.Duration, _ *goroutine.Context) (bool, error) {
	c.guard.Lock()
	if c.destroyed {
		c.guard.Unlock()
		return false, backend.ErrDestroyed
	}
	if err := c.broken(); err != nil {
		c.guard.Unlock()
		return false, err
	}
	c.waiters++
	c.guard.Unlock()

	l.Unlock()

	if timeout < 0 {
		timeout = event.Infinite
	}
	released, werr := c.ev.Wait(timeout)

	c.guard.Lock()
	c.waiters--
	woke := false
	var armErr error
	switch {
	case werr != nil:
		if c.tickets > c.waiters {
			c.tickets--
		}
	case released:
		woke = true
		if c.tickets > 0 {
			c.tickets--
			if c.tickets > 0 {
				// Re-arm for the next ticket holder.
				armErr = c.ev.Set()
			}
		}
	case c.tickets > c.waiters:
		// Signaled between our timeout and taking guard.
		woke = true
		c.tickets--
	}
	if c.tickets == 0 {
		if err := c.ev.Reset(); err != nil && armErr == nil {
			armErr = err
		}
	}
	if armErr != nil {
		if woke {
			c.armErr = armErr
		} else if werr == nil {
			werr = armErr
		}
	}
	c.guard.Unlock()

	l.Lock()
	return woke, werr
}

// Destroy implements backend.Cond.
func (c *cond) Destroy() error {
	c.guard.Lock()
	defer c.guard.Unlock()

	if c.destroyed {
		return backend.ErrDestroyed
	}
	c.destroyed = true
	return c.ev.Close()
}

// counts returns the waiter and ticket counters.
func (c *cond) counts() (waiters, tickets int) {
	c.guard.Lock()
	defer c.guard.Unlock()
	return c.waiters, c.tickets
}
