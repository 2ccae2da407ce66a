package posix

import (
	"sync"
	"time"

	"github.com/kolkov/threadglue/internal/thread/backend"
	"github.com/kolkov/threadglue/internal/thread/goroutine"
)

// waiter is one blocked Wait call. ch is closed when Signal picks it.
type waiter struct {
	ch chan struct{}
}

// cond is a condition variable over a FIFO notify list.
//
// Signal removes the oldest waiter from the list and closes its channel, so
// a waiter is woken by exactly one signal and a signal wakes exactly one
// waiter. A waiter still on the list when it stops waiting (timeout,
// cancellation) removes itself; one that is no longer on the list has been
// picked by Signal and must account for that wakeup.
type cond struct {
	mu        sync.Mutex
	waiters   []*waiter
	destroyed bool
}

func newCond() *cond {
	return &cond{}
}

// Signal implements backend.Cond.
func (c *cond) Signal() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.destroyed {
		return backend.ErrDestroyed
	}
	c.signalLocked()
	return nil
}

func (c *cond) signalLocked() {
	if len(c.waiters) == 0 {
		return
	}
	w := c.waiters[0]
	c.waiters[0] = nil
	c.waiters = c.waiters[1:]
	close(w.ch)
}

// remove takes w off the notify list. It reports false if Signal already
// picked w.
func (c *cond) remove(w *waiter) bool {
	for i, x := range c.waiters {
		if x == w {
			c.waiters = append(c.waiters[:i], c.waiters[i+1:]...)
			return true
		}
	}
	return false
}

// Wait implements backend.Cond.
//
// Entry is a cancellation point as well: a request pending before the call
// returns ErrCanceled without releasing l.
func (c *cond) Wait(l sync.Locker, timeout time.Duration, self *goroutine.Context) (bool, error) {
	if self != nil && self.Pending() {
		return false, backend.ErrCanceled
	}

	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return false, backend.ErrDestroyed
	}
	w := &waiter{ch: make(chan struct{})}
	c.waiters = append(c.waiters, w)
	c.mu.Unlock()

	l.Unlock()

	var expired <-chan time.Time
	if timeout >= 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case <-w.ch:
		l.Lock()
		return true, nil

	case <-expired:
		c.mu.Lock()
		removed := c.remove(w)
		c.mu.Unlock()
		l.Lock()
		// Not on the list: a signal picked us concurrently with the
		// timeout. Report the wakeup so that signal is not lost.
		return !removed, nil

	case <-self.Interrupt():
		c.mu.Lock()
		if !c.remove(w) {
			// A canceled waiter must not consume a signal.
			c.signalLocked()
		}
		c.mu.Unlock()
		// The mutex is held again before the cleanup handlers run.
		l.Lock()
		return false, backend.ErrCanceled
	}
}

// Destroy implements backend.Cond.
func (c *cond) Destroy() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.destroyed {
		return backend.ErrDestroyed
	}
	c.destroyed = true
	return nil
}

// pending returns the number of threads on the notify list.
func (c *cond) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.waiters)
}
