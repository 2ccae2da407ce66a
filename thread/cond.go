package thread

import (
	"errors"
	"time"

	"github.com/kolkov/threadglue/internal/thread/backend"
	"github.com/kolkov/threadglue/internal/thread/goroutine"
)

// forever is the backend timeout for an unbounded wait.
const forever time.Duration = -1

// Cond is a condition variable, always used together with one Mutex.
//
// A Cond must be initialized with Init (or created with NewCond) before use.
// Signal wakes at least one thread already blocked in Wait; it is not
// remembered when nobody waits.
type Cond struct {
	c backend.Cond
}

// NewCond returns an initialized condition variable.
func NewCond() (*Cond, error) {
	c := &Cond{}
	if err := c.Init(); err != nil {
		return nil, err
	}
	return c, nil
}

// Init prepares the condition variable.
func (c *Cond) Init() error {
	bc, err := lib.backend.NewCond()
	if err != nil {
		return wrap(ErrSignal, err)
	}
	c.c = bc
	return nil
}

// Destroy releases the condition variable. No thread may be waiting on it.
func (c *Cond) Destroy() error {
	if c.c == nil {
		return wrap(ErrSignal, ErrNotInitialized)
	}
	if err := c.c.Destroy(); err != nil {
		return wrap(ErrSignal, err)
	}
	lib.tracker.Forget(c)
	return nil
}

// Signal wakes at least one thread blocked in Wait or WaitTimeout. With no
// waiter it has no effect.
func (c *Cond) Signal() error {
	if c.c == nil {
		return wrap(ErrSignal, ErrNotInitialized)
	}
	lib.tracker.Release(c)
	if err := c.c.Signal(); err != nil {
		return wrap(ErrSignal, err)
	}
	return nil
}

// Wait atomically releases m and blocks until signaled, then re-acquires m.
// The caller must hold m. Wait may return without a signal; callers re-check
// their predicate in a loop.
//
// On the POSIX-style backend Wait is a cancellation point. The cleanup stack
// of a canceled waiter runs with m held.
func (c *Cond) Wait(m *Mutex) error {
	_, err := c.wait(m, forever)
	return err
}

// WaitTimeout is Wait bounded by timeoutMS milliseconds. It returns nil when
// woken and ErrTimedOut when the timeout elapsed without a signal. m is held
// again on every return.
func (c *Cond) WaitTimeout(m *Mutex, timeoutMS uint32) error {
	woken, err := c.wait(m, time.Duration(timeoutMS)*time.Millisecond)
	if err != nil {
		return err
	}
	if !woken {
		return ErrTimedOut
	}
	return nil
}

func (c *Cond) wait(m *Mutex, timeout time.Duration) (bool, error) {
	if c.c == nil {
		return false, wrap(ErrSignal, ErrNotInitialized)
	}

	ctx := goroutine.Current()
	woken, err := c.c.Wait(m, timeout, ctx)
	if errors.Is(err, backend.ErrCanceled) {
		lib.log().Debug("cancellation delivered", "tid", ctx.ThreadID, "at", "cond wait")
		ctx.Unwind()
	}
	if err != nil {
		return false, wrap(ErrSignal, err)
	}
	if woken {
		lib.tracker.Acquire(c)
	}
	return woken, nil
}
