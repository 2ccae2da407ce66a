package goroutine

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/kolkov/threadglue/internal/thread/cleanup"
)

// Context is the control block of one thread.
//
// The cancellation fields are written by other threads (RequestCancel) and
// read by the owner at its cancellation points. The cancel state and the
// cleanup stack are only touched by the owning thread.
type Context struct {
	// ThreadID is the identifier of the thread handle owning this context.
	ThreadID uint64

	// Cleanups holds the actions run in reverse order when the thread is
	// canceled.
	Cleanups cleanup.Stack

	// Adopted marks a control block created on demand for a goroutine the
	// thread package did not start. Adopted contexts are never canceled.
	Adopted bool

	requested  atomic.Bool
	disabled   atomic.Bool
	canceled   atomic.Bool
	cancelCh   chan struct{}
	cancelOnce sync.Once
}

// New allocates the control block for thread id.
func New(id uint64) *Context {
	return &Context{
		ThreadID: id,
		cancelCh: make(chan struct{}),
	}
}

// RequestCancel records a cancellation request.
//
// Returns true for the first request. Later requests are no-ops, matching
// pthread_cancel on an already canceled thread.
func (c *Context) RequestCancel() bool {
	first := false
	c.cancelOnce.Do(func() {
		first = true
		c.requested.Store(true)
		close(c.cancelCh)
	})
	return first
}

// CancelRequested reports whether a request was recorded, regardless of the
// cancel state.
func (c *Context) CancelRequested() bool {
	return c.requested.Load()
}

// SetCancelEnabled changes the cancel state and returns the previous one.
//
// Requests made while disabled stay pending and are acted on at the first
// cancellation point reached after re-enabling.
func (c *Context) SetCancelEnabled(enabled bool) bool {
	return !c.disabled.Swap(!enabled)
}

// CancelEnabled reports the cancel state.
func (c *Context) CancelEnabled() bool {
	return !c.disabled.Load()
}

// Pending reports whether a cancellation point reached now must act.
func (c *Context) Pending() bool {
	return c.requested.Load() && !c.disabled.Load()
}

// Interrupt returns the channel a blocking cancellation point selects on.
//
// The channel is closed once cancellation is requested. While cancellation is
// disabled Interrupt returns nil, which blocks forever in a select, so a
// pending request cannot turn a wait into a busy loop.
func (c *Context) Interrupt() <-chan struct{} {
	if c == nil || c.disabled.Load() {
		return nil
	}
	return c.cancelCh
}

// Canceled reports whether the thread terminated through Unwind.
func (c *Context) Canceled() bool {
	return c.canceled.Load()
}

// Unwind acts on a cancellation request: it runs the cleanup stack in
// reverse order of registration and terminates the calling goroutine.
//
// Unwind must be called by the owning thread. It does not return.
func (c *Context) Unwind() {
	c.canceled.Store(true)
	c.Cleanups.Unwind()
	runtime.Goexit()
}
