// Package backend defines the contract both native threading backends
// implement.
//
// The thread package is written once against Backend. Exactly one
// implementation is compiled in, chosen by build constraints:
//
//   - posix: native condition variable with cancellation points
//   - winevent: condition variable emulated on an auto-reset event, no
//     cancellation
//
// Only condition-variable waiting and cancellation differ between backends.
// Thread spawning and mutexes share one implementation in the thread package.
package backend

import (
	"errors"
	"sync"
	"time"

	"github.com/kolkov/threadglue/internal/thread/goroutine"
)

var (
	// ErrCanceled is returned by a cancellation point that observed a pending
	// request. The caller owns the unwinding: any lock the wait released has
	// already been re-acquired.
	ErrCanceled = errors.New("canceled at cancellation point")

	// ErrDestroyed is returned by operations on a destroyed condition variable.
	ErrDestroyed = errors.New("condition variable destroyed")
)

// Cond is a backend condition variable.
type Cond interface {
	// Signal wakes at least one thread blocked in Wait. With no waiter it has
	// no effect and is not remembered.
	Signal() error

	// Wait releases l, blocks until signaled or until timeout elapses, and
	// re-acquires l before returning on every path. A negative timeout waits
	// without bound.
	//
	// self is the calling thread's control block (nil for goroutines not
	// created by the thread package); backends with cancellation watch it.
	//
	// Returns true when woken (possibly spuriously), false on timeout. A
	// woken caller gets a nil error; native failures that only affect other
	// waiters are reported by later calls.
	Wait(l sync.Locker, timeout time.Duration, self *goroutine.Context) (bool, error)

	// Destroy releases native resources.
	Destroy() error
}

// Backend is one native threading model.
type Backend interface {
	// Name identifies the backend in diagnostics.
	Name() string

	// CancelSupported reports whether Cancel can ever succeed.
	CancelSupported() bool

	// NewCond creates a condition variable.
	NewCond() (Cond, error)

	// Cancel requests cancellation of the thread owning target. Backends
	// without cancellation return errors.ErrUnsupported and leave target
	// untouched.
	Cancel(target *goroutine.Context) error

	// TestCancel is an explicit cancellation point. It returns ErrCanceled
	// when self must unwind.
	TestCancel(self *goroutine.Context) error

	// Await blocks until done is closed. Where cancellation is supported it
	// is a cancellation point and returns ErrCanceled.
	Await(done <-chan struct{}, self *goroutine.Context) error
}
