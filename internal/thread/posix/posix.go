// Package posix implements the POSIX-style backend.
//
// Condition variables are native: a FIFO notify list of per-waiter channels
// with no spurious wakeups. Cancellation is cooperative. A request is
// recorded on the target's control block and acted on when the target
// reaches a cancellation point: Cond.Wait, Await (thread join) or TestCancel.
package posix

import (
	"github.com/kolkov/threadglue/internal/thread/backend"
	"github.com/kolkov/threadglue/internal/thread/goroutine"
)

// Name is the backend identifier.
const Name = "posix"

// Backend is the POSIX-style backend.
type Backend struct{}

var _ backend.Backend = (*Backend)(nil)

// New returns the backend.
func New() *Backend {
	return &Backend{}
}

// Name implements backend.Backend.
func (*Backend) Name() string {
	return Name
}

// CancelSupported implements backend.Backend.
func (*Backend) CancelSupported() bool {
	return true
}

// NewCond implements backend.Backend.
func (*Backend) NewCond() (backend.Cond, error) {
	return newCond(), nil
}

// Cancel implements backend.Backend.
//
// The request is only recorded. Delivery happens at the target's next
// cancellation point with cancellation enabled; a thread that never reaches
// one is never canceled.
func (*Backend) Cancel(target *goroutine.Context) error {
	target.RequestCancel()
	return nil
}

// TestCancel implements backend.Backend.
func (*Backend) TestCancel(self *goroutine.Context) error {
	if self != nil && self.Pending() {
		return backend.ErrCanceled
	}
	return nil
}

// Await implements backend.Backend.
func (b *Backend) Await(done <-chan struct{}, self *goroutine.Context) error {
	if err := b.TestCancel(self); err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-self.Interrupt():
		return backend.ErrCanceled
	}
}
