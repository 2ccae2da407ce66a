// Package winevent implements the event backend, modelled on native Windows
// threading.
//
// The native model has no condition variable and no thread cancellation.
// Condition variables are emulated on an auto-reset event plus a waiter
// count (see cond.go). Cancel is a declared capability gap: it always fails
// with errors.ErrUnsupported and never affects the target thread. Join and
// condition waits are not cancellation points.
package winevent

import (
	"errors"

	"github.com/kolkov/threadglue/internal/thread/backend"
	"github.com/kolkov/threadglue/internal/thread/goroutine"
)

// Name is the backend identifier.
const Name = "winevent"

// Backend is the event backend.
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
	return false
}

// NewCond implements backend.Backend.
func (*Backend) NewCond() (backend.Cond, error) {
	return newCond()
}

// Cancel implements backend.Backend. It always fails.
func (*Backend) Cancel(*goroutine.Context) error {
	return errors.ErrUnsupported
}

// TestCancel implements backend.Backend. Nothing is ever pending.
func (*Backend) TestCancel(*goroutine.Context) error {
	return nil
}

// Await implements backend.Backend.
func (*Backend) Await(done <-chan struct{}, _ *goroutine.Context) error {
	<-done
	return nil
}
