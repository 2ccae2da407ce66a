//go:build !windows

package event

import (
	"sync/atomic"
	"time"
)

// platformEvent is a one-slot channel: a buffered token means signaled.
type platformEvent struct {
	ch     chan struct{}
	closed atomic.Bool
}

func newPlatformEvent() (*platformEvent, error) {
	return &platformEvent{ch: make(chan struct{}, 1)}, nil
}

func (p *platformEvent) set() error {
	if p.closed.Load() {
		return ErrClosed
	}
	select {
	case p.ch <- struct{}{}:
	default:
		// Already signaled.
	}
	return nil
}

func (p *platformEvent) reset() error {
	if p.closed.Load() {
		return ErrClosed
	}
	select {
	case <-p.ch:
	default:
	}
	return nil
}

func (p *platformEvent) wait(timeout time.Duration) (bool, error) {
	if p.closed.Load() {
		return false, ErrClosed
	}

	if timeout < 0 {
		<-p.ch
		return true, nil
	}

	if timeout == 0 {
		select {
		case <-p.ch:
			return true, nil
		default:
			return false, nil
		}
	}

	// Same rounding as the native wait so both platforms time out alike.
	timer := time.NewTimer(time.Duration(Milliseconds(timeout)) * time.Millisecond)
	defer timer.Stop()

	select {
	case <-p.ch:
		return true, nil
	case <-timer.C:
		return false, nil
	}
}

func (p *platformEvent) close() error {
	if p.closed.Swap(true) {
		return ErrClosed
	}
	return nil
}
