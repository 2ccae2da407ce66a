//go:build windows

package event

import (
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sys/windows"
)

// platformEvent wraps a kernel auto-reset event object.
type platformEvent struct {
	h      windows.Handle
	closed atomic.Bool
}

func newPlatformEvent() (*platformEvent, error) {
	// manualReset=0: the kernel resets the event when it releases a waiter.
	h, err := windows.CreateEvent(nil, 0, 0, nil)
	if err != nil {
		return nil, fmt.Errorf("CreateEvent: %w", err)
	}
	return &platformEvent{h: h}, nil
}

func (p *platformEvent) set() error {
	if p.closed.Load() {
		return ErrClosed
	}
	if err := windows.SetEvent(p.h); err != nil {
		return fmt.Errorf("SetEvent: %w", err)
	}
	return nil
}

func (p *platformEvent) reset() error {
	if p.closed.Load() {
		return ErrClosed
	}
	if err := windows.ResetEvent(p.h); err != nil {
		return fmt.Errorf("ResetEvent: %w", err)
	}
	return nil
}

func (p *platformEvent) wait(timeout time.Duration) (bool, error) {
	if p.closed.Load() {
		return false, ErrClosed
	}

	ms := uint32(windows.INFINITE)
	if timeout >= 0 {
		ms = Milliseconds(timeout)
	}

	r, err := windows.WaitForSingleObject(p.h, ms)
	switch r {
	case windows.WAIT_OBJECT_0:
		return true, nil
	case uint32(windows.WAIT_TIMEOUT):
		return false, nil
	}
	if err == nil {
		err = fmt.Errorf("unexpected wait result %#x", r)
	}
	return false, fmt.Errorf("WaitForSingleObject: %w", err)
}

func (p *platformEvent) close() error {
	if p.closed.Swap(true) {
		return ErrClosed
	}
	return windows.CloseHandle(p.h)
}
