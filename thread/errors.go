package thread

import (
	"errors"
	"fmt"
)

// Failure kinds. Every error returned by this package matches exactly one of
// them with errors.Is; Code maps them to the numeric status codes.
var (
	// ErrSpawn reports that a thread could not be created.
	ErrSpawn = errors.New("thread: spawn failed")

	// ErrJoin reports an invalid join, detach or free.
	ErrJoin = errors.New("thread: join failed")

	// ErrCancel reports a cancellation request that could not be made.
	ErrCancel = errors.New("thread: cancel failed")

	// ErrSignal reports a condition variable that could not be initialized,
	// signaled or destroyed.
	ErrSignal = errors.New("thread: cond failed")

	// ErrTimedOut is returned by Cond.WaitTimeout when no signal arrived in
	// time. It is a status, not a failure.
	ErrTimedOut = errors.New("thread: wait timed out")
)

// Failure details, wrapped together with a kind.
var (
	ErrInvalidHandle  = errors.New("invalid handle")
	ErrNotJoinable    = errors.New("thread is not joinable")
	ErrDeadlock       = errors.New("thread cannot join itself")
	ErrThreadLimit    = errors.New("live thread limit reached")
	ErrNilEntry       = errors.New("nil entry function")
	ErrNotInitialized = errors.New("not initialized")
)

// Status codes returned by Code.
const (
	CodeOK       = 0
	CodeSpawn    = 1
	CodeJoin     = 2
	CodeCancel   = 3
	CodeSignal   = 4
	CodeTimedOut = 5
	CodeUnknown  = -1
)

// Code maps an error returned by this package to its status code.
func Code(err error) int {
	switch {
	case err == nil:
		return CodeOK
	case errors.Is(err, ErrSpawn):
		return CodeSpawn
	case errors.Is(err, ErrJoin):
		return CodeJoin
	case errors.Is(err, ErrCancel):
		return CodeCancel
	case errors.Is(err, ErrSignal):
		return CodeSignal
	case errors.Is(err, ErrTimedOut):
		return CodeTimedOut
	default:
		return CodeUnknown
	}
}

func wrap(kind, detail error) error {
	return fmt.Errorf("%w: %w", kind, detail)
}
