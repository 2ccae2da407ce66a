// Package thread provides a uniform threading layer over two native models.
//
// The package normalizes thread lifecycle, mutual exclusion, condition
// variables and one-time initialization across a POSIX-style backend and an
// event backend modelled on native Windows threading. Both present identical
// timeout semantics, identical cancellation reporting and identical status
// codes; the backend is chosen at build time.
//
// # Quick Start
//
//	t, err := thread.Create(func(arg any) any {
//		return arg.(int) * 2
//	}, 21)
//	if err != nil {
//		return err
//	}
//	v, err := t.Join()  // v == 42
//	_ = t.Free()
//
// # Threads
//
// Every [Create] starts its entry function on a goroutine locked to its own
// OS thread. The lock is never released, so the OS thread terminates with
// the entry function. A handle is joined or detached exactly once and must
// be released with [Thread.Free].
//
// # Cancellation
//
// [Thread.Cancel] is cooperative. On the POSIX-style backend a request is
// acted on when the target reaches a cancellation point:
//
//   - [Cond.Wait] and [Cond.WaitTimeout]
//   - [Thread.Join]
//   - [TestCancel]
//
// The target then runs its cleanup actions ([CleanupPush]) in reverse order,
// with any mutex released by a wait held again, and terminates; joining it
// yields [Canceled]. [SetCancelState] defers delivery.
//
// The event backend has no cancellation: Cancel always fails with
// [ErrCancel] and the target keeps running.
//
// # Backend Selection
//
//	GOOS=windows                   event backend
//	go build -tags threadglue_event  event backend
//	anything else                  POSIX-style backend
//
// # Environment
//
//	THREADGLUE_LOG_LEVEL    debug, info, warn (default), error
//	THREADGLUE_LOG_FORMAT   text (default), logfmt, json
//	THREADGLUE_MAX_THREADS  live thread limit, 0 (default) for none
//	THREADGLUE_HBCHECK      record happens-before edges (see [Stamp])
//
// # Undefined Behavior
//
// Misuse of the primitives is not detected: locking a held [Mutex] from the
// same thread, unlocking a mutex that is not held, using a destroyed mutex or
// condition variable, or waiting without holding the mutex. These behave as
// the underlying native primitives do.
package thread
