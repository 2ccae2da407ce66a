// Package goroutine implements per-thread state for threads created by the
// thread package.
//
// Go has no thread-local storage, so the control block of each thread is
// bound to the goroutine that runs it. Registration maps the goroutine ID of
// the running thread to its Context; Current looks it up from inside any
// cancellation point without the caller having to thread a handle through.
//
// A Context stores:
//   - ThreadID: the identifier of the owning thread handle
//   - the cancellation request flag and its broadcast channel
//   - the cancel state (enabled/disabled) toggled by the thread itself
//   - Cleanups: the explicit cleanup stack run on the cancellation path
//
// Goroutine IDs come from github.com/petermattis/goid.
//
// Goroutines that were not started by the thread package (main, test
// goroutines, plain go statements) have no Context; Current returns nil for
// them and cancellation points treat them as non-cancellable. Pushing a
// cleanup handler from such a goroutine adopts it: a Context with Adopted set
// is registered and removed again once its cleanup stack is empty.
package goroutine
