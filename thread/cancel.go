package thread

import (
	"github.com/kolkov/threadglue/internal/thread/goroutine"
)

// controlBlock returns the control block of the calling goroutine. With adopt set, a
// goroutine not started by Create gets one on demand.
func controlBlock(adopt bool) *goroutine.Context {
	ctx := goroutine.Current()
	if ctx == nil && adopt {
		ctx = goroutine.New(0)
		ctx.Adopted = true
		goroutine.Register(ctx)
	}
	return ctx
}

// CleanupPush registers fn(arg) on the calling thread's cleanup stack.
//
// The stack runs in reverse order of registration when the thread is
// canceled. Every push must be balanced by a CleanupPop in the same function.
// Goroutines not started by Create may use the stack too; they are never
// canceled, so only CleanupPop runs their actions.
func CleanupPush(fn func(arg any), arg any) {
	controlBlock(true).Cleanups.Push(fn, arg)
}

// CleanupPop removes the most recent cleanup action, running it first when
// execute is true. Popping an empty stack has no effect.
func CleanupPop(execute bool) {
	ctx := controlBlock(false)
	if ctx == nil {
		return
	}
	ctx.Cleanups.Pop(execute)
	if ctx.Adopted && ctx.Cleanups.Len() == 0 {
		goroutine.Unregister(goroutine.ID())
		lib.tracker.Exit()
	}
}

// TestCancel is an explicit cancellation point. If a request is pending and
// cancellation is enabled, the calling thread runs its cleanup stack and
// terminates; otherwise TestCancel returns immediately.
func TestCancel() {
	ctx := controlBlock(false)
	if err := lib.backend.TestCancel(ctx); err != nil {
		lib.log().Debug("cancellation delivered", "tid", ctx.ThreadID, "at", "test")
		ctx.Unwind()
	}
}

// SetCancelState enables or disables cancellation delivery for the calling
// thread and returns the previous state.
//
// A request made while disabled stays pending and is acted on at the first
// cancellation point reached after re-enabling. Goroutines not started by
// Create cannot be canceled and always report true.
func SetCancelState(enabled bool) bool {
	ctx := controlBlock(false)
	if ctx == nil {
		return true
	}
	prev := ctx.SetCancelEnabled(enabled)
	if enabled && !prev && ctx.CancelRequested() {
		lib.log().Debug("pending cancellation armed", "tid", ctx.ThreadID)
	}
	return prev
}
