package goroutine

import "sync"

// contexts maps goroutine IDs to the Context of the thread they run.
//
// Using sync.Map for the "written once, read many" pattern:
//   - one Store when a thread starts, one Delete when it exits
//   - Loads at every cancellation point
//
// Key: int64 (goroutine ID)
// Value: *Context.
var contexts sync.Map

// Register binds ctx to the calling goroutine and returns the goroutine ID.
func Register(ctx *Context) int64 {
	gid := ID()
	contexts.Store(gid, ctx)
	return gid
}

// Unregister removes the binding made by Register.
func Unregister(gid int64) {
	contexts.Delete(gid)
}

// Current returns the Context of the calling goroutine, or nil if the
// goroutine was not started by the thread package.
func Current() *Context {
	if v, ok := contexts.Load(ID()); ok {
		return v.(*Context)
	}
	return nil
}
