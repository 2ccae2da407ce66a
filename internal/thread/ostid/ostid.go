// Package ostid reports the native OS thread identifier of the caller.
//
// The value is only meaningful while the calling goroutine is locked to its
// OS thread (runtime.LockOSThread), which is the case for every thread the
// thread package creates. It is used for diagnostics only.
package ostid

// Unknown is returned on platforms without a native thread id query.
const Unknown int64 = 0

// Current returns the calling OS thread's native identifier, or Unknown.
func Current() int64 {
	return platformCurrent()
}
