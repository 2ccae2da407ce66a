package thread

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"github.com/kolkov/threadglue/internal/thread/backend"
	"github.com/kolkov/threadglue/internal/thread/goroutine"
	"github.com/kolkov/threadglue/internal/thread/ostid"
)

// Func is a thread entry function. Its result is returned by Join.
type Func func(arg any) any

type cancelMarker struct{ _ byte }

// Canceled is the value Join returns for a thread that terminated through
// cancellation. Compare with ==.
var Canceled any = &cancelMarker{}

// handleState is the lifecycle state of a handle.
type handleState uint8

const (
	stateJoinable handleState = iota
	stateJoining
	stateJoined
	stateDetached
	stateFreed
)

func (s handleState) String() string {
	switch s {
	case stateJoinable:
		return "joinable"
	case stateJoining:
		return "joining"
	case stateJoined:
		return "joined"
	case stateDetached:
		return "detached"
	case stateFreed:
		return "freed"
	default:
		return "unknown"
	}
}

// nextID allocates thread identifiers. Zero is never handed out.
var nextID atomic.Uint64

// Thread is a handle to a thread started by Create.
//
// A handle is either joined or detached, exactly once, and must be released
// with Free as the last operation on it.
type Thread struct {
	id     uint64
	native atomic.Int64
	ctx    *goroutine.Context

	// done is closed after the entry function returned or the thread was
	// canceled. result is written before.
	done   chan struct{}
	result any

	mu    sync.Mutex
	state handleState
}

// Create starts entry(arg) on a new thread.
//
// The thread runs on its own OS thread. Create returns once the thread is
// running, so ID and NativeID are valid immediately. It fails with ErrSpawn
// when entry is nil or the live thread limit is reached.
func Create(entry Func, arg any) (*Thread, error) {
	if entry == nil {
		return nil, wrap(ErrSpawn, ErrNilEntry)
	}

	sem := lib.sem.Load()
	if sem != nil && !sem.TryAcquire(1) {
		lib.log().Warn("thread limit reached", "max_threads", lib.maxThreads.Load())
		return nil, wrap(ErrSpawn, ErrThreadLimit)
	}

	id := nextID.Add(1)
	t := &Thread{
		id:   id,
		ctx:  goroutine.New(id),
		done: make(chan struct{}),
	}

	lib.tracker.Release(t.ctx)

	started := make(chan struct{})
	go t.run(entry, arg, sem, started)
	<-started

	lib.log().Debug("thread created", "tid", id, "native_tid", t.native.Load())
	return t, nil
}

func (t *Thread) run(entry Func, arg any, sem *semaphore.Weighted, started chan<- struct{}) {
	// Never unlocked: the OS thread exits together with this goroutine.
	runtime.LockOSThread()

	t.native.Store(ostid.Current())
	gid := goroutine.Register(t.ctx)
	lib.tracker.Acquire(t.ctx)
	close(started)

	defer func() {
		if t.ctx.Canceled() {
			t.result = Canceled
			lib.log().Debug("thread canceled", "tid", t.id)
		} else {
			lib.log().Debug("thread exited", "tid", t.id)
		}
		lib.tracker.Release(t)
		lib.tracker.Exit()
		goroutine.Unregister(gid)
		if sem != nil {
			sem.Release(1)
		}
		close(t.done)
	}()

	t.result = entry(arg)
}

// ID returns the identifier assigned by Create. Identifiers are unique for
// the life of the process.
func (t *Thread) ID() uint64 {
	return t.id
}

// NativeID returns the OS thread id the thread runs on, or 0 where the
// platform has no such notion.
func (t *Thread) NativeID() int64 {
	return t.native.Load()
}

// Detach marks the thread as never to be joined. Its resources are released
// when it terminates. Detaching a handle that is joined, being joined or
// already detached has no effect.
func (t *Thread) Detach() error {
	if t == nil {
		return wrap(ErrJoin, ErrInvalidHandle)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	switch t.state {
	case stateFreed:
		return wrap(ErrJoin, ErrInvalidHandle)
	case stateJoinable:
		t.state = stateDetached
		lib.log().Debug("thread detached", "tid", t.id)
	}
	return nil
}

// Join waits for the thread to terminate and returns the value of its entry
// function, or Canceled.
//
// Join fails with ErrJoin on a freed, detached or already joined handle, or
// when a thread tries to join itself. On the POSIX-style backend Join is a
// cancellation point; a caller canceled while joining leaves the handle
// joinable.
func (t *Thread) Join() (any, error) {
	if t == nil {
		return nil, wrap(ErrJoin, ErrInvalidHandle)
	}

	self := goroutine.Current()

	t.mu.Lock()
	switch {
	case t.state == stateFreed:
		t.mu.Unlock()
		return nil, wrap(ErrJoin, ErrInvalidHandle)
	case t.state != stateJoinable:
		st := t.state
		t.mu.Unlock()
		return nil, wrap(ErrJoin, fmt.Errorf("%w: handle is %s", ErrNotJoinable, st))
	case self != nil && self == t.ctx:
		t.mu.Unlock()
		return nil, wrap(ErrJoin, ErrDeadlock)
	}
	t.state = stateJoining
	t.mu.Unlock()

	if err := lib.backend.Await(t.done, self); err != nil {
		t.mu.Lock()
		if t.state == stateJoining {
			t.state = stateJoinable
		}
		t.mu.Unlock()

		if errors.Is(err, backend.ErrCanceled) {
			lib.log().Debug("cancellation delivered", "tid", self.ThreadID, "at", "join")
			self.Unwind()
		}
		return nil, wrap(ErrJoin, err)
	}

	t.mu.Lock()
	if t.state == stateJoining {
		t.state = stateJoined
	}
	t.mu.Unlock()

	lib.tracker.Acquire(t)
	return t.result, nil
}

// Free releases the handle. It must be the last operation on the handle;
// every later operation reports an invalid handle. Freeing a handle does not
// stop the thread.
func (t *Thread) Free() error {
	if t == nil {
		return wrap(ErrJoin, ErrInvalidHandle)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == stateFreed {
		return wrap(ErrJoin, ErrInvalidHandle)
	}
	t.state = stateFreed
	lib.tracker.Forget(t)
	lib.tracker.Forget(t.ctx)
	return nil
}

// IsAlive reports whether the thread is still running. The answer may be
// stale by the time the caller sees it; use it for diagnostics only.
func (t *Thread) IsAlive() bool {
	if t == nil {
		return false
	}
	select {
	case <-t.done:
		return false
	default:
		return true
	}
}

// Cancel requests cancellation of the thread.
//
// On the POSIX-style backend the request is recorded and acted on at the
// target's next cancellation point. Canceling a thread that already
// terminated succeeds and has no effect. On the event backend Cancel always
// fails with ErrCancel wrapping errors.ErrUnsupported.
func (t *Thread) Cancel() error {
	if t == nil {
		return wrap(ErrCancel, ErrInvalidHandle)
	}

	t.mu.Lock()
	freed := t.state == stateFreed
	t.mu.Unlock()
	if freed {
		return wrap(ErrCancel, ErrInvalidHandle)
	}

	if err := lib.backend.Cancel(t.ctx); err != nil {
		return wrap(ErrCancel, err)
	}
	lib.log().Debug("cancel requested", "tid", t.id, "deferred", !t.ctx.CancelEnabled())
	return nil
}

// String returns "thread <id>".
func (t *Thread) String() string {
	if t == nil {
		return "thread <nil>"
	}
	return "thread " + strconv.FormatUint(t.id, 10)
}
