package thread

import "sync"

// Mutex is a non-reentrant exclusive lock.
//
// The zero value is an unlocked mutex; Init resets a mutex to that state.
// Locking a mutex already held by the caller deadlocks. Unlocking a mutex
// that is not held, or destroying one that is held or waited on, is
// undefined.
//
// Built with -tags threadglue_deadlock, the lock is a go-deadlock mutex that
// reports lock-order inversions and long waits (see DeadlockDetection).
type Mutex struct {
	mu nativeMutex
}

var _ sync.Locker = (*Mutex)(nil)

// NewMutex returns an initialized mutex.
func NewMutex() *Mutex {
	return &Mutex{}
}

// Init prepares m in the unlocked state.
func (m *Mutex) Init() {
	*m = Mutex{}
}

// Destroy releases the mutex.
func (m *Mutex) Destroy() {
	lib.tracker.Forget(m)
}

// Lock acquires m, blocking while another thread holds it.
func (m *Mutex) Lock() {
	m.mu.Lock()
	lib.tracker.Acquire(m)
}

// TryLock acquires m if it is free and reports whether it did.
func (m *Mutex) TryLock() bool {
	if !m.mu.TryLock() {
		return false
	}
	lib.tracker.Acquire(m)
	return true
}

// Unlock releases m.
func (m *Mutex) Unlock() {
	lib.tracker.Release(m)
	m.mu.Unlock()
}
