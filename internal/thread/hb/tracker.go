package hb

import (
	"sync"
	"sync/atomic"

	"github.com/kolkov/threadglue/internal/thread/goroutine"
	"github.com/kolkov/threadglue/internal/thread/vectorclock"
)

// Stamp is a point in the happens-before order: the epoch of the event and
// the vector clock of its thread at that moment.
//
// The zero Stamp is produced while tracking is disabled and is ordered with
// nothing.
type Stamp struct {
	Epoch Epoch
	Clock *vectorclock.VectorClock
}

// Valid reports whether s was taken with tracking enabled.
func (s Stamp) Valid() bool {
	return s.Clock != nil
}

// HappensBefore reports whether s is ordered strictly before other.
func (s Stamp) HappensBefore(other Stamp) bool {
	if !s.Valid() || !other.Valid() || s.Epoch == other.Epoch {
		return false
	}
	return s.Epoch.HappensBefore(other.Clock)
}

// String returns the epoch followed by the clock, e.g. "3@1 {0:2, 1:3}".
func (s Stamp) String() string {
	if !s.Valid() {
		return "<untracked>"
	}
	return s.Epoch.String() + " " + s.Clock.String()
}

// clockContext is the per-thread tracking state. It is only touched by the
// goroutine that owns it.
type clockContext struct {
	slot uint32
	vc   *vectorclock.VectorClock
}

func (c *clockContext) tick() {
	c.vc.Increment(c.slot)
}

// syncVar is the shadow state of one synchronization object.
type syncVar struct {
	mu      sync.Mutex
	release *vectorclock.VectorClock
}

// Tracker records happens-before edges.
//
// Thread Safety: All methods are safe for concurrent calls. Clock contexts
// are keyed by goroutine ID, so each is mutated only by its own goroutine.
type Tracker struct {
	enabled  atomic.Bool
	nextSlot atomic.Uint32

	// contexts maps goroutine IDs to *clockContext.
	contexts sync.Map

	// vars maps synchronization objects to *syncVar. Keys are comparable
	// values, normally pointers to the primitive.
	vars sync.Map
}

// New returns a disabled tracker.
func New() *Tracker {
	return &Tracker{}
}

// SetEnabled turns tracking on or off. Edges are only recorded while enabled;
// toggling at runtime leaves gaps and is meant for tests and probes.
func (t *Tracker) SetEnabled(on bool) {
	t.enabled.Store(on)
}

// Enabled reports whether tracking is on.
func (t *Tracker) Enabled() bool {
	return t.enabled.Load()
}

// current returns the calling goroutine's clock context, allocating a slot on
// first use.
func (t *Tracker) current() *clockContext {
	gid := goroutine.ID()
	if v, ok := t.contexts.Load(gid); ok {
		return v.(*clockContext)
	}
	ctx := &clockContext{slot: t.nextSlot.Add(1) - 1, vc: vectorclock.New()}
	// A fresh thread starts at clock 1 so its first epoch is never covered
	// by a clock that has not seen it.
	ctx.vc.Set(ctx.slot, 1)
	t.contexts.Store(gid, ctx)
	return ctx
}

func (t *Tracker) syncVar(key any) *syncVar {
	if v, ok := t.vars.Load(key); ok {
		return v.(*syncVar)
	}
	v, _ := t.vars.LoadOrStore(key, &syncVar{})
	return v.(*syncVar)
}

// Acquire joins the release clock of key into the calling thread's clock.
func (t *Tracker) Acquire(key any) {
	if !t.Enabled() {
		return
	}
	ctx := t.current()
	sv := t.syncVar(key)
	sv.mu.Lock()
	if sv.release != nil && !sv.release.LessOrEqual(ctx.vc) {
		ctx.vc.Join(sv.release)
	}
	sv.mu.Unlock()
	ctx.tick()
}

// Release publishes the calling thread's clock on key.
func (t *Tracker) Release(key any) {
	if !t.Enabled() {
		return
	}
	ctx := t.current()
	sv := t.syncVar(key)
	sv.mu.Lock()
	if sv.release == nil {
		sv.release = ctx.vc.Clone()
	} else {
		sv.release.Join(ctx.vc)
	}
	sv.mu.Unlock()
	ctx.tick()
}

// Stamp returns the calling thread's current position. Two stamps taken by
// the same thread are always ordered.
func (t *Tracker) Stamp() Stamp {
	if !t.Enabled() {
		return Stamp{}
	}
	ctx := t.current()
	s := Stamp{
		Epoch: NewEpoch(ctx.slot, ctx.vc.Get(ctx.slot)),
		Clock: ctx.vc.Clone(),
	}
	ctx.tick()
	return s
}

// Forget drops the shadow state of key. Called when an object is destroyed or
// a thread handle is freed.
func (t *Tracker) Forget(key any) {
	t.vars.Delete(key)
}

// Exit drops the calling goroutine's clock context.
func (t *Tracker) Exit() {
	t.contexts.Delete(goroutine.ID())
}

// Reset clears all state. Slots are not reused.
func (t *Tracker) Reset() {
	t.contexts.Clear()
	t.vars.Clear()
}
