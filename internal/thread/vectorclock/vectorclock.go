// Package vectorclock implements vector clocks for tracking happens-before
// relations between threads.
//
// Each thread taking part in tracking gets a dense slot number; a clock holds
// one logical time per slot. Clocks grow on demand, so a program with a
// handful of threads pays for a handful of entries.
//
// Key operations:
//   - Join: synchronization (point-wise maximum), used on acquire
//   - LessOrEqual: partial order, used to answer happens-before queries
package vectorclock

import (
	"strconv"
	"strings"
)

// VectorClock represents logical time across threads.
//
// Element i stores the clock value for slot i; slots beyond the current
// length read as zero.
//
// Example: {0: 50, 1: 30, 2: 60} means Slot0@50, Slot1@30, Slot2@60.
type VectorClock struct {
	c []uint32
}

// New creates a zero vector clock.
func New() *VectorClock {
	return &VectorClock{}
}

// Clone creates a deep copy of the vector clock.
//
// Used to snapshot a thread's logical time, for example when publishing a
// release clock on a synchronization object.
func (vc *VectorClock) Clone() *VectorClock {
	clone := &VectorClock{c: make([]uint32, len(vc.c))}
	copy(clone.c, vc.c)
	return clone
}

// Join performs point-wise maximum: vc = vc ⊔ other.
//
// This is the acquire operation: the acquiring thread's clock absorbs the
// release clock of the synchronization object.
func (vc *VectorClock) Join(other *VectorClock) {
	vc.grow(len(other.c))
	for i, v := range other.c {
		if v > vc.c[i] {
			vc.c[i] = v
		}
	}
}

// LessOrEqual checks partial order: vc ⊑ other.
//
// Returns true if vc[i] <= other[i] for all slots i.
func (vc *VectorClock) LessOrEqual(other *VectorClock) bool {
	for i, v := range vc.c {
		if v > other.Get(uint32(i)) { //nolint:gosec // G115: slot count is bounded by the tracker's uint32 allocator.
			return false
		}
	}
	return true
}

// Increment advances the clock for slot.
func (vc *VectorClock) Increment(slot uint32) {
	vc.grow(int(slot) + 1)
	vc.c[slot]++
}

// Get returns the clock value for slot.
func (vc *VectorClock) Get(slot uint32) uint32 {
	if int(slot) >= len(vc.c) {
		return 0
	}
	return vc.c[slot]
}

// Set sets the clock value for slot.
func (vc *VectorClock) Set(slot, clock uint32) {
	vc.grow(int(slot) + 1)
	vc.c[slot] = clock
}

// Len returns the number of slots currently stored.
func (vc *VectorClock) Len() int {
	return len(vc.c)
}

func (vc *VectorClock) grow(n int) {
	if n <= len(vc.c) {
		return
	}
	if n <= cap(vc.c) {
		vc.c = vc.c[:n]
		return
	}
	c := make([]uint32, n, 2*n)
	copy(c, vc.c)
	vc.c = c
}

// String returns a debug representation showing only non-zero clocks.
//
// Example: "{0:50, 1:30, 5:42}".
func (vc *VectorClock) String() string {
	var parts []string
	for i, v := range vc.c {
		if v != 0 {
			parts = append(parts, strconv.Itoa(i)+":"+strconv.FormatUint(uint64(v), 10))
		}
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
