package hb

import (
	"strconv"

	"github.com/kolkov/threadglue/internal/thread/vectorclock"
)

// Epoch is a 64-bit logical timestamp encoding a slot and a clock value.
// Layout: [Slot:32][Clock:32]
//
// Example: 0x0000000500001234 represents Slot=5, Clock=0x1234.
type Epoch uint64

// ClockBits is the number of bits allocated for the clock value.
const ClockBits = 32

// NewEpoch creates an epoch from a slot and a clock value.
func NewEpoch(slot, clock uint32) Epoch {
	return Epoch(uint64(slot)<<ClockBits | uint64(clock))
}

// Decode extracts the slot and clock value from an epoch.
func (e Epoch) Decode() (slot, clock uint32) {
	//nolint:gosec // G115: both halves fit in 32 bits by construction.
	return uint32(e >> ClockBits), uint32(e)
}

// HappensBefore reports whether the epoch is covered by vc, that is
// clock <= vc[slot].
func (e Epoch) HappensBefore(vc *vectorclock.VectorClock) bool {
	slot, clock := e.Decode()
	return clock <= vc.Get(slot)
}

// String returns "clock@slot", e.g. "42@5".
func (e Epoch) String() string {
	slot, clock := e.Decode()
	return strconv.FormatUint(uint64(clock), 10) + "@" + strconv.FormatUint(uint64(slot), 10)
}
