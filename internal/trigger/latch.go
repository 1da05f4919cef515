// Package trigger provides the lock-free primitives that connect input
// listeners to the audio render path: a single-slot activation latch and
// the global enablement gate.
package trigger

import "sync/atomic"

// Latch is a capacity-1 mailbox carrying a pending playback activation.
// Any number of producers may TryEmit concurrently; a single consumer
// drains it with TryConsume. Presses arriving while the slot is already
// full are collapsed into the one pending activation, which is the whole
// debounce mechanism.
//
// Both operations are wait-free single-word CAS: TryConsume is called
// from the audio render goroutine and must never lock, allocate, or
// perform I/O.
type Latch struct {
	pending atomic.Bool
}

// NewLatch returns an empty latch.
func NewLatch() *Latch {
	return &Latch{}
}

// TryEmit marks an activation pending. It reports whether the slot was
// empty; false means an activation was already pending and this press
// collapsed into it. Never blocks.
func (l *Latch) TryEmit() bool {
	return l.pending.CompareAndSwap(false, true)
}

// TryConsume clears a pending activation and reports whether one was
// present. Never blocks.
func (l *Latch) TryConsume() bool {
	return l.pending.CompareAndSwap(true, false)
}
