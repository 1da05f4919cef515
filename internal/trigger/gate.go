package trigger

import "sync/atomic"

// Gate is the process-wide enablement toggle. The tray flips it on user
// activation; every device listener reads it before emitting. Relaxed
// ordering is fine here: the gate controls a human-timescale mute, not a
// safety property.
type Gate struct {
	disabled atomic.Bool
}

// NewGate returns a gate in the enabled state.
func NewGate() *Gate {
	return &Gate{}
}

// Enabled reports whether triggers currently pass the gate.
func (g *Gate) Enabled() bool {
	return !g.disabled.Load()
}

// Toggle flips the gate and returns the new enabled state.
func (g *Gate) Toggle() bool {
	for {
		old := g.disabled.Load()
		if g.disabled.CompareAndSwap(old, !old) {
			// The new disabled value is !old, so the new enabled value is old.
			return old
		}
	}
}
