// Package playback streams the notification sound into the audio output.
// The Renderer is the single real-time consumer: the speaker's mixer
// invokes its Stream method from the audio goroutine, and everything it
// does there must be non-blocking and allocation-free.
package playback

import (
	"github.com/SludgePhD/clickd/internal/sound"
	"github.com/SludgePhD/clickd/internal/trigger"
)

// Renderer is a beep.Streamer that renders at most one playback cycle at
// a time. When idle it drains the trigger latch; once a cycle starts it
// always runs the full buffer to completion, never restarted or
// overlapped.
//
// The cursor is touched only inside Stream, so it needs no
// synchronization: the audio goroutine is its sole owner.
type Renderer struct {
	buf   *sound.Buffer
	latch *trigger.Latch

	// queueWhileBusy keeps an activation that arrived during playback
	// pending, so it plays immediately after the current cycle. The
	// default (false) drops such presses.
	queueWhileBusy bool

	// cursor is the frame offset of the playback in progress; 0 means idle.
	cursor int
}

// NewRenderer returns an idle renderer reading activations from latch.
func NewRenderer(buf *sound.Buffer, latch *trigger.Latch, queueWhileBusy bool) *Renderer {
	return &Renderer{
		buf:            buf,
		latch:          latch,
		queueWhileBusy: queueWhileBusy,
	}
}

// Stream fills samples with the next render quantum. It never returns
// false: when nothing is playing and nothing is pending it emits silence,
// keeping the streamer alive in the mixer for the lifetime of the process.
func (r *Renderer) Stream(samples [][2]float64) (int, bool) {
	if r.cursor == 0 && !r.latch.TryConsume() {
		silence(samples)
		return len(samples), true
	}

	n := copy(samples, r.buf.Frames[r.cursor:])
	silence(samples[n:])
	r.cursor += n

	if r.cursor >= r.buf.Len() {
		r.cursor = 0
		if !r.queueWhileBusy {
			// Presses that landed while the cycle was in progress are
			// dropped, not replayed.
			r.latch.TryConsume()
		}
	}

	return len(samples), true
}

// Err implements beep.Streamer. The renderer never fails.
func (r *Renderer) Err() error {
	return nil
}

// Playing reports whether a playback cycle is in progress. Only valid
// from the goroutine driving Stream; it exists for tests.
func (r *Renderer) Playing() bool {
	return r.cursor > 0
}

func silence(samples [][2]float64) {
	for i := range samples {
		samples[i] = [2]float64{}
	}
}
