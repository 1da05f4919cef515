package playback

import (
	"testing"

	"github.com/gopxl/beep/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SludgePhD/clickd/internal/sound"
	"github.com/SludgePhD/clickd/internal/trigger"
)

// testBuffer builds a sound buffer of n frames with recognizable values.
func testBuffer(n int) *sound.Buffer {
	frames := make([][2]float64, n)
	for i := range frames {
		v := float64(i+1) / float64(n)
		frames[i] = [2]float64{v, -v}
	}
	return &sound.Buffer{Rate: beep.SampleRate(44100), Frames: frames}
}

// render pulls one quantum of size from the renderer.
func render(r *Renderer, size int) [][2]float64 {
	out := make([][2]float64, size)
	n, ok := r.Stream(out)
	if !ok || n != size {
		panic("renderer must always fill the full quantum")
	}
	return out
}

func isSilence(samples [][2]float64) bool {
	for _, s := range samples {
		if s[0] != 0 || s[1] != 0 {
			return false
		}
	}
	return true
}

func TestRenderer_SilentWhileIdle(t *testing.T) {
	latch := trigger.NewLatch()
	r := NewRenderer(testBuffer(64), latch, false)

	for i := 0; i < 3; i++ {
		assert.True(t, isSilence(render(r, 32)), "quantum %d", i)
	}
	assert.False(t, r.Playing())
}

func TestRenderer_SinglePressPlaysFullBuffer(t *testing.T) {
	buf := testBuffer(100)
	latch := trigger.NewLatch()
	r := NewRenderer(buf, latch, false)

	assert.True(t, latch.TryEmit())

	// Four quanta of 32 frames cover the 100-frame buffer with a 28-frame
	// silent tail.
	var got [][2]float64
	for i := 0; i < 4; i++ {
		got = append(got, render(r, 32)...)
	}

	require.Len(t, got, 128)
	for i := 0; i < buf.Len(); i++ {
		assert.Equal(t, buf.Frames[i], got[i], "frame %d", i)
	}
	assert.True(t, isSilence(got[buf.Len():]), "tail beyond sample length is silence")

	// Back to idle, no residual activation.
	assert.False(t, r.Playing())
	assert.True(t, isSilence(render(r, 32)))
}

func TestRenderer_BurstFromTwoDevicesPlaysOnce(t *testing.T) {
	buf := testBuffer(40)
	latch := trigger.NewLatch()
	r := NewRenderer(buf, latch, false)

	// Two devices press before the next render poll; the latch collapses
	// them into one activation.
	latch.TryEmit()
	latch.TryEmit()

	got := render(r, 40)
	assert.Equal(t, buf.Frames, got)

	// The second press started nothing.
	assert.True(t, isSilence(render(r, 40)))
}

func TestRenderer_PressDuringPlaybackIsDropped(t *testing.T) {
	buf := testBuffer(80)
	latch := trigger.NewLatch()
	r := NewRenderer(buf, latch, false)

	latch.TryEmit()

	first := render(r, 40)
	assert.Equal(t, buf.Frames[:40], first)
	require.True(t, r.Playing())

	// Second press at 50% progress.
	latch.TryEmit()

	// First playback completes to the end uninterrupted.
	second := render(r, 40)
	assert.Equal(t, buf.Frames[40:], second)
	assert.False(t, r.Playing())

	// The mid-playback press yields no playback.
	assert.True(t, isSilence(render(r, 40)))
}

func TestRenderer_PressDuringPlaybackQueuesWhenConfigured(t *testing.T) {
	buf := testBuffer(80)
	latch := trigger.NewLatch()
	r := NewRenderer(buf, latch, true)

	latch.TryEmit()
	render(r, 40)
	latch.TryEmit() // mid-playback press
	render(r, 40)   // first cycle completes

	// The queued activation starts a second cycle on the next quantum.
	got := render(r, 40)
	assert.Equal(t, buf.Frames[:40], got)
	assert.True(t, r.Playing())
}

func TestRenderer_QuantumLargerThanBuffer(t *testing.T) {
	buf := testBuffer(10)
	latch := trigger.NewLatch()
	r := NewRenderer(buf, latch, false)

	latch.TryEmit()
	got := render(r, 32)

	assert.Equal(t, buf.Frames, got[:10])
	assert.True(t, isSilence(got[10:]))
	assert.False(t, r.Playing())
}

func TestRenderer_ErrIsAlwaysNil(t *testing.T) {
	r := NewRenderer(testBuffer(4), trigger.NewLatch(), false)
	assert.NoError(t, r.Err())
}
