package trigger

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLatch_EmitConsume(t *testing.T) {
	l := NewLatch()

	// Nothing pending initially.
	assert.False(t, l.TryConsume())

	assert.True(t, l.TryEmit())
	assert.True(t, l.TryConsume())

	// Consuming twice with no intervening emit reports nothing pending.
	assert.False(t, l.TryConsume())
}

func TestLatch_RepeatedEmitsCollapse(t *testing.T) {
	l := NewLatch()

	assert.True(t, l.TryEmit())
	for i := 0; i < 10; i++ {
		assert.False(t, l.TryEmit(), "emit into a full slot must fail silently")
	}

	assert.True(t, l.TryConsume())
	assert.False(t, l.TryConsume())
}

func TestLatch_ConcurrentEmitsYieldOneActivation(t *testing.T) {
	l := NewLatch()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.TryEmit()
		}()
	}
	wg.Wait()

	assert.True(t, l.TryConsume())
	assert.False(t, l.TryConsume())
}

func TestGate_Toggle(t *testing.T) {
	g := NewGate()

	assert.True(t, g.Enabled(), "gate defaults to enabled")

	assert.False(t, g.Toggle())
	assert.False(t, g.Enabled())

	assert.True(t, g.Toggle())
	assert.True(t, g.Enabled())
}
