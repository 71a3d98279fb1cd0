package observer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopDropsEverything(t *testing.T) {
	var o Noop
	o.Emit(Event{Stage: StageRendering})
	// No observable effect; this just confirms Emit does not panic.
}

func TestCollectingTakeReturnsInOrder(t *testing.T) {
	c := NewCollecting(4)
	c.Emit(Event{TurnNumber: 1})
	c.Emit(Event{TurnNumber: 2})
	c.Emit(Event{TurnNumber: 3})

	events := c.Take()
	require.Len(t, events, 3)
	assert.Equal(t, uint32(1), events[0].TurnNumber)
	assert.Equal(t, uint32(3), events[2].TurnNumber)
}

func TestCollectingDropsOldestWhenFull(t *testing.T) {
	c := NewCollecting(2)
	c.Emit(Event{TurnNumber: 1})
	c.Emit(Event{TurnNumber: 2})
	c.Emit(Event{TurnNumber: 3})

	events := c.Take()
	require.Len(t, events, 2)
	assert.Equal(t, uint32(2), events[0].TurnNumber)
	assert.Equal(t, uint32(3), events[1].TurnNumber)
}

func TestTakeDrainsCompletely(t *testing.T) {
	c := NewCollecting(4)
	c.Emit(Event{})
	_ = c.Take()
	assert.Empty(t, c.Take())
}
