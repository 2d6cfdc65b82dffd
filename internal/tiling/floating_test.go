package tiling

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// centredAt returns a 100x100 rect centred on (x, y).
func centredAt(x, y float64) Rect {
	return R(x-50, y-50, 100, 100)
}

func TestAngularSortOrderIsClockwiseFromWest(t *testing.T) {
	state, _, _ := newTestState()
	screen := newFakeScreen()
	c := NewFloatingTileCollection(state.Bounds)

	// Pushed out of order; the screen centre is (600, 400).
	south := screen.newWindow("south", centredAt(600, 700))
	east := screen.newWindow("east", centredAt(1000, 400))
	west := screen.newWindow("west", centredAt(200, 400))
	north := screen.newWindow("north", centredAt(600, 100))
	for _, w := range []*fakeWindow{south, east, west, north} {
		c.Push(NewTile(w, state, TileKindFloating))
	}

	var order []string
	for _, it := range c.sortedWithIndexes() {
		order = append(order, it.Tile.Window.Title())
	}
	assert.Equal(t, []string{"west", "north", "east", "south"}, order)

	require.NoError(t, west.Activate())
	for _, want := range []*fakeWindow{north, east, south, west} {
		require.True(t, c.SelectCycle(1))
		assert.True(t, want.IsActive(), "expected %s active", want.title)
	}
}

func TestAngularSortOrderEdgeCases(t *testing.T) {
	state, _, _ := newTestState()
	screen := newFakeScreen()
	c := NewFloatingTileCollection(state.Bounds)
	mid := state.Bounds.Rect.Center()

	rank := func(rect Rect) float64 {
		return AngularSortOrder(c, NewTile(screen.newWindow("w", rect), state, TileKindFloating), mid)
	}

	west := rank(centredAt(200, 400))
	belowWest := rank(centredAt(200, 401))
	aboveWest := rank(centredAt(200, 399))
	assert.InDelta(t, 0, west, 1e-9)
	assert.Less(t, belowWest, west, "just below due west wraps to the start")
	assert.Greater(t, aboveWest, west)

	centred := rank(centredAt(600, 400))
	assert.InDelta(t, math.Pi/2, centred, 1e-9, "centred tiles rank as due up")
	assert.InDelta(t, rank(centredAt(600, 100)), centred, 1e-9)

	hidden := screen.newWindow("hidden", centredAt(200, 400))
	hidden.minimized = true
	assert.Equal(t, float64(hiddenRank), AngularSortOrder(c, NewTile(hidden, state, TileKindFloating), mid))
}
