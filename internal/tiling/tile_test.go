package tiling

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTileHonoursPreference(t *testing.T) {
	state, _, _ := newTestState()
	screen := newFakeScreen()

	pref := screen.newWindow("pref", R(1, 2, 3, 4))
	pref.tilePref = true
	assert.True(t, NewTile(pref, state, TileKindTiled).Managed())
	assert.False(t, NewTile(pref, state, TileKindFloating).Managed())

	plain := screen.newWindow("plain", R(1, 2, 3, 4))
	tile := NewTile(plain, state, TileKindTiled)
	assert.False(t, tile.Managed())
	assert.Equal(t, R(1, 2, 3, 4), tile.DesiredRect())
	assert.Equal(t, R(1, 2, 3, 4), tile.OriginalRect())
}

func TestReleaseUnmaximizes(t *testing.T) {
	state, _, sched := newTestState()
	screen := newFakeScreen()
	w := screen.newWindow("w", R(5, 5, 50, 50))
	tile := NewTile(w, state, TileKindTiled)
	tile.Tile()
	tile.SetRect(R(0, 0, 600, 800))
	tile.ToggleMaximize()
	tile.EnforceLayout(true)

	tile.Release()
	assert.False(t, tile.Managed())
	assert.False(t, tile.Maximized())
	assert.False(t, w.maximized)
	assert.Equal(t, R(5, 5, 50, 50), w.Rect())
	assert.Zero(t, sched.run(), "maximized tiles are not enforced")
}

func TestSetRectSkipsMaximized(t *testing.T) {
	state, _, _ := newTestState()
	w := newFakeScreen().newWindow("w", R(5, 5, 50, 50))
	tile := NewTile(w, state, TileKindTiled)
	tile.ToggleMaximize()

	tile.SetRect(R(0, 0, 10, 10))
	assert.Equal(t, R(0, 0, 10, 10), tile.Rect())
	assert.Empty(t, w.moves)
}

func TestSwappedWithMovesFloatingWindows(t *testing.T) {
	state, _, _ := newTestState()
	screen := newFakeScreen()
	a := screen.newWindow("a", R(0, 0, 100, 100))
	b := screen.newWindow("b", R(500, 500, 200, 200))
	ta := NewTile(a, state, TileKindFloating)
	tb := NewTile(b, state, TileKindFloating)

	ta.SwappedWith(tb)
	assert.Equal(t, R(500, 500, 200, 200), a.Rect())
	assert.Equal(t, R(0, 0, 100, 100), b.Rect())
}

func TestMinimizeOrderIncreases(t *testing.T) {
	state, _, _ := newTestState()
	screen := newFakeScreen()
	a := NewTile(screen.newWindow("a", R(0, 0, 1, 1)), state, TileKindTiled)
	b := NewTile(screen.newWindow("b", R(0, 0, 1, 1)), state, TileKindTiled)

	a.Minimize()
	b.MarkMinimized()
	assert.Greater(t, b.MinimizedOrder, a.MinimizedOrder)
	a.Minimize()
	assert.Greater(t, a.MinimizedOrder, b.MinimizedOrder)
}

func TestMoveFailureIsNotFatal(t *testing.T) {
	state, _, _ := newTestState()
	w := newFakeScreen().newWindow("w", R(0, 0, 10, 10))
	w.moveErr = errors.New("BadWindow")
	tile := NewTile(w, state, TileKindTiled)
	tile.Tile()

	tile.SetRect(R(0, 0, 100, 100))
	assert.Equal(t, R(0, 0, 100, 100), tile.Rect())
	assert.Equal(t, R(0, 0, 10, 10), w.Rect())
}

func TestEnforceLayoutIgnoresFloating(t *testing.T) {
	state, _, sched := newTestState()
	w := newFakeScreen().newWindow("w", R(0, 0, 10, 10))
	tile := NewTile(w, state, TileKindTiled)

	tile.EnforceLayout(true)
	tile.EnforceLayout(false)
	assert.Empty(t, sched.pending)
	assert.Empty(t, w.moves)
}
