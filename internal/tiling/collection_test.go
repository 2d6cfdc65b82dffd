package tiling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collectionFixture struct {
	screen *fakeScreen
	state  *LayoutState
	c      *TileCollection
}

func newCollectionFixture() *collectionFixture {
	state, _, _ := newTestState()
	return &collectionFixture{
		screen: newFakeScreen(),
		state:  state,
		c:      NewTileCollection(state.Bounds),
	}
}

func (f *collectionFixture) push(title string, tiled bool) (*Tile, *fakeWindow) {
	w := f.screen.newWindow(title, R(0, 0, 100, 100))
	w.tilePref = tiled
	tile := NewTile(w, f.state, TileKindTiled)
	f.c.Push(tile)
	return tile, w
}

func titles(tiles []*Tile) []string {
	out := make([]string, len(tiles))
	for i, t := range tiles {
		out[i] = t.Window.Title()
	}
	return out
}

func TestSwapAtIsItsOwnInverse(t *testing.T) {
	f := newCollectionFixture()
	f.push("a", true)
	f.push("b", true)
	f.push("c", false)

	before := titles(f.c.Items())
	f.c.SwapAt(0, 2)
	assert.Equal(t, []string{"c", "b", "a"}, titles(f.c.Items()))
	f.c.SwapAt(0, 2)
	assert.Equal(t, before, titles(f.c.Items()))
}

func TestSelectCycleWraps(t *testing.T) {
	f := newCollectionFixture()
	_, a := f.push("a", true)
	f.push("b", true)
	_, c := f.push("c", true)
	require.NoError(t, c.Activate())

	assert.True(t, f.c.SelectCycle(1))
	assert.True(t, a.IsActive())

	assert.True(t, f.c.SelectCycle(-1))
	assert.True(t, c.IsActive())
}

func TestSelectCycleFollowsSortOrder(t *testing.T) {
	f := newCollectionFixture()
	_, floating := f.push("floating", false)
	_, a := f.push("a", true)
	_, b := f.push("b", true)
	require.NoError(t, a.Activate())

	// Tiled tiles sort before floating ones regardless of position.
	f.c.SelectCycle(1)
	assert.True(t, b.IsActive())
	f.c.SelectCycle(1)
	assert.True(t, floating.IsActive())
	f.c.SelectCycle(1)
	assert.True(t, a.IsActive())
}

func TestSelectCycleWithoutActiveFocusesFirstVisible(t *testing.T) {
	f := newCollectionFixture()
	_, hidden := f.push("hidden", true)
	_, floating := f.push("floating", false)
	f.push("tiled", true)
	hidden.minimized = true

	assert.False(t, f.c.SelectCycle(1))
	assert.True(t, floating.IsActive(), "raw order, not sort order")
}

func TestCycleSwapsWithNeighbour(t *testing.T) {
	f := newCollectionFixture()
	f.push("a", true)
	_, b := f.push("b", true)
	f.push("c", true)
	require.NoError(t, b.Activate())

	assert.True(t, f.c.Cycle(1))
	assert.Equal(t, []string{"a", "c", "b"}, titles(f.c.Items()))

	assert.True(t, f.c.Cycle(1))
	assert.Equal(t, []string{"b", "c", "a"}, titles(f.c.Items()), "wraps to the front")
}

func TestCycleFloatingAmongFloating(t *testing.T) {
	f := newCollectionFixture()
	f.push("tiled", true)
	_, x := f.push("x", false)
	f.push("y", false)
	require.NoError(t, x.Activate())

	assert.True(t, f.c.Cycle(1))
	assert.Equal(t, []string{"tiled", "y", "x"}, titles(f.c.Items()))
}

func TestCycleWithoutActive(t *testing.T) {
	f := newCollectionFixture()
	f.push("a", true)
	f.push("b", true)
	assert.False(t, f.c.Cycle(1))
	assert.Equal(t, []string{"a", "b"}, titles(f.c.Items()))
}

func TestIndexOfAndPush(t *testing.T) {
	f := newCollectionFixture()
	a, _ := f.push("a", true)
	f.push("b", true)

	stranger := newFakeScreen().newWindow("stranger", R(0, 0, 1, 1))
	stranger.id = 999
	assert.Equal(t, -1, f.c.IndexOf(stranger))
	assert.False(t, f.c.Contains(stranger))

	f.c.Push(a)
	assert.Equal(t, 2, f.c.Len())

	dup := NewTile(a.Window, f.state, TileKindTiled)
	f.c.Push(dup)
	assert.Equal(t, 2, f.c.Len(), "same window id is not pushed twice")
	assert.Equal(t, 0, f.c.IndexOf(a.Window))
}

func TestInsertAndRemove(t *testing.T) {
	f := newCollectionFixture()
	f.push("a", true)
	f.push("c", true)
	w := f.screen.newWindow("b", R(0, 0, 1, 1))
	f.c.InsertAt(1, NewTile(w, f.state, TileKindTiled))
	assert.Equal(t, []string{"a", "b", "c"}, titles(f.c.Items()))

	removed := f.c.RemoveAt(0)
	assert.Equal(t, "a", removed.Window.Title())
	assert.Equal(t, []string{"b", "c"}, titles(f.c.Items()))

	f.c.InsertAt(2, removed)
	assert.Equal(t, []string{"b", "c", "a"}, titles(f.c.Items()))
}

func TestMostRecentlyMinimized(t *testing.T) {
	f := newCollectionFixture()
	a, _ := f.push("a", true)
	b, _ := f.push("b", true)
	f.push("c", true)

	called := 0
	f.c.MostRecentlyMinimized(func(*Tile) { called++ })
	assert.Zero(t, called, "nothing minimized")

	b.Minimize()
	a.Minimize()

	var got *Tile
	f.c.MostRecentlyMinimized(func(t *Tile) { got = t })
	assert.Same(t, a, got)
}

func TestFilteredViews(t *testing.T) {
	f := newCollectionFixture()
	f.push("a", true)
	_, hidden := f.push("hidden", true)
	f.push("float", false)
	f.push("b", true)
	hidden.minimized = true

	assert.Equal(t, 2, f.c.NumTiled())
	assert.Equal(t, []string{"a", "b"}, titles(f.c.ForLayout()))

	var seen []string
	f.c.EachTiled(func(t *Tile, _ int) bool {
		seen = append(seen, t.Window.Title())
		return true
	})
	assert.Equal(t, []string{"a", "b"}, seen)

	var stopped []string
	completed := f.c.Each(func(t *Tile, idx int) bool {
		stopped = append(stopped, t.Window.Title())
		return idx < 1
	})
	assert.False(t, completed)
	assert.Equal(t, []string{"a", "hidden"}, stopped)
}

func TestMainSkipsFloating(t *testing.T) {
	f := newCollectionFixture()
	f.push("float", false)
	f.push("a", true)

	mainIdx := -1
	f.c.Main(func(_ *Tile, idx int) { mainIdx = idx })
	assert.Equal(t, 1, mainIdx)
}

func TestTiledSortOrder(t *testing.T) {
	f := newCollectionFixture()
	tiled, _ := f.push("tiled", true)
	floating, _ := f.push("floating", false)
	hidden, hw := f.push("hidden", false)
	hw.minimized = true

	mid := Point{}
	assert.Equal(t, 0.0, TiledSortOrder(f.c, tiled, mid))
	assert.Equal(t, 1.0, TiledSortOrder(f.c, floating, mid))
	assert.Equal(t, 2.0, TiledSortOrder(f.c, hidden, mid))
}
