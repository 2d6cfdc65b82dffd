package tiling

import (
	"log/slog"
	"sort"
)

// SortOrder ranks a tile for cycling; lower ranks come first. screenMidpoint
// is the centre of the current bounds.
type SortOrder func(c *TileCollection, t *Tile, screenMidpoint Point) float64

// IsVisible reports whether the tile is not minimized.
func IsVisible(t *Tile) bool { return !t.IsMinimized() }

// IsMinimized reports whether the tile is minimized.
func IsMinimized(t *Tile) bool { return t.IsMinimized() }

// IsTiled reports whether the tile is managed and visible.
func IsTiled(t *Tile) bool { return t.Managed() && IsVisible(t) }

// IsVisibleAndUntiled reports whether the tile is floating and visible.
func IsVisibleAndUntiled(t *Tile) bool { return !t.Managed() && IsVisible(t) }

// IsActive reports whether the tile has focus.
func IsActive(t *Tile) bool { return t.IsActive() }

// TiledSortOrder ranks tiled tiles first, then visible floating tiles, then
// minimized ones.
func TiledSortOrder(_ *TileCollection, t *Tile, _ Point) float64 {
	switch {
	case IsTiled(t):
		return 0
	case IsVisible(t):
		return 1
	default:
		return 2
	}
}

// IndexedTile pairs a tile with its position in the collection.
type IndexedTile struct {
	Tile  *Tile
	Index int
}

// TileCollection is the ordered set of tiles in one layout. Order is the
// tiling order: the first tiled tile is the main window.
type TileCollection struct {
	items     []*Tile
	bounds    *Bounds
	sortOrder SortOrder
	log       *slog.Logger
}

// NewTileCollection returns an empty collection using TiledSortOrder.
func NewTileCollection(bounds *Bounds) *TileCollection {
	return &TileCollection{
		bounds:    bounds,
		sortOrder: TiledSortOrder,
		log:       slog.Default().With("component", "tiling.TileCollection"),
	}
}

// Len returns the number of tiles, minimized or not.
func (c *TileCollection) Len() int { return len(c.items) }

// Items returns a copy of the tiles in collection order.
func (c *TileCollection) Items() []*Tile {
	return append([]*Tile(nil), c.items...)
}

// At returns the tile at idx.
func (c *TileCollection) At(idx int) *Tile { return c.items[idx] }

// NumTiled counts managed, visible tiles.
func (c *TileCollection) NumTiled() int {
	n := 0
	for _, t := range c.items {
		if IsTiled(t) {
			n++
		}
	}
	return n
}

// Each calls f with every tile in order until f returns false. It reports
// whether iteration ran to completion.
func (c *TileCollection) Each(f func(t *Tile, idx int) bool) bool {
	for i, t := range c.items {
		if !f(t, i) {
			return false
		}
	}
	return true
}

// EachTiled is Each restricted to tiled tiles.
func (c *TileCollection) EachTiled(f func(t *Tile, idx int) bool) bool {
	return c.Each(func(t *Tile, idx int) bool {
		if !IsTiled(t) {
			return true
		}
		return f(t, idx)
	})
}

// Filter returns the tiles matching pred, in order.
func (c *TileCollection) Filter(pred func(*Tile) bool) []*Tile {
	var out []*Tile
	for _, t := range c.items {
		if pred(t) {
			out = append(out, t)
		}
	}
	return out
}

func (c *TileCollection) screenMidpoint() Point {
	if c.bounds == nil {
		return Point{}
	}
	return c.bounds.Rect.Center()
}

// sortedWithIndexes orders the tiles by sort rank, ties broken by index.
func (c *TileCollection) sortedWithIndexes() []IndexedTile {
	mid := c.screenMidpoint()
	type ranked struct {
		IndexedTile
		rank float64
	}
	items := make([]ranked, len(c.items))
	for i, t := range c.items {
		items[i] = ranked{IndexedTile{Tile: t, Index: i}, c.sortOrder(c, t, mid)}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].rank != items[j].rank {
			return items[i].rank < items[j].rank
		}
		return items[i].Index < items[j].Index
	})
	out := make([]IndexedTile, len(items))
	for i, it := range items {
		out[i] = it.IndexedTile
	}
	return out
}

func wrapIndex(idx, length int) int {
	for idx < 0 {
		idx += length
	}
	for idx >= length {
		idx -= length
	}
	return idx
}

func (c *TileCollection) sortedView(pred func(*Tile) bool) []IndexedTile {
	var view []IndexedTile
	for _, it := range c.sortedWithIndexes() {
		if pred(it.Tile) {
			view = append(view, it)
		}
	}
	return view
}

// modify finds the active tile in the sorted, filtered view and calls f with
// it and the neighbour diff places away. It reports whether f was called.
func (c *TileCollection) modify(pred func(*Tile) bool, diff int, f func(active, neighbour IndexedTile)) bool {
	view := c.sortedView(pred)
	for pos, it := range view {
		if !IsActive(it.Tile) {
			continue
		}
		target := view[wrapIndex(pos+diff, len(view))]
		f(it, target)
		return true
	}
	return false
}

// SelectCycle moves focus diff places through the visible tiles in sort
// order. With no active visible tile it focuses the first visible tile and
// returns false.
func (c *TileCollection) SelectCycle(diff int) bool {
	cycled := c.modify(IsVisible, diff, func(_, neighbour IndexedTile) {
		neighbour.Tile.Activate()
	})
	if !cycled {
		for _, t := range c.items {
			if IsVisible(t) {
				t.Activate()
				break
			}
		}
	}
	return cycled
}

// Cycle swaps the active tile with its neighbour diff places away, among
// tiled tiles first and then among visible floating ones.
func (c *TileCollection) Cycle(diff int) bool {
	swap := func(active, neighbour IndexedTile) {
		c.SwapAt(active.Index, neighbour.Index)
	}
	if c.modify(IsTiled, diff, swap) {
		return true
	}
	return c.modify(IsVisibleAndUntiled, diff, swap)
}

// MostRecentlyMinimized calls f with the minimized tile that has the highest
// MinimizedOrder, if any.
func (c *TileCollection) MostRecentlyMinimized(f func(*Tile)) {
	minimized := c.Filter(IsMinimized)
	if len(minimized) == 0 {
		return
	}
	sort.SliceStable(minimized, func(i, j int) bool {
		return minimized[i].MinimizedOrder > minimized[j].MinimizedOrder
	})
	f(minimized[0])
}

// SwapAt exchanges the tiles at i and j and notifies the first.
func (c *TileCollection) SwapAt(i, j int) {
	if i == j {
		return
	}
	c.log.Debug("swapping tiles", "from", i, "to", j)
	c.items[i], c.items[j] = c.items[j], c.items[i]
	c.items[j].SwappedWith(c.items[i])
}

// Contains reports whether a tile for item is present.
func (c *TileCollection) Contains(item HasID) bool {
	return c.IndexOf(item) != -1
}

// IndexOf returns the position of the tile with item's id, or -1.
func (c *TileCollection) IndexOf(item HasID) int {
	id := item.ID()
	for i, t := range c.items {
		if t.ID() == id {
			return i
		}
	}
	return -1
}

// Push appends t unless a tile with the same id is present.
func (c *TileCollection) Push(t *Tile) {
	if c.Contains(t) {
		return
	}
	c.items = append(c.items, t)
}

// RemoveAt removes and returns the tile at idx.
func (c *TileCollection) RemoveAt(idx int) *Tile {
	t := c.items[idx]
	c.items = append(c.items[:idx], c.items[idx+1:]...)
	return t
}

// InsertAt inserts t so that it ends up at idx.
func (c *TileCollection) InsertAt(idx int, t *Tile) {
	c.items = append(c.items, nil)
	copy(c.items[idx+1:], c.items[idx:])
	c.items[idx] = t
}

// Active calls f with the first active tile.
func (c *TileCollection) Active(f func(t *Tile, idx int)) {
	for i, t := range c.items {
		if IsActive(t) {
			f(t, i)
			return
		}
	}
}

// ActiveTile returns the first active tile and its index, or nil and -1.
func (c *TileCollection) ActiveTile() (*Tile, int) {
	var (
		found *Tile
		idx   = -1
	)
	c.Active(func(t *Tile, i int) {
		found, idx = t, i
	})
	return found, idx
}

// ForLayout returns the tiles a layout pass positions, in order.
func (c *TileCollection) ForLayout() []*Tile {
	return c.Filter(IsTiled)
}

// Main calls f with the first tiled tile.
func (c *TileCollection) Main(f func(t *Tile, idx int)) {
	for i, t := range c.items {
		if IsTiled(t) {
			f(t, i)
			return
		}
	}
}
