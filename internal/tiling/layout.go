package tiling

import (
	"fmt"
	"log/slog"
	"sort"
)

// Layout names accepted by NewLayout.
const (
	LayoutFloating   = "floating"
	LayoutFullScreen = "fullscreen"
	LayoutVertical   = "vertical"
	LayoutHorizontal = "horizontal"
)

// SplitAdjustment asks a layout to move the split next to Tile along Axis.
// Diff is a ratio delta, or a pixel delta when Pixels is set.
type SplitAdjustment struct {
	Tile   *Tile
	Axis   Axis
	Diff   float64
	Pixels bool
}

// Layout is a tiling strategy over one workspace's windows. Operations a
// strategy does not support are no-ops, so callers can drive any layout
// without checking its type.
type Layout interface {
	Name() string
	Layout()
	Each(f func(t *Tile, idx int) bool) bool
	EachTiled(f func(t *Tile, idx int) bool) bool
	Contains(win HasID) bool
	TileFor(win HasID, f func(t *Tile, idx int)) bool
	ManagedTileFor(win HasID, f func(t *Tile, idx int)) bool
	Tile(win HasID)
	Untile(win HasID)
	SelectCycle(diff int) bool
	Add(win Window, active HasID) bool
	RestoreOriginalPositions()
	ActiveTile(f func(t *Tile, idx int))
	Cycle(diff int)
	MinimizeWindow()
	UnminimizeLastWindow()
	OnWindowKilled(win HasID) bool
	ToggleMaximize()
	OnWindowMoved(win HasID)
	OnWindowResized(win HasID)
	OverrideExternalChange(win HasID, delayed bool)
	OnSplitResizeStart(win HasID)
	MainWindowCount() (int, error)
	SetMainWindowCount(i int)
	AddMainWindowCount(i int)
	PartitionCount() (int, error)
	SetPartitionCount(i int)
	AddPartitionCount(i int)
	AdjustMainWindowArea(diff float64)
	AdjustCurrentWindowSize(diff float64)
	ScaleCurrentWindow(amount float64, axis Axis)
	AdjustSplitForTile(adj SplitAdjustment) error
	ActivateMainWindow()
	SwapActiveWithMain()
	Tiles() *TileCollection
	State() *LayoutState
}

var layoutConstructors = map[string]func(*LayoutState) Layout{
	LayoutFloating:   func(s *LayoutState) Layout { return NewFloatingLayout(s) },
	LayoutFullScreen: func(s *LayoutState) Layout { return NewFullScreenLayout(s) },
	LayoutVertical:   func(s *LayoutState) Layout { return NewVerticalTiledLayout(s) },
	LayoutHorizontal: func(s *LayoutState) Layout { return NewHorizontalTiledLayout(s) },
}

// LayoutNames returns the accepted layout names, sorted.
func LayoutNames() []string {
	names := make([]string, 0, len(layoutConstructors))
	for name := range layoutConstructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewLayout builds the named layout over state.
func NewLayout(name string, state *LayoutState) (Layout, error) {
	ctor, ok := layoutConstructors[name]
	if !ok {
		return nil, fmt.Errorf("unknown layout %q", name)
	}
	return ctor(state), nil
}

func windowID(win HasID) uint32 {
	if win == nil {
		return 0
	}
	return win.ID()
}

// baseLayout carries the behaviour every strategy shares. relayout is the
// strategy's own layout pass.
type baseLayout struct {
	name     string
	state    *LayoutState
	tiles    *TileCollection
	kind     TileKind
	relayout func()
	log      *slog.Logger
}

func newBaseLayout(name, component string, state *LayoutState, kind TileKind) baseLayout {
	return baseLayout{
		name:     name,
		state:    state,
		tiles:    NewTileCollection(state.Bounds),
		kind:     kind,
		relayout: func() {},
		log:      state.logger().With("component", "tiling."+component),
	}
}

func (b *baseLayout) Name() string { return b.name }
func (b *baseLayout) Tiles() *TileCollection { return b.tiles }
func (b *baseLayout) State() *LayoutState { return b.state }
func (b *baseLayout) Layout() { b.relayout() }
func (b *baseLayout) SelectCycle(diff int) bool { return b.tiles.SelectCycle(diff) }
func (b *baseLayout) Contains(win HasID) bool { return b.tiles.Contains(win) }
func (b *baseLayout) ActiveTile(f func(*Tile, int)) { b.tiles.Active(f) }

func (b *baseLayout) Each(f func(t *Tile, idx int) bool) bool {
	return b.tiles.Each(f)
}

func (b *baseLayout) EachTiled(f func(t *Tile, idx int) bool) bool {
	return b.tiles.EachTiled(f)
}

// TileFor calls f with the tile for win. It reports whether one was found.
func (b *baseLayout) TileFor(win HasID, f func(t *Tile, idx int)) bool {
	if win == nil {
		b.log.Warn("tile lookup for nil window")
		return false
	}
	idx := b.tiles.IndexOf(win)
	if idx == -1 {
		return false
	}
	f(b.tiles.At(idx), idx)
	return true
}

// ManagedTileFor is TileFor restricted to tiled tiles. It reports whether
// win has a tile at all, tiled or not.
func (b *baseLayout) ManagedTileFor(win HasID, f func(t *Tile, idx int)) bool {
	return b.TileFor(win, func(t *Tile, idx int) {
		if IsTiled(t) {
			f(t, idx)
		}
	})
}

func (b *baseLayout) Tile(win HasID) {
	found := b.TileFor(win, func(t *Tile, _ int) {
		t.Tile()
		b.relayout()
	})
	if !found {
		b.warnMissing(win)
	}
}

func (b *baseLayout) Untile(win HasID) {
	found := b.TileFor(win, func(t *Tile, _ int) {
		t.Release()
		b.relayout()
	})
	if !found {
		b.warnMissing(win)
	}
}

func (b *baseLayout) warnMissing(win HasID) {
	b.log.Warn("no tile for window", "window", windowID(win))
}

// Add creates a tile for win and places it after the active tile, or at
// the end when there is none. It returns false if win is already present.
func (b *baseLayout) Add(win Window, active HasID) bool {
	if b.Contains(win) {
		return false
	}
	tile := NewTile(win, b.state, b.kind)
	found := false
	if active != nil {
		found = b.TileFor(active, func(_ *Tile, idx int) {
			b.tiles.InsertAt(idx+1, tile)
			b.log.Debug("inserted tile", "tile", tile.String(), "index", idx+1)
		})
	}
	if !found {
		b.tiles.Push(tile)
	}
	return true
}

// RestoreOriginalPositions moves tiled windows back to where they were
// first seen. Tiles stay managed.
func (b *baseLayout) RestoreOriginalPositions() {
	b.EachTiled(func(t *Tile, _ int) bool {
		t.RestoreOriginalPosition()
		return true
	})
}

func (b *baseLayout) Cycle(diff int) {
	b.tiles.Cycle(diff)
	b.relayout()
}

func (b *baseLayout) MinimizeWindow() {
	b.ActiveTile(func(t *Tile, _ int) {
		t.Minimize()
	})
}

// UnminimizeLastWindow restores and focuses the most recently minimized
// tile.
func (b *baseLayout) UnminimizeLastWindow() {
	b.tiles.MostRecentlyMinimized(func(t *Tile) {
		t.Unminimize()
		t.Activate()
	})
}

func (b *baseLayout) OnWindowKilled(win HasID) bool {
	found := b.TileFor(win, func(_ *Tile, idx int) {
		removed := b.tiles.RemoveAt(idx)
		removed.cancelEnforce()
		b.relayout()
	})
	if !found {
		b.warnMissing(win)
	}
	return found
}

// ToggleMaximize toggles the active tile and unmaximizes every other one.
func (b *baseLayout) ToggleMaximize() {
	active, _ := b.tiles.ActiveTile()
	if active == nil {
		b.log.Debug("no active tile to maximize")
		return
	}
	b.Each(func(t *Tile, _ int) bool {
		if t == active {
			b.log.Debug("toggling maximize", "tile", t.String())
			t.ToggleMaximize()
		} else {
			t.Unmaximize()
		}
		return true
	})
}

func (b *baseLayout) OnWindowMoved(win HasID) {
	b.OnWindowResized(win)
}

func (b *baseLayout) OnWindowResized(win HasID) {
	found := b.TileFor(win, func(t *Tile, _ int) {
		t.UpdateDesiredRect()
	})
	if !found {
		b.warnMissing(win)
	}
}

func (b *baseLayout) OverrideExternalChange(HasID, bool) {}
func (b *baseLayout) OnSplitResizeStart(HasID) {}

func (b *baseLayout) MainWindowCount() (int, error) {
	return 0, fmt.Errorf("%s: main window count: %w", b.name, ErrUnsupported)
}

func (b *baseLayout) PartitionCount() (int, error) {
	return 0, fmt.Errorf("%s: partition count: %w", b.name, ErrUnsupported)
}

func (b *baseLayout) SetMainWindowCount(int) {}
func (b *baseLayout) AddMainWindowCount(int) {}
func (b *baseLayout) SetPartitionCount(int) {}
func (b *baseLayout) AddPartitionCount(int) {}
func (b *baseLayout) AdjustMainWindowArea(float64) {}
func (b *baseLayout) AdjustCurrentWindowSize(float64) {}
func (b *baseLayout) AdjustSplitForTile(SplitAdjustment) error { return nil }
func (b *baseLayout) ActivateMainWindow() {}
func (b *baseLayout) SwapActiveWithMain() {}

// ScaleCurrentWindow grows or shrinks the active window about its centre,
// keeping it on screen.
func (b *baseLayout) ScaleCurrentWindow(amount float64, axis Axis) {
	bounds := b.state.Bounds.Rect
	b.ActiveTile(func(t *Tile, _ int) {
		t.UpdateDesiredRect()
		t.ScaleBy(amount, axis)
		t.CenterWindow()
		t.EnsureWithin(bounds)
		t.Layout()
	})
}

// FloatingLayout never positions windows; it only tracks them for cycling,
// in clockwise screen order.
type FloatingLayout struct {
	baseLayout
}

// NewFloatingLayout returns a floating layout over state.
func NewFloatingLayout(state *LayoutState) *FloatingLayout {
	l := &FloatingLayout{baseLayout: newBaseLayout(LayoutFloating, "FloatingLayout", state, TileKindFloating)}
	l.tiles = NewFloatingTileCollection(state.Bounds)
	return l
}

func (l *FloatingLayout) String() string { return "FloatingLayout" }

// RestoreOriginalPositions is a no-op: floating windows are never moved.
func (l *FloatingLayout) RestoreOriginalPositions() {}

// FullScreenLayout gives every tiled window the whole bounds.
type FullScreenLayout struct {
	baseLayout
}

// NewFullScreenLayout returns a full-screen layout over state.
func NewFullScreenLayout(state *LayoutState) *FullScreenLayout {
	l := &FullScreenLayout{baseLayout: newBaseLayout(LayoutFullScreen, "FullScreenLayout", state, TileKindTiled)}
	l.relayout = l.layout
	return l
}

func (l *FullScreenLayout) String() string { return "FullScreenLayout" }

func (l *FullScreenLayout) layout() {
	l.state.Bounds.Update()
	full := l.state.Bounds.Rect
	l.EachTiled(func(t *Tile, _ int) bool {
		t.SetRect(full)
		return true
	})
}

// TiledLayout splits tiled windows into partitions along a main axis, then
// stacks each partition's windows evenly along the other axis.
type TiledLayout struct {
	baseLayout
	mainAxis  Axis
	mainSplit *MultiSplit
	// sideSplits[p][i] sits between windows i and i+1 of partition p.
	sideSplits [][]*BaseSplit
}

// NewVerticalTiledLayout returns a tiled layout whose partitions are
// columns.
func NewVerticalTiledLayout(state *LayoutState) *TiledLayout {
	return newTiledLayout(LayoutVertical, "VerticalTiledLayout", AxisX, state)
}

// NewHorizontalTiledLayout returns a tiled layout whose partitions are rows.
func NewHorizontalTiledLayout(state *LayoutState) *TiledLayout {
	return newTiledLayout(LayoutHorizontal, "HorizontalTiledLayout", AxisY, state)
}

func newTiledLayout(name, component string, axis Axis, state *LayoutState) *TiledLayout {
	l := &TiledLayout{
		baseLayout: newBaseLayout(name, component, state, TileKindTiled),
		mainAxis:   axis,
		mainSplit:  state.Splits.For(axis),
	}
	l.relayout = l.layout
	return l
}

func (l *TiledLayout) String() string {
	return fmt.Sprintf("TiledLayout(%s)", l.mainAxis)
}

// MainAxis returns the axis partitions are laid out along.
func (l *TiledLayout) MainAxis() Axis { return l.mainAxis }

// MainSplit returns the main-axis split.
func (l *TiledLayout) MainSplit() *MultiSplit { return l.mainSplit }

func (l *TiledLayout) layout() {
	l.state.Bounds.Update()
	padding := l.state.Padding
	tiles := l.tiles.ForLayout()
	l.log.Debug("laying out", "windows", len(tiles))

	partitions, err := l.mainSplit.Split(l.state.Bounds.Rect, tiles, padding)
	if err != nil {
		l.log.Error("layout failed", "error", err)
		return
	}
	for i, p := range partitions {
		l.layoutSide(i, p.Rect, p.Tiles, padding)
	}
}

func (l *TiledLayout) layoutSide(partition int, rect Rect, tiles []*Tile, padding float64) {
	axis := l.mainAxis.Other()
	rects, err := SplitRect(rect, axis, padding, len(tiles), defaultRatio)
	if err != nil {
		l.log.Error("layout failed", "error", err)
		return
	}
	splits := l.sideSplitsFor(partition, len(tiles)-1, axis)
	for i, tile := range tiles {
		tile.TopSplit, tile.BottomSplit = nil, nil
		if i > 0 {
			tile.TopSplit = splits[i-1]
		}
		if i < len(splits) {
			tile.BottomSplit = splits[i]
		}
		tile.SetRect(rects[i])
	}
	for _, s := range splits {
		s.SaveLastRect(rect)
	}
}

// sideSplitsFor returns n splits for partition, reusing existing ones so
// their ratios survive relayouts.
func (l *TiledLayout) sideSplitsFor(partition, n int, axis Axis) []*BaseSplit {
	for len(l.sideSplits) <= partition {
		l.sideSplits = append(l.sideSplits, nil)
	}
	splits := l.sideSplits[partition]
	for len(splits) < n {
		splits = append(splits, NewBaseSplit(axis))
	}
	l.sideSplits[partition] = splits
	return splits[:max(n, 0)]
}

func (l *TiledLayout) MainWindowCount() (int, error) {
	return l.mainSplit.PrimaryWindows, nil
}

// SetMainWindowCount stores i as is; zero and negative counts still keep
// one window in the first partition.
func (l *TiledLayout) SetMainWindowCount(i int) {
	l.mainSplit.PrimaryWindows = i
	l.relayout()
}

func (l *TiledLayout) AddMainWindowCount(i int) {
	l.SetMainWindowCount(l.mainSplit.PrimaryWindows + i)
}

func (l *TiledLayout) PartitionCount() (int, error) {
	return l.mainSplit.MaxPartitions, nil
}

func (l *TiledLayout) SetPartitionCount(i int) {
	l.mainSplit.MaxPartitions = max(1, i)
	l.relayout()
}

func (l *TiledLayout) AddPartitionCount(i int) {
	l.SetPartitionCount(l.mainSplit.MaxPartitions + i)
}

func (l *TiledLayout) AdjustMainWindowArea(diff float64) {
	l.mainSplit.AdjustRatio(diff)
	l.relayout()
}

func (l *TiledLayout) AdjustCurrentWindowSize(diff float64) {
	l.ActiveTile(func(t *Tile, _ int) {
		if err := l.AdjustSplitForTile(SplitAdjustment{Tile: t, Axis: l.mainAxis.Other(), Diff: diff}); err != nil {
			l.log.Warn("failed to adjust window size", "error", err)
		}
		l.relayout()
	})
}

// AdjustSplitForTile moves the main split when adj is along the main axis,
// inverted for tiles outside the primary partition. Otherwise it moves the
// tile's own secondary split: the one below it, or failing that the one
// above it, inverted.
func (l *TiledLayout) AdjustSplitForTile(adj SplitAdjustment) error {
	adjust := func(s *BaseSplit, inverted bool) error {
		diff := adj.Diff
		if inverted {
			diff = -diff
		}
		if adj.Pixels {
			return s.AdjustRatioPx(diff)
		}
		s.AdjustRatio(diff)
		return nil
	}
	if adj.Axis == l.mainAxis {
		return adjust(&l.mainSplit.BaseSplit, !l.mainSplit.InPrimaryPartition(l.tiles.IndexOf(adj.Tile)))
	}
	switch {
	case adj.Tile.BottomSplit != nil:
		return adjust(adj.Tile.BottomSplit, false)
	case adj.Tile.TopSplit != nil:
		return adjust(adj.Tile.TopSplit, true)
	}
	return nil
}

func (l *TiledLayout) ActivateMainWindow() {
	l.tiles.Main(func(t *Tile, _ int) {
		t.Activate()
	})
}

func (l *TiledLayout) SwapActiveWithMain() {
	l.tiles.Active(func(_ *Tile, idx int) {
		l.tiles.Main(func(_ *Tile, mainIdx int) {
			l.tiles.SwapAt(idx, mainIdx)
			l.relayout()
		})
	})
}

// OnWindowMoved swaps a dragged tiled window with the tile under the
// pointer. A window that did not land on another tile keeps its new
// position as its desired rect.
func (l *TiledLayout) OnWindowMoved(win HasID) {
	found := l.TileFor(win, func(t *Tile, idx int) {
		moved := false
		if t.Managed() {
			moved = l.swapMovedTileIfNecessary(t, idx)
		}
		if !moved {
			t.UpdateDesiredRect()
		}
		l.relayout()
	})
	if !found {
		l.warnMissing(win)
	}
}

func (l *TiledLayout) swapMovedTileIfNecessary(t *Tile, idx int) bool {
	if !IsTiled(t) {
		return false
	}
	if l.state.Pointer == nil {
		return false
	}
	pos, err := l.state.Pointer.PointerPosition()
	if err != nil {
		l.log.Warn("failed to read pointer", "error", err)
		return false
	}
	moved := false
	l.EachTiled(func(candidate *Tile, candidateIdx int) bool {
		if candidateIdx == idx {
			return true
		}
		target := Shrink(candidate.Rect(), l.state.DragBorder)
		if PointIsWithin(pos, target) {
			l.log.Debug("swapping dragged tile", "from", idx, "to", candidateIdx)
			l.tiles.SwapAt(idx, candidateIdx)
			moved = true
			return false
		}
		return true
	})
	return moved
}

func (l *TiledLayout) OnWindowResized(win HasID) {
	found := l.ManagedTileFor(win, func(t *Tile, _ int) {
		t.UpdateDesiredRect()
		l.relayout()
	})
	if !found {
		l.warnMissing(win)
	}
}

// OverrideExternalChange puts a window that resized itself back in its
// layout rect.
func (l *TiledLayout) OverrideExternalChange(win HasID, delayed bool) {
	found := l.TileFor(win, func(t *Tile, _ int) {
		t.EnforceLayout(delayed)
	})
	if !found {
		l.log.Warn("external change for unknown window", "window", windowID(win))
	}
}

var (
	_ Layout = (*FloatingLayout)(nil)
	_ Layout = (*FullScreenLayout)(nil)
	_ Layout = (*TiledLayout)(nil)
)
