package tiling

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

// TileKind decides whether a tile may ever be managed by a tiling layout.
type TileKind int

const (
	// TileKindTiled tiles can move between floating and tiled.
	TileKindTiled TileKind = iota
	// TileKindFloating tiles belong to non-tiling layouts and never become managed.
	TileKindFloating
)

// minimizeCounter orders minimize events across every tile in the process.
var minimizeCounter atomic.Int64

// Tile is the layout-side handle for one window.
type Tile struct {
	Window Window

	// MinimizedOrder increases each time the tile is minimized; the highest
	// value is the most recently minimized tile.
	MinimizedOrder int64

	// TopSplit and BottomSplit are the secondary-axis splits on either side
	// of the tile within its partition. Either may be nil.
	TopSplit    *BaseSplit
	BottomSplit *BaseSplit

	kind      TileKind
	managed   bool
	maximized bool
	rect      Rect
	desired   Rect
	original  Rect

	scheduler    Scheduler
	enforceDelay time.Duration
	pending      Stopper

	log *slog.Logger
}

// NewTile wraps win. A tiled-kind tile whose window prefers tiling starts
// managed.
func NewTile(win Window, state *LayoutState, kind TileKind) *Tile {
	current := win.Rect()
	t := &Tile{
		Window:       win,
		kind:         kind,
		desired:      current,
		original:     current,
		scheduler:    state.Scheduler,
		enforceDelay: state.EnforceDelay,
		log:          state.logger().With("component", "tiling.Tile", "window", win.ID()),
	}
	if t.scheduler == nil {
		t.scheduler = DefaultScheduler
	}
	if kind == TileKindTiled && win.TilePreference() {
		t.managed = true
	}
	return t
}

func (t *Tile) String() string {
	return fmt.Sprintf("<Tile %d %q>", t.Window.ID(), t.Window.Title())
}

// ID returns the window id.
func (t *Tile) ID() uint32 { return t.Window.ID() }

// Kind returns the tile kind.
func (t *Tile) Kind() TileKind { return t.kind }

// Managed reports whether the tile takes part in tiling.
func (t *Tile) Managed() bool { return t.managed }

// Maximized reports whether the tile is currently maximized.
func (t *Tile) Maximized() bool { return t.maximized }

// IsActive reports whether the window has focus.
func (t *Tile) IsActive() bool { return t.Window.IsActive() }

// IsMinimized reports whether the window is minimized.
func (t *Tile) IsMinimized() bool { return t.Window.IsMinimized() }

// Rect returns the rect assigned by the last layout pass.
func (t *Tile) Rect() Rect { return t.rect }

// DesiredRect returns the geometry the window has when it is not tiled.
func (t *Tile) DesiredRect() Rect { return t.desired }

// OriginalRect returns the geometry the window had when it was first seen.
func (t *Tile) OriginalRect() Rect { return t.original }

// Tile marks the tile as managed and persists the window's preference.
func (t *Tile) Tile() {
	if t.kind != TileKindTiled {
		t.log.Debug("ignoring tile request for floating tile")
		return
	}
	if t.managed {
		return
	}
	t.UpdateDesiredRect()
	t.managed = true
	t.setPreference(true)
}

// Release returns the tile to floating and moves the window back to its
// desired geometry.
func (t *Tile) Release() {
	t.cancelEnforce()
	if !t.managed {
		return
	}
	t.managed = false
	t.setPreference(false)
	if t.maximized {
		t.Unmaximize()
	}
	t.moveResize(t.desired)
}

func (t *Tile) setPreference(tile bool) {
	if t.Window.TilePreference() == tile {
		return
	}
	if err := t.Window.SetTilePreference(tile); err != nil {
		t.log.Warn("failed to store tile preference", "error", err)
	}
}

// SetRect stores the layout rect and pushes it to the window unless the
// tile is maximized.
func (t *Tile) SetRect(r Rect) {
	t.rect = r
	if t.maximized {
		return
	}
	t.moveResize(r)
}

// UpdateDesiredRect re-reads the window's live geometry.
func (t *Tile) UpdateDesiredRect() {
	t.desired = t.Window.Rect()
}

// SwappedWith is called after the tile exchanged collection slots with
// other. Floating windows trade places on screen; managed tiles are
// repositioned by the next layout pass.
func (t *Tile) SwappedWith(other *Tile) {
	t.desired, other.desired = other.desired, t.desired
	for _, tile := range []*Tile{t, other} {
		if !tile.managed {
			tile.moveResize(tile.desired)
		}
	}
}

// ToggleMaximize flips the maximized state.
func (t *Tile) ToggleMaximize() {
	if t.maximized {
		t.Unmaximize()
		return
	}
	t.maximized = true
	if err := t.Window.Maximize(); err != nil {
		t.log.Warn("failed to maximize", "error", err)
	}
}

// Unmaximize restores the tile's layout geometry if it was maximized.
func (t *Tile) Unmaximize() {
	if !t.maximized {
		return
	}
	t.maximized = false
	if err := t.Window.Unmaximize(); err != nil {
		t.log.Warn("failed to unmaximize", "error", err)
	}
	if t.managed {
		t.moveResize(t.rect)
	}
}

// Minimize minimizes the window and records the order.
func (t *Tile) Minimize() {
	t.MarkMinimized()
	if err := t.Window.Minimize(); err != nil {
		t.log.Warn("failed to minimize", "error", err)
	}
}

// MarkMinimized records that the window was minimized, for windows the host
// minimized on its own.
func (t *Tile) MarkMinimized() {
	t.MinimizedOrder = minimizeCounter.Add(1)
}

// Unminimize restores the window.
func (t *Tile) Unminimize() {
	if err := t.Window.Unminimize(); err != nil {
		t.log.Warn("failed to unminimize", "error", err)
	}
}

// Activate focuses the window.
func (t *Tile) Activate() {
	if err := t.Window.Activate(); err != nil {
		t.log.Warn("failed to activate", "error", err)
	}
}

// RestoreOriginalPosition moves the window back to where it was first seen.
func (t *Tile) RestoreOriginalPosition() {
	t.moveResize(t.original)
}

// ScaleBy grows the desired rect by amount (0.1 is 10%) along axis, or
// along both axes when axis is empty.
func (t *Tile) ScaleBy(amount float64, axis Axis) {
	size := t.desired.Size
	if axis == "" || axis == AxisX {
		size.X = round(size.X * (1 + amount))
	}
	if axis == "" || axis == AxisY {
		size.Y = round(size.Y * (1 + amount))
	}
	t.desired.Size = size
	t.desired = EnsureRectExists(t.desired)
}

// CenterWindow moves the desired rect so its centre matches the window's
// current centre.
func (t *Tile) CenterWindow() {
	shift := t.Window.Rect().Center().Sub(t.desired.Center())
	t.desired.Pos = t.desired.Pos.Add(shift)
}

// EnsureWithin keeps the desired rect inside bounds.
func (t *Tile) EnsureWithin(bounds Rect) {
	t.desired = t.desired.Add(MoveRectWithin(t.desired, bounds))
}

// Layout pushes the tile's current geometry to the window: the layout rect
// when managed, the desired rect otherwise.
func (t *Tile) Layout() {
	if t.managed {
		t.SetRect(t.rect)
		return
	}
	t.moveResize(t.desired)
}

// EnforceLayout puts a managed window back in its layout rect after it
// changed size on its own. When delayed, the move happens once after the
// configured delay, replacing any pending one.
func (t *Tile) EnforceLayout(delayed bool) {
	if !t.managed || t.maximized {
		return
	}
	if !delayed {
		t.cancelEnforce()
		t.moveResize(t.rect)
		return
	}
	t.cancelEnforce()
	t.pending = t.scheduler.AfterFunc(t.enforceDelay, func() {
		t.pending = nil
		if t.managed && !t.maximized {
			t.moveResize(t.rect)
		}
	})
}

// Detach cancels pending enforcement for a tile its layout is dropping
// without releasing the window.
func (t *Tile) Detach() { t.cancelEnforce() }

func (t *Tile) cancelEnforce() {
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
}

func (t *Tile) moveResize(r Rect) {
	if err := t.Window.MoveResize(EnsureRectExists(r)); err != nil {
		t.log.Warn("failed to move window", "rect", r.String(), "error", err)
	}
}
