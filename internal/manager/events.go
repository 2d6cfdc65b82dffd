package manager

import (
	"errors"
	"math"

	"github.com/1broseidon/shapetile/internal/platform"
	"github.com/1broseidon/shapetile/internal/tiling"
)

// WindowCreated adds a new manageable window after the focused one.
func (m *Manager) WindowCreated(id platform.WindowID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.windows[id]; ok {
		return
	}
	info, err := m.backend.WindowInfo(id)
	if err != nil {
		if !errors.Is(err, platform.ErrNotManageable) {
			m.log.Warn("failed to inspect new window", "window", id, "error", err)
		}
		return
	}
	ws := m.track(info, m.activeWindow())
	if ws.Desktop == m.current {
		ws.Layout.Layout()
	}
}

// WindowDestroyed drops the window's tile and relayouts its workspace.
func (m *Manager) WindowDestroyed(id platform.WindowID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	hw, ok := m.windows[id]
	if !ok {
		return
	}
	m.log.Debug("window removed", "window", id)
	m.forget(hw)
}

// WindowConfigured handles a settled geometry change. Echoes of our own
// moves are ignored. A user drag of a tiled window may swap it with the
// tile under the pointer, a user resize moves the neighbouring split, and
// anything else the window did to itself is undone.
func (m *Manager) WindowConfigured(id platform.WindowID, byUser bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	hw, ok := m.windows[id]
	if !ok {
		return
	}
	if !byUser && m.recentlyPushed(id) {
		m.log.Debug("ignoring echo of our own move", "window", id)
		return
	}
	ws := m.workspace(m.desktopOf[id])

	var tile *tiling.Tile
	ws.Layout.TileFor(hw, func(t *tiling.Tile, _ int) { tile = t })
	if tile == nil || tile.IsMinimized() {
		return
	}
	if !tile.Managed() {
		ws.Layout.OnWindowMoved(hw)
		return
	}
	if tile.Maximized() {
		return
	}

	got := hw.Rect()
	want := tile.Rect()
	dx := got.Size.X - want.Size.X
	dy := got.Size.Y - want.Size.Y
	moved := !samePixel(got.Pos.X, want.Pos.X) || !samePixel(got.Pos.Y, want.Pos.Y)
	resized := !samePixel(dx, 0) || !samePixel(dy, 0)

	switch {
	case !moved && !resized:
		return
	case !byUser:
		m.log.Debug("window changed itself, enforcing layout", "window", id)
		ws.Layout.OverrideExternalChange(hw, true)
	case resized:
		ws.Layout.OnSplitResizeStart(hw)
		for _, adj := range []tiling.SplitAdjustment{
			{Tile: tile, Axis: tiling.AxisX, Diff: dx, Pixels: true},
			{Tile: tile, Axis: tiling.AxisY, Diff: dy, Pixels: true},
		} {
			if samePixel(adj.Diff, 0) {
				continue
			}
			if err := ws.Layout.AdjustSplitForTile(adj); err != nil {
				m.log.Warn("failed to follow resize", "window", id, "axis", string(adj.Axis), "error", err)
			}
		}
		ws.Layout.OnWindowResized(hw)
	default:
		ws.Layout.OnWindowMoved(hw)
	}
}

// WindowStateChanged follows minimize and desktop changes made outside
// shapetile.
func (m *Manager) WindowStateChanged(id platform.WindowID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	hw, ok := m.windows[id]
	if !ok {
		return
	}
	info, err := m.backend.WindowInfo(id)
	if err != nil {
		// Fullscreen or otherwise unmanageable now; Reconcile adopts it again
		// once it is back to normal.
		m.log.Debug("window no longer manageable", "window", id, "reason", err)
		m.forget(hw)
		m.workspace(m.current).Layout.Layout()
		return
	}
	hw.info = info
	m.moveIfDesktopChanged(hw, info.Desktop)

	ws := m.workspace(m.desktopOf[id])
	minimized := hw.IsMinimized()
	if minimized && !hw.stateMinimized {
		ws.Layout.TileFor(hw, func(t *tiling.Tile, _ int) { t.MarkMinimized() })
	}
	hw.stateMinimized = minimized
	if ws.Desktop == m.current {
		ws.Layout.Layout()
	}
}

// DesktopChanged switches to desktop, adopting any windows there we have
// not seen yet.
func (m *Manager) DesktopChanged(desktop int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if desktop == m.current {
		return
	}
	m.log.Debug("desktop changed", "from", m.current, "to", desktop)
	m.current = desktop
	if err := m.adopt(); err != nil {
		m.log.Warn("failed to adopt windows", "desktop", desktop, "error", err)
	}
	m.workspace(desktop).Layout.Layout()
}

// ScreenChanged relayouts the current desktop against the new bounds.
func (m *Manager) ScreenChanged() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.log.Debug("screen changed")
	m.workspace(m.current).Layout.Layout()
}

func samePixel(a, b float64) bool {
	return math.Abs(a-b) < 1
}
