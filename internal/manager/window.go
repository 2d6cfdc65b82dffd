package manager

import (
	"math"

	"github.com/1broseidon/shapetile/internal/platform"
	"github.com/1broseidon/shapetile/internal/tiling"
)

// hostWindow is the tiling.Window for one backend window. Methods are only
// called with the manager lock held.
type hostWindow struct {
	m    *Manager
	id   platform.WindowID
	info platform.Window
	// last is the geometry we last read or pushed, used when the backend
	// cannot be queried.
	last      platform.Rect
	minimized bool
	// stateMinimized is the minimized state as of the last
	// WindowStateChanged; layout passes never touch it.
	stateMinimized bool
}

var _ tiling.Window = (*hostWindow)(nil)

func newHostWindow(m *Manager, info platform.Window) *hostWindow {
	hw := &hostWindow{m: m, id: info.ID, info: info, last: info.Bounds}
	if minimized, err := m.backend.IsMinimized(info.ID); err == nil {
		hw.minimized = minimized
		hw.stateMinimized = minimized
	}
	return hw
}

func (w *hostWindow) ID() uint32 { return uint32(w.id) }

func (w *hostWindow) Title() string { return w.info.Title }

func (w *hostWindow) IsActive() bool {
	id, err := w.m.backend.ActiveWindow()
	return err == nil && id == w.id
}

func (w *hostWindow) Activate() error {
	return w.m.backend.Activate(w.id)
}

func (w *hostWindow) IsMinimized() bool {
	minimized, err := w.m.backend.IsMinimized(w.id)
	if err != nil {
		return w.minimized
	}
	w.minimized = minimized
	return minimized
}

func (w *hostWindow) Minimize() error {
	return w.m.backend.Minimize(w.id)
}

func (w *hostWindow) Unminimize() error {
	return w.m.backend.Unminimize(w.id)
}

func (w *hostWindow) Maximize() error {
	return w.m.backend.Maximize(w.id)
}

func (w *hostWindow) Unmaximize() error {
	return w.m.backend.Unmaximize(w.id)
}

func (w *hostWindow) MoveResize(r tiling.Rect) error {
	target := toPlatform(r)
	w.m.pushed[w.id] = w.m.now()
	if err := w.m.backend.MoveResize(w.id, target); err != nil {
		return err
	}
	w.last = target
	return nil
}

func (w *hostWindow) Rect() tiling.Rect {
	if r, err := w.m.backend.Geometry(w.id); err == nil {
		w.last = r
	}
	return fromPlatform(w.last)
}

// TilePreference falls back to auto_tile for windows that never stored one.
func (w *hostWindow) TilePreference() bool {
	tile, set := w.m.backend.TilePreference(w.id)
	if !set {
		return w.m.cfg.AutoTile
	}
	return tile
}

func (w *hostWindow) SetTilePreference(tile bool) error {
	return w.m.backend.SetTilePreference(w.id, tile)
}

func fromPlatform(r platform.Rect) tiling.Rect {
	return tiling.R(float64(r.X), float64(r.Y), float64(r.Width), float64(r.Height))
}

func toPlatform(r tiling.Rect) platform.Rect {
	return platform.Rect{
		X:      int(math.Round(r.Pos.X)),
		Y:      int(math.Round(r.Pos.Y)),
		Width:  int(math.Round(r.Size.X)),
		Height: int(math.Round(r.Size.Y)),
	}
}
