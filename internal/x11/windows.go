package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

const (
	stateMaxHorz    = "_NET_WM_STATE_MAXIMIZED_HORZ"
	stateMaxVert    = "_NET_WM_STATE_MAXIMIZED_VERT"
	stateHidden     = "_NET_WM_STATE_HIDDEN"
	stateFullscreen = "_NET_WM_STATE_FULLSCREEN"
	stateSkipTask   = "_NET_WM_STATE_SKIP_TASKBAR"

	// TilePreferenceAtom stores whether a window asked to be tiled, so the
	// choice survives a daemon restart.
	TilePreferenceAtom = "_SHAPETILE_TILE"
)

// _NET_WM_STATE actions and the ICCCM iconic state.
const (
	stateRemove = 0
	stateAdd    = 1
	iconicState = 3
)

// Geometry is a window's outer frame rectangle in root coordinates.
type Geometry struct {
	X      int
	Y      int
	Width  int
	Height int
}

// FrameExtents are the decoration sizes a window manager adds around a client.
type FrameExtents struct {
	Left, Right, Top, Bottom int
}

// GetFrameExtents returns the window decoration sizes, or zeros when the
// window manager does not publish them.
func (c *Connection) GetFrameExtents(win xproto.Window) FrameExtents {
	extents, err := ewmh.FrameExtentsGet(c.XUtil, win)
	if err != nil {
		return FrameExtents{}
	}
	return FrameExtents{
		Left:   int(extents.Left),
		Right:  int(extents.Right),
		Top:    int(extents.Top),
		Bottom: int(extents.Bottom),
	}
}

// WindowGeometry returns the outer frame geometry of a client window.
func (c *Connection) WindowGeometry(win xproto.Window) (Geometry, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(win)).Reply()
	if err != nil {
		return Geometry{}, fmt.Errorf("failed to get geometry of window %d: %w", win, err)
	}

	translate, err := xproto.TranslateCoordinates(c.XUtil.Conn(), win, c.Root, 0, 0).Reply()
	if err != nil {
		return Geometry{}, fmt.Errorf("failed to translate coordinates of window %d: %w", win, err)
	}

	ext := c.GetFrameExtents(win)
	return Geometry{
		X:      int(translate.DstX) - ext.Left,
		Y:      int(translate.DstY) - ext.Top,
		Width:  int(geom.Width) + ext.Left + ext.Right,
		Height: int(geom.Height) + ext.Top + ext.Bottom,
	}, nil
}

// MoveResizeWindow moves and resizes a window so its outer frame covers g.
func (c *Connection) MoveResizeWindow(win xproto.Window, g Geometry) error {
	// Window managers ignore geometry requests for maximized windows.
	_ = c.unmaximizeWindow(win)

	ext := c.GetFrameExtents(win)
	width := max(1, g.Width-ext.Left-ext.Right)
	height := max(1, g.Height-ext.Top-ext.Bottom)

	if err := ewmh.MoveresizeWindow(c.XUtil, win, g.X, g.Y, width, height); err != nil {
		// Fallback to direct window manipulation
		xwindow.New(c.XUtil, win).MoveResize(g.X+ext.Left, g.Y+ext.Top, width, height)
	}
	return nil
}

func (c *Connection) wmStates(win xproto.Window) map[string]bool {
	states, err := ewmh.WmStateGet(c.XUtil, win)
	if err != nil {
		return nil
	}
	out := make(map[string]bool, len(states))
	for _, s := range states {
		out[s] = true
	}
	return out
}

// unmaximizeWindow removes maximized state from a window
func (c *Connection) unmaximizeWindow(win xproto.Window) error {
	states := c.wmStates(win)
	if !states[stateMaxHorz] && !states[stateMaxVert] {
		return nil
	}
	return c.SetMaximized(win, false)
}

// SetMaximized adds or removes both maximized states in one request.
func (c *Connection) SetMaximized(win xproto.Window, maximized bool) error {
	action := uint32(stateRemove)
	if maximized {
		action = stateAdd
	}

	horz, err := xprop.Atm(c.XUtil, stateMaxHorz)
	if err != nil {
		return err
	}
	vert, err := xprop.Atm(c.XUtil, stateMaxVert)
	if err != nil {
		return err
	}

	if err := c.sendRootMessage(win, "_NET_WM_STATE", action, uint32(horz), uint32(vert), sourcePager); err != nil {
		return fmt.Errorf("failed to change maximized state of window %d: %w", win, err)
	}
	return nil
}

// Minimize iconifies a window via WM_CHANGE_STATE.
func (c *Connection) Minimize(win xproto.Window) error {
	if err := c.sendRootMessage(win, "WM_CHANGE_STATE", iconicState); err != nil {
		return fmt.Errorf("failed to minimize window %d: %w", win, err)
	}
	return nil
}

// Unminimize maps an iconified window and activates it.
func (c *Connection) Unminimize(win xproto.Window) error {
	if err := xproto.MapWindowChecked(c.XUtil.Conn(), win).Check(); err != nil {
		return fmt.Errorf("failed to map window %d: %w", win, err)
	}
	return c.FocusWindow(win)
}

// IsMinimized reports whether a window is iconified or hidden.
func (c *Connection) IsMinimized(win xproto.Window) (bool, error) {
	if c.wmStates(win)[stateHidden] {
		return true, nil
	}
	state, err := icccm.WmStateGet(c.XUtil, win)
	if err != nil {
		return false, fmt.Errorf("failed to get WM_STATE of window %d: %w", win, err)
	}
	return state.State == iconicState, nil
}

// IsNormalWindow checks if a window is a normal application window
func (c *Connection) IsNormalWindow(win xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, win)
	if err != nil {
		// If we can't determine type, assume it's normal
		return true
	}

	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_NORMAL":
			return true
		case "_NET_WM_WINDOW_TYPE_DESKTOP",
			"_NET_WM_WINDOW_TYPE_DOCK",
			"_NET_WM_WINDOW_TYPE_SPLASH",
			"_NET_WM_WINDOW_TYPE_DIALOG",
			"_NET_WM_WINDOW_TYPE_NOTIFICATION":
			return false
		}
	}

	return len(types) == 0
}

// ShouldSkip reports whether a window's state excludes it from tiling:
// fullscreen windows and windows hidden from the taskbar.
func (c *Connection) ShouldSkip(win xproto.Window) bool {
	states := c.wmStates(win)
	return states[stateFullscreen] || states[stateSkipTask]
}

// IsTransient reports whether a window is a transient for another window.
func (c *Connection) IsTransient(win xproto.Window) bool {
	parent, err := icccm.WmTransientForGet(c.XUtil, win)
	return err == nil && parent != 0
}

// WindowTitle returns _NET_WM_NAME, falling back to WM_NAME.
func (c *Connection) WindowTitle(win xproto.Window) string {
	if title, err := ewmh.WmNameGet(c.XUtil, win); err == nil {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}
	if title, err := icccm.WmNameGet(c.XUtil, win); err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}

// WindowAppID returns the WM_CLASS class name.
func (c *Connection) WindowAppID(win xproto.Window) string {
	wmClass, err := icccm.WmClassGet(c.XUtil, win)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(wmClass.Class)
}

// WindowPID returns _NET_WM_PID, or 0 when unset.
func (c *Connection) WindowPID(win xproto.Window) int {
	pid, err := ewmh.WmPidGet(c.XUtil, win)
	if err != nil {
		return 0
	}
	return int(pid)
}

// TilePreference reads the persisted tile preference. set is false when the
// window has never recorded one.
func (c *Connection) TilePreference(win xproto.Window) (tile, set bool) {
	val, err := xprop.PropValNum(xprop.GetProperty(c.XUtil, win, TilePreferenceAtom))
	if err != nil {
		return false, false
	}
	return val != 0, true
}

// SetTilePreference persists the tile preference on the window.
func (c *Connection) SetTilePreference(win xproto.Window, tile bool) error {
	var val uint
	if tile {
		val = 1
	}
	if err := xprop.ChangeProp32(c.XUtil, win, TilePreferenceAtom, "CARDINAL", val); err != nil {
		return fmt.Errorf("failed to set %s on window %d: %w", TilePreferenceAtom, win, err)
	}
	return nil
}
