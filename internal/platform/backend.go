package platform

import "errors"

// ErrNotManageable is returned by WindowInfo for windows that must not be
// tiled: docks, dialogs, transients, fullscreen or taskbar-skipping windows.
var ErrNotManageable = errors.New("window is not manageable")

// AllDesktops is the desktop index of sticky windows.
const AllDesktops = -1

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Display describes a physical display and its usable work area.
type Display struct {
	ID     int
	Name   string
	Bounds Rect
	Usable Rect
}

// Window contains metadata and geometry for a top-level window.
type Window struct {
	ID      WindowID
	PID     int
	AppID   string
	Title   string
	Bounds  Rect
	Desktop int
}

// Backend abstracts the window-system operations the tiling manager needs.
type Backend interface {
	ActiveDisplay() (Display, error)
	ActiveWindow() (WindowID, error)
	CurrentDesktop() (int, error)
	Pointer() (x, y int, err error)

	// ManageableWindows lists tileable windows on the current desktop in
	// client list order.
	ManageableWindows() ([]Window, error)
	WindowInfo(id WindowID) (Window, error)
	Geometry(id WindowID) (Rect, error)

	Activate(id WindowID) error
	MoveResize(id WindowID, bounds Rect) error
	Minimize(id WindowID) error
	Unminimize(id WindowID) error
	IsMinimized(id WindowID) (bool, error)
	Maximize(id WindowID) error
	Unmaximize(id WindowID) error

	// TilePreference returns the persisted preference; set is false when the
	// window has none.
	TilePreference(id WindowID) (tile, set bool)
	SetTilePreference(id WindowID, tile bool) error
}

// EventHandler receives window-system events from a backend.
type EventHandler interface {
	WindowCreated(id WindowID)
	WindowDestroyed(id WindowID)
	WindowConfigured(id WindowID, byUser bool)
	WindowStateChanged(id WindowID)
	DesktopChanged(desktop int)
	ScreenChanged()
}
