//go:build linux

package platform

import (
	"fmt"
	"time"

	"github.com/1broseidon/shapetile/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// LinuxBackend wraps an X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn    *x11.Connection
	watcher *x11.Watcher
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay opens a fresh X11 connection to display
// ($DISPLAY when empty).
func NewLinuxBackendFromDisplay(display string) (*LinuxBackend, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, err
	}
	return &LinuxBackend{conn: conn}, nil
}

// Disconnect stops watching and closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b == nil || b.conn == nil {
		return
	}
	if b.watcher != nil {
		b.watcher.Close()
	}
	b.conn.Close()
}

// EventLoop runs the X11 event loop until Quit.
func (b *LinuxBackend) EventLoop() {
	b.conn.EventLoop()
}

// Quit stops EventLoop.
func (b *LinuxBackend) Quit() {
	b.conn.Quit()
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// Subscribe routes X events to h. Geometry changes are reported once a
// window has been still for settle.
func (b *LinuxBackend) Subscribe(h EventHandler, settle time.Duration) error {
	w, err := b.conn.Watch(eventAdapter{h}, settle)
	if err != nil {
		return err
	}
	b.watcher = w
	return nil
}

type eventAdapter struct {
	h EventHandler
}

func (a eventAdapter) WindowCreated(win xproto.Window) { a.h.WindowCreated(WindowID(win)) }
func (a eventAdapter) WindowDestroyed(win xproto.Window) { a.h.WindowDestroyed(WindowID(win)) }
func (a eventAdapter) WindowConfigured(win xproto.Window, byUser bool) {
	a.h.WindowConfigured(WindowID(win), byUser)
}
func (a eventAdapter) WindowStateChanged(win xproto.Window) { a.h.WindowStateChanged(WindowID(win)) }
func (a eventAdapter) DesktopChanged(desktop int) { a.h.DesktopChanged(desktop) }
func (a eventAdapter) ScreenChanged() { a.h.ScreenChanged() }

// ActiveDisplay returns the active monitor with its usable work area.
func (b *LinuxBackend) ActiveDisplay() (Display, error) {
	mon, err := b.conn.ActiveMonitor()
	if err != nil {
		return Display{}, err
	}
	bounds := Rect{X: mon.X, Y: mon.Y, Width: mon.Width, Height: mon.Height}
	return Display{ID: mon.ID, Name: mon.Name, Bounds: bounds, Usable: bounds}, nil
}

// ActiveWindow returns the currently active/focused window ID.
func (b *LinuxBackend) ActiveWindow() (WindowID, error) {
	win, err := b.conn.ActiveWindow()
	if err != nil {
		return 0, err
	}
	return WindowID(win), nil
}

// CurrentDesktop returns the current virtual desktop.
func (b *LinuxBackend) CurrentDesktop() (int, error) {
	return b.conn.CurrentDesktop()
}

// Pointer returns the pointer position in root coordinates.
func (b *LinuxBackend) Pointer() (int, int, error) {
	x, y, _, err := b.conn.Pointer()
	return x, y, err
}

// ManageableWindows lists tileable windows on the current desktop, minimized
// ones included.
func (b *LinuxBackend) ManageableWindows() ([]Window, error) {
	clients, err := b.conn.ClientList()
	if err != nil {
		return nil, err
	}

	current, desktopErr := b.conn.CurrentDesktop()

	windows := make([]Window, 0, len(clients))
	for _, win := range clients {
		w, err := b.WindowInfo(WindowID(win))
		if err != nil {
			continue
		}
		if desktopErr == nil && w.Desktop != AllDesktops && w.Desktop != current {
			continue
		}
		windows = append(windows, w)
	}
	return windows, nil
}

// WindowInfo returns metadata for a manageable window, or ErrNotManageable.
func (b *LinuxBackend) WindowInfo(id WindowID) (Window, error) {
	win := xproto.Window(id)
	if !b.conn.IsNormalWindow(win) || b.conn.IsTransient(win) || b.conn.ShouldSkip(win) {
		return Window{}, fmt.Errorf("window %d: %w", id, ErrNotManageable)
	}

	bounds, err := b.Geometry(id)
	if err != nil {
		return Window{}, err
	}

	desktop, err := b.conn.WindowDesktop(win)
	if err != nil {
		desktop = AllDesktops
	}

	return Window{
		ID:      id,
		PID:     b.conn.WindowPID(win),
		AppID:   b.conn.WindowAppID(win),
		Title:   b.conn.WindowTitle(win),
		Bounds:  bounds,
		Desktop: desktop,
	}, nil
}

// Geometry returns the outer frame rectangle of a window.
func (b *LinuxBackend) Geometry(id WindowID) (Rect, error) {
	g, err := b.conn.WindowGeometry(xproto.Window(id))
	if err != nil {
		return Rect{}, err
	}
	return Rect{X: g.X, Y: g.Y, Width: g.Width, Height: g.Height}, nil
}

// Activate focuses and raises a window.
func (b *LinuxBackend) Activate(id WindowID) error {
	return b.conn.FocusWindow(xproto.Window(id))
}

// MoveResize moves and resizes a window to the specified bounds.
func (b *LinuxBackend) MoveResize(id WindowID, bounds Rect) error {
	return b.conn.MoveResizeWindow(xproto.Window(id), x11.Geometry{
		X:      bounds.X,
		Y:      bounds.Y,
		Width:  bounds.Width,
		Height: bounds.Height,
	})
}

// Minimize iconifies a window.
func (b *LinuxBackend) Minimize(id WindowID) error {
	return b.conn.Minimize(xproto.Window(id))
}

// Unminimize restores and activates an iconified window.
func (b *LinuxBackend) Unminimize(id WindowID) error {
	return b.conn.Unminimize(xproto.Window(id))
}

// IsMinimized reports whether a window is iconified.
func (b *LinuxBackend) IsMinimized(id WindowID) (bool, error) {
	return b.conn.IsMinimized(xproto.Window(id))
}

// Maximize asks the window manager to maximize a window.
func (b *LinuxBackend) Maximize(id WindowID) error {
	return b.conn.SetMaximized(xproto.Window(id), true)
}

// Unmaximize asks the window manager to restore a maximized window.
func (b *LinuxBackend) Unmaximize(id WindowID) error {
	return b.conn.SetMaximized(xproto.Window(id), false)
}

// TilePreference reads the persisted tile preference property.
func (b *LinuxBackend) TilePreference(id WindowID) (bool, bool) {
	return b.conn.TilePreference(xproto.Window(id))
}

// SetTilePreference writes the persisted tile preference property.
func (b *LinuxBackend) SetTilePreference(id WindowID, tile bool) error {
	return b.conn.SetTilePreference(xproto.Window(id), tile)
}
