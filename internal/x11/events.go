package x11

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// DefaultSettleDelay is how long a window must stop moving before its
// geometry change is reported.
const DefaultSettleDelay = 150 * time.Millisecond

// Handler receives window events. Callbacks run on the event loop goroutine,
// except WindowConfigured which runs once the window has settled.
type Handler interface {
	WindowCreated(win xproto.Window)
	WindowDestroyed(win xproto.Window)
	// WindowConfigured reports a finished move or resize. byUser is set when
	// a pointer button was held at any point during the change.
	WindowConfigured(win xproto.Window, byUser bool)
	WindowStateChanged(win xproto.Window)
	DesktopChanged(desktop int)
	ScreenChanged()
}

type pendingConfigure struct {
	timer  *time.Timer
	byUser bool
}

// Watcher translates raw X events on the root window and every managed
// client into Handler calls. Clients are discovered from _NET_CLIENT_LIST so
// reparenting window managers are handled.
type Watcher struct {
	conn    *Connection
	handler Handler
	settle  time.Duration
	log     *slog.Logger

	mu      sync.Mutex
	clients map[xproto.Window]struct{}
	pending map[xproto.Window]*pendingConfigure
}

// Watch subscribes to root and client events. Clients that exist already are
// subscribed to without a WindowCreated call.
func (c *Connection) Watch(h Handler, settle time.Duration) (*Watcher, error) {
	if settle <= 0 {
		settle = DefaultSettleDelay
	}
	w := &Watcher{
		conn:    c,
		handler: h,
		settle:  settle,
		log:     slog.Default().With("component", "x11.Watcher"),
		clients: make(map[xproto.Window]struct{}),
		pending: make(map[xproto.Window]*pendingConfigure),
	}

	root := xwindow.New(c.XUtil, c.Root)
	if err := root.Listen(xproto.EventMaskPropertyChange, xproto.EventMaskStructureNotify); err != nil {
		return nil, fmt.Errorf("failed to listen on root window: %w", err)
	}

	xevent.PropertyNotifyFun(w.onRootProperty).Connect(c.XUtil, c.Root)
	xevent.ConfigureNotifyFun(func(*xgbutil.XUtil, xevent.ConfigureNotifyEvent) {
		w.handler.ScreenChanged()
	}).Connect(c.XUtil, c.Root)

	w.syncClients(false)
	return w, nil
}

func (w *Watcher) onRootProperty(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
	name, err := xprop.AtomName(xu, ev.Atom)
	if err != nil {
		return
	}
	switch name {
	case "_NET_CLIENT_LIST":
		w.syncClients(true)
	case "_NET_CURRENT_DESKTOP":
		desktop, err := w.conn.CurrentDesktop()
		if err != nil {
			w.log.Warn("desktop change without readable desktop", "error", err)
			return
		}
		w.handler.DesktopChanged(desktop)
	case "_NET_WORKAREA":
		w.handler.ScreenChanged()
	}
}

func (w *Watcher) syncClients(notify bool) {
	list, err := w.conn.ClientList()
	if err != nil {
		w.log.Warn("failed to sync client list", "error", err)
		return
	}

	current := make(map[xproto.Window]struct{}, len(list))
	var added, removed []xproto.Window

	w.mu.Lock()
	for _, win := range list {
		current[win] = struct{}{}
		if _, ok := w.clients[win]; !ok {
			added = append(added, win)
		}
	}
	for win := range w.clients {
		if _, ok := current[win]; !ok {
			removed = append(removed, win)
			if p := w.pending[win]; p != nil {
				p.timer.Stop()
				delete(w.pending, win)
			}
		}
	}
	w.clients = current
	w.mu.Unlock()

	for _, win := range removed {
		xevent.Detach(w.conn.XUtil, win)
		if notify {
			w.handler.WindowDestroyed(win)
		}
	}
	for _, win := range added {
		if err := w.subscribe(win); err != nil {
			w.log.Debug("failed to subscribe to client", "window", win, "error", err)
			continue
		}
		if notify {
			w.handler.WindowCreated(win)
		}
	}
}

func (w *Watcher) subscribe(win xproto.Window) error {
	xw := xwindow.New(w.conn.XUtil, win)
	if err := xw.Listen(xproto.EventMaskStructureNotify, xproto.EventMaskPropertyChange); err != nil {
		return err
	}

	xevent.ConfigureNotifyFun(func(*xgbutil.XUtil, xevent.ConfigureNotifyEvent) {
		w.onConfigure(win)
	}).Connect(w.conn.XUtil, win)

	xevent.PropertyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		name, err := xprop.AtomName(xu, ev.Atom)
		if err != nil {
			return
		}
		switch name {
		case "_NET_WM_STATE", "WM_STATE", "_NET_WM_DESKTOP":
			w.handler.WindowStateChanged(win)
		}
	}).Connect(w.conn.XUtil, win)

	return nil
}

// onConfigure restarts the settle timer for win.
func (w *Watcher) onConfigure(win xproto.Window) {
	byUser := false
	if _, _, mask, err := w.conn.Pointer(); err == nil {
		byUser = ButtonHeld(mask)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	p := w.pending[win]
	if p == nil {
		p = &pendingConfigure{}
		w.pending[win] = p
	} else {
		p.timer.Stop()
	}
	p.byUser = p.byUser || byUser
	p.timer = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		if w.pending[win] != p {
			w.mu.Unlock()
			return
		}
		delete(w.pending, win)
		user := p.byUser
		w.mu.Unlock()

		w.handler.WindowConfigured(win, user)
	})
}

// Close stops pending settle timers.
func (w *Watcher) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for win, p := range w.pending {
		p.timer.Stop()
		delete(w.pending, win)
	}
}
