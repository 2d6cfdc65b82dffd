package manager

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/shapetile/internal/config"
	"github.com/1broseidon/shapetile/internal/platform"
	"github.com/1broseidon/shapetile/internal/tiling"
)

// echoSlack is added to the settle delay when deciding whether a
// ConfigureNotify is the echo of a move we made ourselves.
const echoSlack = 250 * time.Millisecond

// ErrUnknownAction is returned by Run for names outside config.Actions.
var ErrUnknownAction = errors.New("unknown action")

// Options configures a Manager. Backend and Config are required.
type Options struct {
	Backend platform.Backend
	Config  *config.Config
	Logger  *slog.Logger
	// Scheduler defers enforcement callbacks; callbacks always run under
	// the manager lock. Defaults to tiling.DefaultScheduler.
	Scheduler tiling.Scheduler
	// Now is the clock used for echo suppression. Defaults to time.Now.
	Now func() time.Time
}

// Workspace is the tiling state of one desktop. State outlives layout
// switches so split ratios are kept.
type Workspace struct {
	Desktop int
	State   *tiling.LayoutState
	Layout  tiling.Layout
}

// Manager bridges window-system events and user actions to the tiling
// layouts of each desktop. Every exported method takes the lock; the tiling
// core itself is not safe for concurrent use.
type Manager struct {
	mu sync.Mutex

	backend platform.Backend
	cfg     *config.Config
	sched   tiling.Scheduler
	now     func() time.Time
	log     *slog.Logger

	workspaces map[int]*Workspace
	current    int
	windows    map[platform.WindowID]*hostWindow
	desktopOf  map[platform.WindowID]int
	// pushed records when each window was last moved by us.
	pushed  map[platform.WindowID]time.Time
	actions map[string]func(*Workspace) error
}

var _ platform.EventHandler = (*Manager)(nil)

// New returns a manager with no windows. Call Start to adopt existing ones.
func New(opts Options) (*Manager, error) {
	if opts.Backend == nil {
		return nil, fmt.Errorf("manager: backend is required")
	}
	if opts.Config == nil {
		return nil, fmt.Errorf("manager: config is required")
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	m := &Manager{
		backend:    opts.Backend,
		cfg:        opts.Config.Clone(),
		sched:      opts.Scheduler,
		now:        opts.Now,
		log:        opts.Logger,
		workspaces: make(map[int]*Workspace),
		windows:    make(map[platform.WindowID]*hostWindow),
		desktopOf:  make(map[platform.WindowID]int),
		pushed:     make(map[platform.WindowID]time.Time),
	}
	if m.sched == nil {
		m.sched = tiling.DefaultScheduler
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.log == nil {
		m.log = slog.Default()
	}
	m.log = m.log.With("component", "manager")
	m.actions = m.actionTable()
	return m, nil
}

// Start adopts the manageable windows of the current desktop and lays
// them out.
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	desktop, err := m.backend.CurrentDesktop()
	if err != nil {
		m.log.Warn("failed to read current desktop, assuming 0", "error", err)
		desktop = 0
	}
	m.current = desktop
	if err := m.adopt(); err != nil {
		return err
	}
	m.workspace(m.current).Layout.Layout()
	m.log.Info("manager started", "desktop", m.current, "windows", len(m.windows))
	return nil
}

// CurrentLayout returns the layout name of the current desktop.
func (m *Manager) CurrentLayout() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.workspace(m.current).Layout.Name()
}

// SetLayout switches the current desktop to the named layout.
func (m *Manager) SetLayout(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setLayout(m.workspace(m.current), name)
}

// Run performs a named action on the current desktop.
func (m *Manager) Run(action string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	fn, ok := m.actions[action]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	m.log.Debug("running action", "action", action, "desktop", m.current)
	return fn(m.workspace(m.current))
}

// ApplyConfig replaces the tunables of every workspace. Window counts are
// only reset when their configured value changed.
func (m *Manager) ApplyConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.cfg
	m.cfg = cfg.Clone()
	for _, ws := range m.workspaces {
		m.applyTunables(ws.State)
		for _, split := range []*tiling.MultiSplit{ws.State.Splits.X, ws.State.Splits.Y} {
			if prev.MainWindowCount != cfg.MainWindowCount {
				split.PrimaryWindows = cfg.MainWindowCount
			}
			if prev.PartitionCount != cfg.PartitionCount {
				split.MaxPartitions = cfg.PartitionCount
			}
		}
	}
	m.workspace(m.current).Layout.Layout()
	m.log.Info("config applied")
	return nil
}

// RestoreOriginalPositions moves every tiled window back to where it was
// first seen.
func (m *Manager) RestoreOriginalPositions() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ws := range m.workspaces {
		ws.Layout.RestoreOriginalPositions()
	}
}

// Reconcile drops windows that no longer exist, moves windows whose desktop
// changed behind our back and adopts windows we never saw created.
func (m *Manager) Reconcile() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, hw := range m.windows {
		info, err := m.backend.WindowInfo(id)
		if err != nil {
			m.log.Info("reconcile: dropping window", "window", id, "reason", err)
			m.forget(hw)
			continue
		}
		m.moveIfDesktopChanged(hw, info.Desktop)
	}
	if err := m.adopt(); err != nil {
		return err
	}
	m.workspace(m.current).Layout.Layout()
	return nil
}

// workspace returns the workspace for desktop, creating it on first use.
func (m *Manager) workspace(desktop int) *Workspace {
	if desktop == platform.AllDesktops {
		desktop = m.current
	}
	if ws, ok := m.workspaces[desktop]; ok {
		return ws
	}

	bounds := tiling.NewBounds(tiling.Rect{}, displayBounds{m})
	bounds.Update()
	state := tiling.NewLayoutState(bounds)
	m.applyTunables(state)
	for _, split := range []*tiling.MultiSplit{state.Splits.X, state.Splits.Y} {
		split.PrimaryWindows = m.cfg.MainWindowCount
		split.MaxPartitions = m.cfg.PartitionCount
	}

	name := m.cfg.LayoutFor(desktop)
	layout, err := tiling.NewLayout(name, state)
	if err != nil {
		m.log.Error("falling back to floating layout", "desktop", desktop, "error", err)
		layout = tiling.NewFloatingLayout(state)
	}
	ws := &Workspace{Desktop: desktop, State: state, Layout: layout}
	m.workspaces[desktop] = ws
	m.log.Debug("workspace created", "desktop", desktop, "layout", name)
	return ws
}

func (m *Manager) applyTunables(state *tiling.LayoutState) {
	state.Padding = float64(m.cfg.Padding)
	state.DragBorder = float64(m.cfg.DragSwapBorder)
	state.ResizeIncrement = m.cfg.ResizeIncrement
	state.WindowResizeIncrement = m.cfg.WindowResizeIncrement
	state.EnforceDelay = m.cfg.EnforceDelay()
	state.Pointer = pointerSource{m.backend}
	state.Scheduler = lockedScheduler{m}
	state.Logger = m.log
}

// adopt adds every manageable window we do not track yet.
func (m *Manager) adopt() error {
	wins, err := m.backend.ManageableWindows()
	if err != nil {
		return fmt.Errorf("failed to list windows: %w", err)
	}
	active := m.activeWindow()
	for _, info := range wins {
		if _, ok := m.windows[info.ID]; ok {
			continue
		}
		m.track(info, active)
	}
	return nil
}

// track adds a window to the workspace of its desktop, after the active
// window when that window lives in the same workspace.
func (m *Manager) track(info platform.Window, active *hostWindow) *Workspace {
	hw := newHostWindow(m, info)
	desktop := info.Desktop
	if desktop == platform.AllDesktops {
		desktop = m.current
	}
	ws := m.workspace(desktop)
	m.windows[info.ID] = hw
	m.desktopOf[info.ID] = desktop

	var after tiling.HasID
	if active != nil && m.desktopOf[active.id] == desktop {
		after = active
	}
	ws.Layout.Add(hw, after)
	m.log.Debug("window added", "window", info.ID, "title", info.Title, "desktop", desktop)
	return ws
}

// forget removes a window from its workspace and all bookkeeping.
func (m *Manager) forget(hw *hostWindow) {
	if ws, ok := m.workspaces[m.desktopOf[hw.id]]; ok {
		ws.Layout.OnWindowKilled(hw)
	}
	delete(m.windows, hw.id)
	delete(m.desktopOf, hw.id)
	delete(m.pushed, hw.id)
}

func (m *Manager) moveIfDesktopChanged(hw *hostWindow, desktop int) {
	if desktop == platform.AllDesktops {
		return
	}
	prev := m.desktopOf[hw.id]
	if prev == desktop {
		return
	}
	m.log.Debug("window changed desktop", "window", hw.id, "from", prev, "to", desktop)
	m.workspace(prev).Layout.OnWindowKilled(hw)
	m.desktopOf[hw.id] = desktop
	ws := m.workspace(desktop)
	ws.Layout.Add(hw, nil)
	if desktop == m.current {
		ws.Layout.Layout()
	}
}

// activeWindow returns the tracked focused window, or nil.
func (m *Manager) activeWindow() *hostWindow {
	id, err := m.backend.ActiveWindow()
	if err != nil || id == 0 {
		return nil
	}
	return m.windows[id]
}

func (m *Manager) setLayout(ws *Workspace, name string) error {
	if ws.Layout.Name() == name {
		return nil
	}
	next, err := tiling.NewLayout(name, ws.State)
	if err != nil {
		return err
	}

	var wins []tiling.Window
	managed := make(map[uint32]bool)
	ws.Layout.Each(func(t *tiling.Tile, _ int) bool {
		t.Unmaximize()
		t.Detach()
		wins = append(wins, t.Window)
		managed[t.ID()] = t.Managed()
		return true
	})
	for _, win := range wins {
		next.Add(win, nil)
	}
	next.Each(func(t *tiling.Tile, _ int) bool {
		if managed[t.ID()] && !t.Managed() && t.Kind() == tiling.TileKindTiled {
			t.Tile()
		}
		return true
	})

	m.log.Info("layout changed", "desktop", ws.Desktop, "from", ws.Layout.Name(), "to", name)
	ws.Layout = next
	next.Layout()
	return nil
}

// recentlyPushed reports whether we moved id within the echo window.
func (m *Manager) recentlyPushed(id platform.WindowID) bool {
	at, ok := m.pushed[id]
	if !ok {
		return false
	}
	return m.now().Sub(at) <= m.cfg.SettleDelay()+echoSlack
}

// displayBounds feeds the active display's usable area, minus the
// configured screen padding, to tiling.Bounds.
type displayBounds struct {
	m *Manager
}

func (d displayBounds) WorkArea() (tiling.Rect, error) {
	display, err := d.m.backend.ActiveDisplay()
	if err != nil {
		return tiling.Rect{}, err
	}
	area := display.Usable
	if area.Width <= 0 || area.Height <= 0 {
		area = display.Bounds
	}

	padding := d.m.cfg.ScreenPadding
	area.X += padding.Left
	area.Y += padding.Top
	area.Width -= padding.Left + padding.Right
	area.Height -= padding.Top + padding.Bottom
	if area.Width < 1 || area.Height < 1 {
		return tiling.Rect{}, fmt.Errorf(
			"screen_padding leaves no usable space: %dx%d at %d,%d",
			area.Width, area.Height, area.X, area.Y,
		)
	}
	return fromPlatform(area), nil
}

type pointerSource struct {
	backend platform.Backend
}

func (p pointerSource) PointerPosition() (tiling.Point, error) {
	x, y, err := p.backend.Pointer()
	if err != nil {
		return tiling.Point{}, err
	}
	return tiling.Point{X: float64(x), Y: float64(y)}, nil
}

// lockedScheduler runs deferred tiling callbacks under the manager lock.
type lockedScheduler struct {
	m *Manager
}

func (s lockedScheduler) AfterFunc(d time.Duration, f func()) tiling.Stopper {
	return s.m.sched.AfterFunc(d, func() {
		s.m.mu.Lock()
		defer s.m.mu.Unlock()
		f()
	})
}
