package manager

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/1broseidon/shapetile/internal/config"
	"github.com/1broseidon/shapetile/internal/platform"
	"github.com/1broseidon/shapetile/internal/tiling"
	"github.com/stretchr/testify/require"
)

type fakeWin struct {
	info         platform.Window
	minimized    bool
	maximized    bool
	pref         bool
	prefSet      bool
	unmanageable bool
}

// fakeBackend is an in-memory window system.
type fakeBackend struct {
	mu      sync.Mutex
	screen  platform.Rect
	desktop int
	active  platform.WindowID
	pointer [2]int
	order   []platform.WindowID
	windows map[platform.WindowID]*fakeWin
	moves   []platform.WindowID
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		screen:  platform.Rect{Width: 1000, Height: 800},
		windows: make(map[platform.WindowID]*fakeWin),
	}
}

func (b *fakeBackend) addWindow(id platform.WindowID, title string, r platform.Rect) *fakeWin {
	b.mu.Lock()
	defer b.mu.Unlock()
	w := &fakeWin{info: platform.Window{ID: id, Title: title, Bounds: r, Desktop: b.desktop}}
	b.windows[id] = w
	b.order = append(b.order, id)
	return w
}

func (b *fakeBackend) removeWindow(id platform.WindowID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.windows, id)
	for i, other := range b.order {
		if other == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

func (b *fakeBackend) setGeometry(id platform.WindowID, r platform.Rect) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.windows[id].info.Bounds = r
}

func (b *fakeBackend) rect(id platform.WindowID) platform.Rect {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.windows[id].info.Bounds
}

func (b *fakeBackend) moveCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.moves)
}

func (b *fakeBackend) lookup(id platform.WindowID) (*fakeWin, error) {
	w, ok := b.windows[id]
	if !ok {
		return nil, fmt.Errorf("no such window: %d", id)
	}
	return w, nil
}

func (b *fakeBackend) ActiveDisplay() (platform.Display, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return platform.Display{Name: "fake", Bounds: b.screen, Usable: b.screen}, nil
}

func (b *fakeBackend) ActiveWindow() (platform.WindowID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.active, nil
}

func (b *fakeBackend) CurrentDesktop() (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.desktop, nil
}

func (b *fakeBackend) Pointer() (int, int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pointer[0], b.pointer[1], nil
}

func (b *fakeBackend) ManageableWindows() ([]platform.Window, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []platform.Window
	for _, id := range b.order {
		w := b.windows[id]
		if w.unmanageable {
			continue
		}
		if w.info.Desktop != b.desktop && w.info.Desktop != platform.AllDesktops {
			continue
		}
		out = append(out, w.info)
	}
	return out, nil
}

func (b *fakeBackend) WindowInfo(id platform.WindowID) (platform.Window, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, err := b.lookup(id)
	if err != nil {
		return platform.Window{}, err
	}
	if w.unmanageable {
		return platform.Window{}, platform.ErrNotManageable
	}
	return w.info, nil
}

func (b *fakeBackend) Geometry(id platform.WindowID) (platform.Rect, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, err := b.lookup(id)
	if err != nil {
		return platform.Rect{}, err
	}
	return w.info.Bounds, nil
}

func (b *fakeBackend) Activate(id platform.WindowID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.active = id
	return nil
}

func (b *fakeBackend) MoveResize(id platform.WindowID, r platform.Rect) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, err := b.lookup(id)
	if err != nil {
		return err
	}
	w.info.Bounds = r
	b.moves = append(b.moves, id)
	return nil
}

func (b *fakeBackend) setMinimized(id platform.WindowID, minimized bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, err := b.lookup(id)
	if err != nil {
		return err
	}
	w.minimized = minimized
	return nil
}

func (b *fakeBackend) Minimize(id platform.WindowID) error   { return b.setMinimized(id, true) }
func (b *fakeBackend) Unminimize(id platform.WindowID) error { return b.setMinimized(id, false) }

func (b *fakeBackend) IsMinimized(id platform.WindowID) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, err := b.lookup(id)
	if err != nil {
		return false, err
	}
	return w.minimized, nil
}

func (b *fakeBackend) Maximize(id platform.WindowID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.windows[id].maximized = true
	return nil
}

func (b *fakeBackend) Unmaximize(id platform.WindowID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.windows[id].maximized = false
	return nil
}

func (b *fakeBackend) TilePreference(id platform.WindowID) (bool, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, ok := b.windows[id]
	if !ok {
		return false, false
	}
	return w.pref, w.prefSet
}

func (b *fakeBackend) SetTilePreference(id platform.WindowID, tile bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, err := b.lookup(id)
	if err != nil {
		return err
	}
	w.pref, w.prefSet = tile, true
	return nil
}

// manualScheduler queues callbacks until the test runs them.
type manualScheduler struct {
	mu      sync.Mutex
	pending []*manualTimer
}

type manualTimer struct {
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func (s *manualScheduler) AfterFunc(_ time.Duration, f func()) tiling.Stopper {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{f: f}
	s.pending = append(s.pending, t)
	return t
}

func (s *manualScheduler) runAll() int {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	ran := 0
	for _, t := range pending {
		if t.stopped {
			continue
		}
		t.stopped = true
		t.f()
		ran++
	}
	return ran
}

type harness struct {
	backend *fakeBackend
	sched   *manualScheduler
	clock   time.Time
	m       *Manager
}

func (h *harness) advance(d time.Duration) { h.clock = h.clock.Add(d) }

// newHarness starts a manager over backend with cfg (defaults when nil).
func newHarness(t *testing.T, backend *fakeBackend, cfg *config.Config) *harness {
	t.Helper()
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	h := &harness{backend: backend, sched: &manualScheduler{}, clock: time.Unix(1000, 0)}
	m, err := New(Options{
		Backend:   backend,
		Config:    cfg,
		Scheduler: h.sched,
		Now:       func() time.Time { return h.clock },
	})
	require.NoError(t, err)
	require.NoError(t, m.Start())
	h.m = m
	return h
}

func rect(x, y, w, h int) platform.Rect {
	return platform.Rect{X: x, Y: y, Width: w, Height: h}
}
