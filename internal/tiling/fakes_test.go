package tiling

import (
	"errors"
	"fmt"
	"time"
)

// fakeScreen owns a set of fake windows and tracks which one has focus.
type fakeScreen struct {
	windows []*fakeWindow
	nextID  uint32
}

func newFakeScreen() *fakeScreen {
	return &fakeScreen{nextID: 1}
}

func (s *fakeScreen) newWindow(title string, rect Rect) *fakeWindow {
	w := &fakeWindow{screen: s, id: s.nextID, title: title, rect: rect}
	s.nextID++
	s.windows = append(s.windows, w)
	return w
}

// active returns the focused window as a HasID, or a nil interface.
func (s *fakeScreen) active() HasID {
	for _, w := range s.windows {
		if w.active {
			return w
		}
	}
	return nil
}

type fakeWindow struct {
	screen    *fakeScreen
	id        uint32
	title     string
	rect      Rect
	active    bool
	minimized bool
	maximized bool
	tilePref  bool
	moves     []Rect
	moveErr   error
}

func (w *fakeWindow) ID() uint32 { return w.id }
func (w *fakeWindow) Title() string { return w.title }
func (w *fakeWindow) IsActive() bool { return w.active }
func (w *fakeWindow) IsMinimized() bool { return w.minimized }
func (w *fakeWindow) Rect() Rect { return w.rect }
func (w *fakeWindow) TilePreference() bool {
	return w.tilePref
}

func (w *fakeWindow) String() string { return fmt.Sprintf("fake(%s)", w.title) }

func (w *fakeWindow) Activate() error {
	for _, other := range w.screen.windows {
		other.active = false
	}
	w.active = true
	return nil
}

func (w *fakeWindow) Minimize() error {
	w.minimized = true
	w.active = false
	return nil
}

func (w *fakeWindow) Unminimize() error {
	w.minimized = false
	return nil
}

func (w *fakeWindow) Maximize() error {
	w.maximized = true
	return nil
}

func (w *fakeWindow) Unmaximize() error {
	w.maximized = false
	return nil
}

func (w *fakeWindow) MoveResize(r Rect) error {
	if w.moveErr != nil {
		return w.moveErr
	}
	w.rect = r
	w.moves = append(w.moves, r)
	return nil
}

func (w *fakeWindow) SetTilePreference(tile bool) error {
	w.tilePref = tile
	return nil
}

type fakePointer struct {
	pos Point
	err error
}

func (p *fakePointer) PointerPosition() (Point, error) { return p.pos, p.err }

type fakeBoundsSource struct {
	rect Rect
	err  error
}

func (b *fakeBoundsSource) WorkArea() (Rect, error) { return b.rect, b.err }

var errFakeSource = errors.New("display gone")

// fakeScheduler holds deferred callbacks until run is called.
type fakeScheduler struct {
	pending []*fakeTimer
}

type fakeTimer struct {
	delay   time.Duration
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Stopper {
	t := &fakeTimer{delay: d, f: f}
	s.pending = append(s.pending, t)
	return t
}

func (s *fakeScheduler) run() int {
	ran := 0
	pending := s.pending
	s.pending = nil
	for _, t := range pending {
		if !t.stopped {
			t.f()
			ran++
		}
	}
	return ran
}

// newTestState returns layout state over a fixed 1200x800 screen.
func newTestState() (*LayoutState, *fakePointer, *fakeScheduler) {
	pointer := &fakePointer{}
	sched := &fakeScheduler{}
	state := NewLayoutState(NewBounds(R(0, 0, 1200, 800), nil))
	state.Pointer = pointer
	state.Scheduler = sched
	return state, pointer, sched
}

// addTiled adds a window that prefers tiling to l and returns it.
func addTiled(l Layout, screen *fakeScreen, title string) *fakeWindow {
	w := screen.newWindow(title, R(10, 10, 300, 200))
	w.tilePref = true
	l.Add(w, screen.active())
	return w
}
