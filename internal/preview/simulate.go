// Package preview lays out stand-in windows with the tiling engine so a
// configuration can be inspected without touching the display.
package preview

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/1broseidon/shapetile/internal/config"
	"github.com/1broseidon/shapetile/internal/tiling"
)

// Params describes a simulated desktop.
type Params struct {
	Layout          string
	Windows         int
	Width           int
	Height          int
	Padding         int
	ScreenPadding   config.Margins
	// MainWindowCount is applied as is; zero still leaves one window in
	// the first partition. PartitionCount is ignored unless positive.
	MainWindowCount int
	PartitionCount  int
	// MainRatio overrides the main split ratio when non-zero.
	MainRatio float64
}

// FromConfig returns params for desktop as cfg would lay it out on a
// width x height screen.
func FromConfig(cfg *config.Config, desktop, windows, width, height int) Params {
	return Params{
		Layout:          cfg.LayoutFor(desktop),
		Windows:         windows,
		Width:           width,
		Height:          height,
		Padding:         cfg.Padding,
		ScreenPadding:   cfg.ScreenPadding,
		MainWindowCount: cfg.MainWindowCount,
		PartitionCount:  cfg.PartitionCount,
	}
}

// Window is one simulated window after layout. Index is 1-based.
type Window struct {
	Index   int
	Title   string
	Rect    tiling.Rect
	Managed bool
}

// Simulate lays out p.Windows windows and returns them in layout order
// together with the area they were laid out in.
func Simulate(p Params) ([]Window, tiling.Rect, error) {
	if p.Windows < 0 {
		return nil, tiling.Rect{}, fmt.Errorf("window count must be >= 0")
	}
	if p.Width <= 0 || p.Height <= 0 {
		return nil, tiling.Rect{}, fmt.Errorf("screen size must be positive, got %dx%d", p.Width, p.Height)
	}
	m := p.ScreenPadding
	area := tiling.R(float64(m.Left), float64(m.Top),
		float64(p.Width-m.Left-m.Right), float64(p.Height-m.Top-m.Bottom))
	if area.Size.X <= 0 || area.Size.Y <= 0 {
		return nil, tiling.Rect{}, fmt.Errorf("screen_padding leaves no usable space")
	}

	state := tiling.NewLayoutState(tiling.NewBounds(area, nil))
	state.Padding = float64(p.Padding)
	state.Scheduler = idleScheduler{}
	state.Logger = slog.New(slog.DiscardHandler)
	for _, split := range []*tiling.MultiSplit{state.Splits.X, state.Splits.Y} {
		split.PrimaryWindows = p.MainWindowCount
		if p.PartitionCount > 0 {
			split.MaxPartitions = p.PartitionCount
		}
	}

	layout, err := tiling.NewLayout(p.Layout, state)
	if err != nil {
		return nil, tiling.Rect{}, err
	}
	if p.MainRatio != 0 {
		ms, ok := layout.(interface{ MainSplit() *tiling.MultiSplit })
		if ok {
			if err := ms.MainSplit().SetRatio(p.MainRatio); err != nil {
				return nil, tiling.Rect{}, err
			}
		}
	}

	for i := 0; i < p.Windows; i++ {
		layout.Add(newStandIn(uint32(i+1), area), nil)
	}
	layout.Layout()

	out := make([]Window, 0, p.Windows)
	layout.Each(func(t *tiling.Tile, idx int) bool {
		out = append(out, Window{
			Index:   idx + 1,
			Title:   t.Window.Title(),
			Rect:    t.Window.Rect(),
			Managed: t.Managed(),
		})
		return true
	})
	return out, area, nil
}

// standIn is a window that only remembers its geometry. Unmanaged windows
// cascade from the top-left corner of the area.
type standIn struct {
	id        uint32
	rect      tiling.Rect
	minimized bool
}

func newStandIn(id uint32, area tiling.Rect) *standIn {
	step := 30 * float64(id-1)
	return &standIn{
		id:   id,
		rect: tiling.R(area.Pos.X+step, area.Pos.Y+step, area.Size.X*0.4, area.Size.Y*0.4),
	}
}

func (w *standIn) ID() uint32 { return w.id }
func (w *standIn) Title() string { return fmt.Sprintf("window %d", w.id) }
func (w *standIn) IsActive() bool { return false }
func (w *standIn) Activate() error { return nil }
func (w *standIn) IsMinimized() bool { return w.minimized }
func (w *standIn) Maximize() error { return nil }
func (w *standIn) Unmaximize() error { return nil }
func (w *standIn) Rect() tiling.Rect { return w.rect }
func (w *standIn) TilePreference() bool { return true }
func (w *standIn) SetTilePreference(bool) error { return nil }

func (w *standIn) Minimize() error {
	w.minimized = true
	return nil
}

func (w *standIn) Unminimize() error {
	w.minimized = false
	return nil
}

func (w *standIn) MoveResize(r tiling.Rect) error {
	w.rect = r
	return nil
}

type idleScheduler struct{}

func (idleScheduler) AfterFunc(time.Duration, func()) tiling.Stopper { return idleStopper{} }

type idleStopper struct{}

func (idleStopper) Stop() bool { return false }
