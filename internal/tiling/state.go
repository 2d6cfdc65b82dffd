package tiling

import (
	"log/slog"
	"time"
)

const (
	// DefaultDragBorder is how far a drop target's rect is shrunk before the
	// pointer is tested against it.
	DefaultDragBorder = 20
	// DefaultEnforceDelay is how long delayed enforcement waits for a burst of
	// external resizes to settle.
	DefaultEnforceDelay = 10 * time.Millisecond
)

// Bounds is the display region tiles are laid out in.
type Bounds struct {
	Rect   Rect
	Source BoundsSource
	log    *slog.Logger
}

// NewBounds returns bounds initialised to rect. src may be nil for a fixed
// region.
func NewBounds(rect Rect, src BoundsSource) *Bounds {
	return &Bounds{
		Rect:   rect,
		Source: src,
		log:    slog.Default().With("component", "tiling.Bounds"),
	}
}

// Update refreshes the rect from the source. The previous rect is kept when
// the source fails.
func (b *Bounds) Update() {
	if b.Source == nil {
		return
	}
	r, err := b.Source.WorkArea()
	if err != nil {
		b.log.Warn("failed to refresh bounds, keeping previous", "error", err)
		return
	}
	b.Rect = r
}

// LayoutState is the state shared by whichever layout a workspace currently
// uses: bounds, the split for each axis and the tunables read during layout.
type LayoutState struct {
	Bounds  *Bounds
	Splits  SplitStates
	Padding float64

	// DragBorder shrinks drop targets during drag swaps.
	DragBorder float64
	// ResizeIncrement is the ratio step for keyboard split adjustments.
	ResizeIncrement float64
	// WindowResizeIncrement is the ratio step for adjusting one window's size.
	WindowResizeIncrement float64
	EnforceDelay          time.Duration

	Pointer   PointerSource
	Scheduler Scheduler
	Logger    *slog.Logger
}

// NewLayoutState returns state over bounds with one primary window and two
// partitions on each axis.
func NewLayoutState(bounds *Bounds) *LayoutState {
	return &LayoutState{
		Bounds: bounds,
		Splits: SplitStates{
			X: NewMultiSplit(AxisX, 1, 2),
			Y: NewMultiSplit(AxisY, 1, 2),
		},
		DragBorder:            DefaultDragBorder,
		ResizeIncrement:       0.05,
		WindowResizeIncrement: 0.1,
		EnforceDelay:          DefaultEnforceDelay,
		Scheduler:             DefaultScheduler,
	}
}

// EmptyCopy returns state over the same bounds with fresh splits. Tunables
// and host hooks carry over.
func (s *LayoutState) EmptyCopy() *LayoutState {
	c := NewLayoutState(s.Bounds)
	c.Padding = s.Padding
	c.DragBorder = s.DragBorder
	c.ResizeIncrement = s.ResizeIncrement
	c.WindowResizeIncrement = s.WindowResizeIncrement
	c.EnforceDelay = s.EnforceDelay
	c.Pointer = s.Pointer
	c.Scheduler = s.Scheduler
	c.Logger = s.Logger
	return c
}

func (s *LayoutState) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
