package tiling

import (
	"errors"
	"time"
)

// ErrUnsupported is returned by operations the current layout variant does
// not implement.
var ErrUnsupported = errors.New("operation not supported by this layout")

// HasID is anything identified by a window id.
type HasID interface {
	ID() uint32
}

// Window is the host-owned window a Tile wraps. The tiling code never
// constructs one.
type Window interface {
	HasID
	IsActive() bool
	Activate() error
	IsMinimized() bool
	Minimize() error
	Unminimize() error
	Maximize() error
	Unmaximize() error
	MoveResize(r Rect) error
	Rect() Rect
	Title() string
	// TilePreference is the persisted "this window wants to be tiled" flag.
	TilePreference() bool
	SetTilePreference(tile bool) error
}

// PointerSource reports the current pointer position.
type PointerSource interface {
	PointerPosition() (Point, error)
}

// BoundsSource supplies the live display region tiles are laid out in.
type BoundsSource interface {
	WorkArea() (Rect, error)
}

// Stopper cancels a deferred callback.
type Stopper interface {
	Stop() bool
}

// Scheduler runs a callback once after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Stopper
}

type timeScheduler struct{}

func (timeScheduler) AfterFunc(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}

// DefaultScheduler defers callbacks with time.AfterFunc.
var DefaultScheduler Scheduler = timeScheduler{}
