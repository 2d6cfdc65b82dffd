package x11

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// ErrNoMonitors is returned when RandR reports no active CRTC.
var ErrNoMonitors = errors.New("no monitors found")

// Monitor represents a physical display
type Monitor struct {
	ID     int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

func (m Monitor) box() box {
	return box{x1: m.X, y1: m.Y, x2: m.X + m.Width, y2: m.Y + m.Height}
}

func (m Monitor) contains(x, y int) bool {
	return x >= m.X && x < m.X+m.Width && y >= m.Y && y < m.Y+m.Height
}

// box is a half-open rectangle [x1,x2) x [y1,y2).
type box struct {
	x1, y1, x2, y2 int
}

func (b box) intersect(o box) box {
	r := box{x1: max(b.x1, o.x1), y1: max(b.y1, o.y1), x2: min(b.x2, o.x2), y2: min(b.y2, o.y2)}
	if r.x2 <= r.x1 || r.y2 <= r.y1 {
		return box{}
	}
	return r
}

func (b box) width() int  { return b.x2 - b.x1 }
func (b box) height() int { return b.y2 - b.y1 }
func (b box) empty() bool { return b.width() <= 0 || b.height() <= 0 }

// GetMonitors retrieves all active monitors using XRandR
func (c *Connection) GetMonitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		// Skip disabled CRTCs
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Monitor%d", i)
		if output, err := randr.GetOutputInfo(c.XUtil.Conn(), info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(output.Name)
		}

		monitors = append(monitors, Monitor{
			ID:     i,
			Name:   name,
			X:      int(info.X),
			Y:      int(info.Y),
			Width:  int(info.Width),
			Height: int(info.Height),
		})
	}

	return monitors, nil
}

// ActiveMonitor returns the monitor holding the focused window, else the one
// under the pointer, else the first. Its geometry is reduced to the usable
// work area: dock struts when any dock publishes them, otherwise
// _NET_WORKAREA.
func (c *Connection) ActiveMonitor() (Monitor, error) {
	monitors, err := c.GetMonitors()
	if err != nil {
		return Monitor{}, err
	}
	if len(monitors) == 0 {
		return Monitor{}, ErrNoMonitors
	}

	active := -1
	if win, err := ewmh.ActiveWindowGet(c.XUtil); err == nil && win != 0 {
		if g, err := c.WindowGeometry(win); err == nil {
			active = monitorAt(monitors, g.X+g.Width/2, g.Y+g.Height/2)
		}
	}
	if active < 0 {
		if x, y, _, err := c.Pointer(); err == nil {
			active = monitorAt(monitors, x, y)
		}
	}
	if active < 0 {
		active = 0
	}

	mon := monitors[active]
	if !c.applyDockStruts(&mon) {
		c.applyWorkarea(&mon)
	}
	return mon, nil
}

func monitorAt(monitors []Monitor, x, y int) int {
	for i, m := range monitors {
		if m.contains(x, y) {
			return i
		}
	}
	return -1
}

func (c *Connection) applyWorkarea(mon *Monitor) {
	workArea, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(workArea) == 0 {
		return
	}

	idx := 0
	if desktop, err := c.CurrentDesktop(); err == nil && desktop < len(workArea) {
		idx = desktop
	}
	wa := workArea[idx]
	x, y := int(wa.X), int(wa.Y)
	area := box{x1: x, y1: y, x2: x + int(wa.Width), y2: y + int(wa.Height)}

	isect := mon.box().intersect(area)
	if isect.empty() {
		return
	}
	mon.X, mon.Y = isect.x1, isect.y1
	mon.Width, mon.Height = isect.width(), isect.height()
}

type dockStruts struct {
	left, right, top, bottom int
}

func (s dockStruts) zero() bool {
	return s.left == 0 && s.right == 0 && s.top == 0 && s.bottom == 0
}

func (c *Connection) applyDockStruts(mon *Monitor) bool {
	rootGeom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return false
	}
	rootW, rootH := int(rootGeom.Width), int(rootGeom.Height)

	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return false
	}

	var struts dockStruts
	for _, win := range clients {
		if !c.isDock(win) {
			continue
		}

		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, win); err == nil {
			struts = accumulateStruts(mon.box(), rootW, rootH, sp, struts)
			continue
		}
		// Some docks only set _NET_WM_STRUT (no partial ranges).
		if s, err := ewmh.WmStrutGet(c.XUtil, win); err == nil {
			sp := &ewmh.WmStrutPartial{
				Left:       s.Left,
				Right:      s.Right,
				Top:        s.Top,
				Bottom:     s.Bottom,
				LeftEndY:   uint(rootH - 1),
				RightEndY:  uint(rootH - 1),
				TopEndX:    uint(rootW - 1),
				BottomEndX: uint(rootW - 1),
			}
			struts = accumulateStruts(mon.box(), rootW, rootH, sp, struts)
		}
	}

	if struts.zero() {
		return false
	}

	mon.X += struts.left
	mon.Y += struts.top
	mon.Width = max(1, mon.Width-struts.left-struts.right)
	mon.Height = max(1, mon.Height-struts.top-struts.bottom)
	return true
}

func (c *Connection) isDock(win xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, win)
	if err != nil {
		return false
	}
	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_DOCK" {
			return true
		}
	}
	return false
}

// accumulateStruts grows acc by the part of each strut band overlapping mon.
// Struts are reserved from the root window's edges.
func accumulateStruts(mon box, rootW, rootH int, sp *ewmh.WmStrutPartial, acc dockStruts) dockStruts {
	if sp.Top > 0 {
		band := box{x1: int(sp.TopStartX), y1: 0, x2: int(sp.TopEndX) + 1, y2: int(sp.Top)}
		acc.top = max(acc.top, mon.intersect(band).height())
	}
	if sp.Bottom > 0 {
		band := box{x1: int(sp.BottomStartX), y1: rootH - int(sp.Bottom), x2: int(sp.BottomEndX) + 1, y2: rootH}
		acc.bottom = max(acc.bottom, mon.intersect(band).height())
	}
	if sp.Left > 0 {
		band := box{x1: 0, y1: int(sp.LeftStartY), x2: int(sp.Left), y2: int(sp.LeftEndY) + 1}
		acc.left = max(acc.left, mon.intersect(band).width())
	}
	if sp.Right > 0 {
		band := box{x1: rootW - int(sp.Right), y1: int(sp.RightStartY), x2: rootW, y2: int(sp.RightEndY) + 1}
		acc.right = max(acc.right, mon.intersect(band).width())
	}
	return acc
}
