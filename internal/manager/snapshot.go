package manager

import (
	"sort"

	"github.com/1broseidon/shapetile/internal/tiling"
)

// Rect is a snapshot rectangle in screen pixels.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// TileSnapshot describes one window as its layout sees it. Rect is the
// layout rect for managed tiles and the window's own geometry otherwise.
type TileSnapshot struct {
	ID        uint32 `json:"id"`
	Title     string `json:"title"`
	Managed   bool   `json:"managed"`
	Active    bool   `json:"active"`
	Minimized bool   `json:"minimized"`
	Maximized bool   `json:"maximized"`
	Rect      Rect   `json:"rect"`
}

// WorkspaceSnapshot is the state of one desktop. Counts and ratio are only
// set for tiled layouts.
type WorkspaceSnapshot struct {
	Desktop         int            `json:"desktop"`
	Layout          string         `json:"layout"`
	Bounds          Rect           `json:"bounds"`
	MainWindowCount int            `json:"main_window_count,omitempty"`
	PartitionCount  int            `json:"partition_count,omitempty"`
	MainRatio       float64        `json:"main_ratio,omitempty"`
	Tiles           []TileSnapshot `json:"tiles"`
}

// Snapshot is the manager state reported over IPC and MCP.
type Snapshot struct {
	CurrentDesktop int                 `json:"current_desktop"`
	Workspaces     []WorkspaceSnapshot `json:"workspaces"`
}

// Current returns the snapshot of the current desktop, if it exists.
func (s Snapshot) Current() (WorkspaceSnapshot, bool) {
	for _, ws := range s.Workspaces {
		if ws.Desktop == s.CurrentDesktop {
			return ws, true
		}
	}
	return WorkspaceSnapshot{}, false
}

type mainSplitter interface {
	MainSplit() *tiling.MultiSplit
}

// Snapshot captures every workspace, ordered by desktop.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Make sure the current desktop is always reported.
	m.workspace(m.current)

	snap := Snapshot{CurrentDesktop: m.current}
	for _, ws := range m.workspaces {
		snap.Workspaces = append(snap.Workspaces, snapshotWorkspace(ws))
	}
	sort.Slice(snap.Workspaces, func(i, j int) bool {
		return snap.Workspaces[i].Desktop < snap.Workspaces[j].Desktop
	})
	return snap
}

func snapshotWorkspace(ws *Workspace) WorkspaceSnapshot {
	out := WorkspaceSnapshot{
		Desktop: ws.Desktop,
		Layout:  ws.Layout.Name(),
		Bounds:  snapshotRect(ws.State.Bounds.Rect),
		Tiles:   []TileSnapshot{},
	}
	if n, err := ws.Layout.MainWindowCount(); err == nil {
		out.MainWindowCount = n
	}
	if n, err := ws.Layout.PartitionCount(); err == nil {
		out.PartitionCount = n
	}
	if s, ok := ws.Layout.(mainSplitter); ok {
		out.MainRatio = s.MainSplit().Ratio()
	}

	ws.Layout.Each(func(t *tiling.Tile, _ int) bool {
		r := t.DesiredRect()
		if t.Managed() {
			r = t.Rect()
		}
		out.Tiles = append(out.Tiles, TileSnapshot{
			ID:        t.ID(),
			Title:     t.Window.Title(),
			Managed:   t.Managed(),
			Active:    t.IsActive(),
			Minimized: t.IsMinimized(),
			Maximized: t.Maximized(),
			Rect:      snapshotRect(r),
		})
		return true
	})
	return out
}

func snapshotRect(r tiling.Rect) Rect {
	p := toPlatform(r)
	return Rect{X: p.X, Y: p.Y, Width: p.Width, Height: p.Height}
}
