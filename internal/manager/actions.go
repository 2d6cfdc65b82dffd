package manager

import (
	"github.com/1broseidon/shapetile/internal/config"
	"github.com/1broseidon/shapetile/internal/tiling"
)

// actionTable maps every config action to its handler. Increments are read
// from the config at call time so reloads apply immediately.
func (m *Manager) actionTable() map[string]func(*Workspace) error {
	simple := func(f func(l tiling.Layout)) func(*Workspace) error {
		return func(ws *Workspace) error {
			f(ws.Layout)
			return nil
		}
	}
	withActive := func(f func(l tiling.Layout, t *tiling.Tile)) func(*Workspace) error {
		return simple(func(l tiling.Layout) {
			l.ActiveTile(func(t *tiling.Tile, _ int) { f(l, t) })
		})
	}
	scale := func(sign float64, axis tiling.Axis) func(*Workspace) error {
		return simple(func(l tiling.Layout) {
			l.ScaleCurrentWindow(sign*m.cfg.ScaleIncrement, axis)
		})
	}
	layout := func(name string) func(*Workspace) error {
		return func(ws *Workspace) error { return m.setLayout(ws, name) }
	}

	return map[string]func(*Workspace) error{
		config.ActionTileWindow:   withActive(func(l tiling.Layout, t *tiling.Tile) { l.Tile(t) }),
		config.ActionUntileWindow: withActive(func(l tiling.Layout, t *tiling.Tile) { l.Untile(t) }),
		config.ActionToggleTile:   withActive(toggleTile),

		config.ActionNextWindow:     simple(func(l tiling.Layout) { l.SelectCycle(1) }),
		config.ActionPrevWindow:     simple(func(l tiling.Layout) { l.SelectCycle(-1) }),
		config.ActionSwapNextWindow: simple(func(l tiling.Layout) { l.Cycle(1) }),
		config.ActionSwapPrevWindow: simple(func(l tiling.Layout) { l.Cycle(-1) }),

		config.ActionIncreaseMainWindowCount: simple(func(l tiling.Layout) { l.AddMainWindowCount(1) }),
		config.ActionDecreaseMainWindowCount: simple(func(l tiling.Layout) { l.AddMainWindowCount(-1) }),
		config.ActionIncreasePartitionCount:  simple(func(l tiling.Layout) { l.AddPartitionCount(1) }),
		config.ActionDecreasePartitionCount:  simple(func(l tiling.Layout) { l.AddPartitionCount(-1) }),

		config.ActionIncreaseMainSplit: simple(func(l tiling.Layout) { l.AdjustMainWindowArea(m.cfg.ResizeIncrement) }),
		config.ActionDecreaseMainSplit: simple(func(l tiling.Layout) { l.AdjustMainWindowArea(-m.cfg.ResizeIncrement) }),
		config.ActionIncreaseSize:      simple(func(l tiling.Layout) { l.AdjustCurrentWindowSize(m.cfg.WindowResizeIncrement) }),
		config.ActionDecreaseSize:      simple(func(l tiling.Layout) { l.AdjustCurrentWindowSize(-m.cfg.WindowResizeIncrement) }),

		config.ActionScaleUp:    scale(1, ""),
		config.ActionScaleDown:  scale(-1, ""),
		config.ActionScaleUpX:   scale(1, tiling.AxisX),
		config.ActionScaleDownX: scale(-1, tiling.AxisX),
		config.ActionScaleUpY:   scale(1, tiling.AxisY),
		config.ActionScaleDownY: scale(-1, tiling.AxisY),

		config.ActionToggleMaximize:       simple(func(l tiling.Layout) { l.ToggleMaximize() }),
		config.ActionMinimizeWindow:       simple(func(l tiling.Layout) { l.MinimizeWindow() }),
		config.ActionUnminimizeLastWindow: simple(func(l tiling.Layout) { l.UnminimizeLastWindow() }),
		config.ActionActivateMainWindow:   simple(func(l tiling.Layout) { l.ActivateMainWindow() }),
		config.ActionSwapWithMain:         simple(func(l tiling.Layout) { l.SwapActiveWithMain() }),

		config.ActionLayoutFloating:   layout(tiling.LayoutFloating),
		config.ActionLayoutVertical:   layout(tiling.LayoutVertical),
		config.ActionLayoutHorizontal: layout(tiling.LayoutHorizontal),
		config.ActionLayoutFullScreen: layout(tiling.LayoutFullScreen),

		config.ActionRestorePositions: simple(func(l tiling.Layout) { l.RestoreOriginalPositions() }),
		config.ActionRelayout:         simple(func(l tiling.Layout) { l.Layout() }),
	}
}

func toggleTile(l tiling.Layout, t *tiling.Tile) {
	if t.Managed() {
		l.Untile(t)
		return
	}
	l.Tile(t)
}
