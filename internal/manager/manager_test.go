package manager

import (
	"testing"
	"time"

	"github.com/1broseidon/shapetile/internal/config"
	"github.com/1broseidon/shapetile/internal/platform"
	"github.com/1broseidon/shapetile/internal/tiling"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoWindows returns a backend with windows 1 and 2, window 1 focused.
func twoWindows() *fakeBackend {
	b := newFakeBackend()
	b.addWindow(1, "one", rect(10, 10, 300, 200))
	b.addWindow(2, "two", rect(50, 50, 300, 200))
	b.active = 1
	return b
}

func TestStartTilesExistingWindows(t *testing.T) {
	b := twoWindows()
	newHarness(t, b, nil)

	assert.Equal(t, rect(0, 0, 500, 800), b.rect(1))
	assert.Equal(t, rect(500, 0, 500, 800), b.rect(2))
}

func TestStartWithoutAutoTileLeavesWindowsAlone(t *testing.T) {
	b := twoWindows()
	cfg := config.DefaultConfig()
	cfg.AutoTile = false
	newHarness(t, b, cfg)

	assert.Zero(t, b.moveCount())
	assert.Equal(t, rect(10, 10, 300, 200), b.rect(1))
}

func TestStoredPreferenceWinsOverAutoTile(t *testing.T) {
	b := twoWindows()
	b.windows[2].pref, b.windows[2].prefSet = false, true
	newHarness(t, b, nil)

	assert.Equal(t, rect(0, 0, 1000, 800), b.rect(1))
	assert.Equal(t, rect(50, 50, 300, 200), b.rect(2))
}

func TestNewManagerRequiresBackendAndConfig(t *testing.T) {
	_, err := New(Options{Config: config.DefaultConfig()})
	assert.Error(t, err)
	_, err = New(Options{Backend: newFakeBackend()})
	assert.Error(t, err)

	bad := config.DefaultConfig()
	bad.DefaultLayout = "spiral"
	_, err = New(Options{Backend: newFakeBackend(), Config: bad})
	assert.Error(t, err)
}

func TestWindowCreatedInsertsAfterActive(t *testing.T) {
	b := twoWindows()
	h := newHarness(t, b, nil)

	b.addWindow(3, "three", rect(0, 0, 100, 100))
	h.m.WindowCreated(3)

	assert.Equal(t, rect(0, 0, 500, 800), b.rect(1))
	assert.Equal(t, rect(500, 0, 500, 400), b.rect(3))
	assert.Equal(t, rect(500, 400, 500, 400), b.rect(2))
}

func TestWindowCreatedIgnoresUnmanageable(t *testing.T) {
	b := twoWindows()
	h := newHarness(t, b, nil)

	dialog := b.addWindow(3, "dialog", rect(100, 100, 200, 100))
	dialog.unmanageable = true
	h.m.WindowCreated(3)

	assert.Equal(t, rect(100, 100, 200, 100), b.rect(3))
	assert.Len(t, h.m.Snapshot().Workspaces[0].Tiles, 2)
}

func TestWindowDestroyedRelayouts(t *testing.T) {
	b := twoWindows()
	h := newHarness(t, b, nil)

	b.removeWindow(2)
	h.m.WindowDestroyed(2)

	assert.Equal(t, rect(0, 0, 1000, 800), b.rect(1))
	assert.Len(t, h.m.Snapshot().Workspaces[0].Tiles, 1)
}

func TestEchoOfOwnMoveIsIgnored(t *testing.T) {
	b := twoWindows()
	h := newHarness(t, b, nil)
	moves := b.moveCount()

	// A terminal snapping to its character grid right after our move.
	b.setGeometry(1, rect(0, 0, 494, 796))
	h.m.WindowConfigured(1, false)
	assert.Equal(t, moves, b.moveCount())
	assert.Zero(t, h.sched.runAll())

	h.advance(5 * time.Second)
	h.m.WindowConfigured(1, false)
	require.Equal(t, 1, h.sched.runAll())
	assert.Equal(t, rect(0, 0, 500, 800), b.rect(1))
}

func TestUserResizeMovesMainSplit(t *testing.T) {
	b := twoWindows()
	h := newHarness(t, b, nil)

	b.setGeometry(1, rect(0, 0, 600, 800))
	h.m.WindowConfigured(1, true)

	assert.Equal(t, rect(0, 0, 600, 800), b.rect(1))
	assert.Equal(t, rect(600, 0, 400, 800), b.rect(2))
	ws, ok := h.m.Snapshot().Current()
	require.True(t, ok)
	assert.InDelta(t, 0.6, ws.MainRatio, 1e-9)
}

func TestUserDragSwapsTiles(t *testing.T) {
	b := twoWindows()
	h := newHarness(t, b, nil)

	b.setGeometry(1, rect(400, 100, 500, 800))
	b.pointer = [2]int{750, 400}
	h.m.WindowConfigured(1, true)

	assert.Equal(t, rect(500, 0, 500, 800), b.rect(1))
	assert.Equal(t, rect(0, 0, 500, 800), b.rect(2))
}

func TestFloatingWindowMoveUpdatesDesiredRect(t *testing.T) {
	b := twoWindows()
	b.windows[2].pref, b.windows[2].prefSet = false, true
	h := newHarness(t, b, nil)

	b.setGeometry(2, rect(70, 80, 300, 200))
	h.advance(5 * time.Second)
	h.m.WindowConfigured(2, false)

	ws, _ := h.m.Snapshot().Current()
	require.Len(t, ws.Tiles, 2)
	assert.Equal(t, Rect{X: 70, Y: 80, Width: 300, Height: 200}, ws.Tiles[1].Rect)
	assert.False(t, ws.Tiles[1].Managed)
}

func TestEveryActionHasHandler(t *testing.T) {
	h := newHarness(t, newFakeBackend(), nil)
	for _, action := range config.Actions {
		assert.Contains(t, h.m.actions, action)
	}
	assert.Len(t, h.m.actions, len(config.Actions))
}

func TestRunUnknownAction(t *testing.T) {
	h := newHarness(t, newFakeBackend(), nil)
	err := h.m.Run("explode")
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestRunOnEmptyDesktop(t *testing.T) {
	h := newHarness(t, newFakeBackend(), nil)
	for _, action := range config.Actions {
		assert.NoError(t, h.m.Run(action), action)
	}
}

func TestRunMainSplitAndCounts(t *testing.T) {
	b := twoWindows()
	h := newHarness(t, b, nil)

	require.NoError(t, h.m.Run(config.ActionIncreaseMainSplit))
	assert.Equal(t, rect(0, 0, 550, 800), b.rect(1))

	require.NoError(t, h.m.Run(config.ActionIncreaseMainWindowCount))
	assert.Equal(t, rect(0, 0, 1000, 400), b.rect(1))
	assert.Equal(t, rect(0, 400, 1000, 400), b.rect(2))

	ws, _ := h.m.Snapshot().Current()
	assert.Equal(t, 2, ws.MainWindowCount)
	assert.Equal(t, 2, ws.PartitionCount)
}

func TestRunSwapAndFocus(t *testing.T) {
	b := twoWindows()
	h := newHarness(t, b, nil)

	require.NoError(t, h.m.Run(config.ActionSwapNextWindow))
	assert.Equal(t, rect(500, 0, 500, 800), b.rect(1))
	assert.Equal(t, rect(0, 0, 500, 800), b.rect(2))

	require.NoError(t, h.m.Run(config.ActionActivateMainWindow))
	assert.Equal(t, platform.WindowID(2), b.active)

	require.NoError(t, h.m.Run(config.ActionNextWindow))
	assert.Equal(t, platform.WindowID(1), b.active)
}

func TestRunToggleTile(t *testing.T) {
	b := twoWindows()
	h := newHarness(t, b, nil)

	require.NoError(t, h.m.Run(config.ActionToggleTile))
	assert.True(t, b.windows[1].prefSet)
	assert.False(t, b.windows[1].pref)
	assert.Equal(t, rect(0, 0, 1000, 800), b.rect(2))

	require.NoError(t, h.m.Run(config.ActionToggleTile))
	assert.True(t, b.windows[1].pref)
	assert.Equal(t, rect(0, 0, 500, 800), b.rect(1))
	assert.Equal(t, rect(500, 0, 500, 800), b.rect(2))
}

func TestMinimizeThenUnminimize(t *testing.T) {
	b := twoWindows()
	h := newHarness(t, b, nil)

	require.NoError(t, h.m.Run(config.ActionMinimizeWindow))
	assert.True(t, b.windows[1].minimized)
	h.m.WindowStateChanged(1)
	assert.Equal(t, rect(0, 0, 1000, 800), b.rect(2))

	b.active = 2
	require.NoError(t, h.m.Run(config.ActionUnminimizeLastWindow))
	assert.False(t, b.windows[1].minimized)
	assert.Equal(t, platform.WindowID(1), b.active)
}

func TestUnminimizeRestoresLatestDespiteRelayoutBeforeStateEvent(t *testing.T) {
	b := twoWindows()
	b.addWindow(3, "three", rect(90, 90, 300, 200))
	h := newHarness(t, b, nil)

	require.NoError(t, b.Minimize(1))
	h.m.WindowStateChanged(1)

	// The relayout for window 4 sees window 2 minimized before its state
	// event arrives.
	require.NoError(t, b.Minimize(2))
	b.addWindow(4, "four", rect(0, 0, 100, 100))
	h.m.WindowCreated(4)
	h.m.WindowStateChanged(2)

	require.NoError(t, h.m.Run(config.ActionUnminimizeLastWindow))
	assert.False(t, b.windows[2].minimized)
	assert.True(t, b.windows[1].minimized)

	require.NoError(t, h.m.Run(config.ActionUnminimizeLastWindow))
	assert.False(t, b.windows[1].minimized)
}

func TestSetLayoutKeepsSplitRatio(t *testing.T) {
	b := twoWindows()
	h := newHarness(t, b, nil)

	require.NoError(t, h.m.Run(config.ActionIncreaseMainSplit))
	require.NoError(t, h.m.SetLayout(tiling.LayoutFloating))
	assert.Equal(t, tiling.LayoutFloating, h.m.CurrentLayout())

	moves := b.moveCount()
	require.NoError(t, h.m.Run(config.ActionRelayout))
	assert.Equal(t, moves, b.moveCount(), "floating layout must not move windows")

	require.NoError(t, h.m.SetLayout(tiling.LayoutVertical))
	assert.Equal(t, rect(0, 0, 550, 800), b.rect(1))
	ws, _ := h.m.Snapshot().Current()
	assert.InDelta(t, 0.55, ws.MainRatio, 1e-9)
}

func TestSetLayoutHorizontalAndFullScreen(t *testing.T) {
	b := twoWindows()
	h := newHarness(t, b, nil)

	require.NoError(t, h.m.Run(config.ActionLayoutHorizontal))
	assert.Equal(t, rect(0, 0, 1000, 400), b.rect(1))
	assert.Equal(t, rect(0, 400, 1000, 400), b.rect(2))

	require.NoError(t, h.m.Run(config.ActionLayoutFullScreen))
	assert.Equal(t, rect(0, 0, 1000, 800), b.rect(1))
	assert.Equal(t, rect(0, 0, 1000, 800), b.rect(2))
}

func TestSetLayoutRejectsUnknown(t *testing.T) {
	h := newHarness(t, twoWindows(), nil)
	assert.Error(t, h.m.SetLayout("spiral"))
	assert.Equal(t, tiling.LayoutVertical, h.m.CurrentLayout())
}

func TestWorkspaceLayoutsPerDesktop(t *testing.T) {
	b := twoWindows()
	cfg := config.DefaultConfig()
	cfg.WorkspaceLayouts = map[int]string{1: tiling.LayoutFullScreen}
	h := newHarness(t, b, cfg)

	b.desktop = 1
	b.addWindow(3, "three", rect(0, 0, 100, 100))
	h.m.DesktopChanged(1)

	assert.Equal(t, tiling.LayoutFullScreen, h.m.CurrentLayout())
	assert.Equal(t, rect(0, 0, 1000, 800), b.rect(3))

	snap := h.m.Snapshot()
	require.Len(t, snap.Workspaces, 2)
	assert.Equal(t, 1, snap.CurrentDesktop)
	assert.Equal(t, tiling.LayoutVertical, snap.Workspaces[0].Layout)
}

func TestWindowMovedToOtherDesktop(t *testing.T) {
	b := twoWindows()
	h := newHarness(t, b, nil)

	b.windows[2].info.Desktop = 1
	h.m.WindowStateChanged(2)

	assert.Equal(t, rect(0, 0, 1000, 800), b.rect(1))
	snap := h.m.Snapshot()
	require.Len(t, snap.Workspaces, 2)
	assert.Len(t, snap.Workspaces[0].Tiles, 1)
	require.Len(t, snap.Workspaces[1].Tiles, 1)
	assert.Equal(t, uint32(2), snap.Workspaces[1].Tiles[0].ID)
}

func TestReconcileDropsVanishedAndAdoptsMissed(t *testing.T) {
	b := twoWindows()
	h := newHarness(t, b, nil)

	b.removeWindow(2)
	b.addWindow(3, "three", rect(0, 0, 100, 100))
	require.NoError(t, h.m.Reconcile())

	ws, _ := h.m.Snapshot().Current()
	require.Len(t, ws.Tiles, 2)
	assert.Equal(t, uint32(1), ws.Tiles[0].ID)
	assert.Equal(t, uint32(3), ws.Tiles[1].ID)
	assert.Equal(t, rect(500, 0, 500, 800), b.rect(3))
}

func TestApplyConfigPadding(t *testing.T) {
	b := twoWindows()
	h := newHarness(t, b, nil)

	cfg := config.DefaultConfig()
	cfg.Padding = 10
	require.NoError(t, h.m.ApplyConfig(cfg))

	assert.Equal(t, rect(0, 0, 490, 800), b.rect(1))
	assert.Equal(t, rect(510, 0, 490, 800), b.rect(2))
}

func TestApplyConfigRejectsInvalid(t *testing.T) {
	h := newHarness(t, twoWindows(), nil)
	cfg := config.DefaultConfig()
	cfg.PartitionCount = 0
	assert.Error(t, h.m.ApplyConfig(cfg))
}

func TestScreenPaddingShrinksBounds(t *testing.T) {
	b := twoWindows()
	cfg := config.DefaultConfig()
	cfg.ScreenPadding.Top = 30
	newHarness(t, b, cfg)

	assert.Equal(t, rect(0, 30, 500, 770), b.rect(1))
}

func TestScreenChangedRelayouts(t *testing.T) {
	b := twoWindows()
	h := newHarness(t, b, nil)

	b.screen = rect(0, 0, 2000, 1000)
	h.m.ScreenChanged()

	assert.Equal(t, rect(0, 0, 1000, 1000), b.rect(1))
	assert.Equal(t, rect(1000, 0, 1000, 1000), b.rect(2))
}

func TestRestoreOriginalPositions(t *testing.T) {
	b := twoWindows()
	h := newHarness(t, b, nil)

	h.m.RestoreOriginalPositions()
	assert.Equal(t, rect(10, 10, 300, 200), b.rect(1))
	assert.Equal(t, rect(50, 50, 300, 200), b.rect(2))
}
