package preview

import (
	"strings"
	"testing"

	"github.com/1broseidon/shapetile/internal/config"
	"github.com/1broseidon/shapetile/internal/tiling"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulateVerticalSplitsScreen(t *testing.T) {
	wins, area, err := Simulate(Params{Layout: tiling.LayoutVertical, Windows: 3, Width: 1000, Height: 800})
	require.NoError(t, err)
	assert.Equal(t, tiling.R(0, 0, 1000, 800), area)
	require.Len(t, wins, 3)

	assert.Equal(t, tiling.R(0, 0, 500, 800), wins[0].Rect)
	assert.Equal(t, tiling.R(500, 0, 500, 400), wins[1].Rect)
	assert.Equal(t, tiling.R(500, 400, 500, 400), wins[2].Rect)
	for i, w := range wins {
		assert.Equal(t, i+1, w.Index)
		assert.True(t, w.Managed)
	}
}

func TestSimulateHonoursRatioAndScreenPadding(t *testing.T) {
	wins, area, err := Simulate(Params{
		Layout:        tiling.LayoutVertical,
		Windows:       2,
		Width:         1000,
		Height:        800,
		ScreenPadding: config.Margins{Top: 30},
		MainRatio:     0.7,
	})
	require.NoError(t, err)
	assert.Equal(t, tiling.R(0, 30, 1000, 770), area)
	assert.Equal(t, tiling.R(0, 30, 700, 770), wins[0].Rect)
	assert.Equal(t, tiling.R(700, 30, 300, 770), wins[1].Rect)
}

func TestSimulateFloatingLeavesWindowsAlone(t *testing.T) {
	wins, _, err := Simulate(Params{Layout: tiling.LayoutFloating, Windows: 2, Width: 1000, Height: 800})
	require.NoError(t, err)
	require.Len(t, wins, 2)
	assert.False(t, wins[0].Managed)
	assert.Equal(t, tiling.R(0, 0, 400, 320), wins[0].Rect)
	assert.Equal(t, tiling.R(30, 30, 400, 320), wins[1].Rect)
	assert.Equal(t, "2 windows, none tiled", Summary(wins))
}

func TestSimulateErrors(t *testing.T) {
	_, _, err := Simulate(Params{Layout: "spiral", Windows: 1, Width: 10, Height: 10})
	assert.Error(t, err)

	_, _, err = Simulate(Params{Layout: tiling.LayoutVertical, Windows: 1})
	assert.Error(t, err)

	_, _, err = Simulate(Params{Layout: tiling.LayoutVertical, Windows: 1, Width: 100, Height: 100,
		ScreenPadding: config.Margins{Left: 60, Right: 60}})
	assert.ErrorContains(t, err, "screen_padding")
}

func TestFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.WorkspaceLayouts[2] = tiling.LayoutHorizontal
	cfg.Padding = 8

	p := FromConfig(cfg, 2, 4, 1920, 1080)
	assert.Equal(t, tiling.LayoutHorizontal, p.Layout)
	assert.Equal(t, 8, p.Padding)
	assert.Equal(t, 4, p.Windows)
	assert.Equal(t, tiling.LayoutVertical, FromConfig(cfg, 0, 1, 10, 10).Layout)
}

func TestLinesLabelsEveryWindow(t *testing.T) {
	wins, _, err := Simulate(Params{Layout: tiling.LayoutVertical, Windows: 3, Width: 1000, Height: 800})
	require.NoError(t, err)

	lines := Lines(wins, 1000, 800, 40, 16)
	require.Len(t, lines, 16)
	for _, l := range lines {
		assert.Equal(t, 40, len([]rune(l)))
	}
	assert.True(t, strings.HasPrefix(lines[0], "╔"))
	assert.True(t, strings.HasSuffix(lines[15], "╝"))

	joined := strings.Join(lines, "\n")
	for _, label := range []string{"1", "2", "3"} {
		assert.Contains(t, joined, label)
	}
	assert.NotContains(t, joined, "╌", "tiled windows use solid borders")
}

func TestLinesTooSmallIsBlank(t *testing.T) {
	lines := Lines(nil, 1000, 800, 4, 2)
	assert.Equal(t, []string{"    ", "    "}, lines)
}

func TestRenderKeepsText(t *testing.T) {
	wins, _, err := Simulate(Params{Layout: tiling.LayoutHorizontal, Windows: 2, Width: 1000, Height: 800})
	require.NoError(t, err)

	out := Render(wins, 1000, 800, 30, 10)
	assert.Len(t, strings.Split(out, "\n"), 10)
	assert.Contains(t, out, "1")
	assert.Contains(t, out, "2")
}

func TestTableAndSummary(t *testing.T) {
	wins, _, err := Simulate(Params{Layout: tiling.LayoutVertical, Windows: 2, Width: 1000, Height: 800})
	require.NoError(t, err)

	out := Table(wins)
	assert.Contains(t, out, "WIDTH")
	assert.Contains(t, out, "500")
	assert.Contains(t, out, "yes")
	assert.Equal(t, "2 tiles • 500×800 px each", Summary(wins))
}

func TestSimulateAppliesZeroMainWindowCount(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.MainWindowCount = 0
	cfg.PartitionCount = 3
	p := FromConfig(cfg, 0, 4, 1200, 800)
	p.Layout = tiling.LayoutVertical

	wins, _, err := Simulate(p)
	require.NoError(t, err)
	require.Len(t, wins, 4)

	// Partitions of 1, 1 and 2 windows.
	assert.NotEqual(t, wins[0].Rect.Pos.X, wins[1].Rect.Pos.X)
	assert.NotEqual(t, wins[1].Rect.Pos.X, wins[2].Rect.Pos.X)
	assert.Equal(t, wins[2].Rect.Pos.X, wins[3].Rect.Pos.X)
}
