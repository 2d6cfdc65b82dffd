package preview

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// Table lists each window's geometry in pixels.
func Table(windows []Window) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(frameStyle).
		Headers("#", "X", "Y", "WIDTH", "HEIGHT", "TILED").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, w := range windows {
		tiled := "no"
		if w.Managed {
			tiled = "yes"
		}
		t.Row(
			strconv.Itoa(w.Index),
			px(w.Rect.Pos.X), px(w.Rect.Pos.Y),
			px(w.Rect.Size.X), px(w.Rect.Size.Y),
			tiled,
		)
	}
	return t.String()
}

// Summary is a one-line description of the tiled window sizes.
func Summary(windows []Window) string {
	var tiled []Window
	for _, w := range windows {
		if w.Managed {
			tiled = append(tiled, w)
		}
	}
	if len(tiled) == 0 {
		return fmt.Sprintf("%d windows, none tiled", len(windows))
	}

	minW, minH := tiled[0].Rect.Size.X, tiled[0].Rect.Size.Y
	maxW, maxH := minW, minH
	for _, w := range tiled[1:] {
		minW, maxW = min(minW, w.Rect.Size.X), max(maxW, w.Rect.Size.X)
		minH, maxH = min(minH, w.Rect.Size.Y), max(maxH, w.Rect.Size.Y)
	}
	if minW == maxW && minH == maxH {
		return fmt.Sprintf("%d tiles • %s×%s px each", len(tiled), px(minW), px(minH))
	}
	return fmt.Sprintf("%d tiles • min %s×%s • max %s×%s", len(tiled), px(minW), px(minH), px(maxW), px(maxH))
}

func px(v float64) string { return strconv.Itoa(int(v)) }
