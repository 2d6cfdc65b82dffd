package preview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	frameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	palette    = []lipgloss.Color{"39", "208", "42", "170", "220", "81", "203", "147"}
)

type canvas struct {
	cells  [][]rune
	owner  [][]int
	cols   int
	rows   int
	width  int
	height int
}

func newCanvas(width, height, cols, rows int) *canvas {
	c := &canvas{cols: cols, rows: rows, width: width, height: height}
	c.cells = make([][]rune, rows)
	c.owner = make([][]int, rows)
	for y := range c.cells {
		c.cells[y] = []rune(strings.Repeat(" ", cols))
		c.owner[y] = make([]int, cols)
	}
	return c
}

func (c *canvas) set(x, y int, r rune, owner int) {
	if x < 0 || y < 0 || x >= c.cols || y >= c.rows {
		return
	}
	c.cells[y][x] = r
	c.owner[y][x] = owner
}

// draw maps w from screen pixels onto the grid, inside the frame.
func (c *canvas) draw(w Window) {
	x1 := int(w.Rect.Pos.X) * c.cols / c.width
	y1 := int(w.Rect.Pos.Y) * c.rows / c.height
	x2 := int(w.Rect.Pos.X+w.Rect.Size.X) * c.cols / c.width
	y2 := int(w.Rect.Pos.Y+w.Rect.Size.Y) * c.rows / c.height

	x1 = max(x1, 1)
	y1 = max(y1, 1)
	x2 = min(x2, c.cols-2)
	y2 = min(y2, c.rows-2)

	// Need at least 2x2 for a tile
	if x2 <= x1 || y2 <= y1 {
		return
	}

	h, v := '─', '│'
	if !w.Managed {
		h, v = '╌', '╎'
	}
	for x := x1; x <= x2; x++ {
		c.set(x, y1, h, w.Index)
		c.set(x, y2, h, w.Index)
	}
	for y := y1; y <= y2; y++ {
		c.set(x1, y, v, w.Index)
		c.set(x2, y, v, w.Index)
	}
	c.set(x1, y1, '┌', w.Index)
	c.set(x2, y1, '┐', w.Index)
	c.set(x1, y2, '└', w.Index)
	c.set(x2, y2, '┘', w.Index)

	// clear the interior so overlapping floating windows stack
	for y := y1 + 1; y < y2; y++ {
		for x := x1 + 1; x < x2; x++ {
			c.set(x, y, ' ', w.Index)
		}
	}

	centerY := (y1 + y2) / 2
	centerX := (x1 + x2) / 2
	if centerY > y1 && centerY < y2 {
		label := fmt.Sprintf("%d", w.Index)
		startX := centerX - len(label)/2
		for i, r := range label {
			if startX+i > x1 && startX+i < x2 {
				c.set(startX+i, centerY, r, w.Index)
			}
		}
	}
}

func (c *canvas) frame() {
	for x := 0; x < c.cols; x++ {
		c.set(x, 0, '═', 0)
		c.set(x, c.rows-1, '═', 0)
	}
	for y := 0; y < c.rows; y++ {
		c.set(0, y, '║', 0)
		c.set(c.cols-1, y, '║', 0)
	}
	c.set(0, 0, '╔', 0)
	c.set(c.cols-1, 0, '╗', 0)
	c.set(0, c.rows-1, '╚', 0)
	c.set(c.cols-1, c.rows-1, '╝', 0)
}

func build(windows []Window, width, height, cols, rows int) *canvas {
	c := newCanvas(width, height, cols, rows)
	if cols < 5 || rows < 3 || width <= 0 || height <= 0 {
		return c
	}
	for _, w := range windows {
		c.draw(w)
	}
	c.frame()
	return c
}

// Lines draws windows laid out on a width x height screen onto a cols x
// rows character grid. Tiled windows get solid borders, floating ones
// dashed, each labelled with its index.
func Lines(windows []Window, width, height, cols, rows int) []string {
	c := build(windows, width, height, cols, rows)
	lines := make([]string, rows)
	for y, row := range c.cells {
		lines[y] = string(row)
	}
	return lines
}

// Render is Lines with each window drawn in its own color.
func Render(windows []Window, width, height, cols, rows int) string {
	c := build(windows, width, height, cols, rows)
	var b strings.Builder
	for y, row := range c.cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && c.owner[y][x] == c.owner[y][start] {
				continue
			}
			b.WriteString(styleFor(c.owner[y][start]).Render(string(row[start:x])))
			start = x
		}
	}
	return b.String()
}

func styleFor(owner int) lipgloss.Style {
	if owner == 0 {
		return frameStyle
	}
	return lipgloss.NewStyle().Foreground(palette[(owner-1)%len(palette)])
}
