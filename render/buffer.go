package render

import (
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"
)

// Canvas is the cell grid layers draw into each frame
type Canvas struct {
	cells  []Cell
	width  int
	height int
}

// NewCanvas creates a canvas with the specified dimensions
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{}
	c.Resize(width, height)
	return c
}

// Resize adjusts canvas dimensions, reallocates only if capacity insufficient
func (c *Canvas) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	size := width * height
	if cap(c.cells) < size {
		c.cells = make([]Cell, size)
	} else {
		c.cells = c.cells[:size]
	}
	c.width = width
	c.height = height
	c.Clear()
}

// Clear resets all cells to empty background using exponential copy
func (c *Canvas) Clear() {
	if len(c.cells) == 0 {
		return
	}
	c.cells[0] = Cell{Fg: RgbBackground, Bg: RgbBackground}
	for filled := 1; filled < len(c.cells); filled *= 2 {
		copy(c.cells[filled:], c.cells[:filled])
	}
}

// Size returns the canvas dimensions
func (c *Canvas) Size() (width, height int) {
	return c.width, c.height
}

// Cell returns the cell at x,y, out of bounds returns the zero cell
func (c *Canvas) Cell(x, y int) Cell {
	if !c.inBounds(x, y) {
		return Cell{}
	}
	return c.cells[y*c.width+x]
}

func (c *Canvas) inBounds(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}

// Set writes rune, foreground and attrs while preserving the background
func (c *Canvas) Set(x, y int, r rune, fg colorful.Color, attrs Attr) {
	if !c.inBounds(x, y) {
		return
	}
	dst := &c.cells[y*c.width+x]
	dst.Rune = r
	dst.Fg = fg
	dst.Attrs = attrs
	dst.wide = false
}

// SetBg updates the background color while preserving rune and foreground
func (c *Canvas) SetBg(x, y int, bg colorful.Color) {
	if !c.inBounds(x, y) {
		return
	}
	c.cells[y*c.width+x].Bg = bg
}

// DrawText writes s starting at x,y, clipping at the canvas edges
// Returns the display width consumed
func (c *Canvas) DrawText(x, y int, s string, fg colorful.Color, attrs Attr) int {
	col := x
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		c.Set(col, y, r, fg, attrs)
		if w == 2 && c.inBounds(col, y) && c.inBounds(col+1, y) {
			cont := &c.cells[y*c.width+col+1]
			cont.Rune = 0
			cont.wide = true
		}
		col += w
	}
	return col - x
}

// TextWidth returns the display width of s in cells
func TextWidth(s string) int {
	return runewidth.StringWidth(s)
}
