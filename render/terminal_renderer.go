package render

import (
	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Screen presents canvases on a tcell screen
type Screen struct {
	screen tcell.Screen
}

// NewScreen wraps an initialized tcell screen
func NewScreen(screen tcell.Screen) *Screen {
	return &Screen{screen: screen}
}

// Size returns the terminal dimensions
func (s *Screen) Size() (int, int) {
	return s.screen.Size()
}

// Present copies the canvas to the terminal and shows it
func (s *Screen) Present(canvas *Canvas) {
	w, h := canvas.Size()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cell := canvas.cells[y*w+x]
			if cell.wide {
				continue
			}
			r := cell.Rune
			if r == 0 {
				r = ' '
			}
			style := tcell.StyleDefault.
				Foreground(toTcell(cell.Fg)).
				Background(toTcell(cell.Bg)).
				Attributes(cell.Attrs)
			s.screen.SetContent(x, y, r, nil, style)
		}
	}
	s.screen.Show()
}

// Sync forces a full redraw after a resize
func (s *Screen) Sync() {
	s.screen.Sync()
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
