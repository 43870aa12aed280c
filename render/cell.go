package render

import (
	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Attr is the tcell attribute mask carried per cell
type Attr = tcell.AttrMask

// Cell is one composited terminal cell
// Rune 0 means empty, wide runes leave a zero-rune continuation cell to their right
type Cell struct {
	Rune  rune
	Fg    colorful.Color
	Bg    colorful.Color
	Attrs Attr
	wide  bool // continuation of the rune to the left
}
