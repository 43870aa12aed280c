package component

import (
	"time"

	"github.com/promptforge/backdrop/content"
)

// TokenComponent is one animated glyph of the matrix layer
// Template is shared by reference with every token cycled from it
type TokenComponent struct {
	ID       int
	Template *content.TokenTemplate

	X, Y    float64
	Opacity float64
	Scale   float64

	// BiasX and BiasY skew the drift direction, fixed at creation
	BiasX, BiasY float64

	Glitch bool
	Hue    float64 // degrees, only meaningful while Glitch is set

	LastUpdate time.Time
}
