package render

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is the linear RGB color type used across the render pipeline
type Color = colorful.Color

// Palette colors, all layers fade toward RgbBackground as opacity drops
var (
	RgbBackground = colorful.Color{R: 0.039, G: 0.047, B: 0.063} // Near-black slate
	RgbToken      = colorful.Color{R: 0.0, G: 1.0, B: 0.255}     // Matrix green
	RgbTokenGlow  = colorful.Color{R: 0.85, G: 1.0, B: 0.9}      // Glitch glow background tint
	RgbQuote      = colorful.Color{R: 0.78, G: 0.86, B: 1.0}     // Pale blue narrative text
	RgbShape      = colorful.Color{R: 0.45, G: 0.35, B: 0.9}     // Violet outlines
)

// Fade blends c over the background at the given opacity
func Fade(c colorful.Color, opacity float64) colorful.Color {
	return RgbBackground.BlendRgb(c, clampUnit(opacity)).Clamped()
}

// GlitchColor returns the saturated color for a glitch hue in degrees
func GlitchColor(hue float64) colorful.Color {
	return colorful.Hsv(hue, 0.85, 1.0).Clamped()
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
