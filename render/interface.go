package render

// Drawable is implemented by every background layer with visual output
type Drawable interface {
	Draw(canvas *Canvas)
}

// VisibilityToggle is optionally implemented for runtime enable/disable
type VisibilityToggle interface {
	IsVisible() bool
}
