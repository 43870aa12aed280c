package render

type drawableEntry struct {
	drawable Drawable
	zIndex   int
	index    int // registration order for stable sort
}

// Compositor draws registered layers bottom to top by z-index
type Compositor struct {
	entries  []drawableEntry
	regCount int
}

// NewCompositor creates an empty compositor
func NewCompositor() *Compositor {
	return &Compositor{entries: make([]drawableEntry, 0, 4)}
}

// Register adds a drawable at the specified z-index. Maintains sorted order via insertion sort
func (o *Compositor) Register(d Drawable, zIndex int) {
	entry := drawableEntry{
		drawable: d,
		zIndex:   zIndex,
		index:    o.regCount,
	}
	o.regCount++

	pos := len(o.entries)
	for i, e := range o.entries {
		if zIndex < e.zIndex {
			pos = i
			break
		}
	}

	o.entries = append(o.entries, drawableEntry{})
	copy(o.entries[pos+1:], o.entries[pos:])
	o.entries[pos] = entry
}

// Unregister removes d, returns false if it was not registered
func (o *Compositor) Unregister(d Drawable) bool {
	for i, e := range o.entries {
		if e.drawable == d {
			o.entries = append(o.entries[:i], o.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of registered drawables
func (o *Compositor) Len() int {
	return len(o.entries)
}

// Compose clears the canvas and draws every visible layer in z order
func (o *Compositor) Compose(canvas *Canvas) {
	canvas.Clear()
	for _, e := range o.entries {
		if vt, ok := e.drawable.(VisibilityToggle); ok && !vt.IsVisible() {
			continue
		}
		e.drawable.Draw(canvas)
	}
}
