package component

// ShapeKind selects the outline drawn by the geometric layer
type ShapeKind uint8

const (
	ShapeBox ShapeKind = iota
	ShapeLine
	ShapeRing
)

// ShapeComponent is a static decorative outline
type ShapeComponent struct {
	Kind       ShapeKind
	X, Y, W, H int
	Opacity    float64
}
