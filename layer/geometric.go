package layer

import (
	"math"
	"slices"
	"sync"

	"github.com/promptforge/backdrop/component"
	"github.com/promptforge/backdrop/engine"
	"github.com/promptforge/backdrop/parameter"
	"github.com/promptforge/backdrop/render"
)

// GeometricLayer draws static decorative outlines
// It has no frame loop, shapes are regenerated only on Start and Resize
type GeometricLayer struct {
	rng    engine.Random
	bounds Bounds
	shapes []component.ShapeComponent

	running  bool
	stopped  bool
	stopOnce sync.Once
}

// NewGeometricLayer creates an unmounted shape layer
func NewGeometricLayer(opts Options) *GeometricLayer {
	opts = opts.withDefaults()
	return &GeometricLayer{rng: opts.Random}
}

// Name identifies the layer in logs and metrics
func (g *GeometricLayer) Name() string { return "geometric" }

// ZIndex orders the layer in the compositor
func (g *GeometricLayer) ZIndex() int { return parameter.ZIndexGeometric }

// IsVisible reports whether the layer is mounted
func (g *GeometricLayer) IsVisible() bool { return g.running }

// Start generates the outlines for bounds
func (g *GeometricLayer) Start(_ *engine.Scheduler, bounds Bounds) {
	if g.running || g.stopped {
		return
	}
	g.running = true
	g.bounds = bounds
	g.generate()
}

// Stop unmounts the layer and drops its outlines
func (g *GeometricLayer) Stop() {
	g.stopOnce.Do(func() {
		g.running = false
		g.stopped = true
		g.shapes = nil
	})
}

// Resize regenerates the outlines for the new container size
func (g *GeometricLayer) Resize(bounds Bounds) {
	g.bounds = bounds
	if g.running {
		g.generate()
	}
}

// Shapes returns a snapshot of the generated outlines
func (g *GeometricLayer) Shapes() []component.ShapeComponent {
	return slices.Clone(g.shapes)
}

func (g *GeometricLayer) generate() {
	if g.bounds.Empty() {
		g.shapes = nil
		return
	}
	w, h := g.bounds.Width, g.bounds.Height

	// Scale the shape count with area relative to an 80x24 terminal
	count := int(math.Round(float64(parameter.ShapeCount) * float64(w*h) / (80 * 24)))
	count = max(count, 1)

	shapes := make([]component.ShapeComponent, count)
	for i := range shapes {
		sw := 6 + g.rng.IntN(max(1, w/4))
		sh := 3 + g.rng.IntN(max(1, h/4))
		shapes[i] = component.ShapeComponent{
			Kind:    component.ShapeKind(g.rng.IntN(3)),
			X:       g.rng.IntN(max(1, w-sw)),
			Y:       g.rng.IntN(max(1, h-sh)),
			W:       sw,
			H:       sh,
			Opacity: parameter.ShapeOpacityMin + g.rng.Float64()*parameter.ShapeOpacitySpan,
		}
	}
	g.shapes = shapes
}

// Draw renders every outline
func (g *GeometricLayer) Draw(canvas *render.Canvas) {
	for _, s := range g.shapes {
		fg := render.Fade(render.RgbShape, s.Opacity)
		switch s.Kind {
		case component.ShapeBox:
			drawBox(canvas, s, fg)
		case component.ShapeLine:
			for i := 0; i < s.W; i++ {
				canvas.Set(s.X+i, s.Y+i*s.H/s.W, '╲', fg, 0)
			}
		case component.ShapeRing:
			drawRing(canvas, s, fg)
		}
	}
}

func drawBox(canvas *render.Canvas, s component.ShapeComponent, fg render.Color) {
	x1, y1 := s.X+s.W-1, s.Y+s.H-1
	for x := s.X + 1; x < x1; x++ {
		canvas.Set(x, s.Y, '─', fg, 0)
		canvas.Set(x, y1, '─', fg, 0)
	}
	for y := s.Y + 1; y < y1; y++ {
		canvas.Set(s.X, y, '│', fg, 0)
		canvas.Set(x1, y, '│', fg, 0)
	}
	canvas.Set(s.X, s.Y, '┌', fg, 0)
	canvas.Set(x1, s.Y, '┐', fg, 0)
	canvas.Set(s.X, y1, '└', fg, 0)
	canvas.Set(x1, y1, '┘', fg, 0)
}

func drawRing(canvas *render.Canvas, s component.ShapeComponent, fg render.Color) {
	rx, ry := float64(s.W)/2, float64(s.H)/2
	cx, cy := float64(s.X)+rx, float64(s.Y)+ry
	steps := 2 * (s.W + s.H)
	for i := 0; i < steps; i++ {
		sin, cos := math.Sincos(2 * math.Pi * float64(i) / float64(steps))
		canvas.Set(int(cx+cos*rx), int(cy+sin*ry), '·', fg, 0)
	}
}
