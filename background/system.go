// Package background composes the token, narrative and geometric layers
// and derives their settings from route, viewport and motion preference
package background

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/promptforge/backdrop/content"
	"github.com/promptforge/backdrop/engine"
	"github.com/promptforge/backdrop/layer"
	"github.com/promptforge/backdrop/render"
)

// Options configures a System
type Options struct {
	Catalog       content.Catalog
	Route         string
	ReducedMotion MediaQuery
	Mobile        MediaQuery

	// Optional narrative overrides, zero keeps the derived value
	NarrativeInterval time.Duration
	TypingSpeed       time.Duration

	Random   engine.Random
	Observer layer.Observer
	Logger   *zerolog.Logger
}

// System mounts the background layers and keeps them in line with the environment
// All methods must be called on the goroutine that ticks the scheduler
type System struct {
	opts   Options
	log    zerolog.Logger
	layers layer.Options

	sched      *engine.Scheduler
	bounds     layer.Bounds
	route      string
	settings   PerformanceSettings
	compositor *render.Compositor

	matrix    *layer.MatrixLayer
	narrative *layer.NarrativeLayer
	geometric *layer.GeometricLayer

	unsubscribe []func()
	mounted     bool
	unmountOnce sync.Once
}

// New creates an unmounted System
// Missing queries never match
func New(opts Options) *System {
	if opts.ReducedMotion == nil {
		opts.ReducedMotion = NewQuery("(prefers-reduced-motion: reduce)", false)
	}
	if opts.Mobile == nil {
		opts.Mobile = NewQuery("(max-width: 768px)", false)
	}
	if len(opts.Catalog.Tokens) == 0 && len(opts.Catalog.Quotes) == 0 {
		opts.Catalog = content.Default()
	}
	if opts.Random == nil {
		opts.Random = engine.NewRandom(0)
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &System{
		opts:       opts,
		log:        logger.With().Str("component", "background").Logger(),
		layers:     layer.Options{Random: opts.Random, Observer: opts.Observer},
		route:      opts.Route,
		compositor: render.NewCompositor(),
	}
}

// Mount subscribes to the media queries, derives settings and starts the enabled layers
func (s *System) Mount(sched *engine.Scheduler, bounds layer.Bounds) {
	if s.mounted || s.sched != nil {
		return
	}
	s.sched = sched
	s.bounds = bounds
	s.mounted = true

	s.unsubscribe = append(s.unsubscribe,
		s.opts.ReducedMotion.AddListener(func(bool) { s.refresh() }),
		s.opts.Mobile.AddListener(func(bool) { s.refresh() }),
	)
	s.apply(s.derive())
}

// Unmount stops every layer and removes the media query listeners
func (s *System) Unmount() {
	s.unmountOnce.Do(func() {
		for _, remove := range s.unsubscribe {
			remove()
		}
		s.unsubscribe = nil
		s.stopMatrix()
		s.stopNarrative()
		s.stopGeometric()
		s.mounted = false
		s.log.Debug().Msg("background unmounted")
	})
}

// SetRoute re-derives settings for a navigation
func (s *System) SetRoute(route string) {
	if route == s.route {
		return
	}
	s.route = route
	s.refresh()
}

// Route returns the current route
func (s *System) Route() string {
	return s.route
}

// Resize forwards the new container size to every mounted layer
func (s *System) Resize(bounds layer.Bounds) {
	s.bounds = bounds
	if !s.mounted {
		return
	}
	for _, l := range s.Layers() {
		l.Resize(bounds)
	}
}

// Settings returns the settings currently applied to the layers
func (s *System) Settings() PerformanceSettings {
	return s.settings
}

// Environment returns the inputs the next derivation would read
func (s *System) Environment() Environment {
	return Environment{
		Route:         s.route,
		ReducedMotion: s.opts.ReducedMotion.Matches(),
		Mobile:        s.opts.Mobile.Matches(),
	}
}

// Layers returns the mounted layers bottom to top
func (s *System) Layers() []layer.Layer {
	var out []layer.Layer
	if s.geometric != nil {
		out = append(out, s.geometric)
	}
	if s.matrix != nil {
		out = append(out, s.matrix)
	}
	if s.narrative != nil {
		out = append(out, s.narrative)
	}
	return out
}

func (s *System) Matrix() *layer.MatrixLayer       { return s.matrix }
func (s *System) Narrative() *layer.NarrativeLayer { return s.narrative }
func (s *System) Geometric() *layer.GeometricLayer { return s.geometric }

// Render composes every visible layer onto canvas
func (s *System) Render(canvas *render.Canvas) {
	s.compositor.Compose(canvas)
}

func (s *System) derive() PerformanceSettings {
	settings := Derive(s.Environment())
	if settings.NarrativeEnabled {
		if s.opts.NarrativeInterval > 0 {
			settings.NarrativeInterval = s.opts.NarrativeInterval
		}
		if s.opts.TypingSpeed > 0 {
			settings.TypingSpeed = s.opts.TypingSpeed
		}
	}
	return settings
}

func (s *System) refresh() {
	if !s.mounted {
		return
	}
	next := s.derive()
	if next == s.settings && s.matrix != nil {
		return
	}
	s.apply(next)
}

// apply reconciles the mounted layers with next
// The token layer is always mounted, the others mount and unmount with their flags
func (s *System) apply(next PerformanceSettings) {
	s.settings = next

	if s.matrix == nil {
		s.matrix = layer.NewMatrixLayer(s.opts.Catalog.Tokens, next.matrix(), s.layers)
		s.start(s.matrix)
	} else {
		s.matrix.Configure(next.matrix())
	}

	switch {
	case next.NarrativeEnabled && s.narrative == nil:
		s.narrative = layer.NewNarrativeLayer(s.opts.Catalog.Quotes, next.narrative(), s.layers)
		s.start(s.narrative)
	case !next.NarrativeEnabled:
		s.stopNarrative()
	default:
		s.narrative.Configure(next.narrative())
	}

	switch {
	case next.GeometricEnabled && s.geometric == nil:
		s.geometric = layer.NewGeometricLayer(s.layers)
		s.start(s.geometric)
	case !next.GeometricEnabled:
		s.stopGeometric()
	}

	s.log.Info().
		Str("route", s.route).
		Int("tokens", next.TokenCount).
		Float64("drift", next.DriftSpeed).
		Bool("glitch", next.GlitchEnabled).
		Bool("narrative", next.NarrativeEnabled).
		Bool("geometric", next.GeometricEnabled).
		Bool("reduced_motion", next.ReducedMotion).
		Msg("background settings applied")
}

func (s *System) start(l layer.Layer) {
	l.Start(s.sched, s.bounds)
	s.compositor.Register(l, l.ZIndex())
}

func (s *System) stopMatrix() {
	if s.matrix != nil {
		s.compositor.Unregister(s.matrix)
		s.matrix.Stop()
		s.matrix = nil
	}
}

func (s *System) stopNarrative() {
	if s.narrative != nil {
		s.compositor.Unregister(s.narrative)
		s.narrative.Stop()
		s.narrative = nil
	}
}

func (s *System) stopGeometric() {
	if s.geometric != nil {
		s.compositor.Unregister(s.geometric)
		s.geometric.Stop()
		s.geometric = nil
	}
}
