package layer

import (
	"math"
	"slices"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/promptforge/backdrop/component"
	"github.com/promptforge/backdrop/content"
	"github.com/promptforge/backdrop/engine"
	"github.com/promptforge/backdrop/parameter"
	"github.com/promptforge/backdrop/render"
)

// MatrixSettings is the slice of performance settings the token layer reads
type MatrixSettings struct {
	TokenCount    int
	DriftSpeed    float64
	GlitchEnabled bool
	ReducedMotion bool
}

// MatrixLayer drifts a fixed-size pool of glyph tokens
type MatrixLayer struct {
	templates []content.TokenTemplate
	settings  MatrixSettings
	rng       engine.Random
	observer  Observer

	arena  *engine.Arena
	bounds Bounds
	origin time.Time

	tokens     []component.TokenComponent
	generation int
	lastFrame  time.Time

	glitchTimers map[int]engine.Handle

	running  bool
	stopOnce sync.Once
}

// NewMatrixLayer creates an unmounted token layer
func NewMatrixLayer(templates []content.TokenTemplate, settings MatrixSettings, opts Options) *MatrixLayer {
	opts = opts.withDefaults()
	return &MatrixLayer{
		templates:    templates,
		settings:     settings,
		rng:          opts.Random,
		observer:     opts.Observer,
		glitchTimers: make(map[int]engine.Handle),
	}
}

// Name identifies the layer in logs and metrics
func (m *MatrixLayer) Name() string { return "matrix" }

// ZIndex orders the layer in the compositor
func (m *MatrixLayer) ZIndex() int { return parameter.ZIndexMatrix }

// IsVisible reports whether the layer is mounted
func (m *MatrixLayer) IsVisible() bool { return m.running }

// Start generates the pool and begins the frame loop
func (m *MatrixLayer) Start(sched *engine.Scheduler, bounds Bounds) {
	if m.running || m.arena != nil {
		return
	}
	m.arena = engine.NewArena(sched)
	m.running = true
	m.bounds = bounds
	m.origin = m.arena.Now()
	m.lastFrame = m.origin
	m.regenerate()
	m.arena.RequestFrame(m.frame)
}

// Stop cancels the frame loop and every glitch timer
func (m *MatrixLayer) Stop() {
	m.stopOnce.Do(func() {
		m.endAllGlitches()
		if m.arena != nil {
			m.arena.Release()
		}
		m.running = false
		m.tokens = nil
		clear(m.glitchTimers)
	})
}

// Resize regenerates the whole pool for the new container size
func (m *MatrixLayer) Resize(bounds Bounds) {
	m.bounds = bounds
	if m.running {
		m.regenerate()
	}
}

// Configure applies new settings, regenerating only when the pool size changes
func (m *MatrixLayer) Configure(s MatrixSettings) {
	old := m.settings
	m.settings = s
	if !m.running {
		return
	}
	if s.TokenCount != old.TokenCount {
		m.regenerate()
		return
	}
	if !s.GlitchEnabled && old.GlitchEnabled {
		m.endAllGlitches()
	}
}

// Settings returns the active settings
func (m *MatrixLayer) Settings() MatrixSettings {
	return m.settings
}

// Tokens returns a snapshot of the pool
func (m *MatrixLayer) Tokens() []component.TokenComponent {
	return slices.Clone(m.tokens)
}

func (m *MatrixLayer) regenerate() {
	m.endAllGlitches()
	m.generation++

	n := m.settings.TokenCount
	if m.bounds.Empty() || len(m.templates) == 0 || n <= 0 {
		m.tokens = nil
		return
	}

	now := m.arena.Now()
	w, h := float64(m.bounds.Width), float64(m.bounds.Height)
	tokens := make([]component.TokenComponent, n)
	for i := range tokens {
		tpl := &m.templates[i%len(m.templates)]
		tokens[i] = component.TokenComponent{
			ID:         i,
			Template:   tpl,
			X:          m.rng.Float64() * w,
			Y:          m.rng.Float64() * h,
			Opacity:    tpl.OpacityMin + m.rng.Float64()*(tpl.OpacityMax-tpl.OpacityMin),
			Scale:      parameter.TokenScaleMin + m.rng.Float64()*(parameter.TokenScaleMax-parameter.TokenScaleMin),
			BiasX:      (m.rng.Float64()*2 - 1) * parameter.TokenBiasMax,
			BiasY:      (m.rng.Float64()*2 - 1) * parameter.TokenBiasMax,
			LastUpdate: now,
		}
	}
	m.tokens = tokens
}

func (m *MatrixLayer) frame(now time.Time) {
	// Reschedule first so every early return keeps the loop alive
	m.arena.RequestFrame(m.frame)

	if now.Sub(m.lastFrame) < parameter.MinFrameInterval {
		return
	}
	m.lastFrame = now

	if m.settings.ReducedMotion || m.settings.DriftSpeed == 0 {
		return
	}
	m.update(now)
	m.observer.Frame(m.Name(), now)
}

// update advances every token in one batch and swaps the pool
func (m *MatrixLayer) update(now time.Time) {
	t := float64(now.Sub(m.origin).Milliseconds())
	driftPeriod := float64((parameter.DriftPeriodMin + time.Duration(m.rng.Float64()*float64(parameter.DriftPeriodSpan))).Milliseconds())
	opacityPeriod := float64((parameter.OpacityPeriodMin + time.Duration(m.rng.Float64()*float64(parameter.OpacityPeriodSpan))).Milliseconds())
	driftSin, driftCos := math.Sincos(t / driftPeriod)
	wave := (math.Sin(t/opacityPeriod) + 1) / 2

	next := slices.Clone(m.tokens)
	for i := range next {
		tok := &next[i]
		tpl := tok.Template

		step := tpl.Jitter * m.settings.DriftSpeed * tpl.Speed * parameter.DriftStep
		tok.X += (driftSin + tok.BiasX) * step
		tok.Y += (driftCos + tok.BiasY) * step

		opacity := clamp(tpl.OpacityMin+wave*(tpl.OpacityMax-tpl.OpacityMin), tpl.OpacityMin, tpl.OpacityMax)

		if m.settings.GlitchEnabled && !tok.Glitch && m.rng.Float64() < parameter.GlitchChance {
			tok.Glitch = true
			tok.Hue = m.rng.Float64() * 360
			m.scheduleGlitchEnd(tok.ID)
			m.observer.GlitchStarted(tok.ID, now)
		}
		if tok.Glitch {
			opacity = parameter.GlitchOpacityMin + m.rng.Float64()*(1-parameter.GlitchOpacityMin)
		}

		tok.Opacity = clamp(opacity, parameter.OpacityFloor, parameter.OpacityCeil)
		tok.LastUpdate = now
	}
	m.tokens = next
}

func (m *MatrixLayer) scheduleGlitchEnd(id int) {
	gen := m.generation
	d := parameter.GlitchMinDuration + time.Duration(m.rng.Float64()*float64(parameter.GlitchSpan))
	m.glitchTimers[id] = m.arena.AfterFunc(d, func() {
		delete(m.glitchTimers, id)
		if gen != m.generation || id >= len(m.tokens) {
			return
		}
		m.tokens[id].Glitch = false
		m.tokens[id].Hue = 0
		m.observer.GlitchEnded(id, m.arena.Now())
	})
}

func (m *MatrixLayer) endAllGlitches() {
	if m.arena == nil {
		return
	}
	now := m.arena.Now()
	for id, h := range m.glitchTimers {
		m.arena.CancelTimer(h)
		if id < len(m.tokens) && m.tokens[id].Glitch {
			m.tokens[id].Glitch = false
			m.tokens[id].Hue = 0
			m.observer.GlitchEnded(id, now)
		}
	}
	clear(m.glitchTimers)
}

// Draw renders every on-screen token, off-screen tokens are clipped
func (m *MatrixLayer) Draw(canvas *render.Canvas) {
	for i := range m.tokens {
		tok := &m.tokens[i]
		x := int(math.Round(tok.X))
		y := int(math.Round(tok.Y))

		var attrs render.Attr
		if tok.Template.Weight >= parameter.BoldWeight {
			attrs |= tcell.AttrBold
		}
		if tok.Scale < 0.9 {
			attrs |= tcell.AttrDim
		}

		if tok.Glitch {
			hue := render.GlitchColor(tok.Hue)
			width := canvas.DrawText(x, y, tok.Template.Text, render.Fade(hue, tok.Opacity), attrs|tcell.AttrBold)
			glow := render.Fade(render.RgbTokenGlow, 0.2)
			for dx := 0; dx < width; dx++ {
				canvas.SetBg(x+dx, y, glow)
			}
			continue
		}
		canvas.DrawText(x, y, tok.Template.Text, render.Fade(render.RgbToken, tok.Opacity), attrs)
	}
}
