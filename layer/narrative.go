package layer

import (
	"cmp"
	"slices"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"

	"github.com/promptforge/backdrop/component"
	"github.com/promptforge/backdrop/content"
	"github.com/promptforge/backdrop/engine"
	"github.com/promptforge/backdrop/parameter"
	"github.com/promptforge/backdrop/render"
)

// NarrativeSettings is the slice of performance settings the quote layer reads
type NarrativeSettings struct {
	Enabled       bool
	Interval      time.Duration
	TypingSpeed   time.Duration
	ReducedMotion bool
}

// Active reports whether quotes should be scheduled at all
func (s NarrativeSettings) Active() bool {
	return s.Enabled && !s.ReducedMotion && s.Interval > 0
}

// NarrativeLayer surfaces one typewriter quote at a time in a screen corner
type NarrativeLayer struct {
	templates []content.QuoteTemplate
	settings  NarrativeSettings
	rng       engine.Random
	observer  Observer

	arena  *engine.Arena
	bounds Bounds

	active      *component.QuoteComponent
	cooldown    map[string]engine.Handle
	selectTimer engine.Handle
	frameHandle engine.Handle

	running  bool
	stopOnce sync.Once
}

// NewNarrativeLayer creates an unmounted quote layer
func NewNarrativeLayer(templates []content.QuoteTemplate, settings NarrativeSettings, opts Options) *NarrativeLayer {
	opts = opts.withDefaults()
	if settings.TypingSpeed <= 0 {
		settings.TypingSpeed = parameter.TypingSpeed
	}
	return &NarrativeLayer{
		templates: templates,
		settings:  settings,
		rng:       opts.Random,
		observer:  opts.Observer,
		cooldown:  make(map[string]engine.Handle),
	}
}

// Name identifies the layer in logs and metrics
func (n *NarrativeLayer) Name() string { return "narrative" }

// ZIndex orders the layer in the compositor
func (n *NarrativeLayer) ZIndex() int { return parameter.ZIndexNarrative }

// IsVisible reports whether the layer is mounted and allowed to show quotes
func (n *NarrativeLayer) IsVisible() bool {
	return n.running && n.settings.Active()
}

// Start schedules the first quote one interval from now
// A disabled layer mounts but schedules nothing
func (n *NarrativeLayer) Start(sched *engine.Scheduler, bounds Bounds) {
	if n.running || n.arena != nil {
		return
	}
	n.arena = engine.NewArena(sched)
	n.running = true
	n.bounds = bounds
	if n.settings.Active() {
		n.scheduleNext()
	}
}

// Stop cancels the frame loop, the pending selection and every cooldown eviction
func (n *NarrativeLayer) Stop() {
	n.stopOnce.Do(func() {
		if n.arena != nil {
			n.arena.Release()
		}
		n.running = false
		n.active = nil
		n.selectTimer = 0
		n.frameHandle = 0
		clear(n.cooldown)
	})
}

// Resize records the new container size, an on-screen quote keeps its position
func (n *NarrativeLayer) Resize(bounds Bounds) {
	n.bounds = bounds
}

// Configure applies new settings, disabling tears down the active quote
func (n *NarrativeLayer) Configure(s NarrativeSettings) {
	if s.TypingSpeed <= 0 {
		s.TypingSpeed = parameter.TypingSpeed
	}
	wasActive := n.settings.Active()
	n.settings = s
	if !n.running {
		return
	}
	switch {
	case wasActive && !s.Active():
		n.arena.CancelTimer(n.selectTimer)
		n.arena.CancelFrame(n.frameHandle)
		n.selectTimer, n.frameHandle = 0, 0
		n.active = nil
	case !wasActive && s.Active():
		n.scheduleNext()
	}
}

// Active returns a copy of the on-screen quote
func (n *NarrativeLayer) Active() (component.QuoteComponent, bool) {
	if n.active == nil {
		return component.QuoteComponent{}, false
	}
	return *n.active, true
}

// InCooldown reports whether text is barred from selection
func (n *NarrativeLayer) InCooldown(text string) bool {
	_, ok := n.cooldown[text]
	return ok
}

// CooldownSize returns the number of texts currently cooling down
func (n *NarrativeLayer) CooldownSize() int {
	return len(n.cooldown)
}

func (n *NarrativeLayer) scheduleNext() {
	if n.selectTimer != 0 {
		return
	}
	n.selectTimer = n.arena.AfterFunc(n.settings.Interval, n.spawn)
}

func (n *NarrativeLayer) spawn() {
	n.selectTimer = 0
	if n.active != nil || len(n.templates) == 0 || !n.settings.Active() {
		return
	}

	tpl := n.selectTemplate()
	runes := []rune(tpl.Text)
	now := n.arena.Now()
	x, y := n.place(tpl)

	n.active = &component.QuoteComponent{
		ID:         uuid.NewString(),
		Template:   tpl,
		Runes:      runes,
		X:          x,
		Y:          y,
		Phase:      component.PhasePre,
		PhaseStart: now,
	}
	n.observer.QuotePhase(n.active.ID, tpl.Text, component.PhasePre, now)
	n.frameHandle = n.arena.RequestFrame(n.frame)
}

// selectTemplate picks uniformly among the three highest priority templates not cooling down
// When every template is cooling down the set is cleared and the first template is used
func (n *NarrativeLayer) selectTemplate() *content.QuoteTemplate {
	candidates := make([]*content.QuoteTemplate, 0, len(n.templates))
	for i := range n.templates {
		if !n.InCooldown(n.templates[i].Text) {
			candidates = append(candidates, &n.templates[i])
		}
	}
	if len(candidates) == 0 {
		n.clearCooldown()
		return &n.templates[0]
	}

	slices.SortStableFunc(candidates, func(a, b *content.QuoteTemplate) int {
		return cmp.Compare(b.Priority, a.Priority)
	})
	pool := min(parameter.QuoteCandidatePool, len(candidates))
	return candidates[n.rng.IntN(pool)]
}

func (n *NarrativeLayer) clearCooldown() {
	for _, h := range n.cooldown {
		n.arena.CancelTimer(h)
	}
	clear(n.cooldown)
}

// place maps a corner to a fixed-margin origin inside the current bounds
func (n *NarrativeLayer) place(tpl *content.QuoteTemplate) (int, int) {
	w, h := n.bounds.Width, n.bounds.Height
	textWidth := render.TextWidth(tpl.Text)
	margin := parameter.QuoteMargin

	var x, y int
	switch tpl.Corner {
	case content.CornerTopLeft:
		x, y = margin, margin
	case content.CornerTopRight:
		x, y = w-margin-textWidth, margin
	case content.CornerBottomLeft:
		x, y = margin, h-margin-1
	case content.CornerBottomRight:
		x, y = w-margin-textWidth, h-margin-1
	default:
		x, y = (w-textWidth)/2, h/2
	}
	return max(x, 0), max(y, 0)
}

func (n *NarrativeLayer) frame(now time.Time) {
	n.frameHandle = 0
	if n.active == nil {
		return
	}
	n.step(now)
	if n.active != nil {
		n.frameHandle = n.arena.RequestFrame(n.frame)
	}
	n.observer.Frame(n.Name(), now)
}

// step polls the elapsed time of the current phase and advances at most one phase
func (n *NarrativeLayer) step(now time.Time) {
	q := n.active
	tpl := q.Template
	elapsed := now.Sub(q.PhaseStart)

	switch q.Phase {
	case component.PhasePre:
		q.Opacity = 0
		if elapsed >= tpl.PreDelay {
			n.enter(component.PhaseTyping, now)
			q.Opacity = 1
			q.LastReveal = now
		}

	case component.PhaseTyping:
		if q.Index < len(q.Runes) && now.Sub(q.LastReveal) >= n.settings.TypingSpeed {
			q.Index++
			q.LastReveal = now
			q.Opacity = 1
			if tpl.Style == content.StyleGlitch && n.rng.Float64() < parameter.QuoteFlickerChance {
				q.Opacity = parameter.QuoteFlickerMin + n.rng.Float64()*(1-parameter.QuoteFlickerMin)
			}
		}
		if q.Index >= len(q.Runes) {
			n.enter(component.PhaseHold, now)
			q.Opacity = 1
		}

	case component.PhaseHold:
		q.Opacity = 1
		if elapsed >= tpl.Hold {
			n.enter(component.PhaseFadeout, now)
		}

	case component.PhaseFadeout:
		if tpl.Out > 0 {
			q.Opacity = clamp(1-float64(elapsed)/float64(tpl.Out), 0, 1)
		}
		if elapsed >= tpl.Out {
			q.Opacity = 0
			n.finish(now)
		}
	}
}

func (n *NarrativeLayer) enter(phase component.QuotePhase, now time.Time) {
	q := n.active
	q.Phase = phase
	q.PhaseStart = now
	n.observer.QuotePhase(q.ID, q.Template.Text, phase, now)
}

// finish destroys the quote, puts its text on cooldown and schedules the next selection
func (n *NarrativeLayer) finish(now time.Time) {
	n.enter(component.PhaseCooldown, now)
	tpl := n.active.Template
	n.active = nil

	text := tpl.Text
	if h, ok := n.cooldown[text]; ok {
		n.arena.CancelTimer(h)
	}
	n.cooldown[text] = n.arena.AfterFunc(tpl.Cooldown, func() {
		delete(n.cooldown, text)
	})

	if n.settings.Active() {
		n.scheduleNext()
	}
}

// Draw renders the revealed prefix of the active quote with a caret while typing
func (n *NarrativeLayer) Draw(canvas *render.Canvas) {
	q := n.active
	if q == nil || q.Phase == component.PhasePre || q.Opacity <= 0 {
		return
	}

	base := render.RgbQuote
	var attrs render.Attr
	switch q.Template.Style {
	case content.StyleMatrix:
		base = render.RgbToken
	case content.StyleGlitch:
		attrs |= tcell.AttrBold
	}

	fg := render.Fade(base, q.Opacity)
	width := canvas.DrawText(q.X, q.Y, q.Visible(), fg, attrs)
	if q.Phase == component.PhaseTyping {
		canvas.Set(q.X+width, q.Y, '▌', fg, 0)
	}
}
