package layer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptforge/backdrop/component"
	"github.com/promptforge/backdrop/content"
	"github.com/promptforge/backdrop/engine"
	"github.com/promptforge/backdrop/render"
)

func quickQuote(text string, priority int, corner content.Corner) content.QuoteTemplate {
	return content.QuoteTemplate{
		Text:     text,
		Corner:   corner,
		Style:    content.StyleTyping,
		Priority: priority,
		PreDelay: 100 * time.Millisecond,
		Hold:     200 * time.Millisecond,
		Out:      100 * time.Millisecond,
		Cooldown: 10 * time.Minute,
	}
}

func quickSettings() NarrativeSettings {
	return NarrativeSettings{Enabled: true, Interval: 200 * time.Millisecond, TypingSpeed: 20 * time.Millisecond}
}

func fourQuotes() []content.QuoteTemplate {
	return []content.QuoteTemplate{
		quickQuote("alpha", 4, content.CornerTopLeft),
		quickQuote("bravo", 3, content.CornerTopRight),
		quickQuote("charlie", 2, content.CornerBottomLeft),
		quickQuote("delta", 1, content.CornerBottomRight),
	}
}

// runUntilSelections ticks until the observer has seen n selections or the budget runs out
func runUntilSelections(sched *engine.Scheduler, clock *engine.MockTimeProvider, obs *recordingObserver, n int) {
	for i := 0; i < 100000 && len(obs.selections()) < n; i++ {
		clock.Advance(10 * time.Millisecond)
		sched.Tick()
	}
}

func TestNarrativePhaseOrdering(t *testing.T) {
	sched, clock := newTestScheduler()
	obs := newRecordingObserver()
	n := NewNarrativeLayer(fourQuotes(), quickSettings(), Options{Random: engine.NewScriptedRandom(0), Observer: obs})
	n.Start(sched, Bounds{Width: 80, Height: 24})
	defer n.Stop()

	var quoteID string
	lastIndex := 0
	reveals := 0
	for i := 0; i < 1000; i++ {
		clock.Advance(10 * time.Millisecond)
		sched.Tick()

		q, ok := n.Active()
		if !ok {
			if quoteID != "" {
				break
			}
			continue
		}
		if quoteID == "" {
			quoteID = q.ID
		}
		require.Equal(t, quoteID, q.ID)
		require.GreaterOrEqual(t, q.Index, lastIndex, "index went backwards")
		require.LessOrEqual(t, q.Index-lastIndex, 1, "more than one rune per frame")
		require.LessOrEqual(t, q.Index, len(q.Runes))
		if q.Index > lastIndex {
			reveals++
			require.Contains(t, []component.QuotePhase{component.PhaseTyping, component.PhaseHold}, q.Phase)
		}
		lastIndex = q.Index
	}

	require.NotEmpty(t, quoteID, "no quote was shown")
	var seen []component.QuotePhase
	for _, p := range obs.phases {
		if p.id == quoteID {
			seen = append(seen, p.phase)
		}
	}
	assert.Equal(t, []component.QuotePhase{
		component.PhasePre,
		component.PhaseTyping,
		component.PhaseHold,
		component.PhaseFadeout,
		component.PhaseCooldown,
	}, seen)
	assert.Equal(t, len("alpha"), reveals)
	assert.True(t, n.InCooldown("alpha"))
}

func TestNarrativeTypingRespectsSpeed(t *testing.T) {
	sched, clock := newTestScheduler()
	obs := newRecordingObserver()
	n := NewNarrativeLayer(fourQuotes()[:1], quickSettings(), Options{Random: engine.NewScriptedRandom(0), Observer: obs})
	n.Start(sched, Bounds{Width: 80, Height: 24})
	defer n.Stop()

	runUntilSelections(sched, clock, obs, 1)
	for {
		q, ok := n.Active()
		require.True(t, ok)
		if q.Phase == component.PhaseTyping {
			break
		}
		clock.Advance(10 * time.Millisecond)
		sched.Tick()
	}

	// One tick shorter than the typing speed reveals nothing
	before, _ := n.Active()
	clock.Advance(10 * time.Millisecond)
	sched.Tick()
	mid, _ := n.Active()
	assert.Equal(t, before.Index, mid.Index)

	clock.Advance(10 * time.Millisecond)
	sched.Tick()
	after, _ := n.Active()
	assert.Equal(t, before.Index+1, after.Index)
}

func TestNarrativeNoImmediateRepeat(t *testing.T) {
	sched, clock := newTestScheduler()
	obs := newRecordingObserver()
	quotes := append(fourQuotes(), quickQuote("echo", 5, content.CornerCenter))
	n := NewNarrativeLayer(quotes, quickSettings(), Options{Random: engine.NewRandom(2024), Observer: obs})
	n.Start(sched, Bounds{Width: 80, Height: 24})
	defer n.Stop()

	runUntilSelections(sched, clock, obs, len(quotes))
	got := obs.selections()
	require.Len(t, got, len(quotes))

	seen := make(map[string]bool)
	for i, text := range got {
		assert.False(t, seen[text], "%q repeated before its cooldown elapsed", text)
		seen[text] = true
		if i > 0 {
			assert.NotEqual(t, got[i-1], text)
		}
	}
}

func TestNarrativeExhaustionFallsBackToFirst(t *testing.T) {
	sched, clock := newTestScheduler()
	obs := newRecordingObserver()
	quotes := fourQuotes()[:2]
	n := NewNarrativeLayer(quotes, quickSettings(), Options{Random: engine.NewScriptedRandom(0), Observer: obs})
	n.Start(sched, Bounds{Width: 80, Height: 24})
	defer n.Stop()

	runUntilSelections(sched, clock, obs, 3)
	got := obs.selections()
	require.Len(t, got, 3)
	assert.Equal(t, []string{"alpha", "bravo", "alpha"}, got)
	assert.Zero(t, n.CooldownSize(), "exhaustion clears the cooldown set")
}

func TestNarrativeSelectsAmongTopThree(t *testing.T) {
	quotes := []content.QuoteTemplate{
		quickQuote("p1", 1, content.CornerTopLeft),
		quickQuote("p5", 5, content.CornerTopLeft),
		quickQuote("p2", 2, content.CornerTopLeft),
		quickQuote("p4", 4, content.CornerTopLeft),
		quickQuote("p3", 3, content.CornerTopLeft),
	}

	cases := []struct {
		roll float64
		want string
	}{
		{0, "p5"},
		{0.4, "p4"},
		{0.99, "p3"},
	}
	for _, tc := range cases {
		sched, _ := newTestScheduler()
		n := NewNarrativeLayer(quotes, quickSettings(), Options{Random: engine.NewScriptedRandom(tc.roll)})
		n.Start(sched, Bounds{Width: 80, Height: 24})
		assert.Equal(t, tc.want, n.selectTemplate().Text, "roll %v", tc.roll)
		n.Stop()
	}
}

func TestNarrativeCooldownEviction(t *testing.T) {
	sched, clock := newTestScheduler()
	obs := newRecordingObserver()
	quotes := fourQuotes()[:1]
	quotes[0].Cooldown = 300 * time.Millisecond
	settings := quickSettings()
	settings.Interval = time.Hour
	n := NewNarrativeLayer(quotes, settings, Options{Random: engine.NewScriptedRandom(0), Observer: obs})
	n.Start(sched, Bounds{Width: 80, Height: 24})
	defer n.Stop()

	clock.Advance(time.Hour)
	sched.Tick()
	for i := 0; i < 1000 && !n.InCooldown("alpha"); i++ {
		clock.Advance(10 * time.Millisecond)
		sched.Tick()
	}
	require.True(t, n.InCooldown("alpha"))

	clock.Run(sched, 290*time.Millisecond, 10*time.Millisecond)
	assert.True(t, n.InCooldown("alpha"))
	clock.Run(sched, 20*time.Millisecond, 10*time.Millisecond)
	assert.False(t, n.InCooldown("alpha"))
}

func TestNarrativeDisabledSchedulesNothing(t *testing.T) {
	cases := map[string]NarrativeSettings{
		"reduced-motion": {Enabled: true, Interval: time.Second, ReducedMotion: true},
		"zero-interval":  {Enabled: true, Interval: 0},
		"disabled":       {Enabled: false, Interval: time.Second},
	}
	for name, settings := range cases {
		t.Run(name, func(t *testing.T) {
			sched, clock := newTestScheduler()
			obs := newRecordingObserver()
			n := NewNarrativeLayer(fourQuotes(), settings, Options{Observer: obs})
			n.Start(sched, Bounds{Width: 80, Height: 24})
			defer n.Stop()

			assert.Zero(t, sched.Pending())
			assert.False(t, n.IsVisible())
			clock.Run(sched, time.Minute, 100*time.Millisecond)
			assert.Zero(t, obs.events())
		})
	}
}

func TestNarrativeConfigureTogglesScheduling(t *testing.T) {
	sched, clock := newTestScheduler()
	obs := newRecordingObserver()
	off := quickSettings()
	off.ReducedMotion = true
	n := NewNarrativeLayer(fourQuotes(), off, Options{Random: engine.NewScriptedRandom(0), Observer: obs})
	n.Start(sched, Bounds{Width: 80, Height: 24})
	defer n.Stop()

	n.Configure(quickSettings())
	runUntilSelections(sched, clock, obs, 1)
	require.Len(t, obs.selections(), 1)

	clock.Run(sched, 150*time.Millisecond, 10*time.Millisecond)
	n.Configure(off)
	_, active := n.Active()
	assert.False(t, active)
	assert.Zero(t, sched.Pending())
}

func TestNarrativeGlitchFlicker(t *testing.T) {
	sched, clock := newTestScheduler()
	quotes := fourQuotes()[:1]
	quotes[0].Style = content.StyleGlitch
	n := NewNarrativeLayer(quotes, quickSettings(), Options{Random: engine.NewScriptedRandom(0.05)})
	n.Start(sched, Bounds{Width: 80, Height: 24})
	defer n.Stop()

	flickered := false
	for i := 0; i < 200; i++ {
		clock.Advance(10 * time.Millisecond)
		sched.Tick()
		q, ok := n.Active()
		if !ok || q.Phase != component.PhaseTyping {
			continue
		}
		assert.GreaterOrEqual(t, q.Opacity, 0.3)
		assert.LessOrEqual(t, q.Opacity, 1.0)
		if q.Opacity < 1 {
			flickered = true
		}
	}
	assert.True(t, flickered)
}

func TestNarrativeCornerPlacement(t *testing.T) {
	n := NewNarrativeLayer(nil, quickSettings(), Options{})
	n.bounds = Bounds{Width: 80, Height: 24}

	cases := []struct {
		corner content.Corner
		x, y   int
	}{
		{content.CornerTopLeft, 2, 2},
		{content.CornerTopRight, 73, 2},
		{content.CornerBottomLeft, 2, 21},
		{content.CornerBottomRight, 73, 21},
		{content.CornerCenter, 37, 12},
	}
	for _, tc := range cases {
		tpl := quickQuote("hello", 1, tc.corner)
		x, y := n.place(&tpl)
		assert.Equal(t, tc.x, x, tc.corner.String())
		assert.Equal(t, tc.y, y, tc.corner.String())
	}

	n.bounds = Bounds{Width: 4, Height: 2}
	tpl := quickQuote("much too long", 1, content.CornerBottomRight)
	x, y := n.place(&tpl)
	assert.Zero(t, x)
	assert.Zero(t, y)
}

func TestNarrativePositionFixedAtCreation(t *testing.T) {
	sched, clock := newTestScheduler()
	obs := newRecordingObserver()
	quotes := []content.QuoteTemplate{quickQuote("bravo", 1, content.CornerBottomRight)}
	n := NewNarrativeLayer(quotes, quickSettings(), Options{Random: engine.NewScriptedRandom(0), Observer: obs})
	n.Start(sched, Bounds{Width: 80, Height: 24})
	defer n.Stop()

	runUntilSelections(sched, clock, obs, 1)
	q, ok := n.Active()
	require.True(t, ok)

	n.Resize(Bounds{Width: 200, Height: 60})
	clock.Run(sched, 50*time.Millisecond, 10*time.Millisecond)
	moved, ok := n.Active()
	require.True(t, ok)
	assert.Equal(t, q.X, moved.X)
	assert.Equal(t, q.Y, moved.Y)
}

func TestNarrativeTeardownStopsAllMutation(t *testing.T) {
	sched, clock := newTestScheduler()
	obs := newRecordingObserver()
	n := NewNarrativeLayer(fourQuotes(), quickSettings(), Options{Random: engine.NewScriptedRandom(0), Observer: obs})
	n.Start(sched, Bounds{Width: 80, Height: 24})

	// Finish one quote so a cooldown timer is pending, then stop mid-way through the next
	runUntilSelections(sched, clock, obs, 2)
	clock.Run(sched, 150*time.Millisecond, 10*time.Millisecond)
	n.Stop()
	n.Stop()

	require.Zero(t, sched.Pending())
	before := obs.events()
	require.NotPanics(t, func() {
		clock.Run(sched, time.Hour, time.Second)
	})
	assert.Equal(t, before, obs.events())
	_, active := n.Active()
	assert.False(t, active)
}

func TestNarrativeDrawShowsRevealedPrefix(t *testing.T) {
	sched, clock := newTestScheduler()
	obs := newRecordingObserver()
	n := NewNarrativeLayer(fourQuotes()[:1], quickSettings(), Options{Random: engine.NewScriptedRandom(0), Observer: obs})
	n.Start(sched, Bounds{Width: 80, Height: 24})
	defer n.Stop()

	for i := 0; i < 1000; i++ {
		clock.Advance(10 * time.Millisecond)
		sched.Tick()
		if q, ok := n.Active(); ok && q.Phase == component.PhaseHold {
			break
		}
	}

	canvas := render.NewCanvas(80, 24)
	n.Draw(canvas)
	var got []rune
	for x := 2; x < 7; x++ {
		got = append(got, canvas.Cell(x, 2).Rune)
	}
	assert.Equal(t, "alpha", string(got))
}
