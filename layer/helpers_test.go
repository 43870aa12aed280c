package layer

import (
	"time"

	"github.com/promptforge/backdrop/component"
	"github.com/promptforge/backdrop/engine"
)

var testEpoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestScheduler() (*engine.Scheduler, *engine.MockTimeProvider) {
	clock := engine.NewMockTimeProvider(testEpoch)
	return engine.NewScheduler(clock), clock
}

type phaseEvent struct {
	id    string
	text  string
	phase component.QuotePhase
	at    time.Time
}

type glitchEvent struct {
	id     int
	active bool
	at     time.Time
}

// recordingObserver captures every notification for assertions
type recordingObserver struct {
	frames  map[string]int
	glitch  []glitchEvent
	phases  []phaseEvent
	lastAny time.Time
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{frames: make(map[string]int)}
}

func (r *recordingObserver) Frame(layer string, at time.Time) {
	r.frames[layer]++
	r.lastAny = at
}

func (r *recordingObserver) GlitchStarted(id int, at time.Time) {
	r.glitch = append(r.glitch, glitchEvent{id: id, active: true, at: at})
	r.lastAny = at
}

func (r *recordingObserver) GlitchEnded(id int, at time.Time) {
	r.glitch = append(r.glitch, glitchEvent{id: id, active: false, at: at})
	r.lastAny = at
}

func (r *recordingObserver) QuotePhase(id, text string, phase component.QuotePhase, at time.Time) {
	r.phases = append(r.phases, phaseEvent{id: id, text: text, phase: phase, at: at})
	r.lastAny = at
}

// selections returns the text of every quote that entered the pre phase, in order
func (r *recordingObserver) selections() []string {
	var out []string
	for _, p := range r.phases {
		if p.phase == component.PhasePre {
			out = append(out, p.text)
		}
	}
	return out
}

func (r *recordingObserver) events() int {
	n := len(r.glitch) + len(r.phases)
	for _, c := range r.frames {
		n += c
	}
	return n
}
