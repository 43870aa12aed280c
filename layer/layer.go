// Package layer implements the animated background layers
// Every layer is owned by the frame loop goroutine and is not safe for concurrent use
package layer

import (
	"time"

	"github.com/promptforge/backdrop/component"
	"github.com/promptforge/backdrop/engine"
	"github.com/promptforge/backdrop/render"
)

// Bounds is the measured container size in cells
type Bounds struct {
	Width, Height int
}

// Empty reports whether the container has not been measured yet
func (b Bounds) Empty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Layer is one mounted background layer
// Start mounts it against a scheduler, Stop unmounts it and cancels every pending callback
// A stopped layer cannot be restarted
type Layer interface {
	render.Drawable
	render.VisibilityToggle
	Name() string
	ZIndex() int
	Start(sched *engine.Scheduler, bounds Bounds)
	Resize(bounds Bounds)
	Stop()
}

// Observer receives animation lifecycle notifications
type Observer interface {
	Frame(layer string, at time.Time)
	GlitchStarted(tokenID int, at time.Time)
	GlitchEnded(tokenID int, at time.Time)
	QuotePhase(quoteID, text string, phase component.QuotePhase, at time.Time)
}

// NopObserver discards all notifications
type NopObserver struct{}

// Frame ignores a completed frame
func (NopObserver) Frame(string, time.Time) {}

// GlitchStarted ignores a glitch start
func (NopObserver) GlitchStarted(int, time.Time) {}

// GlitchEnded ignores a glitch end
func (NopObserver) GlitchEnded(int, time.Time) {}

// QuotePhase ignores a quote phase transition
func (NopObserver) QuotePhase(string, string, component.QuotePhase, time.Time) {}

// Options carries the injected collaborators shared by all layers
type Options struct {
	Random   engine.Random
	Observer Observer
}

func (o Options) withDefaults() Options {
	if o.Random == nil {
		o.Random = engine.NewRandom(0)
	}
	if o.Observer == nil {
		o.Observer = NopObserver{}
	}
	return o
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
