package component

import (
	"time"

	"github.com/promptforge/backdrop/content"
)

// QuotePhase is the lifecycle stage of an active quote
type QuotePhase uint8

const (
	PhasePre QuotePhase = iota
	PhaseTyping
	PhaseHold
	PhaseFadeout
	PhaseCooldown
)

var phaseNames = [...]string{"pre", "typing", "hold", "fadeout", "cooldown"}

func (p QuotePhase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// QuoteComponent is the single narrative line currently on screen
type QuoteComponent struct {
	ID       string
	Template *content.QuoteTemplate
	Runes    []rune

	// X, Y are fixed from the bounds measured at creation
	X, Y int

	Index   int // revealed rune count, never exceeds len(Runes)
	Opacity float64
	Phase   QuotePhase

	PhaseStart time.Time
	LastReveal time.Time
}

// Visible returns the revealed prefix
func (q *QuoteComponent) Visible() string {
	return string(q.Runes[:q.Index])
}
