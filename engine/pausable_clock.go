package engine

import (
	"sync"
	"time"
)

// PausableClock wraps a TimeProvider and freezes its readings while paused
// Time spent paused is subtracted, so timers and phase deadlines resume where they left off
type PausableClock struct {
	mu sync.RWMutex

	base        TimeProvider
	paused      bool
	pauseStart  time.Time     // base reading when the current pause began
	totalPaused time.Duration // cumulative pause duration
}

// NewPausableClock creates a running clock over base
func NewPausableClock(base TimeProvider) *PausableClock {
	return &PausableClock{base: base}
}

// Now returns base time minus every pause, frozen at the pause point while paused
func (pc *PausableClock) Now() time.Time {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	if pc.paused {
		return pc.pauseStart.Add(-pc.totalPaused)
	}
	return pc.base.Now().Add(-pc.totalPaused)
}

// Pause stops time advancement, no-op if already paused
func (pc *PausableClock) Pause() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if pc.paused {
		return
	}
	pc.paused = true
	pc.pauseStart = pc.base.Now()
}

// Resume continues time advancement, no-op if not paused
func (pc *PausableClock) Resume() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if !pc.paused {
		return
	}
	pc.paused = false
	pc.totalPaused += pc.base.Now().Sub(pc.pauseStart)
	pc.pauseStart = time.Time{}
}

// Toggle flips the pause state and reports whether the clock is now paused
func (pc *PausableClock) Toggle() bool {
	if pc.IsPaused() {
		pc.Resume()
		return false
	}
	pc.Pause()
	return true
}

// IsPaused returns current pause state
func (pc *PausableClock) IsPaused() bool {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return pc.paused
}

// TotalPauseDuration returns cumulative pause time including a pause in progress
func (pc *PausableClock) TotalPauseDuration() time.Duration {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	total := pc.totalPaused
	if pc.paused {
		total += pc.base.Now().Sub(pc.pauseStart)
	}
	return total
}
