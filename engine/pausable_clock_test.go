package engine

import (
	"testing"
	"time"
)

func TestPausableClockFreezesAndResumes(t *testing.T) {
	base := NewMockTimeProvider(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	clock := NewPausableClock(base)
	start := clock.Now()

	base.Advance(100 * time.Millisecond)
	if got := clock.Now().Sub(start); got != 100*time.Millisecond {
		t.Fatalf("Expected 100ms elapsed, got %v", got)
	}

	clock.Pause()
	clock.Pause()
	base.Advance(time.Second)
	if got := clock.Now().Sub(start); got != 100*time.Millisecond {
		t.Errorf("Expected time frozen at 100ms while paused, got %v", got)
	}
	if got := clock.TotalPauseDuration(); got != time.Second {
		t.Errorf("Expected 1s pause in progress, got %v", got)
	}

	clock.Resume()
	clock.Resume()
	base.Advance(50 * time.Millisecond)
	if got := clock.Now().Sub(start); got != 150*time.Millisecond {
		t.Errorf("Expected 150ms elapsed after resume, got %v", got)
	}
	if clock.IsPaused() {
		t.Error("Expected clock to be running")
	}
}

func TestPausableClockHoldsTimers(t *testing.T) {
	base := NewMockTimeProvider(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	clock := NewPausableClock(base)
	sched := NewScheduler(clock)

	fired := false
	sched.AfterFunc(100*time.Millisecond, func() { fired = true })

	if !clock.Toggle() {
		t.Fatal("Expected Toggle to pause")
	}
	base.Advance(time.Second)
	sched.Tick()
	if fired {
		t.Fatal("Timer fired while paused")
	}

	if clock.Toggle() {
		t.Fatal("Expected Toggle to resume")
	}
	base.Advance(100 * time.Millisecond)
	sched.Tick()
	if !fired {
		t.Error("Expected timer to fire 100ms of running time after scheduling")
	}
}
