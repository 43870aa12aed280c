package engine

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestLoopStartStopLeavesNoGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t)

	sched := NewScheduler(NewMonotonicTimeProvider())
	var frames atomic.Int64
	loop := NewLoop(sched, time.Millisecond, func(time.Time) { frames.Add(1) })

	loop.Start()
	deadline := time.Now().Add(2 * time.Second)
	for frames.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	loop.Stop()
	loop.Stop()

	if frames.Load() < 3 {
		t.Errorf("Expected at least 3 frames, got %d", frames.Load())
	}
}

func TestLoopPostRunsOnLoopGoroutine(t *testing.T) {
	defer goleak.VerifyNone(t)

	sched := NewScheduler(NewMonotonicTimeProvider())
	loop := NewLoop(sched, time.Hour, nil)
	loop.Start()
	defer loop.Stop()

	done := make(chan struct{})
	if !loop.Post(func() { close(done) }) {
		t.Fatal("Post rejected on a running loop")
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Posted func never ran")
	}
}

func TestLoopPostAfterStop(t *testing.T) {
	sched := NewScheduler(NewMonotonicTimeProvider())
	loop := NewLoop(sched, time.Millisecond, nil)
	loop.Start()
	loop.Stop()

	if loop.Post(func() {}) {
		t.Error("Post accepted after Stop")
	}
}

func TestLoopRunReturnsOnContextCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	sched := NewScheduler(NewMonotonicTimeProvider())
	loop := NewLoop(sched, time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- loop.Run(ctx) }()

	cancel()
	select {
	case err := <-errCh:
		if err != context.Canceled {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	select {
	case <-loop.Done():
	default:
		t.Error("Done not closed after Run returned")
	}
}

func TestLoopCrashHandler(t *testing.T) {
	sched := NewScheduler(NewMonotonicTimeProvider())
	loop := NewLoop(sched, time.Hour, nil)

	recovered := make(chan any, 1)
	loop.SetCrashHandler(func(r any) { recovered <- r })
	loop.Start()
	loop.Post(func() { panic("boom") })

	select {
	case r := <-recovered:
		if r != "boom" {
			t.Errorf("Expected boom, got %v", r)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Crash handler not invoked")
	}
	loop.Stop()
}

func TestLoopTickObserver(t *testing.T) {
	defer goleak.VerifyNone(t)

	sched := NewScheduler(NewMonotonicTimeProvider())
	sched.AfterFunc(time.Hour, func() {})

	var ticks atomic.Int64
	var lastPending atomic.Int64
	loop := NewLoop(sched, time.Millisecond, nil)
	loop.SetTickObserver(func(d time.Duration, pending int) {
		if d < 0 {
			t.Errorf("negative tick duration %v", d)
		}
		lastPending.Store(int64(pending))
		ticks.Add(1)
	})
	loop.Start()

	deadline := time.Now().Add(2 * time.Second)
	for ticks.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	loop.Stop()

	if ticks.Load() < 3 {
		t.Fatalf("Expected at least 3 ticks, got %d", ticks.Load())
	}
	if lastPending.Load() != 1 {
		t.Errorf("Expected the hour timer to stay pending, got %d", lastPending.Load())
	}
}
