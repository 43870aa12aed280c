package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/promptforge/backdrop/parameter"
)

// Loop drives a Scheduler on a fixed frame interval and owns the goroutine all layer state lives on
// Work from other goroutines (input, config reload) enters through Post
type Loop struct {
	sched    *Scheduler
	interval time.Duration
	onFrame  func(now time.Time)

	posts chan func()

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool

	crashHandler func(any)
	tickObserver func(d time.Duration, pending int)
}

// NewLoop creates a loop ticking sched every interval, onFrame runs after each Tick
func NewLoop(sched *Scheduler, interval time.Duration, onFrame func(now time.Time)) *Loop {
	if interval <= 0 {
		interval = parameter.FrameUpdateInterval
	}
	return &Loop{
		sched:    sched,
		interval: interval,
		onFrame:  onFrame,
		posts:    make(chan func(), parameter.PostQueueSize),
		stopChan: make(chan struct{}),
	}
}

// Scheduler returns the scheduler the loop ticks
func (l *Loop) Scheduler() *Scheduler {
	return l.sched
}

// SetCrashHandler installs a recover hook for the loop goroutine, must be called before Start
func (l *Loop) SetCrashHandler(fn func(any)) {
	l.crashHandler = fn
}

// SetTickObserver reports the duration of every Tick and the callbacks left pending, must be called before Start
func (l *Loop) SetTickObserver(fn func(d time.Duration, pending int)) {
	l.tickObserver = fn
}

// Post queues fn to run on the loop goroutine
// Returns false if the loop has stopped
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.stopChan:
		return false
	default:
	}
	select {
	case l.posts <- fn:
		return true
	case <-l.stopChan:
		return false
	}
}

// Start runs the loop in its own goroutine until Stop
func (l *Loop) Start() {
	if !l.running.CompareAndSwap(false, true) {
		return
	}
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		l.run(context.Background())
	}()
}

// Run blocks on the caller's goroutine until ctx is done or Stop is called
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return nil
	}
	l.wg.Add(1)
	defer l.wg.Done()
	defer l.stopOnce.Do(func() { close(l.stopChan) })
	l.run(ctx)
	return ctx.Err()
}

// Stop signals the loop to exit and waits for it, safe to call more than once
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		close(l.stopChan)
	})
	l.wg.Wait()
}

// Done is closed once Stop has been requested
func (l *Loop) Done() <-chan struct{} {
	return l.stopChan
}

func (l *Loop) run(ctx context.Context) {
	if l.crashHandler != nil {
		defer func() {
			if r := recover(); r != nil {
				l.crashHandler(r)
			}
		}()
	}

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopChan:
			return
		case <-ctx.Done():
			return
		case fn := <-l.posts:
			fn()
		case <-ticker.C:
			start := time.Now()
			l.sched.Tick()
			if l.tickObserver != nil {
				l.tickObserver(time.Since(start), l.sched.Pending())
			}
			if l.onFrame != nil {
				l.onFrame(l.sched.clock.Now())
			}
		}
	}
}
