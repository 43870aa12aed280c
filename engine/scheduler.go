package engine

import (
	"cmp"
	"slices"
	"time"
)

// Handle identifies a pending frame callback or timer, zero is never issued
type Handle uint64

// FrameFunc runs once on the next frame with that frame's timestamp
type FrameFunc func(now time.Time)

type timerEntry struct {
	due time.Time
	fn  func()
}

// Scheduler is the single-threaded equivalent of a browser's animation frame and timeout queues
// Not safe for concurrent use: every call must come from the goroutine that calls Tick
type Scheduler struct {
	clock  TimeProvider
	nextID Handle

	frameOrder []Handle
	frames     map[Handle]FrameFunc
	timers     map[Handle]timerEntry

	frameCount uint64
}

// NewScheduler creates a scheduler reading time from clock
func NewScheduler(clock TimeProvider) *Scheduler {
	return &Scheduler{
		clock:  clock,
		frames: make(map[Handle]FrameFunc),
		timers: make(map[Handle]timerEntry),
	}
}

// Clock returns the scheduler's time source
func (s *Scheduler) Clock() TimeProvider {
	return s.clock
}

// RequestFrame registers fn for the next Tick
func (s *Scheduler) RequestFrame(fn FrameFunc) Handle {
	s.nextID++
	h := s.nextID
	s.frames[h] = fn
	s.frameOrder = append(s.frameOrder, h)
	return h
}

// CancelFrame drops a pending frame callback, unknown handles are ignored
func (s *Scheduler) CancelFrame(h Handle) {
	delete(s.frames, h)
}

// AfterFunc runs fn on the first Tick at or after d from now
func (s *Scheduler) AfterFunc(d time.Duration, fn func()) Handle {
	s.nextID++
	h := s.nextID
	s.timers[h] = timerEntry{due: s.clock.Now().Add(d), fn: fn}
	return h
}

// CancelTimer drops a pending timer, unknown handles are ignored
func (s *Scheduler) CancelTimer(h Handle) {
	delete(s.timers, h)
}

// Tick runs due timers in deadline order, then every frame callback registered before this Tick
// Callbacks registered during Tick run on the next one
func (s *Scheduler) Tick() {
	now := s.clock.Now()
	s.frameCount++

	if len(s.timers) > 0 {
		var due []Handle
		for h, t := range s.timers {
			if !t.due.After(now) {
				due = append(due, h)
			}
		}
		slices.SortFunc(due, func(a, b Handle) int {
			if c := s.timers[a].due.Compare(s.timers[b].due); c != 0 {
				return c
			}
			return cmp.Compare(a, b)
		})
		for _, h := range due {
			t, ok := s.timers[h]
			if !ok {
				// Cancelled by an earlier callback in this batch
				continue
			}
			delete(s.timers, h)
			t.fn()
		}
	}

	batch := s.frameOrder
	s.frameOrder = nil
	for _, h := range batch {
		fn, ok := s.frames[h]
		if !ok {
			continue
		}
		delete(s.frames, h)
		fn(now)
	}
}

// Pending returns the number of registered frame callbacks and timers
func (s *Scheduler) Pending() int {
	return len(s.frames) + len(s.timers)
}

// FrameCount returns the number of Ticks processed
func (s *Scheduler) FrameCount() uint64 {
	return s.frameCount
}
