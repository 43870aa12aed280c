package engine

import "time"

// Arena owns every frame callback and timer a layer registers
// Release cancels all of them, after which the arena refuses new registrations
type Arena struct {
	sched    *Scheduler
	frames   map[Handle]struct{}
	timers   map[Handle]struct{}
	released bool
}

// NewArena creates an arena bound to sched
func NewArena(sched *Scheduler) *Arena {
	return &Arena{
		sched:  sched,
		frames: make(map[Handle]struct{}),
		timers: make(map[Handle]struct{}),
	}
}

// Now returns the scheduler clock reading
func (a *Arena) Now() time.Time {
	return a.sched.clock.Now()
}

// RequestFrame registers fn for the next frame, returns 0 once released
func (a *Arena) RequestFrame(fn FrameFunc) Handle {
	if a.released {
		return 0
	}
	var h Handle
	h = a.sched.RequestFrame(func(now time.Time) {
		delete(a.frames, h)
		if a.released {
			return
		}
		fn(now)
	})
	a.frames[h] = struct{}{}
	return h
}

// AfterFunc registers a one-shot timer, returns 0 once released
func (a *Arena) AfterFunc(d time.Duration, fn func()) Handle {
	if a.released {
		return 0
	}
	var h Handle
	h = a.sched.AfterFunc(d, func() {
		delete(a.timers, h)
		if a.released {
			return
		}
		fn()
	})
	a.timers[h] = struct{}{}
	return h
}

// CancelFrame drops a frame callback owned by this arena
func (a *Arena) CancelFrame(h Handle) {
	if _, ok := a.frames[h]; ok {
		delete(a.frames, h)
		a.sched.CancelFrame(h)
	}
}

// CancelTimer drops a timer owned by this arena
func (a *Arena) CancelTimer(h Handle) {
	if _, ok := a.timers[h]; ok {
		delete(a.timers, h)
		a.sched.CancelTimer(h)
	}
}

// Release cancels everything the arena owns
func (a *Arena) Release() {
	for h := range a.frames {
		a.sched.CancelFrame(h)
	}
	for h := range a.timers {
		a.sched.CancelTimer(h)
	}
	clear(a.frames)
	clear(a.timers)
	a.released = true
}

// Released reports whether Release has run
func (a *Arena) Released() bool {
	return a.released
}

// Live returns the number of registrations still pending
func (a *Arena) Live() int {
	return len(a.frames) + len(a.timers)
}
