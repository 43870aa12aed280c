package background

import (
	"maps"
	"slices"
	"sync"
)

// MediaQuery is a boolean environment signal with change notification
type MediaQuery interface {
	Matches() bool
	// AddListener registers fn for changes, the returned func removes it
	AddListener(fn func(matches bool)) (remove func())
}

// Query is a settable MediaQuery
// Listeners run synchronously on the goroutine calling Set
type Query struct {
	mu        sync.Mutex
	media     string
	matches   bool
	nextID    int
	listeners map[int]func(bool)
}

// NewQuery creates a query with an initial match state
func NewQuery(media string, matches bool) *Query {
	return &Query{
		media:     media,
		matches:   matches,
		listeners: make(map[int]func(bool)),
	}
}

func (q *Query) String() string {
	return q.media
}

func (q *Query) Matches() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.matches
}

func (q *Query) AddListener(fn func(bool)) func() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.nextID++
	id := q.nextID
	q.listeners[id] = fn
	return func() {
		q.mu.Lock()
		defer q.mu.Unlock()
		delete(q.listeners, id)
	}
}

// Set updates the match state and notifies listeners in registration order if it changed
func (q *Query) Set(matches bool) {
	q.mu.Lock()
	if q.matches == matches {
		q.mu.Unlock()
		return
	}
	q.matches = matches
	ids := slices.Sorted(maps.Keys(q.listeners))
	fns := make([]func(bool), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, q.listeners[id])
	}
	q.mu.Unlock()

	for _, fn := range fns {
		fn(matches)
	}
}

// Listeners returns the number of registered listeners
func (q *Query) Listeners() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.listeners)
}
