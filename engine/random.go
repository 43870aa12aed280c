package engine

import (
	"math/rand/v2"
	"sync"
)

// Random is the injectable randomness source used by every layer
type Random interface {
	// Float64 returns a value in [0,1)
	Float64() float64
	// IntN returns a value in [0,n), n must be positive
	IntN(n int) int
}

// NewRandom returns a PCG-backed source
// seed 0 picks a random seed
func NewRandom(seed uint64) Random {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// ScriptedRandom replays a fixed sequence of floats, cycling when exhausted
// IntN derives its result from the next float so scripted values drive both
type ScriptedRandom struct {
	mu     sync.Mutex
	values []float64
	next   int
}

// NewScriptedRandom creates a scripted source, with no values it always returns 0
func NewScriptedRandom(values ...float64) *ScriptedRandom {
	return &ScriptedRandom{values: values}
}

func (r *ScriptedRandom) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.values) == 0 {
		return 0
	}
	v := r.values[r.next%len(r.values)]
	r.next++
	return v
}

func (r *ScriptedRandom) IntN(n int) int {
	i := int(r.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// Set replaces the scripted sequence and restarts it
func (r *ScriptedRandom) Set(values ...float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = values
	r.next = 0
}
