package shared

import (
	"math/rand"
	"time"
)

// RandomSource is a uniform random source in [0,1)
type RandomSource interface {
	Float64() float64
}

// SeededRandom wraps math/rand with an explicit seed. It is not safe for
// concurrent use; each world owns its own instance.
type SeededRandom struct {
	rnd *rand.Rand
}

// NewSeededRandom creates a random source. A zero seed uses the current time.
func NewSeededRandom(seed int64) *SeededRandom {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &SeededRandom{rnd: rand.New(rand.NewSource(seed))}
}

func (r *SeededRandom) Float64() float64 {
	return r.rnd.Float64()
}

// SequenceRandom replays fixed samples, cycling when exhausted. Used in tests
// to make upgrade rolls deterministic.
type SequenceRandom struct {
	Samples []float64
	next    int
}

// NewSequenceRandom creates a replaying source
func NewSequenceRandom(samples ...float64) *SequenceRandom {
	return &SequenceRandom{Samples: samples}
}

func (r *SequenceRandom) Float64() float64 {
	if len(r.Samples) == 0 {
		return 0
	}
	v := r.Samples[r.next%len(r.Samples)]
	r.next++
	return v
}

// Draws returns how many samples have been taken
func (r *SequenceRandom) Draws() int {
	return r.next
}
