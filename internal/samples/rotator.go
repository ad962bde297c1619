// Package samples picks demo e-mails for the "use sample" action.
package samples

import (
	"errors"
	"math/rand"
	"sync"
	"time"
)

// ErrNoSamples is returned when the sample pool is empty
var ErrNoSamples = errors.New("no samples available")

// Rotator draws random samples without repeating the previous pick when
// alternatives exist
type Rotator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRotator creates a rotator seeded from the clock
func NewRotator() *Rotator {
	return NewRotatorWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewRotatorWithSource creates a rotator drawing from src
func NewRotatorWithSource(src rand.Source) *Rotator {
	return &Rotator{rng: rand.New(src)}
}

// Next picks a sample uniformly at random. When the pool holds more than
// one sample and the draw equals lastIndex, it redraws until they differ.
// lastIndex is nil when nothing was picked yet.
func (r *Rotator) Next(samples []string, lastIndex *int) (string, int, error) {
	if len(samples) == 0 {
		return "", 0, ErrNoSamples
	}
	if len(samples) == 1 {
		return samples[0], 0, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.rng.Intn(len(samples))
	if lastIndex != nil {
		for idx == *lastIndex {
			idx = r.rng.Intn(len(samples))
		}
	}
	return samples[idx], idx, nil
}
