// Package dice is the boundary to the external dice-simulation service.
// The engine consumes rolls as opaque numeric results.
package dice

import (
	"context"
	"math/rand"
	"sync"
)

// Roller produces one two-die roll result.
type Roller interface {
	Roll(ctx context.Context) (int, error)
}

// PseudoRoller is the fallback used when the physics service is not
// attached: two fair six-sided dice from a seeded source.
type PseudoRoller struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewPseudoRoller creates a seeded pseudo-random roller.
func NewPseudoRoller(seed int64) *PseudoRoller {
	return &PseudoRoller{rng: rand.New(rand.NewSource(seed))}
}

// Roll returns the sum of two d6.
func (r *PseudoRoller) Roll(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(6) + r.rng.Intn(6) + 2, nil
}

// FixedRoller always returns the same result. Used in tests.
type FixedRoller struct {
	Result int
}

// Roll returns the fixed result.
func (r FixedRoller) Roll(_ context.Context) (int, error) {
	return r.Result, nil
}
