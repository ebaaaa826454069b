package core

import "math/rand/v2"

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
// Each simulation run owns its own RNG; instances must not be shared.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// IntN returns a uniform value in [0, n). It returns 0 when n <= 0.
func (r *RNG) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return r.r.IntN(n)
}

// Pick returns a cell chosen uniformly from a w*h grid using a single draw.
func (r *RNG) Pick(w, h int) Cell {
	if w <= 0 || h <= 0 {
		return Cell{}
	}
	idx := r.r.IntN(w * h)
	return Cell{Row: idx / w, Col: idx % w}
}
