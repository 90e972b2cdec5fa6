package benchz

import "math/rand/v2"

// rng is the deterministic integer source used to place operations into
// the distribution table and to draw per-iteration noise amounts. Both
// PCG state words derive from the single seed, so identical seeds always
// produce identical draw sequences.
type rng struct {
	src *rand.Rand
}

func newRNG(seed uint64) *rng {
	r := &rng{}
	r.Seed(seed)
	return r
}

// Seed resets the generator to the deterministic stream for seed.
func (r *rng) Seed(seed uint64) {
	r.src = rand.New(rand.NewPCG(seed, seed))
}

// IntBetween returns a uniform integer in the inclusive range [lo, hi].
func (r *rng) IntBetween(lo, hi int) int {
	return lo + r.src.IntN(hi-lo+1)
}

// Uint64N returns a uniform integer in [0, n).
func (r *rng) Uint64N(n uint64) uint64 {
	return r.src.Uint64N(n)
}
