package benchz

import (
	"fmt"
	"math"
)

// distributionBound is the number of slots in the operation table. A
// weight vector must account for exactly this many slots.
const distributionBound = 1024

// unfilledSlot marks a slot not yet claimed by any operation during build.
const unfilledSlot = math.MaxUint32

// Weights maps an operation id to the number of distribution slots it
// occupies. The elements are non-negative and sum to distributionBound.
type Weights []int

// Sum returns the total number of slots the vector claims.
func (w Weights) Sum() int {
	total := 0
	for _, weight := range w {
		total += weight
	}
	return total
}

// Validate checks the weight vector against the distribution bound.
func (w Weights) Validate() error {
	for i, weight := range w {
		if weight < 0 {
			return fmt.Errorf("%w: weight %d for op %d", ErrWeightNegative, weight, i)
		}
	}
	if sum := w.Sum(); sum != distributionBound {
		return fmt.Errorf("%w: got %d", ErrWeightSum, sum)
	}
	return nil
}

// distribution is the precomputed slot → operation id table. Built once
// during warmup, read-only afterwards; workers index it with a cursor they
// advance monotonically, which keeps the pick branch-free and guarantees
// that any 1024-slot window from one worker matches the weight vector
// exactly.
type distribution struct {
	slots [distributionBound]uint32
}

// buildDistribution fills the table by rejection sampling: for each
// operation id in order, draw slots uniformly until an unoccupied one is
// found, W[i] times. With a fixed rng seed the resulting table is
// identical across runs.
func buildDistribution(r *rng, w Weights) (*distribution, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	d := &distribution{}
	for i := range d.slots {
		d.slots[i] = unfilledSlot
	}

	for op, weight := range w {
		for placed := 0; placed < weight; placed++ {
			for {
				pos := r.IntBetween(0, distributionBound-1)
				if d.slots[pos] == unfilledSlot {
					d.slots[pos] = uint32(op) //nolint:gosec // op < len(w) <= 1024
					break
				}
			}
		}
	}

	// The weights summed to the bound, so every slot must be claimed.
	for i := range d.slots {
		if d.slots[i] == unfilledSlot {
			return nil, fmt.Errorf("distribution slot %d left unfilled", i)
		}
	}
	return d, nil
}

// lookup returns the operation id occupying the cursor's slot.
func (d *distribution) lookup(cursor uint64) int {
	return int(d.slots[cursor%distributionBound])
}

// startCursor is worker t's initial slot. Spacing the starting positions
// across the table decorrelates the operation streams of concurrent
// workers without per-thread random state.
func startCursor(t, threads int) uint64 {
	return uint64(distributionBound) * uint64(t) / uint64(threads) //nolint:gosec // t and threads are validated non-negative
}
