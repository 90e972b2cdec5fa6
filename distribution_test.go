package benchz

import (
	"errors"
	"testing"
)

func TestWeights_Validate(t *testing.T) {
	t.Run("Sum Mismatch", func(t *testing.T) {
		err := Weights{512, 256}.Validate()
		if !errors.Is(err, ErrWeightSum) {
			t.Errorf("Expected ErrWeightSum, got %v", err)
		}
	})

	t.Run("Negative Weight", func(t *testing.T) {
		err := Weights{1025, -1}.Validate()
		if !errors.Is(err, ErrWeightNegative) {
			t.Errorf("Expected ErrWeightNegative, got %v", err)
		}
	})

	t.Run("Valid", func(t *testing.T) {
		if err := (Weights{512, 512}).Validate(); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})
}

func TestBuildDistribution_SlotCounts(t *testing.T) {
	vectors := []Weights{
		{1024},
		{512, 512},
		{1023, 1},
		{256, 256, 256, 256},
		{0, 1024},
		{100, 200, 300, 424},
	}

	for _, weights := range vectors {
		d, err := buildDistribution(newRNG(0), weights)
		if err != nil {
			t.Fatalf("build failed for %v: %v", weights, err)
		}

		counts := make([]int, len(weights))
		for i := range d.slots {
			op := d.slots[i]
			if op == unfilledSlot {
				t.Fatalf("slot %d unfilled for %v", i, weights)
			}
			if int(op) >= len(weights) {
				t.Fatalf("slot %d holds out-of-range op %d for %v", i, op, weights)
			}
			counts[op]++
		}
		for op, count := range counts {
			if count != weights[op] {
				t.Errorf("op %d occupies %d slots, expected %d (weights %v)", op, count, weights[op], weights)
			}
		}
	}
}

func TestBuildDistribution_Deterministic(t *testing.T) {
	weights := Weights{100, 200, 300, 424}

	first, err := buildDistribution(newRNG(0), weights)
	if err != nil {
		t.Fatalf("first build failed: %v", err)
	}
	second, err := buildDistribution(newRNG(0), weights)
	if err != nil {
		t.Fatalf("second build failed: %v", err)
	}

	if first.slots != second.slots {
		t.Error("Expected identical tables for identical seeds")
	}
}

func TestBuildDistribution_RejectsBadSum(t *testing.T) {
	_, err := buildDistribution(newRNG(0), Weights{100, 100})
	if !errors.Is(err, ErrWeightSum) {
		t.Errorf("Expected ErrWeightSum, got %v", err)
	}
}

func TestDistribution_WindowPermutation(t *testing.T) {
	// Any 1024-slot window from any starting cursor covers the weight
	// vector exactly.
	weights := Weights{512, 384, 128}
	d, err := buildDistribution(newRNG(0), weights)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	for _, cursor := range []uint64{0, 341, 682, 1000, 5000} {
		counts := make([]int, len(weights))
		for k := uint64(0); k < distributionBound; k++ {
			counts[d.lookup(cursor+k)]++
		}
		for op, count := range counts {
			if count != weights[op] {
				t.Errorf("cursor %d: op %d appears %d times, expected %d", cursor, op, count, weights[op])
			}
		}
	}
}

func TestDistribution_SingleSlotOp(t *testing.T) {
	// A weight of 1 yields exactly one appearance of that op in any
	// 1024-slot window.
	d, err := buildDistribution(newRNG(0), Weights{1023, 1})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	for _, start := range []uint64{0, 256, 512, 768} {
		seen := 0
		for k := uint64(0); k < distributionBound; k++ {
			if d.lookup(start+k) == 1 {
				seen++
			}
		}
		if seen != 1 {
			t.Errorf("start %d: op 1 appeared %d times, expected exactly once", start, seen)
		}
	}
}

func TestStartCursor(t *testing.T) {
	threads := 4
	expected := []uint64{0, 256, 512, 768}
	for tid := 0; tid < threads; tid++ {
		if got := startCursor(tid, threads); got != expected[tid] {
			t.Errorf("worker %d: cursor %d, expected %d", tid, got, expected[tid])
		}
	}

	if got := startCursor(0, 1); got != 0 {
		t.Errorf("single worker: cursor %d, expected 0", got)
	}
}
