package benchz

import "testing"

func TestStats_AddOp(t *testing.T) {
	t.Run("Skip Is A NoOp", func(t *testing.T) {
		s := newStats(1, 1)
		s.addOp(0, 0, ResultOK, 100, true)

		cell := s.Cell(0, 0, ResultOK)
		if cell.Count != 0 || cell.Sum != 0 {
			t.Errorf("Expected untouched cell, got count=%d sum=%d", cell.Count, cell.Sum)
		}
	})

	t.Run("Accumulates", func(t *testing.T) {
		s := newStats(1, 1)
		for _, elapsed := range []Ticks{5, 3, 7} {
			s.addOp(0, 0, ResultOK, elapsed, false)
		}

		cell := s.Cell(0, 0, ResultOK)
		if cell.Count != 3 {
			t.Errorf("Expected count 3, got %d", cell.Count)
		}
		if cell.Sum != 15 {
			t.Errorf("Expected sum 15, got %d", cell.Sum)
		}
		if cell.Min != 3 {
			t.Errorf("Expected min 3, got %d", cell.Min)
		}
		if cell.Max != 7 {
			t.Errorf("Expected max 7, got %d", cell.Max)
		}
	})

	t.Run("Min Max Bracket Every Sample", func(t *testing.T) {
		s := newStats(1, 1)
		r := newRNG(1)
		for i := 0; i < 1000; i++ {
			s.addOp(0, 0, ResultOK, Ticks(r.IntBetween(1, 1_000_000)), false)
		}

		cell := s.Cell(0, 0, ResultOK)
		if cell.Min > cell.Max {
			t.Errorf("min %d exceeds max %d", cell.Min, cell.Max)
		}
		if cell.Sum < cell.Min*Ticks(cell.Count) || cell.Sum > cell.Max*Ticks(cell.Count) {
			t.Errorf("sum %d outside [%d, %d]", cell.Sum, cell.Min*Ticks(cell.Count), cell.Max*Ticks(cell.Count))
		}
	})

	t.Run("Clamps Result Bucket", func(t *testing.T) {
		s := newStats(1, 1)
		s.addOp(0, 0, Result(99), 10, false)
		s.addOp(0, 0, Result(-1), 20, false)

		if cell := s.Cell(0, 0, resultBuckets-1); cell.Count != 1 {
			t.Errorf("Expected high result clamped into last bucket, count=%d", cell.Count)
		}
		if cell := s.Cell(0, 0, 0); cell.Count != 1 {
			t.Errorf("Expected negative result clamped into first bucket, count=%d", cell.Count)
		}
	})
}

func TestStats_UntouchedCellMin(t *testing.T) {
	s := newStats(1, 1)
	if cell := s.Cell(0, 0, ResultOK); cell.Min != 0 {
		t.Errorf("Expected zero min for untouched cell, got %d", cell.Min)
	}
}

func TestStats_Aggregate(t *testing.T) {
	s := newStats(2, 1)
	s.addOp(0, 0, ResultOK, 10, false)
	s.addOp(0, 0, ResultOK, 30, false)
	s.addOp(1, 0, ResultOK, 20, false)
	s.addOp(1, 0, ResultRetry, 5, false)

	agg := s.Aggregate(0, ResultOK)
	if agg.Count != 3 {
		t.Errorf("Expected aggregate count 3, got %d", agg.Count)
	}
	if agg.Sum != 60 {
		t.Errorf("Expected aggregate sum 60, got %d", agg.Sum)
	}
	if agg.Min != 10 || agg.Max != 30 {
		t.Errorf("Expected min 10 max 30, got %d %d", agg.Min, agg.Max)
	}

	retry := s.Aggregate(0, ResultRetry)
	if retry.Count != 1 || retry.Sum != 5 {
		t.Errorf("Expected retry bucket count 1 sum 5, got %d %d", retry.Count, retry.Sum)
	}
}

func TestStats_ThreadAttribution(t *testing.T) {
	// Every recorded operation belongs to exactly one thread.
	s := newStats(3, 2)
	s.addOp(0, 0, ResultOK, 1, false)
	s.addOp(1, 1, ResultOK, 1, false)
	s.addOp(1, 0, ResultRetry, 1, false)

	counts := []uint64{s.ThreadCount(0), s.ThreadCount(1), s.ThreadCount(2)}
	if counts[0] != 1 || counts[1] != 2 || counts[2] != 0 {
		t.Errorf("per-thread counts %v, expected [1 2 0]", counts)
	}
	if s.TotalCount() != 3 {
		t.Errorf("Expected total 3, got %d", s.TotalCount())
	}
}

func TestStats_Envelopes(t *testing.T) {
	s := newStats(1, 1)
	minEnv := Envelope{StartTicks: 100, StopTicks: 1100, WallMS: 1}
	maxEnv := Envelope{StartTicks: 50, StopTicks: 1200, WallMS: 2}
	s.addSpentTime(minEnv, maxEnv)

	if got := s.MinEnvelope(); got != minEnv {
		t.Errorf("min envelope %+v, expected %+v", got, minEnv)
	}
	if got := s.MaxEnvelope(); got != maxEnv {
		t.Errorf("max envelope %+v, expected %+v", got, maxEnv)
	}
	if s.MinEnvelope().DurationTicks() != 1000 {
		t.Errorf("Expected min window 1000 ticks, got %d", s.MinEnvelope().DurationTicks())
	}
}
