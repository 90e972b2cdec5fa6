package benchz

import "math"

// resultBuckets is the number of result classifications tracked per
// (thread, operation) pair. Dispatch results at or above the bound are
// clamped into the last bucket.
const resultBuckets = 8

// OpCell accumulates the latencies of one (thread, operation, result)
// triple: how often it happened, the tick total, and the extremes.
type OpCell struct {
	Count uint64
	Sum   Ticks
	Min   Ticks
	Max   Ticks
}

// Envelope bounds one side of the measurement window: tick and wall-clock
// readings taken at the window's edges. The min envelope is sampled inside
// both rendezvous (all workers definitely running); the max envelope
// outside them (any worker possibly running). Throughput computed against
// either exposes thread-startup skew.
type Envelope struct {
	StartTicks Ticks
	StopTicks  Ticks
	WallMS     uint64
}

// DurationTicks is the width of the envelope in ticks.
func (e Envelope) DurationTicks() Ticks {
	return e.StopTicks - e.StartTicks
}

// Stats is the three-dimensional latency accumulator behind a run. During
// the run phase the cells of thread t are written exclusively by worker t,
// so the operation path takes no locks and no atomics; the stop rendezvous
// supplies the happens-before edge that publishes every cell to the
// driver.
type Stats struct {
	threads int
	ops     int
	cells   []OpCell
	minEnv  Envelope
	maxEnv  Envelope
}

// newStats allocates the (threads × ops × resultBuckets) accumulator with
// every cell's minimum primed high so the first sample always lowers it.
func newStats(threads, ops int) *Stats {
	s := &Stats{
		threads: threads,
		ops:     ops,
		cells:   make([]OpCell, threads*ops*resultBuckets),
	}
	for i := range s.cells {
		s.cells[i].Min = Ticks(math.MaxUint64)
	}
	return s
}

// Threads reports the thread dimension of the accumulator.
func (s *Stats) Threads() int { return s.threads }

// Ops reports the operation dimension of the accumulator.
func (s *Stats) Ops() int { return s.ops }

func clampResult(r Result) Result {
	if r < 0 {
		return 0
	}
	if r >= resultBuckets {
		return resultBuckets - 1
	}
	return r
}

func (s *Stats) cell(t, op int, r Result) *OpCell {
	return &s.cells[(t*s.ops+op)*resultBuckets+int(clampResult(r))]
}

// addOp folds one timed operation into its cell. skip excludes a
// contaminated sample while still letting the caller advance; it is
// reserved for preemption detection and must remain a strict no-op.
func (s *Stats) addOp(t, op int, r Result, elapsed Ticks, skip bool) {
	if skip {
		return
	}
	c := s.cell(t, op, r)
	c.Count++
	c.Sum += elapsed
	if elapsed < c.Min {
		c.Min = elapsed
	}
	if elapsed > c.Max {
		c.Max = elapsed
	}
}

// addSpentTime records the two run envelopes. Called exactly once, after
// the workers have been joined.
func (s *Stats) addSpentTime(minEnv, maxEnv Envelope) {
	s.minEnv = minEnv
	s.maxEnv = maxEnv
}

// Cell returns a copy of one accumulator cell. An untouched cell reports
// Min zero rather than the internal sentinel.
func (s *Stats) Cell(t, op int, r Result) OpCell {
	c := *s.cell(t, op, r)
	if c.Count == 0 {
		c.Min = 0
	}
	return c
}

// Aggregate folds one (operation, result) bucket across every thread.
func (s *Stats) Aggregate(op int, r Result) OpCell {
	agg := OpCell{Min: Ticks(math.MaxUint64)}
	for t := 0; t < s.threads; t++ {
		c := s.cell(t, op, r)
		if c.Count == 0 {
			continue
		}
		agg.Count += c.Count
		agg.Sum += c.Sum
		if c.Min < agg.Min {
			agg.Min = c.Min
		}
		if c.Max > agg.Max {
			agg.Max = c.Max
		}
	}
	if agg.Count == 0 {
		agg.Min = 0
	}
	return agg
}

// ThreadCount is the total number of operations thread t recorded across
// every (operation, result) bucket.
func (s *Stats) ThreadCount(t int) uint64 {
	total := uint64(0)
	for op := 0; op < s.ops; op++ {
		for r := Result(0); r < resultBuckets; r++ {
			total += s.cell(t, op, r).Count
		}
	}
	return total
}

// TotalCount is the number of operations recorded across all threads.
func (s *Stats) TotalCount() uint64 {
	total := uint64(0)
	for t := 0; t < s.threads; t++ {
		total += s.ThreadCount(t)
	}
	return total
}

// MinEnvelope returns the inside-the-rendezvous timing window.
func (s *Stats) MinEnvelope() Envelope { return s.minEnv }

// MaxEnvelope returns the outside-the-rendezvous timing window.
func (s *Stats) MaxEnvelope() Envelope { return s.maxEnv }
