package benchz

import (
	"time"

	"github.com/zoobzio/clockz"
)

// Ticks is a raw reading from the harness tick source, the unit every
// latency cell is accumulated in. Go exposes no portable user-space cycle
// counter, so a tick is one monotonic nanosecond; the harness only ever
// subtracts tick values, never interprets them.
type Ticks uint64

// tickSource is the dual clock behind a run: a monotonic tick counter for
// per-operation latencies and a wall clock in milliseconds for the run
// envelopes. Both sides are safe to read from any worker without
// synchronization.
type tickSource struct {
	clock clockz.Clock
	epoch time.Time
}

func newTickSource(clock clockz.Clock) *tickSource {
	return &tickSource{clock: clock, epoch: clock.Now()}
}

// ticks returns monotonic nanoseconds since the source's epoch. The epoch
// is fixed at construction so readings fit comfortably in 64 bits.
func (s *tickSource) ticks() Ticks {
	return Ticks(s.clock.Since(s.epoch))
}

// wallMS returns the wall clock in milliseconds since the Unix epoch.
// Used only for the run-phase envelopes, never on the operation path.
func (s *tickSource) wallMS() uint64 {
	return uint64(s.clock.Now().UnixMilli()) //nolint:gosec // wall time is non-negative
}
