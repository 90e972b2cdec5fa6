package benchz

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/zoobzio/clockz"
)

// NoopTarget dispatches every operation as an immediate success. It
// measures nothing but the harness's own envelope, which makes it the
// baseline subject for calibration runs.
type NoopTarget struct {
	ops int
}

// NewNoopTarget creates a NoopTarget accepting ops distinct operation ids.
func NewNoopTarget(ops int) *NoopTarget {
	if ops < 1 {
		ops = 1
	}
	return &NoopTarget{ops: ops}
}

// OpCount reports the configured operation count.
func (n *NoopTarget) OpCount() int { return n.ops }

// Init implements Target.
func (*NoopTarget) Init(_, _ int) error { return nil }

// Register implements Target.
func (*NoopTarget) Register(_ *ThreadCtx, _ int) {}

// Dispatch implements Target.
func (*NoopTarget) Dispatch(_ *ThreadCtx, _ int) Result { return ResultOK }

// Deregister implements Target.
func (*NoopTarget) Deregister(_ *ThreadCtx, _ int) {}

// Destroy implements Target.
func (*NoopTarget) Destroy(_ int) error { return nil }

// SleepTarget blocks every dispatch for a fixed delay, standing in for an
// I/O-bound subject. The delay runs on an injectable clock.
type SleepTarget struct {
	clock clockz.Clock
	delay time.Duration
}

// NewSleepTarget creates a SleepTarget sleeping delay per dispatch on the
// real clock.
func NewSleepTarget(delay time.Duration) *SleepTarget {
	return &SleepTarget{clock: clockz.RealClock, delay: delay}
}

// WithClock replaces the clock used for the per-dispatch sleep.
func (s *SleepTarget) WithClock(clock clockz.Clock) *SleepTarget {
	s.clock = clock
	return s
}

// OpCount implements Target.
func (*SleepTarget) OpCount() int { return 1 }

// Init implements Target.
func (*SleepTarget) Init(_, _ int) error { return nil }

// Register implements Target.
func (*SleepTarget) Register(_ *ThreadCtx, _ int) {}

// Dispatch implements Target.
func (s *SleepTarget) Dispatch(_ *ThreadCtx, _ int) Result {
	<-s.clock.After(s.delay)
	return ResultOK
}

// Deregister implements Target.
func (*SleepTarget) Deregister(_ *ThreadCtx, _ int) {}

// Destroy implements Target.
func (*SleepTarget) Destroy(_ int) error { return nil }

// Map target operation ids.
const (
	MapOpInsert = iota
	MapOpLookup
	MapOpDelete
	mapOpCount
)

const mapShardCount = 64

type mapShard struct {
	mu    sync.Mutex
	items map[uint64]uint64
}

// MapTarget drives a sharded hash map, the archetypal concurrent
// data-structure subject. Operation 0 inserts, 1 looks up, 2 deletes; keys
// are drawn uniformly from a keyspace twice the initial size, so right
// after Init half the keyspace is resident and lookups and deletes miss
// roughly half the time. How full the map becomes later depends on the
// insert and delete weights.
type MapTarget struct {
	shards   [mapShardCount]mapShard
	keyspace uint64
}

// NewMapTarget creates an empty MapTarget; Init sizes and prefills it.
func NewMapTarget() *MapTarget {
	m := &MapTarget{}
	for i := range m.shards {
		m.shards[i].items = make(map[uint64]uint64)
	}
	return m
}

// OpCount implements Target.
func (*MapTarget) OpCount() int { return mapOpCount }

// Init prefills the map with initialSize sequential keys and fixes the
// keyspace the workers draw from.
func (m *MapTarget) Init(initialSize, _ int) error {
	if initialSize < 1 {
		initialSize = 1
	}
	m.keyspace = 2 * uint64(initialSize) //nolint:gosec // initialSize >= 1
	for k := uint64(0); k < uint64(initialSize); k++ {
		shard := m.shard(k)
		shard.items[k] = k
	}
	return nil
}

// Register seeds a per-worker key generator so workers draw independent
// key streams without sharing random state.
func (m *MapTarget) Register(ctx *ThreadCtx, t int) {
	seed := uint64(t) + 1 //nolint:gosec // worker ids are non-negative
	ctx.Payload = rand.New(rand.NewPCG(seed, seed))
}

// Dispatch implements Target.
func (m *MapTarget) Dispatch(ctx *ThreadCtx, op int) Result {
	keys := ctx.Payload.(*rand.Rand)
	key := keys.Uint64N(m.keyspace)
	shard := m.shard(key)

	shard.mu.Lock()
	defer shard.mu.Unlock()
	switch op {
	case MapOpInsert:
		shard.items[key] = key
		return ResultOK
	case MapOpLookup:
		if _, ok := shard.items[key]; !ok {
			return ResultNotFound
		}
		return ResultOK
	case MapOpDelete:
		if _, ok := shard.items[key]; !ok {
			return ResultNotFound
		}
		delete(shard.items, key)
		return ResultOK
	default:
		return ResultRejected
	}
}

// Deregister implements Target.
func (*MapTarget) Deregister(ctx *ThreadCtx, _ int) {
	ctx.Payload = nil
}

// Destroy implements Target.
func (m *MapTarget) Destroy(_ int) error {
	for i := range m.shards {
		m.shards[i].items = nil
	}
	return nil
}

// Len reports the number of resident keys. Not safe to call during a run.
func (m *MapTarget) Len() int {
	total := 0
	for i := range m.shards {
		total += len(m.shards[i].items)
	}
	return total
}

func (m *MapTarget) shard(key uint64) *mapShard {
	return &m.shards[key%mapShardCount]
}
