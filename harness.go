package benchz

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// Name identifies a harness instance in events, signals, and spans.
type Name = string

// Metric keys for harness observability.
const (
	RunOpsTotal     = metricz.Key("harness.run.ops.total")
	RunWorkersTotal = metricz.Key("harness.run.workers.total")
	WarmupsTotal    = metricz.Key("harness.warmups.total")
	RunsTotal       = metricz.Key("harness.runs.total")
	ConfigRejected  = metricz.Key("harness.config.rejected.total")
)

// Span names for the harness phases.
const (
	WarmupSpan   = tracez.Key("harness.warmup")
	RunSpan      = tracez.Key("harness.run")
	ConcludeSpan = tracez.Key("harness.conclude")
	CooldownSpan = tracez.Key("harness.cooldown")
)

// Span tags for the harness phases.
const (
	TagHarness  = tracez.Tag("harness.name")
	TagThreads  = tracez.Tag("harness.threads")
	TagOpCount  = tracez.Tag("harness.op_count")
	TagTotalOps = tracez.Tag("harness.total_ops")
	TagError    = tracez.Tag("harness.error")
)

// Hook event keys.
const (
	EventWorkerRegistered = hookz.Key("harness.worker.registered")
	EventWorkerFinished   = hookz.Key("harness.worker.finished")
	EventStopSignaled     = hookz.Key("harness.run.stop-signaled")
	EventRunComplete      = hookz.Key("harness.run.complete")
)

// HarnessEvent describes a harness lifecycle moment. Emitted via hookz so
// external systems can watch workers come and go without touching the
// measurement path; worker events fire outside the timed window.
type HarnessEvent struct {
	Name      Name
	Worker    int           // Worker id, -1 for driver events
	Ops       uint64        // Operations the worker (or run) recorded
	Window    time.Duration // Inside-rendezvous window, run events only
	Timestamp time.Time
}

// latch is one side of an N+1-party rendezvous: workers count in and block
// until the driver opens the gate. A pair of latches gives the two-phase
// start/stop synchronization the run phase needs.
type latch struct {
	arrived sync.WaitGroup
	gate    chan struct{}
}

func newLatch(parties int) *latch {
	l := &latch{gate: make(chan struct{})}
	l.arrived.Add(parties)
	return l
}

// arrive counts the caller in and blocks until the gate opens.
func (l *latch) arrive() {
	l.arrived.Done()
	<-l.gate
}

// await blocks the driver until every party has arrived.
func (l *latch) await() {
	l.arrived.Wait()
}

// open releases every arrived party. Must follow await.
func (l *latch) open() {
	close(l.gate)
}

// Harness measures per-operation latency and aggregate throughput of a
// Target: T workers issue operations drawn from a precomputed weighted
// table against the shared target for a bounded duration, each operation
// individually timed on a monotonic tick source.
//
// A Harness runs the phased lifecycle warmup → run → conclude → cooldown.
// Warmup precomputes the distribution table and fails fast on
// configuration errors; run synchronizes the workers through two
// rendezvous so no operation is counted before every worker is ready;
// conclude renders the delimited result record; cooldown releases the
// accumulator.
//
// CRITICAL: a Harness is single-shot. Create a new one for every run; the
// stop flag transitions to true exactly once and never back.
//
// Example:
//
//	h := benchz.NewHarness("map-mixed", benchz.NewMapTarget(), benchz.Params{
//	    Threads:     8,
//	    Duration:    10 * time.Second,
//	    InitialSize: 1 << 16,
//	    Weights:     benchz.Weights{512, 384, 128},
//	})
//	snap, err := h.Run(context.Background())
//
// # Observability
//
// Metrics:
//   - harness.run.ops.total: operations recorded across all workers
//   - harness.run.workers.total: workers joined
//   - harness.warmups.total / harness.runs.total: phase counters
//   - harness.config.rejected.total: failed warmups
//
// Traces:
//   - harness.warmup / harness.run / harness.conclude / harness.cooldown
//
// Events (via hooks):
//   - harness.worker.registered / harness.worker.finished
//   - harness.run.stop-signaled / harness.run.complete
type Harness struct {
	name   Name
	target Target
	params Params

	clock  clockz.Clock
	getenv func(string) string
	out    io.Writer
	delim  byte

	ticks *tickSource
	rng   *rng
	dist  *distribution
	stats *Stats
	stop  atomic.Bool

	metrics *metricz.Registry
	tracer  *tracez.Tracer
	hooks   *hookz.Hooks[HarnessEvent]
}

// NewHarness creates a Harness for one measurement run of target.
func NewHarness(name Name, target Target, params Params) *Harness {
	registry := metricz.New()
	registry.Counter(RunOpsTotal)
	registry.Counter(RunWorkersTotal)
	registry.Counter(WarmupsTotal)
	registry.Counter(RunsTotal)
	registry.Counter(ConfigRejected)

	return &Harness{
		name:    name,
		target:  target,
		params:  params,
		clock:   clockz.RealClock,
		getenv:  os.Getenv,
		out:     os.Stdout,
		delim:   DefaultDelimiter,
		rng:     newRNG(0),
		metrics: registry,
		tracer:  tracez.New(),
		hooks:   hookz.New[HarnessEvent](),
	}
}

// WithClock replaces the clock behind the tick source, the duration sleep,
// and the envelopes. Call before Run.
func (h *Harness) WithClock(clock clockz.Clock) *Harness {
	h.clock = clock
	return h
}

// WithOutput redirects the conclude record away from stdout.
func (h *Harness) WithOutput(w io.Writer) *Harness {
	h.out = w
	return h
}

// WithDelimiter changes the field delimiter of the conclude record.
func (h *Harness) WithDelimiter(delim byte) *Harness {
	h.delim = delim
	return h
}

// WithEnvironment replaces the environment lookup used to resolve the
// BM_SYS_* endpoint surface. Intended for tests.
func (h *Harness) WithEnvironment(getenv func(string) string) *Harness {
	h.getenv = getenv
	return h
}

// Metrics returns the harness metrics registry.
func (h *Harness) Metrics() *metricz.Registry {
	return h.metrics
}

// Tracer returns the harness tracer for span collection.
func (h *Harness) Tracer() *tracez.Tracer {
	return h.tracer
}

// OnWorkerRegistered registers a handler fired when a worker has called
// the target's Register, before the start rendezvous.
func (h *Harness) OnWorkerRegistered(handler func(context.Context, HarnessEvent) error) error {
	_, err := h.hooks.Hook(EventWorkerRegistered, handler)
	return err
}

// OnWorkerFinished registers a handler fired after a worker has passed the
// stop rendezvous and deregistered.
func (h *Harness) OnWorkerFinished(handler func(context.Context, HarnessEvent) error) error {
	_, err := h.hooks.Hook(EventWorkerFinished, handler)
	return err
}

// OnStopSignaled registers a handler fired the moment the driver raises
// the stop flag.
func (h *Harness) OnStopSignaled(handler func(context.Context, HarnessEvent) error) error {
	_, err := h.hooks.Hook(EventStopSignaled, handler)
	return err
}

// OnRunComplete registers a handler fired after the workers are joined and
// the envelopes recorded.
func (h *Harness) OnRunComplete(handler func(context.Context, HarnessEvent) error) error {
	_, err := h.hooks.Hook(EventRunComplete, handler)
	return err
}

// Close releases the hook system. The harness is not reusable afterwards.
func (h *Harness) Close() {
	h.hooks.Close()
}

// Stats exposes the accumulator. Read-only once Run has returned; nil
// before warmup and after cooldown.
func (h *Harness) Stats() *Stats {
	return h.stats
}

// Run executes the full lifecycle and returns the concluded snapshot.
// Configuration and target initialization errors surface before any worker
// is spawned; once the run phase starts the harness always proceeds to
// completion.
func (h *Harness) Run(ctx context.Context) (*Snapshot, error) {
	if err := h.warmup(ctx); err != nil {
		return nil, err
	}
	h.runWindow(ctx)
	snap, err := h.conclude(ctx)
	h.cooldown(ctx)
	return snap, err
}

// warmup seeds the rng, sizes the accumulator, initializes the target,
// validates the weight vector against the target, builds the distribution
// table, and resolves the endpoint environment. Any error here aborts the
// lifecycle before a single goroutine exists.
func (h *Harness) warmup(ctx context.Context) (err error) {
	ctx, span := h.tracer.StartSpan(ctx, WarmupSpan)
	defer func() {
		if err != nil {
			span.SetTag(TagError, err.Error())
			h.metrics.Counter(ConfigRejected).Inc()
			capitan.Error(ctx, SignalConfigRejected,
				FieldHarness.Field(string(h.name)),
				FieldError.Field(err.Error()),
				FieldTimestamp.Field(float64(h.clock.Now().Unix())),
			)
		}
		span.Finish()
	}()
	span.SetTag(TagHarness, string(h.name))

	if err = h.params.Validate(); err != nil {
		return err
	}
	opCount := h.target.OpCount()
	if len(h.params.Weights) != opCount {
		return fmt.Errorf("%w: %d weights for %d ops", ErrWeightCount, len(h.params.Weights), opCount)
	}

	// Start from a fixed seed so the table is reproducible across runs
	// with identical weights.
	h.rng.Seed(0)
	h.ticks = newTickSource(h.clock)
	h.stats = newStats(h.params.Threads, opCount)

	if err = h.target.Init(h.params.InitialSize, h.params.Threads); err != nil {
		return fmt.Errorf("target init: %w", err)
	}
	if h.dist, err = buildDistribution(h.rng, h.params.Weights); err != nil {
		return err
	}
	if err = h.params.resolveEndpoints(h.getenv); err != nil {
		return err
	}

	h.metrics.Counter(WarmupsTotal).Inc()
	capitan.Info(ctx, SignalWarmupComplete,
		FieldHarness.Field(string(h.name)),
		FieldThreads.Field(h.params.Threads),
		FieldOpCount.Field(opCount),
		FieldTimestamp.Field(float64(h.clock.Now().Unix())),
	)
	return nil
}

// runWindow drives the measured window: spawn the workers, rendezvous into
// the window, sleep the configured duration, raise the stop flag,
// rendezvous out, join, and record both envelopes.
func (h *Harness) runWindow(ctx context.Context) {
	ctx, span := h.tracer.StartSpan(ctx, RunSpan)
	defer span.Finish()
	span.SetTag(TagHarness, string(h.name))
	span.SetTag(TagThreads, fmt.Sprintf("%d", h.params.Threads))

	threads := h.params.Threads
	start := newLatch(threads)
	stop := newLatch(threads)

	var joined sync.WaitGroup
	joined.Add(threads)
	for t := 0; t < threads; t++ {
		go func(t int) {
			defer joined.Done()
			h.worker(ctx, t, start, stop)
		}(t)
	}

	capitan.Info(ctx, SignalRunStarted,
		FieldHarness.Field(string(h.name)),
		FieldThreads.Field(threads),
		FieldDuration.Field(h.params.Duration.Seconds()),
		FieldTimestamp.Field(float64(h.clock.Now().Unix())),
	)

	// Every worker has registered and is parked at the gate before the max
	// envelope opens, so the window never charges thread startup to the
	// target.
	start.await()
	maxStartTicks := h.ticks.ticks()
	maxStartWall := h.ticks.wallMS()

	start.open()
	minStartTicks := h.ticks.ticks()
	minStartWall := h.ticks.wallMS()

	<-h.clock.After(h.params.Duration)

	h.stop.Store(true)
	minStopTicks := h.ticks.ticks()
	minStopWall := h.ticks.wallMS()
	_ = h.hooks.Emit(ctx, EventStopSignaled, HarnessEvent{ //nolint:errcheck
		Name:      h.name,
		Worker:    -1,
		Timestamp: h.clock.Now(),
	})
	capitan.Info(ctx, SignalStopSignaled,
		FieldHarness.Field(string(h.name)),
		FieldTimestamp.Field(float64(h.clock.Now().Unix())),
	)

	stop.await()
	stop.open()
	maxStopTicks := h.ticks.ticks()
	maxStopWall := h.ticks.wallMS()

	joined.Wait()

	minEnv := Envelope{StartTicks: minStartTicks, StopTicks: minStopTicks, WallMS: minStopWall - minStartWall}
	maxEnv := Envelope{StartTicks: maxStartTicks, StopTicks: maxStopTicks, WallMS: maxStopWall - maxStartWall}
	h.stats.addSpentTime(minEnv, maxEnv)

	total := h.stats.TotalCount()
	h.metrics.Counter(RunsTotal).Inc()
	h.metrics.Counter(RunOpsTotal).Add(float64(total))

	window := time.Duration(minEnv.DurationTicks()) //nolint:gosec // tick deltas are small
	_ = h.hooks.Emit(ctx, EventRunComplete, HarnessEvent{ //nolint:errcheck
		Name:      h.name,
		Worker:    -1,
		Ops:       total,
		Window:    window,
		Timestamp: h.clock.Now(),
	})
	span.SetTag(TagTotalOps, fmt.Sprintf("%d", total))
	capitan.Info(ctx, SignalRunComplete,
		FieldHarness.Field(string(h.name)),
		FieldTotalOps.Field(int(total)), //nolint:gosec // counts fit in int on 64-bit
		FieldMinWindow.Field(float64(minEnv.WallMS)),
		FieldMaxWindow.Field(float64(maxEnv.WallMS)),
		FieldTimestamp.Field(float64(h.clock.Now().Unix())),
	)
}

// worker is the per-thread measurement loop. The stop flag is polled once
// per iteration; a late read only extends the run by a few operations, and
// the stop rendezvous publishes the thread's cells to the driver.
func (h *Harness) worker(ctx context.Context, t int, start, stop *latch) {
	tctx := &ThreadCtx{Worker: t}
	cursor := startCursor(t, h.params.Threads)
	noise := newRNG(uint64(t) + 1) //nolint:gosec // worker ids are non-negative
	sink := uint64(0)
	ops := uint64(0)

	h.target.Register(tctx, t)
	_ = h.hooks.Emit(ctx, EventWorkerRegistered, HarnessEvent{ //nolint:errcheck
		Name:      h.name,
		Worker:    t,
		Timestamp: h.clock.Now(),
	})

	start.arrive()

	for !h.stop.Load() {
		op := h.dist.lookup(cursor)

		begin := h.ticks.ticks()
		result := h.target.Dispatch(tctx, op)
		end := h.ticks.ticks()

		// skip stays false until a preemption detector exists; the stats
		// path honors it regardless.
		skip := false
		h.stats.addOp(t, op, result, end-begin, skip)

		sink = generateNoise(h.params.MaxNoise, h.params.RandomNoise, noise, sink)
		cursor++
		ops++
	}

	stop.arrive()

	h.target.Deregister(tctx, t)
	noiseSink.Store(sink)
	h.metrics.Counter(RunWorkersTotal).Inc()
	_ = h.hooks.Emit(ctx, EventWorkerFinished, HarnessEvent{ //nolint:errcheck
		Name:      h.name,
		Worker:    t,
		Ops:       ops,
		Timestamp: h.clock.Now(),
	})
}

// conclude tears the target down and renders the delimited record.
func (h *Harness) conclude(ctx context.Context) (*Snapshot, error) {
	_, span := h.tracer.StartSpan(ctx, ConcludeSpan)
	defer span.Finish()
	span.SetTag(TagHarness, string(h.name))

	if err := h.target.Destroy(h.params.Threads); err != nil {
		span.SetTag(TagError, err.Error())
		return nil, fmt.Errorf("target destroy: %w", err)
	}

	snap := h.snapshot()
	if err := writeRecord(h.out, snap, h.delim); err != nil {
		return snap, fmt.Errorf("write record: %w", err)
	}
	return snap, nil
}

// cooldown releases the accumulator.
func (h *Harness) cooldown(ctx context.Context) {
	_, span := h.tracer.StartSpan(ctx, CooldownSpan)
	defer span.Finish()
	span.SetTag(TagHarness, string(h.name))
	h.stats = nil
	h.dist = nil
}
