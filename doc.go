// Package benchz is a concurrent micro-benchmark harness for pluggable
// targets: concurrent data structures, allocators, or I/O endpoints.
//
// A run measures per-operation latency and aggregate throughput while N
// worker goroutines issue operations drawn from a fixed categorical
// distribution against a shared Target for a bounded duration. The
// operation mix is precomputed into a branch-free 1024-slot lookup table,
// workers are started and stopped through two N+1-party rendezvous so no
// startup or teardown skew leaks into the measurements, and every
// operation is timed individually into a per-worker accumulator that
// takes no locks on the hot path.
//
// # Quick start
//
//	h := benchz.NewHarness("map-mixed", benchz.NewMapTarget(), benchz.Params{
//	    Threads:     8,
//	    Duration:    10 * time.Second,
//	    InitialSize: 1 << 16,
//	    Weights:     benchz.Weights{512, 384, 128},
//	})
//	snap, err := h.Run(context.Background())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The returned Snapshot carries every (operation, result) latency
// aggregate plus the two timing envelopes bracketing the measurement
// window; the same data is printed as a single delimited record.
//
// # Targets
//
// Anything implementing Target can be measured. The package ships
// NoopTarget (calibration), SleepTarget (I/O stand-in), and MapTarget (a
// sharded map), and the cmd/benchz CLI exposes them along with the
// auxiliary TCP sequence drivers used to generate network load.
//
// # Clocks
//
// Go exposes no portable user-space cycle counter, so latencies are
// recorded in monotonic nanoseconds from an injectable clockz.Clock. The
// harness never interprets the unit; it only subtracts readings taken on
// the same worker.
package benchz
