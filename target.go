package benchz

// Result classifies the outcome of a single dispatch. The set of values a
// target returns is target-defined but fixed for a run; the harness never
// interprets a Result beyond using it as a statistics bucket. Values at or
// above resultBuckets are clamped into the last bucket.
type Result int

// Result buckets shared by the built-in targets.
const (
	ResultOK Result = iota
	ResultRetry
	ResultNotFound
	ResultRejected
)

// ThreadCtx is the per-worker scratch area handed to every target call.
// The payload belongs to the target; the harness allocates the struct and
// never inspects what the target stores in it.
type ThreadCtx struct {
	// Worker is the owning worker's id in [0, threads).
	Worker int

	// Payload is target-owned state established in Register.
	Payload any
}

// Target is a pluggable subject of measurement. Register and Deregister
// bracket a worker's Dispatch calls; Dispatch is only ever invoked between
// the run phase's start and stop rendezvous. Init and Destroy run on the
// driver, outside the measured window.
type Target interface {
	// OpCount reports how many distinct operation ids Dispatch accepts.
	OpCount() int

	// Init prepares the target before any worker starts. initialSize is a
	// data-structure size hint passed through from the parameters.
	Init(initialSize, threads int) error

	// Register is called once by worker t before the start rendezvous.
	Register(ctx *ThreadCtx, t int)

	// Dispatch performs operation op and classifies its outcome.
	Dispatch(ctx *ThreadCtx, op int) Result

	// Deregister is called once by worker t after the stop rendezvous.
	Deregister(ctx *ThreadCtx, t int)

	// Destroy tears the target down during conclude.
	Destroy(threads int) error
}
