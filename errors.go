package benchz

import "errors"

// Configuration errors. Each kind is distinct so callers can map them to
// distinct exit statuses; all of them are reported before any worker is
// spawned.
var (
	// ErrThreadCount indicates a worker count below one.
	ErrThreadCount = errors.New("thread count must be at least 1")

	// ErrDuration indicates a non-positive run duration.
	ErrDuration = errors.New("run duration must be positive")

	// ErrWeightSum indicates an operation weight vector whose elements do
	// not sum to exactly the distribution bound.
	ErrWeightSum = errors.New("operation weights must sum to 1024")

	// ErrWeightNegative indicates a negative operation weight.
	ErrWeightNegative = errors.New("operation weights must be non-negative")

	// ErrWeightCount indicates a weight vector whose length does not match
	// the target's operation count.
	ErrWeightCount = errors.New("weight vector length must match target op count")

	// ErrEndpoint indicates an unparseable BM_SYS_* endpoint.
	ErrEndpoint = errors.New("invalid endpoint")

	// ErrSequenceSyntax indicates a malformed operation sequence.
	ErrSequenceSyntax = errors.New("invalid operation sequence")
)
