package benchz

import "github.com/zoobzio/capitan"

// Signals for harness lifecycle events.
// Signals follow the pattern: harness.<phase>.<event>.
var (
	SignalWarmupComplete = capitan.NewSignal("harness.warmup.complete", "")
	SignalRunStarted     = capitan.NewSignal("harness.run.started", "")
	SignalStopSignaled   = capitan.NewSignal("harness.run.stop-signaled", "")
	SignalRunComplete    = capitan.NewSignal("harness.run.complete", "")
	SignalConfigRejected = capitan.NewSignal("harness.config.rejected", "")
)

// Field keys using capitan primitive types.
var (
	// Common fields.
	FieldHarness   = capitan.NewStringKey("harness")    // Harness instance name
	FieldError     = capitan.NewStringKey("error")      // Error message
	FieldTimestamp = capitan.NewFloat64Key("timestamp") // Unix timestamp

	// Run fields.
	FieldThreads   = capitan.NewIntKey("threads")           // Worker count
	FieldOpCount   = capitan.NewIntKey("op_count")          // Distinct operation ids
	FieldDuration  = capitan.NewFloat64Key("duration")      // Run duration in seconds
	FieldTotalOps  = capitan.NewIntKey("total_ops")         // Operations recorded
	FieldMinWindow = capitan.NewFloat64Key("min_window_ms") // Inside-rendezvous window
	FieldMaxWindow = capitan.NewFloat64Key("max_window_ms") // Outside-rendezvous window
)
