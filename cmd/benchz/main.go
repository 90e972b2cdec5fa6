package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/zoobzio/benchz"
)

// Exit statuses; configuration failures get a distinct code per kind so
// scripted sweeps can tell them apart.
const (
	exitFailure  = 1
	exitParams   = 2
	exitWeights  = 3
	exitEndpoint = 4
	exitSequence = 5
)

var (
	version = "0.1.0"
	rootCmd = &cobra.Command{
		Use:   "benchz",
		Short: "Concurrent micro-benchmark harness for pluggable targets",
		Long: `benchz measures per-operation latency and aggregate throughput of a
pluggable target: N workers issue operations drawn from a weighted
distribution against the shared target for a bounded duration, and every
operation is timed individually.

The run subcommand drives the harness against a built-in target; serve and
drive are the auxiliary TCP loopback programs that replay a textual
operation sequence to generate network load.`,
		Version: version,
	}
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, benchz.ErrWeightSum),
		errors.Is(err, benchz.ErrWeightNegative),
		errors.Is(err, benchz.ErrWeightCount):
		return exitWeights
	case errors.Is(err, benchz.ErrEndpoint):
		return exitEndpoint
	case errors.Is(err, benchz.ErrThreadCount), errors.Is(err, benchz.ErrDuration):
		return exitParams
	case errors.Is(err, benchz.ErrSequenceSyntax):
		return exitSequence
	default:
		return exitFailure
	}
}

func init() {
	// Disable default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Add commands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(driveCmd)
	rootCmd.AddCommand(targetsCmd)
}
