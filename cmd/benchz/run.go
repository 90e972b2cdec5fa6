package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/zoobzio/benchz"
)

var (
	runThreads     int
	runDuration    time.Duration
	runInitialSize int
	runMaxNoise    uint64
	runRandomNoise bool
	runWeights     string
	runTarget      string
	runSleep       time.Duration
	runDelimiter   string
	runOut         string

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run a benchmark against a built-in target",
		Long: `Run a measurement: spawn the workers, drive the chosen target for the
configured duration, and print the delimited result record.

The weight vector assigns each operation id a share of the 1024
distribution slots, e.g. --weights 512,384,128 for a three-op target.
Weights must sum to exactly 1024 and match the target's op count.

Network-backed setups read their endpoints from the environment:
BM_SYS_CONNECT_ADDR / BM_SYS_CONNECT_PORT and BM_SYS_BIND_ADDR /
BM_SYS_BIND_PORT (port defaults to 31334).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBenchmark(cmd.Context())
		},
	}
)

func init() {
	runCmd.Flags().IntVarP(&runThreads, "threads", "t", 1, "Worker count")
	runCmd.Flags().DurationVarP(&runDuration, "duration", "d", time.Second, "Run-phase duration")
	runCmd.Flags().IntVar(&runInitialSize, "initial-size", 1024, "Data-structure size hint passed to the target")
	runCmd.Flags().Uint64Var(&runMaxNoise, "max-noise", 0, "Upper bound on inter-operation busy-work iterations")
	runCmd.Flags().BoolVar(&runRandomNoise, "random-noise", false, "Draw the noise amount per iteration instead of using the bound")
	runCmd.Flags().StringVarP(&runWeights, "weights", "w", "1024", "Comma-separated operation weights summing to 1024")
	runCmd.Flags().StringVar(&runTarget, "target", "noop", "Target to measure: noop, sleep, or map")
	runCmd.Flags().DurationVar(&runSleep, "sleep", time.Millisecond, "Per-dispatch delay of the sleep target")
	runCmd.Flags().StringVar(&runDelimiter, "delimiter", ";", "Field delimiter of the result record")
	runCmd.Flags().StringVarP(&runOut, "out", "o", "", "Also write the snapshot, msgpack-encoded, to this file")
}

func runBenchmark(ctx context.Context) error {
	weights, err := parseWeights(runWeights)
	if err != nil {
		return err
	}
	target, err := buildTarget(runTarget)
	if err != nil {
		return err
	}
	if len(runDelimiter) != 1 {
		return fmt.Errorf("delimiter must be a single byte, got %q", runDelimiter)
	}

	h := benchz.NewHarness("benchz", target, benchz.Params{
		Threads:     runThreads,
		Duration:    runDuration,
		InitialSize: runInitialSize,
		MaxNoise:    runMaxNoise,
		RandomNoise: runRandomNoise,
		Weights:     weights,
	}).WithDelimiter(runDelimiter[0])
	defer h.Close()

	snap, err := h.Run(ctx)
	if err != nil {
		return err
	}

	if runOut != "" {
		f, err := os.Create(runOut)
		if err != nil {
			return err
		}
		if err := benchz.EncodeSnapshot(f, snap); err != nil {
			f.Close() //nolint:errcheck,gosec // encode error wins
			return err
		}
		return f.Close()
	}
	return nil
}

func parseWeights(s string) (benchz.Weights, error) {
	parts := strings.Split(s, ",")
	weights := make(benchz.Weights, 0, len(parts))
	for _, part := range parts {
		w, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("%w: weight %q", benchz.ErrWeightNegative, part)
		}
		weights = append(weights, w)
	}
	return weights, nil
}

func buildTarget(name string) (benchz.Target, error) {
	switch name {
	case "noop":
		return benchz.NewNoopTarget(len(strings.Split(runWeights, ","))), nil
	case "sleep":
		return benchz.NewSleepTarget(runSleep), nil
	case "map":
		return benchz.NewMapTarget(), nil
	default:
		return nil, fmt.Errorf("unknown target: %s\n\nRun 'benchz targets' to see available targets", name)
	}
}
