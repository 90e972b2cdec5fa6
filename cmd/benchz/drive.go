package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zoobzio/benchz"
)

var (
	driveAddr     string
	drivePort     int
	driveConns    int
	driveCycles   int
	driveSequence string

	driveCmd = &cobra.Command{
		Use:   "drive",
		Short: "Run the auxiliary TCP sequence client",
		Long: `Dial a sequence server and walk the operation sequence from the client's
perspective: 'w' steps send, 'r' steps receive. Each connection runs the
sequence independently; --cycles bounds the number of full passes (0 runs
until interrupted).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			steps, err := benchz.ParseSequence(driveSequence)
			if err != nil {
				return err
			}
			client, err := benchz.NewSequenceClient(
				fmt.Sprintf("%s:%d", driveAddr, drivePort), steps, driveConns, driveCycles)
			if err != nil {
				return err
			}
			return client.Run(cmd.Context())
		},
	}
)

func init() {
	driveCmd.Flags().StringVarP(&driveAddr, "addr", "a", "127.0.0.1", "Server address")
	driveCmd.Flags().IntVarP(&drivePort, "port", "p", 10000, "Server port")
	driveCmd.Flags().IntVarP(&driveConns, "conns", "c", 1, "Parallel connections")
	driveCmd.Flags().IntVar(&driveCycles, "cycles", 0, "Full sequence passes per connection, 0 for unbounded")
	driveCmd.Flags().StringVarP(&driveSequence, "sequence", "P", "", "Operation sequence to walk (required)")
	_ = driveCmd.MarkFlagRequired("sequence") //nolint:errcheck // flag exists
}
