package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List the built-in targets",
	Long:  "Display the built-in measurement targets and their operation ids.",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println("Available targets:")
		fmt.Println()
		fmt.Printf("  %-8s %s\n", "noop", "immediate success; one bucket per weight (calibration baseline)")
		fmt.Printf("  %-8s %s\n", "sleep", "blocks --sleep per dispatch; single op (I/O stand-in)")
		fmt.Printf("  %-8s %s\n", "map", "sharded map; ops: 0 insert, 1 lookup, 2 delete")
	},
}
