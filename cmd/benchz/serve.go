package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zoobzio/benchz"
)

var (
	servePort     int
	serveIPv6     bool
	serveSequence string

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the auxiliary TCP sequence server",
		Long: `Accept loopback connections and replay the operation sequence against
each of them. The sequence is written from the client's perspective: a 'w'
step means the client writes (the server reads) and an 'r' step means the
client reads (the server sends).

Sequence grammar: <COUNT>[rw]<BYTES>[-<COUNT>[rw]<BYTES>]*, e.g. '2r1024-1w32'.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runServer()
		},
	}
)

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 10000, "Port to listen on")
	serveCmd.Flags().BoolVar(&serveIPv6, "ipv6", false, "Listen on IPv6 instead of IPv4")
	serveCmd.Flags().StringVarP(&serveSequence, "sequence", "P", "", "Operation sequence to replay (required)")
	_ = serveCmd.MarkFlagRequired("sequence") //nolint:errcheck // flag exists
}

func runServer() error {
	steps, err := benchz.ParseSequence(serveSequence)
	if err != nil {
		return err
	}
	server, err := benchz.NewSequenceServer(steps)
	if err != nil {
		return err
	}

	network := "tcp4"
	if serveIPv6 {
		network = "tcp6"
	}
	if err := server.Listen(network, fmt.Sprintf(":%d", servePort)); err != nil {
		return err
	}
	defer server.Close() //nolint:errcheck // teardown path

	fmt.Printf("listening on %s (%s)\n", server.Addr(), benchz.FormatSequence(steps))
	return server.Serve()
}
