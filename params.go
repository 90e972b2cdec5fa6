package benchz

import (
	"fmt"
	"net"
	"net/netip"
	"strconv"
	"time"
)

// Environment variables naming the endpoints made available to network
// targets, and the port used when only an address is given.
const (
	EnvConnectAddr = "BM_SYS_CONNECT_ADDR"
	EnvConnectPort = "BM_SYS_CONNECT_PORT"
	EnvBindAddr    = "BM_SYS_BIND_ADDR"
	EnvBindPort    = "BM_SYS_BIND_PORT"

	// DefaultEndpointPort is assumed when an endpoint address is set
	// without a port.
	DefaultEndpointPort = 31334
)

// Params is the typed configuration of a run. It is immutable once warmup
// completes; workers read it without synchronization.
type Params struct {
	// Threads is the worker count T.
	Threads int

	// Duration is the length of the run phase. It is a lower bound on each
	// worker's measured time by up to one operation.
	Duration time.Duration

	// InitialSize is a data-structure size hint passed verbatim to the
	// target's Init.
	InitialSize int

	// MaxNoise bounds the busy-work iterations inserted between
	// operations.
	MaxNoise uint64

	// RandomNoise draws each inter-operation noise amount uniformly from
	// [0, MaxNoise] instead of using MaxNoise every time.
	RandomNoise bool

	// Weights is the operation weight vector; it must sum to 1024 and its
	// length must match the target's op count.
	Weights Weights

	// ConnectAddr and BindAddr are resolved during warmup from the BM_SYS_*
	// environment surface and handed to network-backed targets. Nil when
	// the corresponding variable is unset.
	ConnectAddr *net.TCPAddr
	BindAddr    *net.TCPAddr
}

// Validate checks everything that must hold before any worker is spawned.
// The weight/op-count cross-check happens in warmup, where the target is
// known.
func (p *Params) Validate() error {
	if p.Threads < 1 {
		return fmt.Errorf("%w: got %d", ErrThreadCount, p.Threads)
	}
	if p.Duration <= 0 {
		return fmt.Errorf("%w: got %v", ErrDuration, p.Duration)
	}
	return p.Weights.Validate()
}

// resolveEndpoints fills ConnectAddr and BindAddr from the environment.
// getenv is injectable for tests; an unset address leaves the endpoint
// nil, an unparseable address or port is a configuration error.
func (p *Params) resolveEndpoints(getenv func(string) string) error {
	var err error
	if p.ConnectAddr, err = resolveEndpoint(getenv(EnvConnectAddr), getenv(EnvConnectPort)); err != nil {
		return err
	}
	p.BindAddr, err = resolveEndpoint(getenv(EnvBindAddr), getenv(EnvBindPort))
	return err
}

func resolveEndpoint(addr, port string) (*net.TCPAddr, error) {
	if addr == "" {
		return nil, nil
	}
	parsed, err := netip.ParseAddr(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: address %q: %v", ErrEndpoint, addr, err)
	}
	resolved := &net.TCPAddr{IP: parsed.AsSlice(), Port: DefaultEndpointPort}
	if port != "" {
		n, err := strconv.ParseUint(port, 0, 16)
		if err != nil {
			return nil, fmt.Errorf("%w: port %q: %v", ErrEndpoint, port, err)
		}
		resolved.Port = int(n)
	}
	return resolved, nil
}
