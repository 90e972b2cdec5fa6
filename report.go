package benchz

import (
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// DefaultDelimiter separates the fields of the conclude record.
const DefaultDelimiter = ';'

// BucketSnapshot is one (operation, result) aggregate of the conclude
// record.
type BucketSnapshot struct {
	Op     int    `msgpack:"op"`
	Result int    `msgpack:"result"`
	Count  uint64 `msgpack:"count"`
	Sum    uint64 `msgpack:"sum"`
	Min    uint64 `msgpack:"min"`
	Max    uint64 `msgpack:"max"`
}

// EnvelopeSnapshot is one timing window of the conclude record.
type EnvelopeSnapshot struct {
	StartTicks uint64 `msgpack:"start_ticks"`
	StopTicks  uint64 `msgpack:"stop_ticks"`
	WallMS     uint64 `msgpack:"wall_ms"`
}

// Snapshot is the machine-readable form of a concluded run: the parameter
// dump, every (operation, result) aggregate in position order, and the two
// timing envelopes.
type Snapshot struct {
	Name        string           `msgpack:"name"`
	Threads     int              `msgpack:"threads"`
	DurationS   float64          `msgpack:"duration_s"`
	InitialSize int              `msgpack:"initial_size"`
	MaxNoise    uint64           `msgpack:"max_noise"`
	RandomNoise bool             `msgpack:"random_noise"`
	Weights     []int            `msgpack:"weights"`
	Buckets     []BucketSnapshot `msgpack:"buckets"`
	MinEnvelope EnvelopeSnapshot `msgpack:"min_envelope"`
	MaxEnvelope EnvelopeSnapshot `msgpack:"max_envelope"`
}

// snapshot folds the accumulator into its portable form, op-major and
// result-minor so the record's field positions are stable.
func (h *Harness) snapshot() *Snapshot {
	snap := &Snapshot{
		Name:        string(h.name),
		Threads:     h.params.Threads,
		DurationS:   h.params.Duration.Seconds(),
		InitialSize: h.params.InitialSize,
		MaxNoise:    h.params.MaxNoise,
		RandomNoise: h.params.RandomNoise,
		Weights:     append([]int(nil), h.params.Weights...),
		MinEnvelope: envelopeSnapshot(h.stats.MinEnvelope()),
		MaxEnvelope: envelopeSnapshot(h.stats.MaxEnvelope()),
	}
	for op := 0; op < h.stats.Ops(); op++ {
		for r := Result(0); r < resultBuckets; r++ {
			agg := h.stats.Aggregate(op, r)
			snap.Buckets = append(snap.Buckets, BucketSnapshot{
				Op:     op,
				Result: int(r),
				Count:  agg.Count,
				Sum:    uint64(agg.Sum),
				Min:    uint64(agg.Min),
				Max:    uint64(agg.Max),
			})
		}
	}
	return snap
}

func envelopeSnapshot(e Envelope) EnvelopeSnapshot {
	return EnvelopeSnapshot{
		StartTicks: uint64(e.StartTicks),
		StopTicks:  uint64(e.StopTicks),
		WallMS:     e.WallMS,
	}
}

// writeRecord renders the single-line conclude record: parameters, then
// count/sum/min/max per bucket, then the min and max envelopes. Fields are
// position-defined and unlabeled; delim separates them.
func writeRecord(w io.Writer, snap *Snapshot, delim byte) error {
	d := string(delim)
	var b strings.Builder

	fmt.Fprintf(&b, "%s%s%d%s%g%s%d%s%d%s%t",
		snap.Name, d, snap.Threads, d, snap.DurationS, d,
		snap.InitialSize, d, snap.MaxNoise, d, snap.RandomNoise)
	for _, weight := range snap.Weights {
		fmt.Fprintf(&b, "%s%d", d, weight)
	}
	for _, bucket := range snap.Buckets {
		fmt.Fprintf(&b, "%s%d%s%d%s%d%s%d",
			d, bucket.Count, d, bucket.Sum, d, bucket.Min, d, bucket.Max)
	}
	for _, env := range []EnvelopeSnapshot{snap.MinEnvelope, snap.MaxEnvelope} {
		fmt.Fprintf(&b, "%s%d%s%d%s%d",
			d, env.StartTicks, d, env.StopTicks, d, env.WallMS)
	}
	b.WriteByte('\n')

	_, err := io.WriteString(w, b.String())
	return err
}

// EncodeSnapshot writes the msgpack form of a snapshot, the format the CLI
// uses for --out files.
func EncodeSnapshot(w io.Writer, snap *Snapshot) error {
	return msgpack.NewEncoder(w).Encode(snap)
}

// DecodeSnapshot reads a snapshot previously written by EncodeSnapshot.
func DecodeSnapshot(r io.Reader) (*Snapshot, error) {
	snap := &Snapshot{}
	if err := msgpack.NewDecoder(r).Decode(snap); err != nil {
		return nil, err
	}
	return snap, nil
}
