// Package benchmark measures encode/decode latency and throughput of the
// cipher for each word size.
package benchmark

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"rc5-go/pkg/buffers"
	"rc5-go/pkg/log"
	"rc5-go/pkg/rc5"
)

var ErrMismatch = errors.New("benchmark: decoded payload differs from input")

// LatencyResults holds one run's statistics. A sample is one encode plus one
// decode of the payload.
type LatencyResults struct {
	Params        rc5.Params
	PayloadSize   int
	Iterations    int
	MinLatency    time.Duration
	MaxLatency    time.Duration
	AvgLatency    time.Duration
	MedianLatency time.Duration
	P95Latency    time.Duration
	P99Latency    time.Duration
	TotalTime     time.Duration
}

// Throughput is plaintext bytes processed per second, both directions
// counted.
func (r *LatencyResults) Throughput() float64 {
	if r.TotalTime <= 0 {
		return 0
	}
	return float64(2*r.PayloadSize*r.Iterations) / r.TotalTime.Seconds()
}

type BenchmarkOptions struct {
	Params      rc5.Params
	Iterations  int
	PayloadSize int // rounded down to a whole number of blocks
	KeySize     int
}

func DefaultBenchmarkOptions() *BenchmarkOptions {
	return &BenchmarkOptions{
		Params:      rc5.DefaultParams(),
		Iterations:  1000,
		PayloadSize: 4096,
		KeySize:     16,
	}
}

func (o *BenchmarkOptions) validate() error {
	if !o.Params.WordSize.Valid() {
		return fmt.Errorf("benchmark: %w: %d", rc5.ErrUnsupportedWordSize, o.Params.WordSize)
	}
	if o.Iterations <= 0 {
		return errors.New("benchmark: iterations must be positive")
	}
	if o.PayloadSize < o.Params.BlockSize() {
		return fmt.Errorf("benchmark: payload must hold at least one %d byte block", o.Params.BlockSize())
	}
	if o.KeySize < 0 || o.KeySize > rc5.MaxKeySize {
		return fmt.Errorf("benchmark: %w: %d", rc5.ErrKeyTooLong, o.KeySize)
	}
	return nil
}

// BenchmarkLatency runs the configured number of encode/decode samples.
func BenchmarkLatency(opts *BenchmarkOptions) (*LatencyResults, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	block := opts.Params.BlockSize()
	size := opts.PayloadSize - opts.PayloadSize%block

	pool := buffers.NewBufferPool(size)
	payload := pool.Get()
	defer pool.Put(payload)
	for i := range payload {
		payload[i] = byte(i)
	}
	key := make(rc5.KeyBytes, opts.KeySize)
	for i := range key {
		key[i] = byte(i * 7)
	}

	latencies := make([]time.Duration, 0, opts.Iterations)
	start := time.Now()
	for range opts.Iterations {
		iterStart := time.Now()
		ct, err := opts.Params.Encode(payload, key)
		if err != nil {
			return nil, fmt.Errorf("benchmark: encode: %w", err)
		}
		pt, err := opts.Params.Decode(ct, key)
		if err != nil {
			return nil, fmt.Errorf("benchmark: decode: %w", err)
		}
		latencies = append(latencies, time.Since(iterStart))
		if !bytes.Equal(pt, payload) {
			return nil, ErrMismatch
		}
	}

	results := calculateStats(latencies, time.Since(start))
	results.Params = opts.Params
	results.PayloadSize = size
	return results, nil
}

func calculateStats(latencies []time.Duration, total time.Duration) *LatencyResults {
	r := &LatencyResults{Iterations: len(latencies), TotalTime: total}
	if len(latencies) == 0 {
		return r
	}
	slices.Sort(latencies)
	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}
	n := len(latencies)
	r.MinLatency = latencies[0]
	r.MaxLatency = latencies[n-1]
	r.AvgLatency = sum / time.Duration(n)
	r.MedianLatency = latencies[n/2]
	r.P95Latency = latencies[n*95/100]
	r.P99Latency = latencies[n*99/100]
	return r
}

// RunAllBenchmarks repeats the run for every word size, keeping the rounds,
// payload and key of baseOpts. Failed runs are logged and skipped.
func RunAllBenchmarks(baseOpts *BenchmarkOptions) ([]*LatencyResults, error) {
	var (
		results []*LatencyResults
		errs    []error
	)
	for _, ws := range []rc5.WordSize{rc5.WordSize8, rc5.WordSize16, rc5.WordSize32, rc5.WordSize64, rc5.WordSize128} {
		opts := *baseOpts
		opts.Params.WordSize = ws
		r, err := BenchmarkLatency(&opts)
		if err != nil {
			log.Warn().Err(err).Stringer("params", opts.Params).Msg("benchmark failed")
			errs = append(errs, err)
			continue
		}
		log.Debug().Stringer("params", r.Params).Dur("avg", r.AvgLatency).Msg("benchmark done")
		results = append(results, r)
	}
	return results, errors.Join(errs...)
}

func PrintResults(w io.Writer, r *LatencyResults) {
	fmt.Fprintf(w, "=== %s ===\n", r.Params)
	fmt.Fprintf(w, "Payload:         %s\n", humanize.IBytes(uint64(r.PayloadSize)))
	fmt.Fprintf(w, "Iterations:      %d\n", r.Iterations)
	fmt.Fprintf(w, "Total Time:      %v\n", r.TotalTime)
	fmt.Fprintf(w, "Throughput:      %s/s\n", humanize.IBytes(uint64(r.Throughput())))
	fmt.Fprintf(w, "Min Latency:     %v\n", r.MinLatency)
	fmt.Fprintf(w, "Avg Latency:     %v\n", r.AvgLatency)
	fmt.Fprintf(w, "Median Latency:  %v\n", r.MedianLatency)
	fmt.Fprintf(w, "95th Percentile: %v\n", r.P95Latency)
	fmt.Fprintf(w, "99th Percentile: %v\n", r.P99Latency)
	fmt.Fprintf(w, "Max Latency:     %v\n", r.MaxLatency)
}

var csvHeader = []string{
	"WordSize", "Rounds", "PayloadSize", "Iterations", "MinLatency", "AvgLatency",
	"MedianLatency", "P95Latency", "P99Latency", "MaxLatency", "TotalTime", "BytesPerSecond",
}

// WriteCSV writes durations in nanoseconds.
func WriteCSV(w io.Writer, results []*LatencyResults) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	ns := func(d time.Duration) string { return strconv.FormatInt(d.Nanoseconds(), 10) }
	for _, r := range results {
		if err := cw.Write([]string{
			strconv.Itoa(int(r.Params.WordSize)),
			strconv.Itoa(int(r.Params.Rounds)),
			strconv.Itoa(r.PayloadSize),
			strconv.Itoa(r.Iterations),
			ns(r.MinLatency), ns(r.AvgLatency), ns(r.MedianLatency),
			ns(r.P95Latency), ns(r.P99Latency), ns(r.MaxLatency), ns(r.TotalTime),
			strconv.FormatFloat(r.Throughput(), 'f', 0, 64),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func SaveResultsToFile(results []*LatencyResults, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("benchmark: %w", err)
	}
	if err := WriteCSV(f, results); err != nil {
		f.Close()
		return fmt.Errorf("benchmark: write %s: %w", filename, err)
	}
	return f.Close()
}
