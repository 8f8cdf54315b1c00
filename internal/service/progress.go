package service

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"boorudl/internal/core/domain"
)

// Counters holds the run's shared completion counts. Constructed once per
// run and threaded explicitly into every completing task; never global.
type Counters struct {
	processed atomic.Int64
	succeeded atomic.Int64
}

// Processed returns how many posts have reached a terminal outcome.
func (c *Counters) Processed() int64 { return c.processed.Load() }

// Succeeded returns how many posts were downloaded and written.
func (c *Counters) Succeeded() int64 { return c.succeeded.Load() }

// Reporter prints one line per terminal outcome and keeps the run counters.
// Purely observational: it never affects control flow. Safe for concurrent
// use; concurrent lines may interleave non-monotonically, but each line's
// number is consistent with its own increment.
type Reporter struct {
	mu       sync.Mutex
	out      io.Writer
	total    int64
	counters *Counters
}

// NewReporter creates a Reporter writing the console protocol to out.
// total is the authoritative result count from the probe.
func NewReporter(out io.Writer, total int64) *Reporter {
	return &Reporter{out: out, total: total, counters: &Counters{}}
}

// Counters exposes the run counters for the final summary.
func (r *Reporter) Counters() *Counters { return r.counters }

// Report records one terminal outcome and prints its console line.
// Skip lines show the count before the increment; downloaded and error
// lines show the count after it.
func (r *Reporter) Report(o domain.Outcome) {
	var line string
	switch o.Kind {
	case domain.OutcomeSkipped:
		p := r.counters.processed.Add(1) - 1
		line = fmt.Sprintf("%s\talready exists %d/%d", o.Filename, p, r.total)
	case domain.OutcomeSucceeded:
		r.counters.succeeded.Add(1)
		p := r.counters.processed.Add(1)
		line = fmt.Sprintf("%s\tdownloaded %d/%d", o.Filename, p, r.total)
	case domain.OutcomeFailed:
		p := r.counters.processed.Add(1)
		line = fmt.Sprintf("%s\terror %v %d/%d", o.Filename, o.Err, p, r.total)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.out, line)
}

// Summary prints the final tally. Only accurate after every launched task
// has reached a terminal state.
func (r *Reporter) Summary() {
	wrote := r.counters.Succeeded()
	skipped := r.counters.Processed() - wrote

	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "Wrote %d files. Skipped %d.\n", wrote, skipped)
}
