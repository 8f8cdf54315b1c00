package service

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boorudl/internal/core/domain"
)

func TestReporterLines(t *testing.T) {
	var out bytes.Buffer
	r := NewReporter(&out, 3)

	// Skip lines show the value before the increment, download and error
	// lines the value after it.
	r.Report(domain.Outcome{Kind: domain.OutcomeSkipped, Filename: "a.png"})
	r.Report(domain.Outcome{Kind: domain.OutcomeSucceeded, Filename: "b.png"})
	r.Report(domain.Outcome{Kind: domain.OutcomeFailed, Filename: "c.png", Err: errors.New("connection reset")})

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "a.png\talready exists 0/3", lines[0])
	assert.Equal(t, "b.png\tdownloaded 2/3", lines[1])
	assert.Equal(t, "c.png\terror connection reset 3/3", lines[2])

	assert.Equal(t, int64(3), r.Counters().Processed())
	assert.Equal(t, int64(1), r.Counters().Succeeded())
}

func TestReporterSummary(t *testing.T) {
	var out bytes.Buffer
	r := NewReporter(&out, 3)

	r.Report(domain.Outcome{Kind: domain.OutcomeSucceeded, Filename: "a.png"})
	r.Report(domain.Outcome{Kind: domain.OutcomeSucceeded, Filename: "b.png"})
	r.Report(domain.Outcome{Kind: domain.OutcomeFailed, Filename: "c.png", Err: errors.New("boom")})
	r.Summary()

	// Failures count as skipped in the summary.
	assert.Contains(t, out.String(), "Wrote 2 files. Skipped 1.\n")
}

func TestReporterConcurrent(t *testing.T) {
	const n = 200
	var out bytes.Buffer
	r := NewReporter(&out, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			kind := domain.OutcomeSucceeded
			if i%3 == 0 {
				kind = domain.OutcomeSkipped
			}
			r.Report(domain.Outcome{Kind: kind, Filename: "f.png"})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(n), r.Counters().Processed())
	assert.Len(t, strings.Split(strings.TrimRight(out.String(), "\n"), "\n"), n)
}
