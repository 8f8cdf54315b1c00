package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"boorudl/internal/config"
	"boorudl/internal/core/domain"
	"boorudl/internal/core/ports"
)

// pageSize is the fixed search page size; pagination walks zero-based page
// offsets until a page comes back empty.
const pageSize = 100

// Pipeline coordinates one fetch-and-download run: probe, sequential
// pagination, dedup partitioning, bounded download scheduling, and final
// metadata emission.
type Pipeline struct {
	searcher ports.Searcher
	fetcher  ports.Fetcher
	storage  ports.Storage
	cfg      *config.Config
	logger   *zap.SugaredLogger

	// Out receives the user-facing console protocol (per-item lines and
	// the summary). Defaults to stdout.
	Out io.Writer

	// Confirm, when set, is asked once with the probed result count before
	// any download runs. Returning false aborts the run. The interactive
	// prompt lives in the CLI layer; the pipeline only invokes it.
	Confirm func(total int64) bool
}

// Result holds the outcome of a completed run.
type Result struct {
	RunID   string
	Total   int64
	Wrote   int64
	Skipped int64
	Aborted bool
	Elapsed time.Duration
}

// NewPipeline creates a Pipeline over the given collaborators.
func NewPipeline(cfg *config.Config, searcher ports.Searcher, fetcher ports.Fetcher, storage ports.Storage, logger *zap.SugaredLogger) *Pipeline {
	return &Pipeline{
		searcher: searcher,
		fetcher:  fetcher,
		storage:  storage,
		cfg:      cfg,
		logger:   logger,
		Out:      os.Stdout,
	}
}

// Run executes the full pipeline. Search-phase errors are fatal and returned;
// per-item fetch or write failures are reported as outcomes and never abort
// the run. On a fatal error no metadata is emitted, since the pagination
// state is unrecoverable mid-stream.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	runID := uuid.New().String()
	start := time.Now()
	result := &Result{RunID: runID}

	p.logger.Infow("starting run", "run_id", runID, "tags", p.cfg.Tags, "output_dir", p.cfg.OutputDir)

	// One probe with page size 1 to obtain the authoritative total count.
	probe, err := p.searcher.Search(ctx, 1, 0)
	if err != nil {
		return result, err
	}
	total := probe.Attributes.Count
	result.Total = total

	if total == 0 {
		fmt.Fprintln(p.Out, "No posts found.")
		result.Elapsed = time.Since(start)
		return result, nil
	}

	if p.Confirm != nil && !p.Confirm(total) {
		fmt.Fprintln(p.Out, "Aborted.")
		result.Aborted = true
		result.Elapsed = time.Since(start)
		return result, nil
	}

	if err := p.storage.EnsureDir(); err != nil {
		return result, err
	}

	aggregator := NewAggregator(p.cfg.EmitMode, p.cfg.EmitPath)
	reporter := NewReporter(p.Out, total)
	scheduler := NewScheduler(MaxConcurrentDownloads, p.fetcher, p.storage, reporter, p.logger)

	// Pagination is strictly sequential; downloads from earlier pages keep
	// running while the next page is fetched.
	var fatal error
	for page := 0; ; page++ {
		sp, err := p.searcher.Search(ctx, pageSize, page)
		if err != nil {
			// Discovery is unrecoverable, but the already-launched
			// set still runs to completion before we return.
			fatal = err
			break
		}
		if len(sp.Posts) == 0 {
			break
		}

		aggregator.Record(sp.Posts)
		for _, post := range sp.Posts {
			if p.storage.Exists(post.Filename()) {
				reporter.Report(domain.Outcome{Kind: domain.OutcomeSkipped, Filename: post.Filename()})
				continue
			}
			scheduler.Launch(ctx, post)
		}
	}

	scheduler.Wait()

	counters := reporter.Counters()
	result.Wrote = counters.Succeeded()
	result.Skipped = counters.Processed() - counters.Succeeded()
	result.Elapsed = time.Since(start)

	if fatal != nil {
		p.logger.Errorw("run aborted by search failure", "run_id", runID, "error", fatal)
		return result, fatal
	}

	reporter.Summary()
	p.logger.Infow("run complete",
		"run_id", runID,
		"wrote", result.Wrote,
		"skipped", result.Skipped,
		"elapsed", result.Elapsed.Round(time.Millisecond),
	)

	if err := aggregator.Emit(p.storage); err != nil {
		return result, err
	}
	return result, nil
}
