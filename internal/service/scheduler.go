package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"boorudl/internal/core/domain"
	"boorudl/internal/core/ports"
)

// MaxConcurrentDownloads bounds simultaneous in-flight downloads regardless
// of how many posts the query matches.
const MaxConcurrentDownloads = 24

// Scheduler executes admitted downloads with a bounded admission gate.
// Tasks are launched as they are discovered, in discovery order; the gate is
// the only serialization point. A launched task always runs to a terminal
// outcome: no cancellation, no retries, and one failure never affects
// sibling tasks.
type Scheduler struct {
	gate     chan struct{}
	wg       sync.WaitGroup
	fetcher  ports.Fetcher
	storage  ports.Storage
	reporter *Reporter
	logger   *zap.SugaredLogger
}

// NewScheduler creates a Scheduler admitting at most limit concurrent
// downloads.
func NewScheduler(limit int, fetcher ports.Fetcher, storage ports.Storage, reporter *Reporter, logger *zap.SugaredLogger) *Scheduler {
	return &Scheduler{
		gate:     make(chan struct{}, limit),
		fetcher:  fetcher,
		storage:  storage,
		reporter: reporter,
		logger:   logger,
	}
}

// Launch starts one download task. It never blocks the caller: the task
// itself waits on the admission gate, so discovery keeps front-loading work
// while earlier downloads are still in flight.
func (s *Scheduler) Launch(ctx context.Context, post domain.Post) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		s.gate <- struct{}{}
		defer func() { <-s.gate }()

		filename := post.Filename()
		data, err := s.fetcher.Fetch(ctx, post)
		if err == nil {
			err = s.storage.WriteFile(filename, data)
		}
		if err != nil {
			s.logger.Warnw("download failed", "file", filename, "error", err)
			s.reporter.Report(domain.Outcome{Kind: domain.OutcomeFailed, Filename: filename, Err: err})
			return
		}
		s.reporter.Report(domain.Outcome{Kind: domain.OutcomeSucceeded, Filename: filename})
	}()
}

// Wait blocks until every launched task has reached a terminal outcome.
// Counters and the aggregate store are only final after Wait returns.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}
