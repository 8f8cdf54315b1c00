package service

import (
	"encoding/json"
	"sync"

	"github.com/cockroachdb/errors"

	"boorudl/internal/config"
	"boorudl/internal/core/domain"
	"boorudl/internal/core/ports"
)

// Aggregator accumulates discovered posts keyed by content hash for optional
// bulk metadata emission. One store per run, regardless of emission mode;
// the serialization format is chosen at emission time.
type Aggregator struct {
	mu    sync.Mutex
	store map[string]domain.Post
	mode  config.EmitMode
	path  string
}

// NewAggregator creates an Aggregator with the given emission mode and
// sink path (ignored when mode is EmitOff).
func NewAggregator(mode config.EmitMode, path string) *Aggregator {
	return &Aggregator{
		store: make(map[string]domain.Post),
		mode:  mode,
		path:  path,
	}
}

// Record merges a page of posts into the store. Posts sharing an MD5 are the
// same logical post; the later record wins.
func (a *Aggregator) Record(posts []domain.Post) {
	if a.mode == config.EmitOff {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, post := range posts {
		a.store[post.MD5] = post
	}
}

// Len returns the number of distinct posts recorded.
func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.store)
}

// Emit serializes the whole store once, as a single JSON object mapping MD5
// to post record. Called only after the download phase has fully completed,
// so the emitted state is never a partial snapshot. No-op when emission was
// not requested.
func (a *Aggregator) Emit(storage ports.Storage) error {
	if a.mode == config.EmitOff {
		return nil
	}

	sink, err := storage.MetadataSink(a.path)
	if err != nil {
		return err
	}
	defer sink.Close()

	a.mu.Lock()
	defer a.mu.Unlock()

	enc := json.NewEncoder(sink)
	if a.mode == config.EmitPretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(a.store); err != nil {
		return errors.Wrap(err, "encode metadata")
	}
	return nil
}
