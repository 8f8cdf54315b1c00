package ports

import (
	"context"
	"io"

	"boorudl/internal/core/domain"
)

// Searcher defines the contract for the paginated tag query.
type Searcher interface {
	// Search issues one paginated query. limit is the page size, page the
	// zero-based page offset. Any failure here is fatal to the run:
	// pagination cannot continue without a valid page.
	Search(ctx context.Context, limit, page int) (*domain.SearchPage, error)
}

// Fetcher defines the contract for retrieving a post's media bytes.
type Fetcher interface {
	// Fetch retrieves the raw content at the post's file URL. A failure is
	// local to the post and reported as a Failed outcome; it never aborts
	// the run.
	Fetch(ctx context.Context, post domain.Post) ([]byte, error)
}

// Storage defines the contract for the output directory.
type Storage interface {
	// EnsureDir creates the output directory if it does not exist.
	EnsureDir() error

	// Exists reports whether a filesystem entry already exists for the
	// given destination filename. Existence only, no content check.
	Exists(filename string) bool

	// WriteFile materializes the whole buffer at the destination filename
	// in a single write.
	WriteFile(filename string, data []byte) error

	// MetadataSink opens the metadata emission target. The caller must
	// close the returned WriteCloser.
	MetadataSink(path string) (io.WriteCloser, error)
}
