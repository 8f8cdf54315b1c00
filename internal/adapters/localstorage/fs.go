package localstorage

import (
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"boorudl/internal/config"
)

// LocalStorage implements ports.Storage against one output directory.
type LocalStorage struct {
	Dir string
}

// NewLocalStorage creates a LocalStorage rooted at dir.
func NewLocalStorage(dir string) *LocalStorage {
	return &LocalStorage{Dir: dir}
}

// EnsureDir creates the output directory if it does not exist.
func (s *LocalStorage) EnsureDir() error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return errors.Wrapf(err, "create output directory %s", s.Dir)
	}
	return nil
}

// Exists reports whether a filesystem entry already exists for filename.
// Existence only: no checksum verification against pre-existing files.
func (s *LocalStorage) Exists(filename string) bool {
	_, err := os.Stat(filepath.Join(s.Dir, filename))
	return err == nil
}

// WriteFile materializes the whole buffer at filename in a single write.
// No temp-file-then-rename: a crash mid-write can leave a truncated file,
// which the existence-only dedup check will not repair on a re-run.
func (s *LocalStorage) WriteFile(filename string, data []byte) error {
	path := filepath.Join(s.Dir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}

// nopWriteCloser wraps stderr so the sink contract stays uniform without
// closing the process's diagnostic stream.
type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// MetadataSink opens the metadata emission target. The reserved path "-"
// selects the diagnostic stream; anything else is created relative to the
// output directory.
func (s *LocalStorage) MetadataSink(path string) (io.WriteCloser, error) {
	if path == config.StderrSink {
		return nopWriteCloser{os.Stderr}, nil
	}
	full := filepath.Join(s.Dir, path)
	f, err := os.Create(full)
	if err != nil {
		return nil, errors.Wrapf(err, "create metadata file %s", full)
	}
	return f, nil
}
