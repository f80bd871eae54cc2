package blobsource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalSource reads GTFS tables from a directory tree rooted at a data
// root's named sub-folder (so several feeds can share one data root).
type LocalSource struct {
	root string
}

// NewLocal creates a LocalSource rooted at filepath.Join(dataRoot, feedName).
func NewLocal(dataRoot, feedName string) *LocalSource {
	return &LocalSource{root: filepath.Join(dataRoot, feedName)}
}

func (s *LocalSource) path(name string) string {
	return filepath.Join(s.root, name)
}

// Exists implements Source.
func (s *LocalSource) Exists(_ context.Context, name string) (bool, error) {
	_, err := os.Stat(s.path(name))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("blobsource: stat %s: %w", name, err)
}

// Open implements Source.
func (s *LocalSource) Open(_ context.Context, name string) (io.ReadCloser, error) {
	f, err := os.Open(s.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("blobsource: open %s: %w", name, err)
	}
	return f, nil
}
