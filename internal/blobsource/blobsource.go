// Package blobsource provides a uniform read interface over the two
// places a GTFS feed's tables can live: a local directory tree, or a
// cloud object container. The dataset builder only ever calls Exists
// and Open — it never knows which backend it's talking to.
package blobsource

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Open when the named blob does not exist.
// Distinguishable from a transport failure, which the loader does not
// retry (the call site may).
var ErrNotFound = errors.New("blobsource: not found")

// Source is a read-only view over a flat collection of named byte
// streams — a GTFS feed's tables, addressed by file name
// ("stops.txt", "shapes.txt", ...).
type Source interface {
	// Exists reports whether name is present. A transport failure is
	// returned as an error, never folded into a false result.
	Exists(ctx context.Context, name string) (bool, error)

	// Open returns an ordered byte stream for name. Callers must Close
	// it. Returns ErrNotFound if the blob does not exist.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}
