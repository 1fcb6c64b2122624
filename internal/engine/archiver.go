package engine

import (
	"context"
	"io"
)

// Archiver writes entries into an archive stream.
type Archiver interface {
	// AddFile appends an entry with the given name whose content is exactly size bytes read from data.
	AddFile(ctx context.Context, name string, size int64, data io.Reader) error

	// Close finalizes the archive. Calling AddFile after Close is an error.
	Close() error
}
