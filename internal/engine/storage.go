package engine

import (
	"context"
	"io"
)

// Sink is a destination that archives and extracted entries are written to.
type Sink interface {
	Named
	Closer
	// Create opens path for writing, truncating any existing content.
	// The returned writer must be closed for the data to be committed.
	Create(ctx context.Context, path string) (io.WriteCloser, error)
}

// Source is a location archives are read from.
type Source interface {
	Named
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}
