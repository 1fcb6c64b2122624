package storage

import (
	"context"
	"errors"
	"io"

	"github.com/gziptool/gziptool/internal/engine"
)

var (
	errReadOnlyStream  = errors.New("stream is read-only")
	errWriteOnlyStream = errors.New("stream is write-only")
)

// Stream writes to or reads from a single stream such as stdout or stdin,
// ignoring the path it is asked for.
type Stream struct {
	w io.Writer
	r io.Reader
}

var (
	_ engine.Sink   = (*Stream)(nil)
	_ engine.Source = (*Stream)(nil)
)

func NewStreamSink(w io.Writer) *Stream {
	return &Stream{w: w}
}

func NewStreamSource(r io.Reader) *Stream {
	return &Stream{r: r}
}

func (s *Stream) Name() string {
	return "stream"
}

func (s *Stream) Kind() string {
	return "stream"
}

func (s *Stream) Create(ctx context.Context, path string) (io.WriteCloser, error) {
	if s.w == nil {
		return nil, errReadOnlyStream
	}
	return &nopWriteCloser{s.w}, nil
}

func (s *Stream) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if s.r == nil {
		return nil, errWriteOnlyStream
	}
	return io.NopCloser(s.r), nil
}

func (s *Stream) Close(ctx context.Context) error {
	return nil
}

// nopWriteCloser wraps a Writer to provide a no-op Close method.
type nopWriteCloser struct {
	io.Writer
}

func (n *nopWriteCloser) Close() error {
	return nil
}
