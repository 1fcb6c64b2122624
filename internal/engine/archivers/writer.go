package archivers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/gziptool/gziptool/internal/engine"
	"github.com/gziptool/gziptool/internal/engine/compression"
)

// Writer encodes entries into a single compressed stream spanning the whole archive.
type Writer struct {
	compressor io.WriteCloser
	codec      compression.Codec
	closed     bool
}

var _ engine.Archiver = (*Writer)(nil)

// NewWriter creates an archive writer on top of w using the named codec.
// If codec is empty, gzip is used. Close must be called to flush the stream;
// it does not close w.
func NewWriter(w io.Writer, codec string) (*Writer, error) {
	c, err := compression.Lookup(codec)
	if err != nil {
		return nil, engine.UsageError("select compression", err)
	}

	compressor, err := c.NewWriter(w)
	if err != nil {
		return nil, engine.IOError("open archive stream", "", err)
	}

	return &Writer{
		compressor: compressor,
		codec:      c,
	}, nil
}

// Codec returns the name of the compression codec in use.
func (w *Writer) Codec() string {
	return w.codec.Name
}

// AddFile writes one entry. Exactly size bytes are read from data; if data ends
// early the archive is left with a truncated entry and an error is returned.
func (w *Writer) AddFile(ctx context.Context, name string, size int64, data io.Reader) error {
	if w.closed {
		return fmt.Errorf("archive writer is closed")
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}

	h := Header{Name: name, Size: size}
	if err := validateHeader(h); err != nil {
		return err
	}

	if err := w.writeHeader(h); err != nil {
		return engine.IOError("write entry header", name, err)
	}

	n, err := io.CopyN(w.compressor, data, size)
	if errors.Is(err, io.EOF) {
		return engine.IOError("read input", name, fmt.Errorf("got %d of %d bytes: %w", n, size, io.ErrUnexpectedEOF))
	}
	if err != nil {
		return engine.IOError("write entry content", name, err)
	}

	return nil
}

func (w *Writer) writeHeader(h Header) error {
	buf := make([]byte, 0, len(h.Name)+24)
	buf = append(buf, h.Name...)
	buf = append(buf, '\n')
	buf = strconv.AppendInt(buf, h.Size, 10)
	buf = append(buf, '\n')
	_, err := w.compressor.Write(buf)
	return err
}

// Close flushes and terminates the compressed stream.
func (w *Writer) Close() error {
	if w.closed {
		return fmt.Errorf("archive writer already closed")
	}
	w.closed = true

	if err := w.compressor.Close(); err != nil {
		return engine.IOError("close archive stream", "", err)
	}

	return nil
}
