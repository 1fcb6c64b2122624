package archivers

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gziptool/gziptool/internal/engine"
	"github.com/gziptool/gziptool/internal/engine/compression"
)

var (
	errNotArchive      = errors.New("input does not start with a known compression magic")
	errTruncatedHeader = errors.New("archive ends inside an entry header")
	errTruncatedEntry  = errors.New("archive ends inside entry content")
)

// Reader decodes entries sequentially. Call Next to advance to the next entry,
// then Read to consume its content.
type Reader struct {
	decompressor io.ReadCloser
	br           *bufio.Reader
	codec        compression.Codec
	cur          *entryReader
	err          error
}

// NewReader sniffs the codec from the first bytes of r and opens a decompressing reader.
func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReader(r)

	prefix, err := br.Peek(compression.MaxMagicLen)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, engine.IOError("read archive", "", err)
	}

	codec, ok := compression.Detect(prefix)
	if !ok {
		return nil, engine.FormatError("open archive", errNotArchive)
	}

	decompressor, err := codec.NewReader(br)
	if err != nil {
		return nil, engine.FormatError("open archive", err)
	}

	return &Reader{
		decompressor: decompressor,
		br:           bufio.NewReader(decompressor),
		codec:        codec,
	}, nil
}

// Codec returns the name of the detected compression codec.
func (r *Reader) Codec() string {
	return r.codec.Name
}

// Next advances to the next entry, skipping any unread content of the current one.
// It returns io.EOF at the end of the archive: a stream that ends, or an empty name line.
func (r *Reader) Next() (Header, error) {
	if r.err != nil {
		return Header{}, r.err
	}

	h, err := r.next()
	if err != nil {
		r.err = err
	}
	return h, err
}

func (r *Reader) next() (Header, error) {
	if r.cur != nil {
		if _, err := io.Copy(io.Discard, r.cur); err != nil {
			return Header{}, err
		}
		r.cur = nil
	}

	name, err := r.readLine()
	if err != nil && !errors.Is(err, io.EOF) {
		return Header{}, engine.FormatError("read entry name", err)
	}
	if name == "" {
		return Header{}, io.EOF
	}
	if err != nil {
		return Header{}, engine.FormatError("read entry header", fmt.Errorf("%w: %q has no size", errTruncatedHeader, name))
	}

	sizeLine, err := r.readLine()
	if err != nil && !errors.Is(err, io.EOF) {
		return Header{}, engine.FormatError("read entry size", err)
	}
	if errors.Is(err, io.EOF) && sizeLine == "" {
		return Header{}, engine.FormatError("read entry header", fmt.Errorf("%w: %q has no size", errTruncatedHeader, name))
	}

	size, err := strconv.ParseInt(strings.TrimSpace(sizeLine), 10, 64)
	if err != nil {
		return Header{}, engine.FormatError("parse entry size", fmt.Errorf("entry %q: %w", name, err))
	}
	if size < 0 {
		return Header{}, engine.FormatError("parse entry size", fmt.Errorf("%w: %q has size %d", errNegativeSize, name, size))
	}

	h := Header{Name: name, Size: size}
	r.cur = &entryReader{r: r.br, header: h, remaining: size}
	return h, nil
}

func (r *Reader) readLine() (string, error) {
	line, err := r.br.ReadString('\n')
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, err
}

// Read reads from the content of the current entry. It returns io.EOF once the
// declared size has been consumed.
func (r *Reader) Read(p []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	if r.cur == nil {
		return 0, io.EOF
	}
	return r.cur.Read(p)
}

// Close releases the decompressor. It does not close the underlying reader.
func (r *Reader) Close() error {
	return r.decompressor.Close()
}

type entryReader struct {
	r         io.Reader
	header    Header
	remaining int64
}

func (e *entryReader) Read(p []byte) (int, error) {
	if e.remaining <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > e.remaining {
		p = p[:e.remaining]
	}

	n, err := e.r.Read(p)
	e.remaining -= int64(n)

	switch {
	case errors.Is(err, io.EOF) && e.remaining > 0:
		return n, engine.FormatError("read entry content", fmt.Errorf("%w: %q is missing %d bytes", errTruncatedEntry, e.header.Name, e.remaining))
	case errors.Is(err, io.EOF):
		return n, nil
	case err != nil:
		return n, engine.FormatError("read entry content", err)
	}
	return n, nil
}
