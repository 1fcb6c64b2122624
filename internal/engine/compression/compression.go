// Package compression adapts byte streams to the compression codecs archives are written with.
package compression

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

const (
	Gzip = "gzip"
	Zstd = "zstd"
	LZ4  = "lz4"

	// Default is used when no codec is requested.
	Default = Gzip
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// Codec describes one compression format.
type Codec struct {
	// Name is the identifier used on the command line and in config files.
	Name string
	// Magic is the fixed prefix every stream of this format starts with.
	Magic []byte

	newWriter func(io.Writer) (io.WriteCloser, error)
	newReader func(io.Reader) (io.ReadCloser, error)
}

// NewWriter wraps w with a compressor. Closing the returned writer flushes the
// compressed stream but does not close w.
func (c Codec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	cw, err := c.newWriter(w)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s writer: %w", c.Name, err)
	}
	return cw, nil
}

// NewReader wraps r with a decompressor.
func (c Codec) NewReader(r io.Reader) (io.ReadCloser, error) {
	cr, err := c.newReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s reader: %w", c.Name, err)
	}
	return cr, nil
}

func gzipCodec() Codec {
	return Codec{
		Name:  Gzip,
		Magic: gzipMagic,
		newWriter: func(w io.Writer) (io.WriteCloser, error) {
			return gzip.NewWriter(w), nil
		},
		newReader: func(r io.Reader) (io.ReadCloser, error) {
			return gzip.NewReader(r)
		},
	}
}

func zstdCodec() Codec {
	return Codec{
		Name:  Zstd,
		Magic: zstdMagic,
		newWriter: func(w io.Writer) (io.WriteCloser, error) {
			return zstd.NewWriter(w)
		},
		newReader: func(r io.Reader) (io.ReadCloser, error) {
			d, err := zstd.NewReader(r)
			if err != nil {
				return nil, err
			}
			return d.IOReadCloser(), nil
		},
	}
}

func lz4Codec() Codec {
	return Codec{
		Name:  LZ4,
		Magic: lz4Magic,
		newWriter: func(w io.Writer) (io.WriteCloser, error) {
			return lz4Writer{lz4.NewWriter(w)}, nil
		},
		newReader: func(r io.Reader) (io.ReadCloser, error) {
			return io.NopCloser(lz4Reader{lz4.NewReader(r)}), nil
		},
	}
}

// lz4Writer hides (*lz4.Writer).ReadFrom, which only works on a fresh writer
// and fails once a header has been written with Write.
type lz4Writer struct {
	io.WriteCloser
}

// lz4Reader hides (*lz4.Reader).WriteTo for the same reason.
type lz4Reader struct {
	io.Reader
}
