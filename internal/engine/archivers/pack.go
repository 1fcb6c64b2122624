package archivers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/gziptool/gziptool/internal/engine"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

type PackOptions struct {
	// Compression names the codec, empty for gzip.
	Compression string
	Logger      *zap.Logger
}

// Pack writes one entry per input, in order, into a single archive stream on w.
// Entry names are the base names of the inputs. A failing input aborts the pack and
// leaves whatever was already written on w.
func Pack(ctx context.Context, fsys afero.Fs, w io.Writer, inputs []string, opts PackOptions) (err error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	archiver, err := NewWriter(w, opts.Compression)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, archiver.Close())
	}()

	logger.Debug("packing archive", zap.String("compression", archiver.Codec()), zap.Int("inputs", len(inputs)))

	for _, input := range inputs {
		if err := addFile(ctx, fsys, archiver, input); err != nil {
			return err
		}
		logger.Debug("added entry", zap.String("input", input), zap.String("entry", filepath.Base(input)))
	}

	return nil
}

func addFile(ctx context.Context, fsys afero.Fs, archiver engine.Archiver, path string) (err error) {
	f, err := fsys.Open(path)
	if err != nil {
		return engine.IOError("open input", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, engine.IOError("close input", path, cerr))
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return engine.IOError("stat input", path, err)
	}
	if !info.Mode().IsRegular() {
		return engine.IOError("read input", path, fmt.Errorf("not a regular file"))
	}

	return archiver.AddFile(ctx, filepath.Base(path), info.Size(), f)
}
