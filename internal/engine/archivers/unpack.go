package archivers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gziptool/gziptool/internal/engine"
	"go.uber.org/zap"
)

type UnpackOptions struct {
	// Filter restricts which entries are extracted. Nil extracts everything.
	Filter *Filter
	Logger *zap.Logger
}

func (o UnpackOptions) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// Unpack decodes the archive on r and writes each entry to sink under its name,
// overwriting existing files. Names that could escape the sink root are rejected.
// A repeated name overwrites the earlier entry; a warning is logged.
func Unpack(ctx context.Context, r io.Reader, sink engine.Sink, opts UnpackOptions) (err error) {
	logger := opts.logger()

	ar, err := NewReader(r)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, ar.Close())
	}()

	seen := make(map[string]struct{})
	extracted := 0
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("context cancelled while unpacking: %w", err)
		}

		h, err := ar.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		matched, err := opts.Filter.Match(h)
		if err != nil {
			return err
		}
		if !matched {
			logger.Debug("skipping entry", zap.String("entry", h.Name), zap.String("filter", opts.Filter.String()))
			continue
		}

		if err := ValidateExtractName(h.Name); err != nil {
			return err
		}

		if _, ok := seen[h.Name]; ok {
			logger.Warn("duplicate entry overwrites earlier one", zap.String("entry", h.Name), zap.String("sink", sink.Name()))
		}
		seen[h.Name] = struct{}{}

		if err := writeEntry(ctx, sink, h, ar); err != nil {
			return err
		}
		extracted++
		logger.Debug("extracted entry", zap.String("entry", h.Name), zap.Int64("size", h.Size))
	}

	logger.Debug("unpacked archive", zap.String("compression", ar.Codec()), zap.Int("entries", extracted))
	return nil
}

func writeEntry(ctx context.Context, sink engine.Sink, h Header, content io.Reader) (err error) {
	w, err := sink.Create(ctx, h.Name)
	if err != nil {
		return engine.IOError("create entry", h.Name, err)
	}
	defer func() {
		if cerr := w.Close(); cerr != nil {
			err = errors.Join(err, engine.IOError("close entry", h.Name, cerr))
		}
	}()

	if _, err := io.Copy(w, content); err != nil {
		var classified *engine.Error
		if errors.As(err, &classified) {
			return err
		}
		return engine.IOError("write entry", h.Name, err)
	}

	return nil
}

// UnpackToMemory decodes the archive on r into a Contents mapping.
// A repeated name replaces the earlier content.
func UnpackToMemory(ctx context.Context, r io.Reader, opts UnpackOptions) (_ *Contents, err error) {
	ar, err := NewReader(r)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = errors.Join(err, ar.Close())
	}()

	contents := NewContents()
	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled while unpacking: %w", err)
		}

		h, err := ar.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		matched, err := opts.Filter.Match(h)
		if err != nil {
			return nil, err
		}
		if !matched {
			continue
		}

		var buf bytes.Buffer
		buf.Grow(int(min(h.Size, 1<<20)))
		if _, err := io.Copy(&buf, ar); err != nil {
			return nil, err
		}
		contents.Set(h.Name, buf.Bytes())
	}

	return contents, nil
}
