package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gziptool/gziptool/internal/engine"
	"github.com/gziptool/gziptool/internal/engine/archivers"
	"github.com/gziptool/gziptool/internal/engine/storage"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// S3Factory builds S3 storage for a bucket and key prefix.
type S3Factory func(ctx context.Context, cfg storage.S3Config) (*storage.S3, error)

// Runner performs one archive, unarchive or list pass against resolved locations.
type Runner struct {
	logger *zap.Logger
	fs     afero.Fs
	s3     storage.S3Config
	newS3  S3Factory
	stdin  io.Reader
	stdout io.Writer
}

type Option func(*Runner)

// WithFs replaces the local filesystem (default: the OS filesystem).
func WithFs(fs afero.Fs) Option {
	return func(r *Runner) { r.fs = fs }
}

// WithS3 sets the S3 connection settings and, if factory is non-nil, how clients are built.
func WithS3(cfg storage.S3Config, factory S3Factory) Option {
	return func(r *Runner) {
		r.s3 = cfg
		if factory != nil {
			r.newS3 = factory
		}
	}
}

// WithStdio replaces the streams used for the "-" location.
func WithStdio(stdin io.Reader, stdout io.Writer) Option {
	return func(r *Runner) {
		r.stdin = stdin
		r.stdout = stdout
	}
}

func New(logger *zap.Logger, opts ...Option) *Runner {
	r := &Runner{
		logger: logger,
		fs:     afero.NewOsFs(),
		newS3:  storage.NewS3,
		stdin:  os.Stdin,
		stdout: os.Stdout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Fs returns the local filesystem the runner reads inputs from.
func (r *Runner) Fs() afero.Fs {
	return r.fs
}

func (r *Runner) s3Storage(ctx context.Context, bucket, prefix string) (*storage.S3, error) {
	cfg := r.s3
	cfg.Bucket = bucket
	cfg.Prefix = prefix

	s, err := r.newS3(ctx, cfg)
	if err != nil {
		return nil, engine.IOError("connect", "s3://"+bucket, err)
	}
	return s, nil
}

// Archive packs inputs, in order, into output using the named codec.
func (r *Runner) Archive(ctx context.Context, output string, inputs []string, compression string) (err error) {
	loc := ParseLocation(output)
	logger := r.logger.With(zap.String("output", loc.String()))
	logger.Info("archiving", zap.Strings("inputs", inputs), zap.String("compression", compression))

	sink, path, err := r.archiveSink(ctx, loc)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, sink.Close(ctx))
	}()

	w, err := sink.Create(ctx, path)
	if err != nil {
		return engine.IOError("create archive", loc.String(), err)
	}
	defer func() {
		if cerr := w.Close(); cerr != nil {
			err = errors.Join(err, engine.IOError("close archive", loc.String(), cerr))
		}
	}()

	return archivers.Pack(ctx, r.fs, w, inputs, archivers.PackOptions{
		Compression: compression,
		Logger:      logger.Named("pack"),
	})
}

func (r *Runner) archiveSink(ctx context.Context, loc Location) (engine.Sink, string, error) {
	switch loc.Kind {
	case LocationStream:
		return storage.NewStreamSink(r.stdout), loc.Path, nil
	case LocationS3:
		if loc.Key == "" {
			return nil, "", engine.UsageError("archive", fmt.Errorf("s3 output %s has no object key", loc))
		}
		s, err := r.s3Storage(ctx, loc.Bucket, "")
		if err != nil {
			return nil, "", err
		}
		return s, loc.Key, nil
	default:
		return storage.NewFilesystem(r.fs), loc.Path, nil
	}
}

// Unarchive unpacks input into outputDir, creating the directory if needed.
func (r *Runner) Unarchive(ctx context.Context, input, outputDir string, filter *archivers.Filter) (err error) {
	in := ParseLocation(input)
	out := ParseLocation(outputDir)
	logger := r.logger.With(zap.String("input", in.String()), zap.String("output", out.String()))
	logger.Info("unarchiving", zap.String("filter", filter.String()))

	src, err := r.open(ctx, in)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			err = errors.Join(err, engine.IOError("close archive", in.String(), cerr))
		}
	}()

	sink, err := r.extractSink(ctx, out)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, sink.Close(ctx))
	}()

	return archivers.Unpack(ctx, src, sink, archivers.UnpackOptions{
		Filter: filter,
		Logger: logger.Named("unpack"),
	})
}

func (r *Runner) extractSink(ctx context.Context, loc Location) (engine.Sink, error) {
	switch loc.Kind {
	case LocationStream:
		return nil, engine.UsageError("unarchive", fmt.Errorf("cannot extract multiple entries to a stream"))
	case LocationS3:
		return r.s3Storage(ctx, loc.Bucket, loc.Key)
	default:
		sink, err := storage.NewRootedFilesystem(r.fs, loc.Path)
		if err != nil {
			return nil, engine.IOError("create output directory", loc.Path, err)
		}
		return sink, nil
	}
}

// List decodes input into memory and returns its entries.
func (r *Runner) List(ctx context.Context, input string, filter *archivers.Filter) (_ *archivers.Contents, err error) {
	in := ParseLocation(input)
	r.logger.Debug("listing", zap.String("input", in.String()), zap.String("filter", filter.String()))

	src, err := r.open(ctx, in)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			err = errors.Join(err, engine.IOError("close archive", in.String(), cerr))
		}
	}()

	return archivers.UnpackToMemory(ctx, src, archivers.UnpackOptions{
		Filter: filter,
		Logger: r.logger.Named("list"),
	})
}

func (r *Runner) open(ctx context.Context, loc Location) (io.ReadCloser, error) {
	var (
		src  engine.Source
		path = loc.Path
	)

	switch loc.Kind {
	case LocationStream:
		src = storage.NewStreamSource(r.stdin)
	case LocationS3:
		s, err := r.s3Storage(ctx, loc.Bucket, "")
		if err != nil {
			return nil, err
		}
		src, path = s, loc.Key
	default:
		src = storage.NewFilesystem(r.fs)
	}

	rc, err := src.Open(ctx, path)
	if err != nil {
		return nil, engine.IOError("open archive", loc.String(), err)
	}
	return rc, nil
}
