package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/gziptool/gziptool/internal/engine"
	"github.com/spf13/afero"
)

// Filesystem reads and writes files through an afero.Fs.
type Filesystem struct {
	fs afero.Fs
}

var (
	_ engine.Sink   = (*Filesystem)(nil)
	_ engine.Source = (*Filesystem)(nil)
)

func NewFilesystem(fs afero.Fs) *Filesystem {
	return &Filesystem{fs: fs}
}

// NewRootedFilesystem creates path (and parents) on base and returns storage confined to it.
// Paths that resolve outside the root are refused by the underlying BasePathFs.
// The current directory is used as is, since BasePathFs cannot match paths against ".".
func NewRootedFilesystem(base afero.Fs, path string) (*Filesystem, error) {
	cleanPath := filepath.Clean(path)
	if cleanPath == "." {
		return NewFilesystem(base), nil
	}

	if err := base.MkdirAll(cleanPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", cleanPath, err)
	}

	return NewFilesystem(afero.NewBasePathFs(base, cleanPath)), nil
}

func (s *Filesystem) Name() string {
	return fmt.Sprintf("filesystem(%s)", s.fs.Name())
}

func (s *Filesystem) Kind() string {
	return "filesystem"
}

// Create truncates or creates path, creating missing parent directories.
func (s *Filesystem) Create(ctx context.Context, path string) (io.WriteCloser, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := s.fs.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	f, err := s.fs.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	return f, nil
}

func (s *Filesystem) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	f, err := s.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

func (s *Filesystem) Close(ctx context.Context) error {
	return nil
}
