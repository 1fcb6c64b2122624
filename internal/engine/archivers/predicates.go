package archivers

import (
	"io"

	"github.com/gziptool/gziptool/internal/engine/compression"
	"github.com/spf13/afero"
)

// AllRegularFiles reports whether every path names an existing regular file.
// It stops at the first path that does not.
func AllRegularFiles(fsys afero.Fs, paths []string) bool {
	for _, path := range paths {
		info, err := fsys.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			return false
		}
	}
	return true
}

// IsArchive sniffs the leading bytes of path for a compression magic. Besides
// gzip (1f 8b) it accepts the zstd and lz4 frame magics, since archives may be
// written with either. This is a content check only; a file that happens to start with the same
// bytes is misidentified. Unreadable paths are not archives.
func IsArchive(fsys afero.Fs, path string) bool {
	f, err := fsys.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	prefix := make([]byte, compression.MaxMagicLen)
	n, err := io.ReadFull(f, prefix)
	if err != nil && err != io.ErrUnexpectedEOF {
		return false
	}

	_, ok := compression.Detect(prefix[:n])
	return ok
}
