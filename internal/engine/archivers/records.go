// Package archivers implements the gziptool archive format: a compressed stream of
// entries, each encoded as a name line, a decimal size line and exactly size bytes of content.
// There is no entry count and no trailer; the archive ends with the stream.
package archivers

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gziptool/gziptool/internal/engine"
)

// Header describes one archive entry.
type Header struct {
	Name string
	Size int64
}

func (h Header) String() string {
	return fmt.Sprintf("%s (%d bytes)", h.Name, h.Size)
}

var (
	errEmptyName     = errors.New("entry name is empty")
	errLineBreak     = errors.New("entry name contains a line break")
	errNegativeSize  = errors.New("entry size is negative")
	errPathSeparator = errors.New("entry name contains a path separator")
	errDotName       = errors.New("entry name is a relative directory reference")
	errAbsoluteName  = errors.New("entry name is an absolute path")
)

// validateHeader checks that h can be encoded. An empty name would read back as
// the end of the archive, and line breaks are field delimiters.
func validateHeader(h Header) error {
	switch {
	case h.Name == "":
		return engine.FormatError("invalid entry", errEmptyName)
	case strings.ContainsAny(h.Name, "\r\n"):
		return engine.FormatError("invalid entry", fmt.Errorf("%w: %q", errLineBreak, h.Name))
	case h.Size < 0:
		return engine.FormatError("invalid entry", fmt.Errorf("%w: %s", errNegativeSize, h.Name))
	}
	return nil
}

// ValidateExtractName reports whether name can be written below an extraction root
// without escaping it. Names must be plain file names.
func ValidateExtractName(name string) error {
	switch {
	case name == "." || name == "..":
		return engine.UnsafeNameError(name, errDotName)
	case filepath.IsAbs(name) || filepath.VolumeName(name) != "" || strings.HasPrefix(name, "/"):
		return engine.UnsafeNameError(name, errAbsoluteName)
	case strings.ContainsAny(name, `/\`):
		return engine.UnsafeNameError(name, errPathSeparator)
	}
	return nil
}
