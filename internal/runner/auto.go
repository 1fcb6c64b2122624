package runner

import (
	"path/filepath"
	"time"

	"github.com/gziptool/gziptool/internal/engine"
	"github.com/gziptool/gziptool/internal/engine/archivers"
	"github.com/spf13/afero"
)

type AutoOp string

const (
	AutoArchive   AutoOp = "archive"
	AutoUnarchive AutoOp = "unarchive"
)

// AutoAction is what a bare invocation without a subcommand resolves to.
type AutoAction struct {
	Op     AutoOp
	Output string
	Inputs []string
}

// ResolveAuto picks an action from the shape of args: two or more regular files
// are packed into a timestamped archive, and a single archive is unpacked into a
// directory named after it. ok is false when args match neither shape.
func ResolveAuto(fsys afero.Fs, args []string, startedAt time.Time) (AutoAction, bool) {
	switch {
	case len(args) >= 2 && archivers.AllRegularFiles(fsys, args):
		return AutoAction{Op: AutoArchive, Output: AutoArchiveName(startedAt), Inputs: args}, true
	case len(args) == 1 && archivers.IsArchive(fsys, args[0]):
		return AutoAction{Op: AutoUnarchive, Output: AutoUnarchiveDir(args[0]), Inputs: args}, true
	default:
		return AutoAction{}, false
	}
}

// AutoArchiveName returns archive_DD-MM-YYYY-HH-MM-SS for t in local time.
func AutoArchiveName(t time.Time) string {
	return engine.AutoArchivePrefix + t.Local().Format(engine.AutoNameLayout)
}

// AutoUnarchiveDir returns unarchive_<basename of input>.
func AutoUnarchiveDir(input string) string {
	return engine.AutoUnarchivePrefix + filepath.Base(input)
}
