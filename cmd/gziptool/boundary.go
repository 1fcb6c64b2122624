package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/gziptool/gziptool/internal/engine"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// handleError is the single error boundary of the process. Usage errors print help;
// every other failure is written to the error log and surfaced to the user.
func (s *session) handleError(err error) int {
	if err == nil {
		return exitOK
	}

	kind := engine.KindOf(err)
	if kind == engine.KindUsage {
		printUsage(s.env.stdout, err)
		return exitUsage
	}

	if s.logger != nil {
		s.logger.Debug("writing error log", zap.String("path", s.cfg.ErrorLogPath), zap.Stringer("kind", kind), zap.Error(err))
	}

	if werr := writeErrorLog(s.env.fs, s.cfg.ErrorLogPath, err); werr != nil {
		fmt.Fprintf(s.env.stderr, "An error occurred and %s could not be written: %v\n%v\n", s.cfg.ErrorLogPath, werr, err)
		return exitFailure
	}

	s.notifyFailure()
	return exitFailure
}

func writeErrorLog(fs afero.Fs, path string, err error) error {
	if dir := filepath.Dir(path); dir != "." {
		if mkErr := fs.MkdirAll(dir, 0755); mkErr != nil {
			return mkErr
		}
	}
	return afero.WriteFile(fs, path, []byte(err.Error()+"\n"), 0644)
}

// notifyFailure opens the error log in a viewer on Windows terminals and
// otherwise points the user at it.
func (s *session) notifyFailure() {
	if s.env.goos == "windows" && s.env.interactive && s.env.openViewer != nil {
		if err := s.env.openViewer(s.cfg.ErrorLogPath); err == nil {
			return
		}
	}
	fmt.Fprintf(s.env.stderr, "An error occurred. Check %s for details.\n", s.cfg.ErrorLogPath)
}

func printUsage(w io.Writer, err error) {
	fmt.Fprintf(w, "Invalid arguments: %v\n", err)
	fmt.Fprintln(w, "Archive: gziptool archive <output_file> <input_files> ...")
	fmt.Fprintln(w, "Unarchive: gziptool unarchive <input_file> <output_dir>")
	fmt.Fprintln(w, "Run 'gziptool --help' for all commands.")
}
