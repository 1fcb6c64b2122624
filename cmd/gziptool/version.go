package main

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/urfave/cli/v3"
)

const (
	// AppVersion and ProjectURL are what `gziptool info` prints.
	AppVersion = "1.0.0"
	ProjectURL = "https://github.com/Daniel4-Scratch/gziptool"
)

// Build information populated at init() from debug.ReadBuildInfo().
var (
	Version   = "unknown"
	GoVersion = "unknown"
	Commit    = "unknown"
	BuildTime = "unknown"
	Modified  bool
)

func init() {
	parseBuildInfo()
}

func parseBuildInfo() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	Version = info.Main.Version
	GoVersion = info.GoVersion

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			Commit = setting.Value
		case "vcs.time":
			BuildTime = setting.Value
		case "vcs.modified":
			Modified = setting.Value == "true"
		}
	}
}

func newInfoCommand() *cli.Command {
	return &cli.Command{
		Name:  "info",
		Usage: "Print the version and project URL",
		Action: func(ctx context.Context, command *cli.Command) error {
			s := getSession(ctx)
			fmt.Fprintln(command.Root().Writer, s.cfg.Version)
			fmt.Fprintln(command.Root().Writer, s.cfg.URL)
			return nil
		},
	}
}

func newVersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print build information",
		Action: func(ctx context.Context, command *cli.Command) error {
			w := command.Root().Writer
			fmt.Fprintf(w, "version: %s (module %s)\n", AppVersion, Version)
			fmt.Fprintf(w, "go: %s\n", GoVersion)
			if Commit != "unknown" {
				if Modified {
					fmt.Fprintf(w, "commit: %s (dirty)\n", Commit)
				} else {
					fmt.Fprintf(w, "commit: %s\n", Commit)
				}
			}
			if BuildTime != "unknown" {
				fmt.Fprintf(w, "built: %s\n", BuildTime)
			}
			return nil
		},
	}
}
