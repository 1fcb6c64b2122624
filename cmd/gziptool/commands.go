package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/gziptool/gziptool/internal/engine"
	"github.com/gziptool/gziptool/internal/engine/archivers"
	"github.com/gziptool/gziptool/internal/engine/compression"
	"github.com/gziptool/gziptool/internal/runner"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

var errInvalidArguments = errors.New("arguments are neither two or more existing files nor a single archive")

func newArchiveCommand() *cli.Command {
	return &cli.Command{
		Name:      "archive",
		Usage:     "Pack input files into an archive",
		UsageText: "gziptool archive [options] <output_file> <input_file> [<input_file> ...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "compression",
				Usage:   fmt.Sprintf("Compression codec (%v)", compression.Available()),
				Sources: cli.EnvVars("GZIPTOOL_COMPRESSION"),
				Action: func(ctx context.Context, command *cli.Command, s string) error {
					if _, err := compression.Lookup(s); err != nil {
						return engine.UsageError("", err)
					}
					return nil
				},
			},
		},
		OnUsageError: onUsageError,
		Action: func(ctx context.Context, command *cli.Command) error {
			s := getSession(ctx)

			args := command.Args().Slice()
			if len(args) < 2 {
				return engine.UsageError("archive", fmt.Errorf("expected an output file and at least one input file, got %d argument(s)", len(args)))
			}

			codec := s.cfg.Compression
			if command.IsSet("compression") {
				codec = command.String("compression")
			}

			if err := s.runner.Archive(ctx, args[0], args[1:], codec); err != nil {
				return err
			}

			s.logger.Info("archive created", zap.String("output", args[0]), zap.Int("entries", len(args)-1))
			return nil
		},
	}
}

func filterFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "filter",
		Usage: "CEL expression over name and size selecting entries, e.g. 'name.endsWith(\".txt\")'",
	}
}

func newUnarchiveCommand() *cli.Command {
	return &cli.Command{
		Name:         "unarchive",
		Usage:        "Unpack an archive into a directory",
		UsageText:    "gziptool unarchive [options] <input_file> <output_dir>",
		Flags:        []cli.Flag{filterFlag()},
		OnUsageError: onUsageError,
		Action: func(ctx context.Context, command *cli.Command) error {
			s := getSession(ctx)

			args := command.Args().Slice()
			if len(args) != 2 {
				return engine.UsageError("unarchive", fmt.Errorf("expected an input file and an output directory, got %d argument(s)", len(args)))
			}

			filter, err := archivers.NewFilter(command.String("filter"))
			if err != nil {
				return err
			}

			if err := s.runner.Unarchive(ctx, args[0], args[1], filter); err != nil {
				return err
			}

			s.logger.Info("archive extracted", zap.String("input", args[0]), zap.String("output", args[1]))
			return nil
		},
	}
}

func newListCommand() *cli.Command {
	return &cli.Command{
		Name:         "list",
		Usage:        "List the entries of an archive",
		UsageText:    "gziptool list [options] <input_file>",
		Flags:        []cli.Flag{filterFlag()},
		OnUsageError: onUsageError,
		Action: func(ctx context.Context, command *cli.Command) error {
			s := getSession(ctx)

			args := command.Args().Slice()
			if len(args) != 1 {
				return engine.UsageError("list", fmt.Errorf("expected an input file, got %d argument(s)", len(args)))
			}

			filter, err := archivers.NewFilter(command.String("filter"))
			if err != nil {
				return err
			}

			contents, err := s.runner.List(ctx, args[0], filter)
			if err != nil {
				return err
			}

			w := command.Root().Writer
			for name, data := range contents.All() {
				fmt.Fprintf(w, "%s\t%d\n", name, len(data))
			}
			return nil
		},
	}
}

// autoAction handles invocations without a subcommand, dispatching on the shape of the arguments.
func autoAction(ctx context.Context, command *cli.Command) error {
	s := getSession(ctx)

	action, ok := runner.ResolveAuto(s.runner.Fs(), command.Args().Slice(), s.cfg.StartedAt)
	if !ok {
		return engine.UsageError("", errInvalidArguments)
	}

	s.logger.Debug("resolved bare invocation", zap.String("op", string(action.Op)), zap.String("output", action.Output))

	switch action.Op {
	case runner.AutoArchive:
		return s.runner.Archive(ctx, action.Output, action.Inputs, s.cfg.Compression)
	case runner.AutoUnarchive:
		return s.runner.Unarchive(ctx, action.Inputs[0], action.Output, nil)
	default:
		return fmt.Errorf("unknown action %q", action.Op)
	}
}
