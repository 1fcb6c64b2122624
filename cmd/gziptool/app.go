package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"time"

	v1 "github.com/gziptool/gziptool/apis/v1"
	"github.com/gziptool/gziptool/internal/engine"
	"github.com/gziptool/gziptool/internal/engine/compression"
	"github.com/gziptool/gziptool/internal/engine/storage"
	"github.com/gziptool/gziptool/internal/runner"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultErrorLog = "error.log"

// environment is everything the process takes from the outside world.
type environment struct {
	fs          afero.Fs
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer
	startedAt   time.Time
	interactive bool
	goos        string
	openViewer  func(path string) error
	s3Factory   runner.S3Factory
}

func defaultEnvironment() environment {
	return environment{
		fs:          afero.NewOsFs(),
		stdin:       os.Stdin,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		startedAt:   time.Now(),
		interactive: isInteractiveEnvironment(),
		goos:        runtime.GOOS,
		openViewer: func(path string) error {
			return exec.Command("notepad.exe", path).Start()
		},
	}
}

// appConfig is resolved once per invocation and not modified afterwards.
type appConfig struct {
	Version      string
	URL          string
	StartedAt    time.Time
	ErrorLogPath string
	Compression  string
	S3           storage.S3Config
}

type session struct {
	env    environment
	cfg    appConfig
	logger *zap.Logger
	runner *runner.Runner
}

type sessionCtxKeyType struct{}

var sessionCtxKey = sessionCtxKeyType{}

func newSession(env environment) *session {
	return &session{
		env: env,
		cfg: appConfig{
			Version:      AppVersion,
			URL:          ProjectURL,
			StartedAt:    env.startedAt,
			ErrorLogPath: defaultErrorLog,
		},
	}
}

func withSession(ctx context.Context, s *session) context.Context {
	return context.WithValue(ctx, sessionCtxKey, s)
}

func getSession(ctx context.Context) *session {
	s, ok := ctx.Value(sessionCtxKey).(*session)
	if !ok {
		panic("session not found in context")
	}
	return s
}

func onUsageError(ctx context.Context, command *cli.Command, err error, isSubcommand bool) error {
	return engine.UsageError("", err)
}

func newApp(env environment) *cli.Command {
	return &cli.Command{
		Name:      "gziptool",
		Usage:     "Pack files into a single compressed archive and unpack them again",
		UsageText: "gziptool [options] <file> <file> [<file> ...]\ngziptool [options] <archive>\ngziptool [options] <command> [arguments]",
		Writer:    env.stdout,
		ErrWriter: env.stderr,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "Enable debug logging",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "warn",
				Usage:   "Log Level (debug, info, warn, error)",
				Sources: cli.EnvVars("GZIPTOOL_LOG_LEVEL"),
				Action: func(ctx context.Context, command *cli.Command, s string) error {
					if _, err := zapcore.ParseLevel(s); err != nil {
						return engine.UsageError("", fmt.Errorf("invalid log level %s: %w", s, err))
					}
					return nil
				},
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file",
				Sources: cli.EnvVars("GZIPTOOL_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "error-log",
				Value:   defaultErrorLog,
				Usage:   "File runtime errors are written to",
				Sources: cli.EnvVars("GZIPTOOL_ERROR_LOG"),
			},
			&cli.StringFlag{
				Name:    "s3-region",
				Usage:   "Region for s3:// locations",
				Sources: cli.EnvVars("GZIPTOOL_S3_REGION"),
			},
			&cli.StringFlag{
				Name:    "s3-endpoint",
				Usage:   "Endpoint for S3-compatible storage (MinIO, R2, ...)",
				Sources: cli.EnvVars("GZIPTOOL_S3_ENDPOINT"),
			},
			&cli.BoolFlag{
				Name:    "s3-force-path-style",
				Usage:   "Use path-style addressing for S3",
				Sources: cli.EnvVars("GZIPTOOL_S3_FORCE_PATH_STYLE"),
			},
		},
		Commands: []*cli.Command{
			newArchiveCommand(),
			newUnarchiveCommand(),
			newListCommand(),
			newInfoCommand(),
			newVersionCommand(),
		},
		OnUsageError: onUsageError,
		Before: func(ctx context.Context, command *cli.Command) (context.Context, error) {
			s := getSession(ctx)

			fileCfg, err := runner.LoadConfig(s.env.fs, command.String("config"), command.IsSet("config"))
			if err != nil {
				return ctx, err
			}

			s.cfg = resolveConfig(s.cfg, fileCfg, command)

			logger, _, err := createLogger(command.Bool("debug"), resolveLogLevel(fileCfg, command))
			if err != nil {
				return ctx, engine.UsageError("", err)
			}
			logger.Debug("logger created", zap.String("error_log", s.cfg.ErrorLogPath), zap.String("compression", s.cfg.Compression))

			s.logger = logger
			s.runner = runner.New(
				logger.Named("runner"),
				runner.WithFs(s.env.fs),
				runner.WithStdio(s.env.stdin, s.env.stdout),
				runner.WithS3(s.cfg.S3, s.env.s3Factory),
			)

			return withLogger(ctx, logger), nil
		},
		Action: autoAction,
		ExitErrHandler: func(ctx context.Context, command *cli.Command, err error) {
			if logger := tryLogger(ctx); logger != nil {
				logger.Debug("command failed", zap.Stringer("kind", engine.KindOf(err)), zap.Error(err))
			}
		},
	}
}

// resolveConfig layers the config file and then explicitly set flags over base.
func resolveConfig(base appConfig, file v1.Config, command *cli.Command) appConfig {
	cfg := base

	cfg.ErrorLogPath = command.String("error-log")
	if !command.IsSet("error-log") && file.ErrorLog != "" {
		cfg.ErrorLogPath = file.ErrorLog
	}

	cfg.Compression = file.Compression
	if cfg.Compression == "" {
		cfg.Compression = compression.Default
	}

	if file.S3 != nil {
		cfg.S3.Region = file.S3.Region
		cfg.S3.Endpoint = file.S3.Endpoint
		cfg.S3.ForcePathStyle = file.S3.ForcePathStyle
		if file.S3.Credentials != nil {
			cfg.S3.AccessKeyID = file.S3.Credentials.AccessKeyID
			cfg.S3.SecretAccessKey = file.S3.Credentials.SecretAccessKey
		}
	}
	if command.IsSet("s3-region") {
		cfg.S3.Region = command.String("s3-region")
	}
	if command.IsSet("s3-endpoint") {
		cfg.S3.Endpoint = command.String("s3-endpoint")
	}
	if command.IsSet("s3-force-path-style") {
		cfg.S3.ForcePathStyle = command.Bool("s3-force-path-style")
	}

	return cfg
}

func resolveLogLevel(file v1.Config, command *cli.Command) string {
	if !command.IsSet("log-level") && file.Log != nil && file.Log.Level != "" {
		return file.Log.Level
	}
	return command.String("log-level")
}

// run executes one invocation and returns the process exit status.
func run(ctx context.Context, args []string, env environment) int {
	s := newSession(env)

	err := newApp(env).Run(withSession(ctx, s), args)
	code := s.handleError(err)

	if s.logger != nil {
		_ = s.logger.Sync()
	}
	return code
}
