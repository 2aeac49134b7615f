package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/mergeflow/internal/commands"
	"github.com/colonyops/mergeflow/internal/core/config"
	"github.com/colonyops/mergeflow/internal/core/git"
	"github.com/colonyops/mergeflow/internal/core/logging"
	"github.com/colonyops/mergeflow/internal/core/prompt"
	"github.com/colonyops/mergeflow/internal/core/styles"
	"github.com/colonyops/mergeflow/internal/mergeflow"
	"github.com/colonyops/mergeflow/internal/printer"
	"github.com/colonyops/mergeflow/internal/tui/diffview"
	"github.com/colonyops/mergeflow/pkg/executil"
	"github.com/colonyops/mergeflow/pkg/logutils"
	"github.com/colonyops/mergeflow/pkg/randid"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var logCloser func()

	flags := &commands.Flags{}
	p := printer.New(os.Stdout, os.Stderr)

	app := &cli.Command{
		Name:      "mergeflow",
		Usage:     "Resolve git merge conflicts with a language model",
		UsageText: "mergeflow [global options] [<file>]\nmergeflow command [command options]",
		Description: `MergeFlow finds the files git reports as unmerged and asks a model to resolve
each one. You see a coloured diff of every proposal and choose whether to save
it. When at least one file was saved, MergeFlow offers to commit the result.

Run 'mergeflow' in a repository with conflicts to resolve all of them.
Run 'mergeflow <file>' to resolve a single file.`,
		Version:               build(),
		ArgsUsage:             "[file]",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("MERGEFLOW_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file",
				Sources:     cli.EnvVars("MERGEFLOW_LOG_FILE"),
				Value:       commands.DefaultLogFile(),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("MERGEFLOW_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger, closer, err := logutils.New(flags.LogLevel, flags.LogFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logging.WithContextFields(logger)
			logCloser = closer

			ctx = logging.WithRunID(ctx, randid.Generate(8))
			ctx = printer.NewContext(ctx, p)

			// Variables already present in the environment win over .env
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				log.Warn().Ctx(ctx).Err(err).Msg("failed to load .env")
			}

			cfg, err := config.Load(flags.ConfigPath)
			if err != nil {
				// Reported by each command after the repository check
				log.Warn().Ctx(ctx).Err(err).Msg("config load failed, using defaults")
				flags.ConfigErr = &mergeflow.Error{Kind: mergeflow.ErrConfig, Err: fmt.Errorf("load config: %w", err)}
				defaults := config.DefaultConfig()
				cfg = &defaults
			}
			flags.Config = cfg

			// Apply configured theme (validation ensures name is valid)
			styles.SetThemeByName(cfg.Theme)

			var (
				exec    = &executil.RealExecutor{}
				gitExec = git.NewExecutor(cfg.GitPath, exec)
			)

			flags.Service = mergeflow.NewService(
				cfg,
				gitExec,
				commands.ProviderFactory(flags),
				prompt.NewHuhGate(),
				prompt.NewSpinner(os.Stdout),
				diffview.Show,
				logging.Component("mergeflow"),
			)

			log.Info().Ctx(ctx).Str("version", version).Str("config", flags.ConfigPath).Msg("mergeflow started")
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			// Close log file
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	resolveCmd := commands.NewResolveCmd(flags)

	app = commands.NewLsCmd(flags).Register(app)
	app = commands.NewConfigValidateCmd(flags).Register(app)

	// Register resolve flags on root command
	app.Flags = append(app.Flags, resolveCmd.Flags()...)
	app.Action = resolveCmd.Run
	app.ShellComplete = commands.ConflictCompleter(flags)

	exitCode := 0
	if runErr := app.Run(ctx, os.Args); runErr != nil {
		exitCode = 1

		var exitErr cli.ExitCoder
		switch {
		case errors.As(runErr, &exitErr):
			exitCode = exitErr.ExitCode()
			if msg := exitErr.Error(); msg != "" {
				p.Errorf("%s", msg)
			}
		default:
			kind := mergeflow.KindOf(runErr)
			log.Error().Ctx(ctx).Err(runErr).Str("kind", kind).Msg("run failed")
			p.Printf("")
			p.Errorf("error [%s]: %s", kind, runErr.Error())
		}
	}

	stop()
	os.Exit(exitCode)
}
