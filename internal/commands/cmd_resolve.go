package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/mergeflow/internal/core/llm"
	"github.com/colonyops/mergeflow/internal/mergeflow"
	"github.com/colonyops/mergeflow/internal/printer"
)

// ResolveCmd is the root action: resolve every conflicted file, or the one named.
type ResolveCmd struct {
	flags *Flags

	// flags
	document bool
	quiet    bool
	yes      bool
	noCommit bool
	pager    bool
	summary  bool
	provider string
	model    string
	timeout  time.Duration
}

// NewResolveCmd creates the resolve command.
func NewResolveCmd(flags *Flags) *ResolveCmd {
	return &ResolveCmd{flags: flags}
}

// Flags returns the flags registered on the root command.
func (cmd *ResolveCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "document",
			Aliases:     []string{"d"},
			Usage:       "ask the model to add documentation comments while resolving",
			Destination: &cmd.document,
		},
		&cli.BoolFlag{
			Name:        "quiet",
			Aliases:     []string{"q"},
			Usage:       "save every resolution without asking",
			Destination: &cmd.quiet,
		},
		&cli.BoolFlag{
			Name:        "yes",
			Aliases:     []string{"y"},
			Usage:       "commit without asking",
			Destination: &cmd.yes,
		},
		&cli.BoolFlag{
			Name:        "no-commit",
			Usage:       "never offer to commit",
			Destination: &cmd.noCommit,
		},
		&cli.BoolFlag{
			Name:        "pager",
			Usage:       "show each diff in a scrollable pager",
			Destination: &cmd.pager,
		},
		&cli.BoolFlag{
			Name:        "summary",
			Usage:       "print a summary table after the run",
			Destination: &cmd.summary,
		},
		&cli.StringFlag{
			Name:        "provider",
			Usage:       "model provider (gemini, openai); overrides config",
			Sources:     cli.EnvVars("MERGEFLOW_PROVIDER"),
			Destination: &cmd.provider,
		},
		&cli.StringFlag{
			Name:        "model",
			Usage:       "model name; overrides config",
			Sources:     cli.EnvVars("MERGEFLOW_MODEL"),
			Destination: &cmd.model,
		},
		&cli.DurationFlag{
			Name:        "timeout",
			Usage:       "timeout for each model request; overrides config",
			Destination: &cmd.timeout,
		},
	}
}

// Run is the root action.
func (cmd *ResolveCmd) Run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() > 1 {
		return fmt.Errorf("expected at most one file, got %d. Run 'mergeflow --help' for usage", c.Args().Len())
	}

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	if err := cmd.flags.checkConfig(ctx, wd); err != nil {
		return err
	}

	if err := cmd.applyOverrides(); err != nil {
		return err
	}

	opts := mergeflow.Options{
		Quiet:      cmd.quiet,
		AutoCommit: cmd.yes,
		Document:   cmd.document,
		NoCommit:   cmd.noCommit,
		Pager:      cmd.pager,
		Summary:    cmd.summary,
		File:       c.Args().First(),
	}

	log.Debug().Ctx(ctx).
		Bool("quiet", opts.Quiet).
		Bool("yes", opts.AutoCommit).
		Bool("document", opts.Document).
		Str("file", opts.File).
		Msg("starting run")

	report, err := cmd.flags.Service.Run(ctx, wd, opts)
	if err != nil {
		return err
	}

	if opts.Summary {
		return cmd.printSummary(ctx, report)
	}
	return nil
}

func (cmd *ResolveCmd) applyOverrides() error {
	cfg := cmd.flags.Config
	if cmd.provider != "" {
		cfg.Provider.Name = cmd.provider
		if cmd.model == "" {
			cfg.Provider.Model = ""
		}
	}
	if cmd.model != "" {
		cfg.Provider.Model = cmd.model
	}
	if cmd.timeout > 0 {
		cfg.Provider.Timeout = cmd.timeout
	}

	if err := cfg.Validate(); err != nil {
		return &mergeflow.Error{Kind: mergeflow.ErrConfig, Err: err}
	}
	return nil
}

func (cmd *ResolveCmd) printSummary(ctx context.Context, report *mergeflow.Report) error {
	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}

	out, err := report.RenderSummary(width)
	if err != nil {
		return err
	}
	printer.Ctx(ctx).Printf("%s", out)
	return nil
}

// ProviderFactory builds the provider from the live config so flag
// overrides applied before the run take effect.
func ProviderFactory(flags *Flags) mergeflow.ProviderFactory {
	return func(ctx context.Context) (llm.Provider, error) {
		return llm.New(ctx, flags.Config.Provider.Settings())
	}
}
