package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/mergeflow/internal/core/git"
	"github.com/colonyops/mergeflow/pkg/iojson"
)

type LsCmd struct {
	flags *Flags

	// flags
	jsonOutput bool
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags) *LsCmd {
	return &LsCmd{flags: flags}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List conflicted files",
		UsageText: "mergeflow ls [--json]",
		Description: `Displays the files git reports as unmerged, with their status code.

Use --json for one JSON object per line, suitable for scripts.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

// conflictInfo is the JSON output format for mergeflow ls --json.
type conflictInfo struct {
	Code     string `json:"code"`
	Path     string `json:"path"`
	Excluded bool   `json:"excluded"`
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	if err := cmd.flags.checkConfig(ctx, wd); err != nil {
		return err
	}

	_, conflicts, err := cmd.flags.Service.Conflicts(ctx, wd)
	if err != nil {
		return err
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, cf := range conflicts {
			info := conflictInfo{Code: cf.Code, Path: cf.Path, Excluded: cmd.flags.Service.Excluded(cf.Path)}
			if err := iojson.WriteLine(out, info); err != nil {
				return fmt.Errorf("encode conflict: %w", err)
			}
		}
		return nil
	}

	if len(conflicts) == 0 {
		fmt.Fprintf(os.Stderr, "No merge conflicts found\n")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "CODE\tPATH\tNOTE")
	for _, cf := range conflicts {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", cf.Code, cf.Path, cmd.note(cf))
	}
	return w.Flush()
}

func (cmd *LsCmd) note(cf git.Conflict) string {
	if cmd.flags.Service.Excluded(cf.Path) {
		return "excluded"
	}
	return ""
}
