package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/mergeflow/internal/core/git"
	"github.com/colonyops/mergeflow/pkg/executil"
)

// ConflictCompleter returns a ShellCompleteFunc that suggests conflicted
// paths as the positional file argument.
//
// When the user's last typed argument starts with "-", it falls back to the
// default flag completion behavior.
func ConflictCompleter(flags *Flags) cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		// Delegate to default flag completion when typing a flag
		if args := cmd.Args(); args.Present() {
			last := args.Slice()[args.Len()-1]
			if len(last) > 0 && last[0] == '-' {
				cli.DefaultCompleteWithFlags(ctx, cmd)
				return
			}
		}

		wd, err := os.Getwd()
		if err != nil {
			return
		}

		conflicts, err := completionConflicts(ctx, flags, wd)
		if err != nil {
			return
		}

		w := cmd.Root().Writer
		for _, c := range conflicts {
			_, _ = fmt.Fprintln(w, c.Path)
		}
	}
}

// completionConflicts lists conflicts through the service when the Before
// hook has built one, and straight through git otherwise.
func completionConflicts(ctx context.Context, flags *Flags, wd string) ([]git.Conflict, error) {
	if flags.Service != nil {
		_, conflicts, err := flags.Service.Conflicts(ctx, wd)
		return conflicts, err
	}

	g := git.NewExecutor("git", &executil.RealExecutor{})
	root, err := g.RepoRoot(ctx, wd)
	if err != nil {
		return nil, err
	}
	return g.Conflicts(ctx, root)
}
