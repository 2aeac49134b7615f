package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/colonyops/mergeflow/pkg/executil"
)

// Executor implements Git using the git command-line tool.
type Executor struct {
	gitPath string
	exec    executil.Executor
}

// NewExecutor creates a new git executor with the specified git binary path.
func NewExecutor(gitPath string, exec executil.Executor) *Executor {
	return &Executor{gitPath: gitPath, exec: exec}
}

func (e *Executor) RepoRoot(ctx context.Context, dir string) (string, error) {
	out, err := e.exec.RunDir(ctx, dir, e.gitPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}

	root := strings.TrimSpace(string(out))
	if root == "" {
		return "", fmt.Errorf("git rev-parse: empty toplevel for %s", dir)
	}
	return root, nil
}

func (e *Executor) Conflicts(ctx context.Context, root string) ([]Conflict, error) {
	out, err := e.exec.RunDir(ctx, root, e.gitPath, "status", "--porcelain=v1")
	if err != nil {
		return nil, fmt.Errorf("git status: %w", err)
	}
	return ParseConflicts(string(out)), nil
}

func (e *Executor) CommitAll(ctx context.Context, dir, author, message string) error {
	if _, err := e.exec.RunDir(ctx, dir, e.gitPath, "add", "-A"); err != nil {
		return fmt.Errorf("git add: %w", err)
	}

	args := []string{"commit", "-m", message}
	if author != "" {
		args = append(args, "--author", author)
	}
	if _, err := e.exec.RunDir(ctx, dir, e.gitPath, args...); err != nil {
		return fmt.Errorf("git commit: %w", err)
	}
	return nil
}
