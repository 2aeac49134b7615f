// Package git provides an abstraction for the git operations mergeflow needs.
package git

import "context"

// Git defines git operations needed by mergeflow.
type Git interface {
	// RepoRoot returns the top-level directory of the working tree containing dir.
	RepoRoot(ctx context.Context, dir string) (string, error)
	// Conflicts returns the unmerged paths in root, in status order.
	Conflicts(ctx context.Context, root string) ([]Conflict, error)
	// CommitAll stages every change in dir and commits it with the given author and message.
	CommitAll(ctx context.Context, dir, author, message string) error
}
