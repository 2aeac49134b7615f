package mergeflow

import (
	"context"
	"errors"

	"github.com/colonyops/mergeflow/internal/core/llm"
	"github.com/colonyops/mergeflow/internal/core/prompt"
	"github.com/colonyops/mergeflow/internal/core/resolver"
)

var (
	// ErrNotRepository is returned when the working directory is not inside a git work tree.
	ErrNotRepository = errors.New("not a git repository")
	// ErrFileMissing is returned when a file to resolve does not exist.
	ErrFileMissing = resolver.ErrFileMissing
	// ErrIO is returned when a file cannot be read or written.
	ErrIO = resolver.ErrIO
	// ErrCommit is returned when staging or committing fails.
	ErrCommit = errors.New("commit failed")
	// ErrConfig is returned when the configuration cannot be loaded.
	ErrConfig = errors.New("invalid configuration")
)

// Error attaches a stable kind and an optional path to an underlying error.
// errors.Is matches both the kind and anything Err wraps.
type Error struct {
	Kind error
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func wrap(kind error, path string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Path: path, Err: err}
}

// kinds maps sentinel errors to slugs. Order matters: the first match wins.
var kinds = []struct {
	err  error
	slug string
}{
	{ErrNotRepository, "not_repository"},
	{ErrFileMissing, "file_missing"},
	{llm.ErrMissingAPIKey, "missing_api_key"},
	{prompt.ErrNoTerminal, "no_terminal"},
	{context.Canceled, "canceled"},
	{ErrConfig, "config"},
	{ErrCommit, "commit"},
	{llm.ErrTransient, "remote_transient"},
	{llm.ErrTerminal, "remote_terminal"},
	{ErrIO, "io"},
}

// KindOf returns a stable slug describing err, for logs and scripts.
func KindOf(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.slug
		}
	}
	return "internal"
}
