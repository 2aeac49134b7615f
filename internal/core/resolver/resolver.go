// Package resolver asks a model to resolve the merge conflicts in a single file.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/mergeflow/internal/core/llm"
)

const (
	baseInstruction = "Solve any git merge conflicts in the file below, and try to use the better options for code. " +
		"Only respond with the final file contents, but do not use markdown code blocks. " +
		"Ensure that the file is in a valid state after the merge."
	documentInstruction = " Add accurate and concise documentation through the form of comments. " +
		"Use a similar naming scheme to existing comments and code."

	// DefaultTimeout bounds a single remote call.
	DefaultTimeout = 2 * time.Minute
	// DefaultMaxFileSize is the largest file sent to the model.
	DefaultMaxFileSize int64 = 1 << 20
)

var (
	// ErrFileMissing is returned when the file does not exist.
	ErrFileMissing = errors.New("file missing")
	// ErrIO is returned when the file cannot be read or written.
	ErrIO = errors.New("i/o error")
	// ErrFileTooLarge is returned when the file exceeds MaxFileSize. It also matches ErrIO.
	ErrFileTooLarge = fmt.Errorf("%w: file too large", ErrIO)
)

// Options configures a Resolver.
type Options struct {
	Document    bool
	Timeout     time.Duration
	MaxFileSize int64
}

// Result is a proposed resolution for one file.
type Result struct {
	Path     string
	Original []byte
	Proposed string
}

// Unchanged reports whether the proposal equals the original bytes.
func (r Result) Unchanged() bool {
	return string(r.Original) == r.Proposed
}

// Resolver sends conflicted files to a provider.
type Resolver struct {
	provider llm.Provider
	opts     Options
	log      zerolog.Logger
}

// New creates a Resolver that logs through log. Zero option values fall back
// to defaults.
func New(provider llm.Provider, opts Options, log zerolog.Logger) *Resolver {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = DefaultMaxFileSize
	}
	return &Resolver{
		provider: provider,
		opts:     opts,
		log:      log,
	}
}

// Instruction returns the instruction sent with every file.
func Instruction(document bool) string {
	if document {
		return baseInstruction + documentInstruction
	}
	return baseInstruction
}

// Resolve reads path and returns the model's replacement content verbatim.
func (r *Resolver) Resolve(ctx context.Context, path string) (Result, error) {
	content, err := r.read(path)
	if err != nil {
		return Result{}, err
	}

	callCtx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	start := time.Now()
	proposed, err := r.provider.Complete(callCtx, llm.Request{
		Instruction: Instruction(r.opts.Document),
		Content:     content,
		MIMEType:    "text/plain",
		Path:        path,
	})
	if err != nil {
		r.log.Error().Ctx(ctx).Err(err).
			Str("provider", r.provider.Name()).
			Dur("elapsed", time.Since(start)).
			Msg("resolution failed")
		return Result{}, fmt.Errorf("resolve %s: %w", path, llm.Classify(err))
	}

	r.log.Info().Ctx(ctx).
		Str("provider", r.provider.Name()).
		Int("original_bytes", len(content)).
		Int("proposed_bytes", len(proposed)).
		Dur("elapsed", time.Since(start)).
		Msg("resolution received")

	return Result{Path: path, Original: content, Proposed: proposed}, nil
}

func (r *Resolver) read(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileMissing, path)
		}
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrIO, path)
	}
	if info.Size() > r.opts.MaxFileSize {
		return nil, fmt.Errorf("%w: %s is %d bytes (limit %d)", ErrFileTooLarge, path, info.Size(), r.opts.MaxFileSize)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileMissing, path)
		}
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return content, nil
}
