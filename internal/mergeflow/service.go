// Package mergeflow runs the resolve, review, save and commit loop over the
// conflicted files of a git work tree.
package mergeflow

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"

	"github.com/colonyops/mergeflow/internal/core/config"
	"github.com/colonyops/mergeflow/internal/core/diff"
	"github.com/colonyops/mergeflow/internal/core/git"
	"github.com/colonyops/mergeflow/internal/core/llm"
	"github.com/colonyops/mergeflow/internal/core/logging"
	"github.com/colonyops/mergeflow/internal/core/prompt"
	"github.com/colonyops/mergeflow/internal/core/resolver"
	"github.com/colonyops/mergeflow/internal/printer"
)

const (
	frameTitle   = "MergeFlow resolving conflicts"
	quietBanner  = "Running in quiet mode - changes will be applied automatically"
	cleanMessage = "No merge conflicts found. Awesome!"
)

// ProviderFactory creates the model provider. It is called once, and only
// when at least one file needs resolving.
type ProviderFactory func(ctx context.Context) (llm.Provider, error)

// Pager shows rendered diff content to the operator.
type Pager func(ctx context.Context, title, content string) error

// Service orchestrates a mergeflow run.
type Service struct {
	config    *config.Config
	git       git.Git
	providers ProviderFactory
	gate      prompt.Gate
	spinner   prompt.Spinner
	pager     Pager
	log       zerolog.Logger
}

// NewService creates a new Service. pager may be nil when Options.Pager is never set.
func NewService(
	cfg *config.Config,
	gitClient git.Git,
	providers ProviderFactory,
	gate prompt.Gate,
	spinner prompt.Spinner,
	pager Pager,
	log zerolog.Logger,
) *Service {
	return &Service{
		config:    cfg,
		git:       gitClient,
		providers: providers,
		gate:      gate,
		spinner:   spinner,
		pager:     pager,
		log:       log,
	}
}

// RepoRoot returns the top level of the work tree containing dir.
func (s *Service) RepoRoot(ctx context.Context, dir string) (string, error) {
	root, err := s.git.RepoRoot(ctx, dir)
	if err != nil {
		return "", wrap(ErrNotRepository, dir, err)
	}
	return root, nil
}

// Conflicts returns the conflicted paths of the repository containing dir.
func (s *Service) Conflicts(ctx context.Context, dir string) (string, []git.Conflict, error) {
	root, err := s.RepoRoot(ctx, dir)
	if err != nil {
		return "", nil, err
	}

	conflicts, err := s.git.Conflicts(ctx, root)
	if err != nil {
		return root, nil, wrap(ErrIO, root, err)
	}
	return root, conflicts, nil
}

// Run processes every conflicted file under dir, one at a time, then offers
// a commit. The report is returned even when err is non-nil.
func (s *Service) Run(ctx context.Context, dir string, opts Options) (*Report, error) {
	p := printer.Ctx(ctx)
	report := &Report{}

	root, conflicts, err := s.Conflicts(ctx, dir)
	if err != nil {
		return report, err
	}
	report.Root = root

	paths, err := s.targets(ctx, dir, root, conflicts, opts)
	if err != nil {
		return report, err
	}

	s.log.Info().Ctx(ctx).
		Str("root", root).
		Int("conflicts", len(conflicts)).
		Int("targets", len(paths)).
		Msg("conflict scan complete")

	paths = s.applyExclude(ctx, paths, report)
	if len(paths) == 0 {
		if len(report.Files) == 0 {
			p.Successf(cleanMessage)
		}
		return report, nil
	}

	if opts.Quiet {
		p.Warnf(quietBanner)
	}

	provider, err := s.providers(ctx)
	if err != nil {
		if errors.Is(err, llm.ErrMissingAPIKey) {
			return report, wrap(llm.ErrMissingAPIKey, "", err)
		}
		return report, wrap(ErrConfig, "", err)
	}

	res := resolver.New(provider, resolver.Options{
		Document:    opts.Document,
		Timeout:     s.config.Provider.Timeout,
		MaxFileSize: s.config.MaxFileSize,
	}, s.log.With().Str("stage", "resolve").Logger())
	saveGate := prompt.Auto(s.gate, opts.Quiet)

	for _, rel := range paths {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		fr, err := s.processFile(logging.WithFile(ctx, rel), res, saveGate, root, rel, opts)
		if err != nil {
			return report, err
		}
		report.add(fr)
	}

	if err := s.commit(ctx, root, report, opts); err != nil {
		return report, err
	}
	return report, nil
}

// targets returns the repository-relative paths to process.
func (s *Service) targets(ctx context.Context, dir, root string, conflicts []git.Conflict, opts Options) ([]string, error) {
	all := git.Paths(conflicts)
	if opts.File == "" {
		return all, nil
	}

	abs := opts.File
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(dir, abs)
	}
	if _, err := os.Stat(abs); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, wrap(ErrFileMissing, opts.File, fmt.Errorf("%w: %s", ErrFileMissing, opts.File))
		}
		return nil, wrap(ErrIO, opts.File, fmt.Errorf("%w: %w", ErrIO, err))
	}

	rel := relativeTo(root, abs)
	if !slices.Contains(all, rel) {
		printer.Ctx(ctx).Warnf("%s is not listed as conflicted by git; resolving anyway", rel)
	}
	return []string{rel}, nil
}

// relativeTo returns abs relative to root, resolving symlinks on both sides
// so /tmp and /private/tmp style aliases compare equal.
func relativeTo(root, abs string) string {
	if r, err := filepath.EvalSymlinks(root); err == nil {
		root = r
	}
	if a, err := filepath.EvalSymlinks(abs); err == nil {
		abs = a
	}

	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return abs
	}
	return filepath.ToSlash(rel)
}

// applyExclude drops paths matching a configured exclude glob and records them as skipped.
func (s *Service) applyExclude(ctx context.Context, paths []string, report *Report) []string {
	if len(s.config.Exclude) == 0 {
		return paths
	}

	p := printer.Ctx(ctx)
	kept := make([]string, 0, len(paths))
	for _, path := range paths {
		if pattern, ok := s.excluded(path); ok {
			p.Infof("Skipping %s (excluded by %q)", path, pattern)
			report.add(FileReport{Path: path, Outcome: OutcomeSkipped})
			continue
		}
		kept = append(kept, path)
	}
	return kept
}

// Excluded reports whether path matches a configured exclude glob.
func (s *Service) Excluded(path string) bool {
	_, ok := s.excluded(path)
	return ok
}

func (s *Service) excluded(path string) (string, bool) {
	for _, pattern := range s.config.Exclude {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return pattern, true
		}
	}
	return "", false
}

func (s *Service) processFile(
	ctx context.Context,
	res *resolver.Resolver,
	saveGate prompt.Gate,
	root, rel string,
	opts Options,
) (FileReport, error) {
	p := printer.Ctx(ctx)
	abs := rel
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(root, filepath.FromSlash(rel))
	}

	p.FrameOpen(frameTitle)
	p.FrameField("File", rel)

	var result resolver.Result
	err := s.spinner.Run(ctx, "Resolving "+rel, func(ctx context.Context) error {
		var err error
		result, err = res.Resolve(ctx, abs)
		return err
	})
	if err != nil {
		p.FrameFail("Resolution failed")
		return FileReport{}, s.fileError(rel, err)
	}
	p.FrameClose("Resolution complete")

	segs := diff.Compute(string(result.Original), result.Proposed)
	added, removed := diff.Stats(segs)
	fr := FileReport{Path: rel, Added: added, Removed: removed}

	if result.Unchanged() {
		p.Infof("No changes proposed for %s", rel)
		fr.Outcome = OutcomeUnchanged
		return fr, nil
	}

	if err := s.showDiff(ctx, rel, segs, added, removed, opts); err != nil {
		return fr, err
	}

	ok, err := saveGate.Confirm(ctx, prompt.Question{
		Title:       "Save changes?",
		Description: rel,
		Affirmative: "Save",
		Negative:    "Discard",
	})
	if err != nil {
		return fr, wrap(errKindFor(err), rel, err)
	}

	if !ok {
		p.Errorf("Changes discarded")
		s.log.Info().Ctx(ctx).Msg("changes discarded")
		fr.Outcome = OutcomeDiscarded
		return fr, nil
	}

	if err := writeFileAtomic(abs, []byte(result.Proposed)); err != nil {
		return fr, wrap(ErrIO, rel, fmt.Errorf("save %s: %w", rel, err))
	}

	p.Successf("Changes saved successfully")
	s.log.Info().Ctx(ctx).Int("added", added).Int("removed", removed).Msg("changes saved")
	fr.Outcome = OutcomeSaved
	return fr, nil
}

func (s *Service) showDiff(ctx context.Context, rel string, segs []diff.Segment, added, removed int, opts Options) error {
	p := printer.Ctx(ctx)

	if opts.Pager && s.pager != nil {
		content := diff.String(segs, diff.DefaultStyles())
		if err := s.pager(ctx, fmt.Sprintf("%s  +%d -%d", rel, added, removed), content); err != nil {
			return fmt.Errorf("show diff for %s: %w", rel, err)
		}
	} else {
		p.Section("Changes:")
		if err := diff.Render(p, segs, diff.DefaultStyles()); err != nil {
			return err
		}
	}

	p.Printf("%d added, %d removed", added, removed)
	return nil
}

// fileError attaches the right kind to an error from resolving one file.
func (s *Service) fileError(rel string, err error) error {
	var mfErr *Error
	if errors.As(err, &mfErr) {
		return err
	}
	return wrap(errKindFor(err), rel, err)
}

func errKindFor(err error) error {
	switch {
	case errors.Is(err, ErrFileMissing):
		return ErrFileMissing
	case errors.Is(err, ErrIO):
		return ErrIO
	case errors.Is(err, prompt.ErrNoTerminal):
		return prompt.ErrNoTerminal
	case errors.Is(err, llm.ErrTransient):
		return llm.ErrTransient
	case errors.Is(err, llm.ErrTerminal):
		return llm.ErrTerminal
	case errors.Is(err, context.Canceled):
		return context.Canceled
	default:
		return llm.ErrTerminal
	}
}

func (s *Service) commit(ctx context.Context, root string, report *Report, opts Options) error {
	p := printer.Ctx(ctx)

	saved := report.Saved()
	if len(saved) == 0 || opts.NoCommit {
		report.Commit = CommitNotOffered
		return nil
	}

	message, err := s.config.RenderCommitMessage(saved)
	if err != nil {
		return wrap(ErrConfig, "", err)
	}
	author := s.config.Commit.Author

	ok, err := prompt.Auto(s.gate, opts.AutoCommit).Confirm(ctx, prompt.Question{
		Title:       "Commit changes?",
		Description: fmt.Sprintf("Message: %s\nAuthor: %s", message, author),
		Affirmative: "Commit",
		Negative:    "Skip",
	})
	if err != nil {
		return wrap(errKindFor(err), "", err)
	}

	if !ok {
		p.Infof("Commit skipped")
		report.Commit = CommitDeclined
		return nil
	}

	if err := s.git.CommitAll(ctx, root, author, message); err != nil {
		s.log.Error().Ctx(ctx).Err(err).Msg("commit failed")
		return wrap(ErrCommit, "", fmt.Errorf("%w: %w", ErrCommit, err))
	}

	p.Successf("Changes staged")
	p.Success("Commit successful", message)
	report.Commit = CommitCreated
	report.CommitMessage = message
	s.log.Info().Ctx(ctx).Int("files", len(saved)).Msg("commit created")
	return nil
}
