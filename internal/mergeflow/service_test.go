package mergeflow

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/mergeflow/internal/core/config"
	"github.com/colonyops/mergeflow/internal/core/git"
	"github.com/colonyops/mergeflow/internal/core/llm"
	"github.com/colonyops/mergeflow/internal/core/prompt"
	"github.com/colonyops/mergeflow/internal/printer"
	"github.com/colonyops/mergeflow/pkg/executil"
)

const (
	conflicted = "a\n<<<<<<< HEAD\nb\n=======\nc\n>>>>>>> feature\n"
	resolved   = "a\nb\nc\n"
)

type stubProvider struct {
	reply string
	err   error
	calls int
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Complete(_ context.Context, req llm.Request) (string, error) {
	s.calls++
	if s.reply == "" && s.err == nil {
		return string(req.Content), nil
	}
	return s.reply, s.err
}

type scriptedGate struct {
	answers   []bool
	questions []prompt.Question
}

func (g *scriptedGate) Confirm(_ context.Context, q prompt.Question) (bool, error) {
	g.questions = append(g.questions, q)
	if len(g.answers) == 0 {
		return false, errors.New("unexpected question: " + q.Title)
	}
	answer := g.answers[0]
	g.answers = g.answers[1:]
	return answer, nil
}

type harness struct {
	root      string
	exec      *executil.RecordingExecutor
	provider  *stubProvider
	gate      *scriptedGate
	factories int
	cfg       *config.Config
	out       bytes.Buffer
}

func newHarness(t *testing.T, status string) *harness {
	t.Helper()
	root := t.TempDir()
	cfg := config.DefaultConfig()

	return &harness{
		root: root,
		exec: &executil.RecordingExecutor{
			Outputs: map[string][]byte{
				"git rev-parse": []byte(root + "\n"),
				"git status":    []byte(status),
			},
			Errors: map[string]error{},
		},
		provider: &stubProvider{reply: resolved},
		gate:     &scriptedGate{},
		cfg:      &cfg,
	}
}

func (h *harness) writeFile(t *testing.T, rel, content string) string {
	t.Helper()
	path := filepath.Join(h.root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func (h *harness) run(t *testing.T, opts Options) (*Report, error) {
	t.Helper()
	svc := NewService(
		h.cfg,
		git.NewExecutor("git", h.exec),
		func(context.Context) (llm.Provider, error) {
			h.factories++
			return h.provider, nil
		},
		h.gate,
		prompt.LineSpinner{},
		nil,
		zerolog.Nop(),
	)
	ctx := printer.NewContext(context.Background(), printer.New(&h.out, &h.out))
	return svc.Run(ctx, h.root, opts)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestRun_CleanTree(t *testing.T) {
	h := newHarness(t, " M other.go\n?? new.txt\n")

	report, err := h.run(t, Options{})
	require.NoError(t, err)

	assert.Empty(t, report.Files)
	assert.Equal(t, 0, h.factories, "no provider is created for a clean tree")
	assert.Equal(t, 0, h.provider.calls)
	assert.Empty(t, h.gate.questions)
	assert.Contains(t, h.out.String(), "No merge conflicts found. Awesome!")
	assert.Equal(t, []string{"git rev-parse", "git status"}, h.exec.Subcommands())
}

func TestRun_NotRepository(t *testing.T) {
	h := newHarness(t, "")
	h.exec.Errors["git rev-parse"] = errors.New("fatal: not a git repository")

	_, err := h.run(t, Options{})
	require.ErrorIs(t, err, ErrNotRepository)
	assert.Equal(t, "not_repository", KindOf(err))
	assert.Equal(t, []string{"git rev-parse"}, h.exec.Subcommands(), "no other git command runs")
	assert.Equal(t, 0, h.provider.calls)
}

func TestRun_StatusFailureIsNotNotRepository(t *testing.T) {
	h := newHarness(t, "")
	h.exec.Errors["git status"] = errors.New("fatal: index file corrupt")

	_, err := h.run(t, Options{})
	require.ErrorIs(t, err, ErrIO)
	assert.NotErrorIs(t, err, ErrNotRepository)
	assert.Equal(t, "io", KindOf(err))
	assert.Contains(t, err.Error(), "index file corrupt")
	assert.Equal(t, 0, h.provider.calls)
}

func TestRun_DeclineLeavesFileIntact(t *testing.T) {
	h := newHarness(t, "UU path/a.txt\n")
	path := h.writeFile(t, "path/a.txt", conflicted)
	h.gate.answers = []bool{false}

	report, err := h.run(t, Options{})
	require.NoError(t, err)

	assert.Equal(t, conflicted, readFile(t, path))
	require.Len(t, report.Files, 1)
	assert.Equal(t, FileReport{Path: "path/a.txt", Outcome: OutcomeDiscarded, Added: 0, Removed: 3}, report.Files[0])
	assert.Equal(t, CommitNotOffered, report.Commit)

	require.Len(t, h.gate.questions, 1, "no commit prompt when nothing was saved")
	assert.Equal(t, "Save changes?", h.gate.questions[0].Title)

	out := h.out.String()
	assert.Contains(t, out, "MergeFlow resolving conflicts")
	assert.Contains(t, out, "path/a.txt")
	assert.Contains(t, out, "Resolution complete")
	assert.Contains(t, out, "- <<<<<<< HEAD")
	assert.Contains(t, out, "Changes discarded")
	assert.Equal(t, []string{"git rev-parse", "git status"}, h.exec.Subcommands())
}

func TestRun_SaveThenCommit(t *testing.T) {
	h := newHarness(t, "UU a.txt\n")
	path := h.writeFile(t, "a.txt", conflicted)
	require.NoError(t, os.Chmod(path, 0o600))
	h.gate.answers = []bool{true, true}

	report, err := h.run(t, Options{Document: true})
	require.NoError(t, err)

	assert.Equal(t, resolved, readFile(t, path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), "file mode is preserved")

	assert.Equal(t, []string{"a.txt"}, report.Saved())
	assert.Equal(t, CommitCreated, report.Commit)
	assert.Equal(t, "Automated merge conflict resolution", report.CommitMessage)

	require.Len(t, h.gate.questions, 2)
	assert.Equal(t, "Commit changes?", h.gate.questions[1].Title)
	assert.Contains(t, h.gate.questions[1].Description, "Author: MergeFlow <>")

	assert.Equal(t, []string{"git rev-parse", "git status", "git add", "git commit"}, h.exec.Subcommands())
	commit := h.exec.Commands[3]
	assert.Equal(t, h.root, commit.Dir)
	assert.Contains(t, commit.Args, "--author")
	assert.Contains(t, commit.Args, "MergeFlow <>")
	assert.Contains(t, h.out.String(), "Changes saved successfully")
	assert.Contains(t, h.out.String(), "Commit successful")
}

func TestRun_QuietSkipsSaveGate(t *testing.T) {
	h := newHarness(t, "UU a.txt\nAA b.txt\n")
	a := h.writeFile(t, "a.txt", conflicted)
	b := h.writeFile(t, "b.txt", conflicted)
	h.gate.answers = []bool{false} // commit question only

	report, err := h.run(t, Options{Quiet: true})
	require.NoError(t, err)

	assert.Equal(t, resolved, readFile(t, a))
	assert.Equal(t, resolved, readFile(t, b))
	assert.Equal(t, []string{"a.txt", "b.txt"}, report.Saved())
	assert.Equal(t, CommitDeclined, report.Commit)

	require.Len(t, h.gate.questions, 1)
	assert.Equal(t, "Commit changes?", h.gate.questions[0].Title)
	assert.Contains(t, h.out.String(), "Running in quiet mode")
	assert.Contains(t, h.out.String(), "Commit skipped")
	assert.Equal(t, 2, h.provider.calls)
}

func TestRun_QuietAndYesNeverAsk(t *testing.T) {
	h := newHarness(t, "UU a.txt\n")
	h.writeFile(t, "a.txt", conflicted)

	report, err := h.run(t, Options{Quiet: true, AutoCommit: true})
	require.NoError(t, err)

	assert.Empty(t, h.gate.questions)
	assert.Equal(t, CommitCreated, report.Commit)
	assert.Equal(t, []string{"git rev-parse", "git status", "git add", "git commit"}, h.exec.Subcommands())
}

func TestRun_YesWithoutQuietStillAsksToSave(t *testing.T) {
	h := newHarness(t, "UU a.txt\n")
	h.writeFile(t, "a.txt", conflicted)
	h.gate.answers = []bool{true}

	report, err := h.run(t, Options{AutoCommit: true})
	require.NoError(t, err)

	require.Len(t, h.gate.questions, 1)
	assert.Equal(t, "Save changes?", h.gate.questions[0].Title)
	assert.Equal(t, CommitCreated, report.Commit)
}

func TestRun_NoCommit(t *testing.T) {
	h := newHarness(t, "UU a.txt\n")
	h.writeFile(t, "a.txt", conflicted)

	report, err := h.run(t, Options{Quiet: true, NoCommit: true})
	require.NoError(t, err)

	assert.Empty(t, h.gate.questions)
	assert.Equal(t, CommitNotOffered, report.Commit)
	assert.Equal(t, []string{"git rev-parse", "git status"}, h.exec.Subcommands())
}

func TestRun_Idempotent(t *testing.T) {
	h := newHarness(t, "UU a.txt\n")
	path := h.writeFile(t, "a.txt", resolved)
	h.provider.reply = "" // echo the content back

	for i := range 2 {
		report, err := h.run(t, Options{})
		require.NoError(t, err, "run %d", i)
		require.Len(t, report.Files, 1)
		assert.Equal(t, OutcomeUnchanged, report.Files[0].Outcome)
		assert.Zero(t, report.Files[0].Added)
		assert.Zero(t, report.Files[0].Removed)
	}

	assert.Equal(t, resolved, readFile(t, path))
	assert.Empty(t, h.gate.questions, "unchanged proposals are not offered for saving")
}

func TestRun_CommitFailure(t *testing.T) {
	h := newHarness(t, "UU a.txt\n")
	path := h.writeFile(t, "a.txt", conflicted)
	h.exec.Errors["git commit"] = errors.New("exec git commit: Author identity unknown: exit status 128")

	report, err := h.run(t, Options{Quiet: true, AutoCommit: true})
	require.ErrorIs(t, err, ErrCommit)
	assert.Equal(t, "commit", KindOf(err))
	assert.Contains(t, err.Error(), "Author identity unknown")

	assert.Equal(t, resolved, readFile(t, path), "saved files stay on disk")
	assert.Equal(t, []string{"a.txt"}, report.Saved())
}

func TestRun_RemoteErrorStopsRun(t *testing.T) {
	h := newHarness(t, "UU a.txt\nUU b.txt\n")
	a := h.writeFile(t, "a.txt", conflicted)
	h.writeFile(t, "b.txt", conflicted)
	h.provider.err = fmt.Errorf("%w: rate limited", llm.ErrTransient)

	_, err := h.run(t, Options{Quiet: true})
	require.Error(t, err)
	assert.Equal(t, "remote_transient", KindOf(err))
	assert.Equal(t, 1, h.provider.calls, "run stops at the first failure")
	assert.Equal(t, conflicted, readFile(t, a))
	assert.Contains(t, h.out.String(), "Resolution failed")
}

func TestRun_MissingFile(t *testing.T) {
	h := newHarness(t, "UD gone.txt\n")

	_, err := h.run(t, Options{Quiet: true})
	require.ErrorIs(t, err, ErrFileMissing)
	assert.Equal(t, "file_missing", KindOf(err))
	assert.Equal(t, 0, h.provider.calls)
}

func TestRun_MissingAPIKey(t *testing.T) {
	h := newHarness(t, "UU a.txt\n")
	h.writeFile(t, "a.txt", conflicted)

	svc := NewService(h.cfg, git.NewExecutor("git", h.exec),
		func(context.Context) (llm.Provider, error) {
			return nil, fmt.Errorf("%w: GEMINI_API_KEY is not set", llm.ErrMissingAPIKey)
		},
		h.gate, prompt.LineSpinner{}, nil, zerolog.Nop())

	_, err := svc.Run(printer.NewContext(context.Background(), printer.New(&h.out, &h.out)), h.root, Options{})
	require.ErrorIs(t, err, llm.ErrMissingAPIKey)
	assert.Equal(t, "missing_api_key", KindOf(err))
}

func TestRun_Exclude(t *testing.T) {
	h := newHarness(t, "UU go.lock\nUU deps/x.lock\nUU a.txt\n")
	h.cfg.Exclude = []string{"**/*.lock"}
	h.writeFile(t, "a.txt", conflicted)

	report, err := h.run(t, Options{Quiet: true, NoCommit: true})
	require.NoError(t, err)

	require.Len(t, report.Files, 3)
	assert.Equal(t, OutcomeSkipped, report.Files[0].Outcome)
	assert.Equal(t, OutcomeSkipped, report.Files[1].Outcome)
	assert.Equal(t, OutcomeSaved, report.Files[2].Outcome)
	assert.Equal(t, 1, h.provider.calls)
}

func TestRun_AllExcluded(t *testing.T) {
	h := newHarness(t, "UU go.lock\n")
	h.cfg.Exclude = []string{"*.lock"}

	report, err := h.run(t, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, h.factories)
	require.Len(t, report.Files, 1)
	assert.NotContains(t, h.out.String(), "No merge conflicts found")
}

func TestRun_SingleFile(t *testing.T) {
	t.Run("file not listed by git", func(t *testing.T) {
		h := newHarness(t, "UU other.txt\n")
		path := h.writeFile(t, "notes/b.txt", conflicted)

		report, err := h.run(t, Options{Quiet: true, NoCommit: true, File: "notes/b.txt"})
		require.NoError(t, err)

		assert.Equal(t, resolved, readFile(t, path))
		assert.Equal(t, []string{"notes/b.txt"}, report.Saved())
		assert.Contains(t, h.out.String(), "not listed as conflicted")
		assert.Equal(t, 1, h.provider.calls)
	})

	t.Run("missing file", func(t *testing.T) {
		h := newHarness(t, "")

		_, err := h.run(t, Options{File: "nope.txt"})
		require.ErrorIs(t, err, ErrFileMissing)
		assert.Equal(t, 0, h.factories)
	})
}

func TestRun_NoTerminal(t *testing.T) {
	h := newHarness(t, "UU a.txt\n")
	path := h.writeFile(t, "a.txt", conflicted)

	svc := NewService(h.cfg, git.NewExecutor("git", h.exec),
		func(context.Context) (llm.Provider, error) { return h.provider, nil },
		prompt.GateFunc(func(context.Context, prompt.Question) (bool, error) {
			return false, prompt.ErrNoTerminal
		}),
		prompt.LineSpinner{}, nil, zerolog.Nop())

	_, err := svc.Run(printer.NewContext(context.Background(), printer.New(&h.out, &h.out)), h.root, Options{})
	require.ErrorIs(t, err, prompt.ErrNoTerminal)
	assert.Equal(t, "no_terminal", KindOf(err))
	assert.Equal(t, conflicted, readFile(t, path))
}

func TestRun_Pager(t *testing.T) {
	h := newHarness(t, "UU a.txt\n")
	h.writeFile(t, "a.txt", conflicted)

	var titles []string
	svc := NewService(h.cfg, git.NewExecutor("git", h.exec),
		func(context.Context) (llm.Provider, error) { return h.provider, nil },
		prompt.Auto(nil, true),
		prompt.LineSpinner{},
		func(_ context.Context, title, content string) error {
			titles = append(titles, title)
			assert.Contains(t, content, "- =======")
			return nil
		},
		zerolog.Nop())

	_, err := svc.Run(printer.NewContext(context.Background(), printer.New(&h.out, &h.out)), h.root, Options{Pager: true, NoCommit: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt  +0 -3"}, titles)
	assert.NotContains(t, h.out.String(), "Changes:")
}
