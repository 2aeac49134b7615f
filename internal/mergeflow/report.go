package mergeflow

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/colonyops/mergeflow/internal/core/styles"
)

// Outcome is what happened to one conflicted file.
type Outcome int

const (
	OutcomeSaved     Outcome = iota // proposal written to disk
	OutcomeDiscarded                // operator declined
	OutcomeUnchanged                // proposal equal to the original
	OutcomeSkipped                  // excluded by configuration
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSaved:
		return "saved"
	case OutcomeDiscarded:
		return "discarded"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// CommitOutcome is what happened at the commit step.
type CommitOutcome int

const (
	CommitNotOffered CommitOutcome = iota // nothing saved, or --no-commit
	CommitCreated
	CommitDeclined
)

func (c CommitOutcome) String() string {
	switch c {
	case CommitCreated:
		return "committed"
	case CommitDeclined:
		return "skipped"
	default:
		return "not offered"
	}
}

// FileReport records the result for one file.
type FileReport struct {
	Path    string
	Outcome Outcome
	Added   int
	Removed int
}

// Report collects the results of a run.
type Report struct {
	Root          string
	Files         []FileReport
	Commit        CommitOutcome
	CommitMessage string
}

func (r *Report) add(fr FileReport) {
	r.Files = append(r.Files, fr)
}

// Saved returns the paths that were written, in processing order.
func (r *Report) Saved() []string {
	var out []string
	for _, f := range r.Files {
		if f.Outcome == OutcomeSaved {
			out = append(out, f.Path)
		}
	}
	return out
}

// Markdown renders the report as a markdown document.
func (r *Report) Markdown() string {
	var b strings.Builder

	b.WriteString("# MergeFlow summary\n\n")
	if len(r.Files) == 0 {
		b.WriteString("No merge conflicts found.\n")
		return b.String()
	}

	b.WriteString("| File | Result | Added | Removed |\n")
	b.WriteString("|------|--------|------:|--------:|\n")
	for _, f := range r.Files {
		fmt.Fprintf(&b, "| `%s` | %s | %d | %d |\n", f.Path, f.Outcome, f.Added, f.Removed)
	}

	fmt.Fprintf(&b, "\n**Commit:** %s", r.Commit)
	if r.Commit == CommitCreated && r.CommitMessage != "" {
		fmt.Fprintf(&b, " (%s)", r.CommitMessage)
	}
	b.WriteString("\n")

	return b.String()
}

// RenderSummary renders the report for the terminal with glamour.
func (r *Report) RenderSummary(width int) (string, error) {
	if width <= 0 {
		width = 80
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}

	out, err := renderer.Render(r.Markdown())
	if err != nil {
		return "", fmt.Errorf("render summary: %w", err)
	}
	return out, nil
}
