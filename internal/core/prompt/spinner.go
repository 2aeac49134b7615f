package prompt

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/huh/spinner"
)

// Spinner shows progress while fn runs.
type Spinner interface {
	Run(ctx context.Context, title string, fn func(ctx context.Context) error) error
}

// NewSpinner returns an animated spinner on a terminal and a single status
// line written to w otherwise.
func NewSpinner(w io.Writer) Spinner {
	if StdoutIsTerminal() {
		return HuhSpinner{}
	}
	return LineSpinner{w: w}
}

// HuhSpinner animates a huh spinner until fn returns.
type HuhSpinner struct{}

func (HuhSpinner) Run(ctx context.Context, title string, fn func(ctx context.Context) error) error {
	return spinner.New().
		Title(" " + title).
		Context(ctx).
		ActionWithErr(fn).
		Run()
}

// LineSpinner prints the title once, then runs fn.
type LineSpinner struct {
	w io.Writer
}

func (s LineSpinner) Run(ctx context.Context, title string, fn func(ctx context.Context) error) error {
	if s.w != nil {
		_, _ = fmt.Fprintln(s.w, title)
	}
	return fn(ctx)
}
