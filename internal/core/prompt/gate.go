// Package prompt asks the operator yes/no questions in the terminal.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// ErrNoTerminal is returned when a question needs an answer but stdin is not a terminal.
var ErrNoTerminal = errors.New("stdin is not a terminal; use --quiet or --yes to answer automatically")

// Question is a yes/no question. Empty Affirmative/Negative use "Yes"/"No".
type Question struct {
	Title       string
	Description string
	Affirmative string
	Negative    string
}

// Gate answers yes/no questions. A declined question is (false, nil).
type Gate interface {
	Confirm(ctx context.Context, q Question) (bool, error)
}

// GateFunc adapts a function to Gate.
type GateFunc func(ctx context.Context, q Question) (bool, error)

func (f GateFunc) Confirm(ctx context.Context, q Question) (bool, error) { return f(ctx, q) }

// HuhGate asks questions with an interactive huh confirm field.
// Enter accepts the default, which is yes.
type HuhGate struct {
	isTerminal func() bool
	run        func(ctx context.Context, form *huh.Form) error
}

// NewHuhGate creates a gate reading from the process terminal.
func NewHuhGate() *HuhGate {
	return &HuhGate{isTerminal: StdinIsTerminal, run: runForm}
}

func runForm(ctx context.Context, form *huh.Form) error {
	return form.RunWithContext(ctx)
}

func (g *HuhGate) Confirm(ctx context.Context, q Question) (bool, error) {
	if g.isTerminal != nil && !g.isTerminal() {
		return false, ErrNoTerminal
	}

	affirmative, negative := q.Affirmative, q.Negative
	if affirmative == "" {
		affirmative = "Yes"
	}
	if negative == "" {
		negative = "No"
	}

	run := g.run
	if run == nil {
		run = runForm
	}

	answer := true
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(q.Title).
				Description(q.Description).
				Affirmative(affirmative).
				Negative(negative).
				Value(&answer),
		),
	)
	if err := run(ctx, form); err != nil {
		// Ctrl+C / Esc on a prompt is a decline, not a failure.
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, fmt.Errorf("confirm %q: %w", q.Title, err)
	}

	return answer, nil
}

// Auto returns a gate that answers yes without asking when force is set,
// and defers to g otherwise.
func Auto(g Gate, force bool) Gate {
	if !force {
		return g
	}
	return GateFunc(func(context.Context, Question) (bool, error) {
		return true, nil
	})
}

// StdinIsTerminal reports whether stdin is attached to a terminal.
func StdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// StdoutIsTerminal reports whether stdout is attached to a terminal.
func StdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
