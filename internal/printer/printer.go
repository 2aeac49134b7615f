// Package printer writes user-facing output. Diagnostic logging goes through
// zerolog; everything the operator is meant to read goes through a Printer.
package printer

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/colonyops/mergeflow/internal/core/styles"
)

type ctxKey struct{}

// Printer writes styled lines to an output and an error stream.
type Printer struct {
	mu  sync.Mutex
	out io.Writer
	err io.Writer
}

// New creates a Printer.
func New(out, err io.Writer) *Printer {
	return &Printer{out: out, err: err}
}

// NewContext returns a context carrying p.
func NewContext(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Ctx returns the Printer stored in ctx, or one writing to stdout/stderr.
func Ctx(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok && p != nil {
		return p
	}
	return New(os.Stdout, os.Stderr)
}

func (p *Printer) writeln(w io.Writer, s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintln(w, s)
}

// Printf writes an unstyled line.
func (p *Printer) Printf(format string, args ...any) {
	p.writeln(p.out, fmt.Sprintf(format, args...))
}

// Infof writes an informational line.
func (p *Printer) Infof(format string, args ...any) {
	p.writeln(p.out, styles.InfoStyle.Render(fmt.Sprintf(format, args...)))
}

// Successf writes a line prefixed with a check mark.
func (p *Printer) Successf(format string, args ...any) {
	p.writeln(p.out, styles.SuccessStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

// Warnf writes a warning line to the error stream.
func (p *Printer) Warnf(format string, args ...any) {
	p.writeln(p.err, styles.WarningStyle.Render("! "+fmt.Sprintf(format, args...)))
}

// Errorf writes a line prefixed with a cross to the error stream.
func (p *Printer) Errorf(format string, args ...any) {
	p.writeln(p.err, styles.ErrorStyle.Render("✗ "+fmt.Sprintf(format, args...)))
}

// Section writes a header line.
func (p *Printer) Section(title string) {
	p.writeln(p.out, styles.CommandHeaderStyle.Render(title))
}

// Success writes a success line followed by a muted detail line.
func (p *Printer) Success(title, detail string) {
	p.Successf("%s", title)
	if detail != "" {
		p.writeln(p.out, "  "+styles.MutedStyle.Render(detail))
	}
}

// Write passes raw bytes to the output stream, for pre-rendered blocks.
func (p *Printer) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.out.Write(b)
}
