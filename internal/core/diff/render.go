package diff

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/mergeflow/internal/core/styles"
)

const ruleWidth = 40

// Styles controls how Render colours each kind of line.
type Styles struct {
	Frame     lipgloss.Style
	Unchanged lipgloss.Style
	Added     lipgloss.Style
	Removed   lipgloss.Style
}

// DefaultStyles returns styles from the active theme.
func DefaultStyles() Styles {
	return Styles{
		Frame:     styles.FrameStyle,
		Unchanged: styles.DiffContextStyle,
		Added:     styles.DiffAddedStyle,
		Removed:   styles.DiffRemovedStyle,
	}
}

// PlainStyles returns styles that add no escape sequences.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{Frame: plain, Unchanged: plain, Added: plain, Removed: plain}
}

// Render writes segs framed by rules, one prefixed line per diff line.
func Render(w io.Writer, segs []Segment, st Styles) error {
	var b strings.Builder

	b.WriteString(st.Frame.Render("╭" + strings.Repeat("─", ruleWidth)))
	b.WriteString("\n")

	for _, seg := range segs {
		prefix, style := "  ", st.Unchanged
		switch seg.Kind {
		case Added:
			prefix, style = "+ ", st.Added
		case Removed:
			prefix, style = "- ", st.Removed
		}

		for _, line := range seg.Lines() {
			line = strings.TrimSuffix(line, "\r")
			b.WriteString(style.Render(prefix + strings.ToValidUTF8(line, "�")))
			b.WriteString("\n")
		}
	}

	b.WriteString(st.Frame.Render("╰" + strings.Repeat("─", ruleWidth)))
	b.WriteString("\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write diff: %w", err)
	}
	return nil
}

// String renders segs with s and returns the result.
func String(segs []Segment, st Styles) string {
	var b strings.Builder
	_ = Render(&b, segs, st)
	return b.String()
}
