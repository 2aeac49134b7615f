// Package diff computes and renders line diffs between a file and its proposed resolution.
package diff

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Kind classifies a segment of a line diff.
type Kind int

const (
	Unchanged Kind = iota
	Added
	Removed
)

func (k Kind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	default:
		return "unchanged"
	}
}

// Segment is a run of whole lines sharing one Kind. Text keeps its line endings.
type Segment struct {
	Kind Kind
	Text string
}

// Lines returns the lines in the segment without their endings.
func (s Segment) Lines() []string {
	return strings.Split(strings.TrimSuffix(s.Text, "\n"), "\n")
}

// LineCount returns the number of lines in the segment.
func (s Segment) LineCount() int {
	if s.Text == "" {
		return 0
	}
	n := strings.Count(s.Text, "\n")
	if !strings.HasSuffix(s.Text, "\n") {
		n++
	}
	return n
}

// Compute returns the line diff from original to proposed.
func Compute(original, proposed string) []Segment {
	a := splitLines(original)
	b := splitLines(proposed)

	matcher := difflib.NewMatcherWithJunk(a, b, false, nil)

	var segs []Segment
	for _, op := range matcher.GetOpCodes() {
		switch op.Tag {
		case 'e':
			segs = appendSegment(segs, Unchanged, a[op.I1:op.I2])
		case 'd':
			segs = appendSegment(segs, Removed, a[op.I1:op.I2])
		case 'i':
			segs = appendSegment(segs, Added, b[op.J1:op.J2])
		case 'r':
			segs = appendSegment(segs, Removed, a[op.I1:op.I2])
			segs = appendSegment(segs, Added, b[op.J1:op.J2])
		}
	}
	return segs
}

// Stats counts added and removed lines.
func Stats(segs []Segment) (added, removed int) {
	for _, s := range segs {
		switch s.Kind {
		case Added:
			added += s.LineCount()
		case Removed:
			removed += s.LineCount()
		}
	}
	return added, removed
}

// appendSegment merges lines into the last segment when it has the same kind.
func appendSegment(segs []Segment, kind Kind, lines []string) []Segment {
	if len(lines) == 0 {
		return segs
	}
	text := strings.Join(lines, "")
	if n := len(segs); n > 0 && segs[n-1].Kind == kind {
		segs[n-1].Text += text
		return segs
	}
	return append(segs, Segment{Kind: kind, Text: text})
}

// splitLines splits s after each newline. A final line without a newline is kept.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
