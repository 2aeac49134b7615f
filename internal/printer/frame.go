package printer

import "github.com/colonyops/mergeflow/internal/core/styles"

// FrameOpen starts a boxed progress block.
//
//	╭─ title
func (p *Printer) FrameOpen(title string) {
	p.writeln(p.out, styles.FrameStyle.Render("╭─ ")+styles.CommandHeaderStyle.Render(title))
}

// FrameField writes a labelled line inside a block.
//
//	├ label: value
func (p *Printer) FrameField(label, value string) {
	p.writeln(p.out, styles.FrameStyle.Render("├ ")+styles.LabelStyle.Render(label+":")+" "+value)
}

// FrameClose ends a block with a success message.
//
//	╰─ ✓ msg
func (p *Printer) FrameClose(msg string) {
	p.writeln(p.out, styles.FrameStyle.Render("╰─ ")+styles.SuccessStyle.Render("✓ "+msg))
}

// FrameFail ends a block with a failure message.
func (p *Printer) FrameFail(msg string) {
	p.writeln(p.out, styles.FrameStyle.Render("╰─ ")+styles.ErrorStyle.Render("✗ "+msg))
}
