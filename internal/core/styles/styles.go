// Package styles provides shared lipgloss styles for CLI output and the diff pager.
package styles

import "github.com/charmbracelet/lipgloss"

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Style exports.
var (
	// CLI styles.
	CommandHeaderStyle lipgloss.Style
	FrameStyle         lipgloss.Style
	LabelStyle         lipgloss.Style
	MutedStyle         lipgloss.Style
	InfoStyle          lipgloss.Style
	SuccessStyle       lipgloss.Style
	WarningStyle       lipgloss.Style
	ErrorStyle         lipgloss.Style

	// Diff styles.
	DiffContextStyle lipgloss.Style
	DiffAddedStyle   lipgloss.Style
	DiffRemovedStyle lipgloss.Style

	// Pager styles.
	PagerTitleStyle lipgloss.Style
	PagerHelpStyle  lipgloss.Style
)

// SetTheme applies a palette and rebuilds all styles from it.
func SetTheme(p Palette) {
	CurrentPalette = p

	CommandHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Primary)
	FrameStyle = lipgloss.NewStyle().
		Foreground(p.Primary)
	LabelStyle = lipgloss.NewStyle().
		Foreground(p.Secondary)
	MutedStyle = lipgloss.NewStyle().
		Foreground(p.Muted)
	InfoStyle = lipgloss.NewStyle().
		Foreground(p.Foreground)
	SuccessStyle = lipgloss.NewStyle().
		Foreground(p.Success)
	WarningStyle = lipgloss.NewStyle().
		Foreground(p.Warning)
	ErrorStyle = lipgloss.NewStyle().
		Foreground(p.Error).
		Bold(true)

	DiffContextStyle = lipgloss.NewStyle().Foreground(p.Muted)
	DiffAddedStyle = lipgloss.NewStyle().Foreground(p.Success)
	DiffRemovedStyle = lipgloss.NewStyle().Foreground(p.Error)

	PagerTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Background).
		Background(p.Primary).
		Padding(0, 1)
	PagerHelpStyle = lipgloss.NewStyle().
		Foreground(p.Muted)
}

// SetThemeByName applies a built-in theme. It reports false and leaves the
// current theme in place when the name is unknown.
func SetThemeByName(name string) bool {
	p, ok := GetPalette(name)
	if !ok {
		return false
	}
	SetTheme(p)
	return true
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}
