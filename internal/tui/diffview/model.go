// Package diffview is a scrollable full-screen pager for rendered diffs.
package diffview

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/mergeflow/internal/core/styles"
)

const helpText = "j/k: line | d/u: half page | f/b: page | g/G: top/bottom | q/enter: close"

// chromeHeight is the title line plus the help line.
const chromeHeight = 2

// Model displays pre-rendered diff content in a viewport.
type Model struct {
	title    string
	content  string
	viewport viewport.Model
	ready    bool
}

// New creates a pager for content.
func New(title, content string) Model {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle()

	return Model{
		title:    title,
		content:  content,
		viewport: vp,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		height := max(msg.Height-chromeHeight, 1)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.viewport.Style = lipgloss.NewStyle()
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		m.viewport.SetContent(m.content)

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "enter", "ctrl+c":
			return m, tea.Quit

		case "j", "down":
			m.viewport.ScrollDown(1)
			return m, nil

		case "k", "up":
			m.viewport.ScrollUp(1)
			return m, nil

		case "d", "ctrl+d":
			m.viewport.HalfPageDown()
			return m, nil

		case "u", "ctrl+u":
			m.viewport.HalfPageUp()
			return m, nil

		case "f", "pgdown", " ":
			m.viewport.PageDown()
			return m, nil

		case "b", "pgup":
			m.viewport.PageUp()
			return m, nil

		case "g", "home":
			m.viewport.GotoTop()
			return m, nil

		case "G", "end":
			m.viewport.GotoBottom()
			return m, nil
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if !m.ready {
		return "Loading diff..."
	}

	title := styles.PagerTitleStyle.Render(m.title)
	help := styles.PagerHelpStyle.Render(fmt.Sprintf("%3.f%% | %s", m.viewport.ScrollPercent()*100, helpText))

	return lipgloss.JoinVertical(lipgloss.Left, title, m.viewport.View(), help)
}

// Show runs the pager on the alternate screen until the operator closes it.
func Show(ctx context.Context, title, content string) error {
	p := tea.NewProgram(New(title, content), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("diff pager: %w", err)
	}
	return nil
}
