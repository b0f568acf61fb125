// Package agenda lists overdue and upcoming tasks across all open
// activities.
package agenda

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/activity-planner/internal/keys"
	"github.com/nhle/activity-planner/internal/planner"
	"github.com/nhle/activity-planner/internal/theme"
)

// OpenActivityMsg asks the parent to show an activity's checklist.
type OpenActivityMsg struct {
	ActivityID string
	ItemID     string
}

// Model is the agenda view.
type Model struct {
	keys     *keys.KeyMap
	overdue  []planner.TaskRef
	upcoming []planner.TaskRef
	cursor   int
	width    int
	height   int
}

// New creates a new agenda model.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{keys: k, width: width, height: height}
}

// SetTasks replaces the overdue and upcoming tasks.
func (m *Model) SetTasks(overdue, upcoming []planner.TaskRef) {
	m.overdue = overdue
	m.upcoming = upcoming
	if n := m.count(); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

func (m Model) count() int {
	return len(m.overdue) + len(m.upcoming)
}

// Selected returns the task under the cursor.
func (m Model) Selected() (planner.TaskRef, bool) {
	switch {
	case m.cursor < len(m.overdue):
		return m.overdue[m.cursor], true
	case m.cursor < m.count():
		return m.upcoming[m.cursor-len(m.overdue)], true
	default:
		return planner.TaskRef{}, false
	}
}

// Update handles messages for the agenda view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < m.count()-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Select):
		if ref, ok := m.Selected(); ok {
			return m, func() tea.Msg {
				return OpenActivityMsg{ActivityID: ref.Activity.ID, ItemID: ref.Item.ID}
			}
		}
	}
	return m, nil
}

// View renders both sections.
func (m Model) View() string {
	if m.count() == 0 {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("Nothing overdue or due soon.")
	}

	var b strings.Builder
	b.WriteString(m.section(fmt.Sprintf("Overdue (%d)", len(m.overdue)), m.overdue, 0))
	b.WriteString("\n")
	b.WriteString(m.section(fmt.Sprintf("Due soon (%d)", len(m.upcoming)), m.upcoming, len(m.overdue)))
	return b.String()
}

func (m Model) section(title string, refs []planner.TaskRef, base int) string {
	var b strings.Builder
	b.WriteString(theme.PhaseHeaderStyle.Render(title))
	b.WriteString("\n")
	if len(refs) == 0 {
		b.WriteString(theme.MutedStyle.Render("  none"))
		b.WriteString("\n")
		return b.String()
	}
	for i, ref := range refs {
		due := theme.DueStyle(string(ref.Due.Status)).Render(fmt.Sprintf("%-18s", ref.Due.Label))
		text := fmt.Sprintf("%s %s  %s", due, ref.Item.Title, theme.MutedStyle.Render(ref.Activity.Name))
		if base+i == m.cursor {
			b.WriteString(theme.SelectedItemStyle.Render(text))
		} else {
			b.WriteString(theme.ListItemStyle.Render(text))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
