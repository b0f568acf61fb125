package activitylist

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/activity-planner/internal/caldate"
	"github.com/nhle/activity-planner/internal/keys"
	"github.com/nhle/activity-planner/internal/planner"
	"github.com/nhle/activity-planner/internal/theme"
)

// SelectedActivityMsg is sent when the user opens an activity's checklist.
type SelectedActivityMsg struct {
	ActivityID string
}

// Model is the dashboard list of open activities.
type Model struct {
	list        list.Model
	keys        *keys.KeyMap
	all         []planner.ActivitySummary
	today       caldate.Date
	query       string
	searchMode  bool
	searchInput textinput.Model
	width       int
	height      int
}

// New creates a new activity list model.
func New(k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, Delegate{}, width, height-2)
	l.Title = "Activities"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle
	l.SetStatusBarItemName("activity", "activities")

	si := textinput.New()
	si.Placeholder = "search activities..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:        l,
		keys:        k,
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// SetActivities replaces the rows, keeping the current search.
func (m *Model) SetActivities(rows []planner.ActivitySummary, today caldate.Date) tea.Cmd {
	m.all = rows
	m.today = today
	return m.apply()
}

// apply filters the loaded rows by the search query.
func (m *Model) apply() tea.Cmd {
	q := strings.ToLower(m.query)
	items := make([]list.Item, 0, len(m.all))
	for _, row := range m.all {
		if q != "" && !strings.Contains(strings.ToLower(row.Activity.Name+" "+row.Activity.Type+" "+row.Activity.Location), q) {
			continue
		}
		items = append(items, Item{Summary: row, Today: m.today})
	}
	return m.list.SetItems(items)
}

// Selected returns the highlighted activity.
func (m Model) Selected() (planner.ActivitySummary, bool) {
	item, ok := m.list.SelectedItem().(Item)
	if !ok {
		return planner.ActivitySummary{}, false
	}
	return item.Summary, true
}

// Searching reports whether the search input has focus.
func (m Model) Searching() bool {
	return m.searchMode
}

// Update handles messages for the activity list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.query = strings.TrimSpace(m.searchInput.Value())
		return m, m.apply()

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.query = ""
		return m, m.apply()
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		row, ok := m.Selected()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return SelectedActivityMsg{ActivityID: row.Activity.ID}
		}

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.Reset()
		return m, m.searchInput.Focus()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the activity list view.
func (m Model) View() string {
	if m.searchMode {
		searchBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, searchBar, m.list.View())
	}

	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}

	return m.list.View()
}

func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.query != "" {
		return style.Render("No activity matches \"" + m.query + "\".\nPress / and enter to clear.")
	}
	return style.Render("No open activities.\n\nPress n to plan one.")
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.searchInput.Width = width - 4
}
