package reminderlist

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/activity-planner/internal/keys"
	"github.com/nhle/activity-planner/internal/model"
	"github.com/nhle/activity-planner/internal/reminder"
	"github.com/nhle/activity-planner/internal/theme"
)

// Action is what the user did to a reminder.
type Action string

const (
	ActionRead    Action = "read"
	ActionDismiss Action = "dismiss"
)

// ActionMsg asks the parent to persist a reminder flag.
type ActionMsg struct {
	ReminderID string
	Action     Action
}

// OpenActivityMsg asks the parent to show the reminder's activity. Opening
// a reminder also marks it read.
type OpenActivityMsg struct {
	ActivityID string
	ReminderID string
}

// Item wraps a reminder so it can be used in a bubbles/list.
type Item struct {
	Reminder model.Reminder
}

// FilterValue returns the string used for filtering.
func (i Item) FilterValue() string { return i.Reminder.Title }

// Model is the reminder inbox view.
type Model struct {
	list   list.Model
	keys   *keys.KeyMap
	unread int
	width  int
	height int
}

// New creates a new reminder list model.
func New(k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, delegate{}, width, height)
	l.Title = "Reminders"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle
	l.SetStatusBarItemName("reminder", "reminders")

	return Model{list: l, keys: k, width: width, height: height}
}

// SetReminders replaces the inbox contents. Dismissed reminders are hidden.
func (m *Model) SetReminders(rems []model.Reminder) tea.Cmd {
	active := reminder.Active(rems)
	m.unread = reminder.Unread(active)

	items := make([]list.Item, len(active))
	for i, r := range active {
		items[i] = Item{Reminder: r}
	}
	return m.list.SetItems(items)
}

// Unread returns the number of unread reminders shown.
func (m Model) Unread() int {
	return m.unread
}

// Update handles messages for the reminder list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		item, selected := m.list.SelectedItem().(Item)
		switch {
		case key.Matches(keyMsg, m.keys.MarkRead):
			if selected && !item.Reminder.IsRead {
				return m, actionCmd(item.Reminder.ID, ActionRead)
			}
			return m, nil

		case key.Matches(keyMsg, m.keys.Dismiss):
			if selected {
				return m, actionCmd(item.Reminder.ID, ActionDismiss)
			}
			return m, nil

		case key.Matches(keyMsg, m.keys.Select):
			if selected {
				r := item.Reminder
				return m, func() tea.Msg {
					return OpenActivityMsg{ActivityID: r.ActivityID, ReminderID: r.ID}
				}
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func actionCmd(id string, action Action) tea.Cmd {
	return func() tea.Msg {
		return ActionMsg{ReminderID: id, Action: action}
	}
}

// View renders the reminder list.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No reminders for today.")
	}
	return m.list.View()
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height)
}

// delegate renders a reminder as a title line and a message line.
type delegate struct{}

func (d delegate) Height() int                             { return 2 }
func (d delegate) Spacing() int                            { return 1 }
func (d delegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d delegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(Item)
	if !ok {
		return
	}
	r := it.Reminder

	marker := "•"
	titleStyle := lipgloss.NewStyle().Bold(true)
	if r.IsRead {
		marker = " "
		titleStyle = theme.MutedStyle
	}

	title := fmt.Sprintf("%s %s %s",
		marker,
		theme.ReminderTypeStyle(string(r.Type)).Render(typeLabel(r.Type)),
		titleStyle.Render(r.Title))
	message := theme.MutedStyle.Render("    " + r.Message)

	if index == m.Index() {
		title = theme.SelectedItemStyle.Render(title)
	} else {
		title = theme.ListItemStyle.Render(title)
	}
	fmt.Fprint(w, title+"\n"+message)
}

func typeLabel(t model.ReminderType) string {
	switch t {
	case model.ReminderTaskOverdue:
		return "OVERDUE"
	case model.ReminderTaskDue:
		return "DUE"
	case model.ReminderActivityUpcoming:
		return "SOON"
	default:
		return "NOTE"
	}
}
