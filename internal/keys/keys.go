package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Selection
	Select key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Search
	Search key.Binding

	// Command palette
	Command key.Binding

	// Help toggle
	Help key.Binding

	// Manual refresh
	Refresh key.Binding

	// Views
	Dashboard key.Binding
	Agenda    key.Binding
	Reminders key.Binding

	// Activity actions
	NewActivity key.Binding
	ShowClosed  key.Binding

	// Checklist item actions
	CycleStatus key.Binding
	Complete    key.Binding
	Skip        key.Binding
	Approve     key.Binding
	Reject      key.Binding

	// Reminder actions
	MarkRead key.Binding
	Dismiss  key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open checklist"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Command: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "command palette"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Dashboard: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "activities"),
		),
		Agenda: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "agenda"),
		),
		Reminders: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "reminders"),
		),
		NewActivity: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new activity"),
		),
		ShowClosed: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "toggle done items"),
		),
		CycleStatus: key.NewBinding(
			key.WithKeys(" ", "s"),
			key.WithHelp("space", "cycle status"),
		),
		Complete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "complete"),
		),
		Skip: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "skip"),
		),
		Approve: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "approve"),
		),
		Reject: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reject"),
		),
		MarkRead: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mark read"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "dismiss"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Select, k.Back,
		k.Quit, k.Help, k.NewActivity,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Back, k.Quit},
		{k.Dashboard, k.Agenda, k.Reminders, k.Search, k.Command, k.Help, k.Refresh},
		{k.NewActivity, k.ShowClosed, k.CycleStatus, k.Complete, k.Skip, k.Approve, k.Reject},
		{k.MarkRead, k.Dismiss},
	}
}
