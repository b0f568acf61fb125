package app

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/activity-planner/internal/keys"
	"github.com/nhle/activity-planner/internal/planner"
	appsync "github.com/nhle/activity-planner/internal/sync"
	"github.com/nhle/activity-planner/internal/ui"
	"github.com/nhle/activity-planner/internal/ui/activityform"
	"github.com/nhle/activity-planner/internal/ui/activitylist"
	"github.com/nhle/activity-planner/internal/ui/agenda"
	checklistview "github.com/nhle/activity-planner/internal/ui/checklist"
	"github.com/nhle/activity-planner/internal/ui/command"
	helpview "github.com/nhle/activity-planner/internal/ui/help"
	"github.com/nhle/activity-planner/internal/ui/reminderlist"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewDashboard ViewState = iota
	ViewAgenda
	ViewReminders
	ViewChecklist
	ViewHelp
	ViewCommand
	ViewActivityCreate
	ViewActivityEdit
)

// tabs are the views reachable with the number keys, in tab order.
var tabs = []ViewState{ViewDashboard, ViewAgenda, ViewReminders}

// Model is the root Bubble Tea model that manages view routing, layout,
// and access to the planner service.
type Model struct {
	currentView   ViewState
	previousView  ViewState
	tab           ViewState
	layout        ui.Layout
	svc           *planner.Service
	keys          *keys.KeyMap
	activities    activitylist.Model
	agendaView    agenda.Model
	reminderView  reminderlist.Model
	checklistView checklistview.Model
	helpView      helpview.Model
	commandView   command.Model
	formView      activityform.Model
	poller        *appsync.Poller
	snapshot      appsync.Snapshot
	ready         bool
	statusMessage string
}

// New creates the root model. refresh is how often derived views are
// reloaded in the background.
func New(svc *planner.Service, refresh time.Duration) Model {
	k := keys.DefaultKeyMap()

	return Model{
		currentView:   ViewDashboard,
		tab:           ViewDashboard,
		svc:           svc,
		keys:          k,
		activities:    activitylist.New(k, 80, 24),
		agendaView:    agenda.New(k, 80, 24),
		reminderView:  reminderlist.New(k, 80, 24),
		checklistView: checklistview.New(k, 80, 24),
		helpView:      helpview.New(k, 80, 24),
		commandView:   command.New(80, 24),
		formView:      activityform.New(svc.Registry().ActivityTypes(), 80, 24),
		poller:        appsync.New(svc, refresh),
	}
}

// Init starts the background refresh.
func (m Model) Init() tea.Cmd {
	return m.poller.Start()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.activities.SetSize(w, h)
		m.agendaView.SetSize(w, h)
		m.reminderView.SetSize(w, h)
		m.checklistView.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		m.formView.SetSize(w, h)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case appsync.SnapshotMsg:
		cmds := []tea.Cmd{m.poller.WaitForNextResult()}
		if msg.Error != nil {
			m.statusMessage = "refresh failed: " + msg.Error.Error()
			return m, tea.Batch(cmds...)
		}
		m.snapshot = msg.Snapshot
		if msg.DayChanged {
			m.statusMessage = "New day: " + msg.Snapshot.Today.Format("Mon Jan 2")
		}
		cmds = append(cmds,
			m.activities.SetActivities(msg.Snapshot.Dashboard, msg.Snapshot.Today),
			m.reminderView.SetReminders(msg.Snapshot.Reminders),
		)
		m.agendaView.SetTasks(msg.Snapshot.Overdue, msg.Snapshot.Upcoming)
		if m.currentView == ViewChecklist && m.checklistView.ActivityID() != "" {
			cmds = append(cmds, m.loadChecklist(m.checklistView.ActivityID()))
		}
		return m, tea.Batch(cmds...)

	case errMsg:
		m.statusMessage = msg.Error()
		return m, nil

	case activitylist.SelectedActivityMsg:
		return m, m.loadChecklist(msg.ActivityID)

	case agenda.OpenActivityMsg:
		return m, m.loadChecklist(msg.ActivityID)

	case reminderlist.OpenActivityMsg:
		return m, tea.Batch(
			m.reminderAction(msg.ReminderID, reminderlist.ActionRead),
			m.loadChecklist(msg.ActivityID),
		)

	case checklistLoadedMsg:
		m.checklistView.SetData(msg.activity, msg.list, msg.tmpl, m.svc.Today())
		if m.currentView != ViewChecklist {
			m.previousView = m.currentView
			m.currentView = ViewChecklist
		}
		return m, nil

	case checklistview.PatchMsg:
		return m, m.patchItem(msg)

	case checklistview.BackMsg:
		m.currentView = m.tab
		return m, nil

	case itemPatchedMsg:
		m.statusMessage = msg.summary
		m.poller.Refresh()
		return m, m.loadChecklist(msg.activityID)

	case reminderlist.ActionMsg:
		return m, m.reminderAction(msg.ReminderID, msg.Action)

	case reminderUpdatedMsg:
		m.poller.Refresh()
		return m, nil

	case activityform.CreatedMsg:
		m.currentView = m.tab
		return m, m.createActivity(msg.Activity)

	case activityform.UpdatedMsg:
		m.currentView = ViewChecklist
		return m, m.updateActivity(msg.Activity)

	case editReadyMsg:
		m.previousView = m.currentView
		m.currentView = ViewActivityEdit
		return m, m.formView.StartEdit(msg.activity)

	case activityform.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case activitySavedMsg:
		m.statusMessage = msg.summary
		m.poller.Refresh()
		return m, m.loadChecklist(msg.activity.ID)

	case command.CommandMsg:
		m.currentView = m.previousView
		return m, m.executeCommand(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.poller.Stop()
			return m, tea.Quit
		}
		if !m.capturesInput() {
			if model, cmd, handled := m.handleGlobalKey(msg); handled {
				return model, cmd
			}
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// capturesInput reports whether the active view consumes plain keys as
// text, so global shortcuts must not fire.
func (m Model) capturesInput() bool {
	switch m.currentView {
	case ViewCommand, ViewActivityCreate, ViewActivityEdit:
		return true
	case ViewDashboard:
		return m.activities.Searching()
	}
	return false
}

// handleGlobalKey handles keys that work across views.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "q":
		m.poller.Stop()
		return m, tea.Quit, true

	case "?":
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return m, nil, true
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil, true

	case ":":
		m.previousView = m.currentView
		m.currentView = ViewCommand
		return m, m.commandView.Focus(), true

	case "1", "2", "3":
		m.tab = tabs[int(msg.String()[0]-'1')]
		m.currentView = m.tab
		m.statusMessage = ""
		return m, nil, true

	case "r":
		m.poller.Refresh()
		m.statusMessage = ""
		return m, nil, true

	case "n":
		if m.currentView == ViewChecklist || m.currentView == ViewHelp {
			break
		}
		m.previousView = m.currentView
		m.currentView = ViewActivityCreate
		return m, m.formView.StartCreate(m.svc.Today()), true

	case "e":
		if m.currentView != ViewChecklist {
			break
		}
		return m, m.startEdit(m.checklistView.ActivityID()), true

	case "esc":
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return m, nil, true
		}
	}
	return m, nil, false
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewDashboard:
		m.activities, cmd = m.activities.Update(msg)
	case ViewAgenda:
		m.agendaView, cmd = m.agendaView.Update(msg)
	case ViewReminders:
		m.reminderView, cmd = m.reminderView.Update(msg)
	case ViewChecklist:
		m.checklistView, cmd = m.checklistView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewActivityCreate, ViewActivityEdit:
		m.formView, cmd = m.formView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	right := "loading"
	if !m.snapshot.Today.IsZero() {
		right = m.snapshot.Today.Format("Mon Jan 2, 2006")
		if m.snapshot.Unread > 0 {
			right += fmt.Sprintf(" · %d unread", m.snapshot.Unread)
		}
	}
	header := m.layout.RenderHeader("Activity Planner", right)
	tabBar := m.layout.RenderTabs(m.tabLabels(), m.activeTab())
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, tabBar, m.renderContent(), statusBar)
}

func (m Model) tabLabels() []string {
	return []string{
		"1 Activities",
		fmt.Sprintf("2 Agenda (%d overdue)", len(m.snapshot.Overdue)),
		fmt.Sprintf("3 Reminders (%d)", m.snapshot.Unread),
	}
}

func (m Model) activeTab() int {
	for i, t := range tabs {
		if t == m.tab {
			return i
		}
	}
	return 0
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewDashboard:
		return m.activities.View()
	case ViewAgenda:
		return m.agendaView.View()
	case ViewReminders:
		return m.reminderView.View()
	case ViewChecklist:
		return m.checklistView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewActivityCreate, ViewActivityEdit:
		return m.formView.View()
	default:
		return ""
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.statusMessage != "" {
		return m.statusMessage
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | tab complete | esc back"
	case ViewChecklist:
		return "space cycle | x done | S skip | a approve | R reject | H hide done | e edit | esc back"
	case ViewReminders:
		return "enter open | m read | d dismiss | 1-3 views | q quit"
	case ViewAgenda:
		return "enter open | 1-3 views | r refresh | q quit"
	case ViewActivityCreate, ViewActivityEdit:
		return "enter submit | esc cancel"
	default:
		return "enter open | n new | / search | 1-3 views | ? help | q quit"
	}
}

// Run starts the TUI and blocks until the user quits.
func Run(svc *planner.Service, refresh time.Duration) error {
	p := tea.NewProgram(New(svc, refresh), tea.WithAltScreen())
	final, err := p.Run()
	if m, ok := final.(Model); ok {
		m.poller.Stop()
	}
	return err
}
