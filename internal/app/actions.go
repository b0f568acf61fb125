package app

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/activity-planner/internal/caldate"
	"github.com/nhle/activity-planner/internal/checklist"
	"github.com/nhle/activity-planner/internal/model"
	"github.com/nhle/activity-planner/internal/reminder"
	checklistview "github.com/nhle/activity-planner/internal/ui/checklist"
	"github.com/nhle/activity-planner/internal/ui/command"
	"github.com/nhle/activity-planner/internal/ui/reminderlist"
)

// errMsg reports a failed service call in the status bar.
type errMsg struct{ error }

// checklistLoadedMsg carries everything the checklist view renders.
type checklistLoadedMsg struct {
	activity model.Activity
	list     model.Checklist
	tmpl     model.ProcedureTemplate
}

// itemPatchedMsg is sent after a checklist item was saved.
type itemPatchedMsg struct {
	activityID string
	summary    string
}

// reminderUpdatedMsg is sent after a reminder flag was saved.
type reminderUpdatedMsg struct{}

// activitySavedMsg is sent after an activity was created or updated.
type activitySavedMsg struct {
	activity model.Activity
	summary  string
}

// editReadyMsg carries the activity to prefill the edit form with.
type editReadyMsg struct {
	activity model.Activity
}

// loadChecklist returns a command that loads an activity, its checklist
// and the template the checklist was generated from.
func (m Model) loadChecklist(activityID string) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		ctx := context.Background()
		a, err := svc.Activity(ctx, activityID)
		if err != nil {
			return errMsg{err}
		}
		cl, err := svc.Checklist(ctx, activityID)
		if err != nil {
			return errMsg{err}
		}
		tmpl, err := svc.Template(cl, a.Type)
		if err != nil {
			return errMsg{err}
		}
		return checklistLoadedMsg{activity: a, list: cl, tmpl: tmpl}
	}
}

// patchItem returns a command that applies a checklist view patch.
func (m Model) patchItem(msg checklistview.PatchMsg) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		cl, err := svc.UpdateItem(context.Background(), msg.ActivityID, msg.ItemID, msg.Patch)
		if err != nil {
			return errMsg{err}
		}
		item, _ := cl.Item(msg.ItemID)
		summary := fmt.Sprintf("%s: %s", item.Title, item.Status)
		if msg.Patch.ApprovalStatus != nil {
			summary = fmt.Sprintf("%s: %s", item.Title, item.ApprovalStatus)
		}
		return itemPatchedMsg{
			activityID: msg.ActivityID,
			summary:    fmt.Sprintf("%s (%d%% done)", summary, checklist.ProgressPercent(cl)),
		}
	}
}

// reminderAction returns a command that persists a reminder flag.
func (m Model) reminderAction(id string, action reminderlist.Action) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		var err error
		switch action {
		case reminderlist.ActionDismiss:
			err = svc.DismissReminder(context.Background(), id)
		default:
			err = svc.MarkReminderRead(context.Background(), id)
		}
		if err != nil {
			return errMsg{err}
		}
		return reminderUpdatedMsg{}
	}
}

// createActivity returns a command that creates an activity and its
// checklist.
func (m Model) createActivity(a model.Activity) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		created, cl, err := svc.CreateActivity(context.Background(), a)
		if err != nil {
			return errMsg{err}
		}
		return activitySavedMsg{
			activity: created,
			summary:  fmt.Sprintf("Created %q with %d tasks", created.Name, cl.TotalCount),
		}
	}
}

// updateActivity returns a command that saves an edited activity. A new
// start date shifts the checklist.
func (m Model) updateActivity(a model.Activity) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		updated, err := svc.UpdateActivity(context.Background(), a)
		if err != nil {
			return errMsg{err}
		}
		return activitySavedMsg{activity: updated, summary: fmt.Sprintf("Saved %q", updated.Name)}
	}
}

// startEdit returns a command that loads an activity for the edit form.
func (m Model) startEdit(activityID string) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		a, err := svc.Activity(context.Background(), activityID)
		if err != nil {
			return errMsg{err}
		}
		return editReadyMsg{activity: a}
	}
}

// executeCommand handles a command from the command palette.
func (m *Model) executeCommand(c command.CommandMsg) tea.Cmd {
	m.statusMessage = ""

	switch c.Name {
	case "quit", "q":
		m.poller.Stop()
		return tea.Quit
	case "refresh":
		m.poller.Refresh()
		return nil
	case "activities", "dashboard":
		m.tab, m.currentView = ViewDashboard, ViewDashboard
		return nil
	case "agenda", "upcoming", "overdue":
		m.tab, m.currentView = ViewAgenda, ViewAgenda
		return nil
	case "reminders":
		m.tab, m.currentView = ViewReminders, ViewReminders
		return nil
	case "new":
		m.previousView = m.currentView
		m.currentView = ViewActivityCreate
		return m.formView.StartCreate(m.svc.Today())
	case "read":
		return m.markAllRead()
	case "reschedule", "status":
		return m.activityCommand(c)
	default:
		m.statusMessage = fmt.Sprintf("unknown command %q", c.Name)
		return nil
	}
}

// activityCommand runs reschedule or status against the open checklist.
func (m *Model) activityCommand(c command.CommandMsg) tea.Cmd {
	id := m.checklistView.ActivityID()
	if m.currentView != ViewChecklist || id == "" {
		m.statusMessage = c.Name + " needs an open activity"
		return nil
	}
	if len(c.Args) != 1 {
		m.statusMessage = fmt.Sprintf("usage: %s <value>", c.Name)
		return nil
	}

	svc := m.svc
	arg := c.Args[0]
	return func() tea.Msg {
		ctx := context.Background()
		var (
			a   model.Activity
			err error
		)
		if c.Name == "reschedule" {
			var start caldate.Date
			if start, err = caldate.Parse(arg); err != nil {
				return errMsg{err}
			}
			a, err = svc.Reschedule(ctx, id, start)
		} else {
			a, err = svc.SetActivityStatus(ctx, id, model.ActivityStatus(strings.ToLower(arg)))
		}
		if err != nil {
			return errMsg{err}
		}
		return activitySavedMsg{activity: a, summary: fmt.Sprintf("%s: %s, starts %s", a.Name, a.Status, a.StartDate)}
	}
}

// markAllRead marks every unread reminder of the last snapshot read.
func (m Model) markAllRead() tea.Cmd {
	var cmds []tea.Cmd
	for _, r := range reminder.Active(m.snapshot.Reminders) {
		if !r.IsRead {
			cmds = append(cmds, m.reminderAction(r.ID, reminderlist.ActionRead))
		}
	}
	return tea.Batch(cmds...)
}
