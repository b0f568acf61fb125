// Package checklist is the TUI view of one activity's checklist, grouped by
// phase, with item status and approval actions.
package checklist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/activity-planner/internal/caldate"
	cl "github.com/nhle/activity-planner/internal/checklist"
	"github.com/nhle/activity-planner/internal/keys"
	"github.com/nhle/activity-planner/internal/model"
	"github.com/nhle/activity-planner/internal/theme"
)

// BackMsg signals the parent to navigate back.
type BackMsg struct{}

// PatchMsg asks the parent to apply a patch to one item.
type PatchMsg struct {
	ActivityID string
	ItemID     string
	Patch      cl.ItemPatch
}

// detailHeight is the number of lines reserved for the selected item.
const detailHeight = 7

// line is one rendered row; item is -1 for phase headers.
type line struct {
	text string
	item int
}

// Model is the checklist view component.
type Model struct {
	keys       *keys.KeyMap
	activity   model.Activity
	list       model.Checklist
	tmpl       model.ProcedureTemplate
	today      caldate.Date
	items      []model.ChecklistItem
	cursor     int
	showClosed bool
	loaded     bool
	width      int
	height     int
}

// New creates a new checklist view model.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{keys: k, showClosed: true, width: width, height: height}
}

// SetData loads an activity's checklist. The cursor stays on the same item
// when it is still visible.
func (m *Model) SetData(a model.Activity, list model.Checklist, tmpl model.ProcedureTemplate, today caldate.Date) {
	selected, hadSelection := m.Selected()
	sameActivity := m.loaded && m.activity.ID == a.ID

	m.activity = a
	m.list = list
	m.tmpl = tmpl
	m.today = today
	m.loaded = true
	m.rebuild()

	m.cursor = 0
	if sameActivity && hadSelection {
		for i, it := range m.items {
			if it.ID == selected.ID {
				m.cursor = i
			}
		}
	}
}

// ActivityID returns the id of the loaded activity.
func (m Model) ActivityID() string {
	return m.activity.ID
}

// Selected returns the item under the cursor.
func (m Model) Selected() (model.ChecklistItem, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return model.ChecklistItem{}, false
	}
	return m.items[m.cursor], true
}

// rebuild flattens the phase groups into the visible item order.
func (m *Model) rebuild() {
	m.items = nil
	for _, g := range cl.TasksByPhase(m.list, m.tmpl) {
		for _, it := range g.Items {
			if !m.showClosed && it.Status.IsClosed() {
				continue
			}
			m.items = append(m.items, it)
		}
	}
	if m.cursor >= len(m.items) {
		m.cursor = max(len(m.items)-1, 0)
	}
}

// Update handles messages for the checklist view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Back):
		return m, func() tea.Msg { return BackMsg{} }

	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(keyMsg, m.keys.ShowClosed):
		m.showClosed = !m.showClosed
		m.rebuild()

	case key.Matches(keyMsg, m.keys.CycleStatus):
		if it, ok := m.Selected(); ok {
			return m, m.setStatus(it, cl.NextStatus(it.Status))
		}

	case key.Matches(keyMsg, m.keys.Complete):
		if it, ok := m.Selected(); ok {
			return m, m.setStatus(it, model.ItemCompleted)
		}

	case key.Matches(keyMsg, m.keys.Skip):
		if it, ok := m.Selected(); ok && !it.IsRequired {
			return m, m.setStatus(it, model.ItemSkipped)
		}

	case key.Matches(keyMsg, m.keys.Approve):
		return m, m.setApproval(model.ApprovalApproved)

	case key.Matches(keyMsg, m.keys.Reject):
		return m, m.setApproval(model.ApprovalRejected)
	}

	return m, nil
}

func (m Model) setStatus(it model.ChecklistItem, status model.ItemStatus) tea.Cmd {
	if it.Status == status {
		return nil
	}
	return m.patch(it.ID, cl.ItemPatch{Status: &status})
}

// setApproval signs off the selected item when it is awaiting approval.
func (m Model) setApproval(status model.ApprovalStatus) tea.Cmd {
	it, ok := m.Selected()
	if !ok || !it.RequiresApproval || it.ApprovalStatus != model.ApprovalPending {
		return nil
	}
	return m.patch(it.ID, cl.ItemPatch{ApprovalStatus: &status})
}

func (m Model) patch(itemID string, p cl.ItemPatch) tea.Cmd {
	activityID := m.activity.ID
	return func() tea.Msg {
		return PatchMsg{ActivityID: activityID, ItemID: itemID, Patch: p}
	}
}

// View renders the checklist view.
func (m Model) View() string {
	if !m.loaded {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("Loading checklist...")
	}

	pct := cl.ProgressPercent(m.list)
	title := theme.HeaderStyle.Render(m.activity.Name) + " " +
		theme.MutedStyle.Render(fmt.Sprintf("%s · starts %s", m.activity.Type, m.activity.StartDate))
	progress := fmt.Sprintf("%s %d%%  %d/%d done, %d overdue",
		theme.ProgressBar(pct, 20), pct, m.list.CompletedCount, m.list.TotalCount, m.list.OverdueCount)

	listHeight := max(m.height-detailHeight-3, 3)
	body := strings.Join(m.window(m.lines(), listHeight), "\n")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		progress,
		"",
		lipgloss.NewStyle().Height(listHeight).Render(body),
		m.renderDetail(),
	)
}

// lines renders phase headers and item rows.
func (m Model) lines() []line {
	summaries := cl.SummarizePhases(m.list, m.tmpl)
	byPhase := make(map[string]cl.PhaseSummary, len(summaries))
	for _, s := range summaries {
		byPhase[s.PhaseID] = s
	}

	var out []line
	idx := 0
	for _, g := range cl.TasksByPhase(m.list, m.tmpl) {
		s := byPhase[g.Phase.ID]
		out = append(out, line{
			text: theme.PhaseHeaderStyle.UnsetMarginTop().Render(
				fmt.Sprintf("%s  %d/%d %s", g.Phase.Name, s.Completed, s.Total, s.State)),
			item: -1,
		})
		for _, it := range g.Items {
			if !m.showClosed && it.Status.IsClosed() {
				continue
			}
			out = append(out, line{text: m.renderItem(it, idx == m.cursor), item: idx})
			idx++
		}
	}
	return out
}

// window returns at most height lines, scrolled to keep the cursor visible.
func (m Model) window(lines []line, height int) []string {
	cursorLine := 0
	for i, l := range lines {
		if l.item == m.cursor {
			cursorLine = i
			break
		}
	}

	start := 0
	if cursorLine >= height {
		start = cursorLine - height + 1
	}
	end := min(start+height, len(lines))

	out := make([]string, 0, end-start)
	for _, l := range lines[start:end] {
		out = append(out, l.text)
	}
	return out
}

func (m Model) renderItem(it model.ChecklistItem, selected bool) string {
	box := "[ ]"
	switch it.Status {
	case model.ItemCompleted:
		box = "[x]"
	case model.ItemSkipped:
		box = "[-]"
	case model.ItemInProgress:
		box = "[~]"
	case model.ItemBlocked:
		box = "[!]"
	}

	title := it.Title
	if it.IsRequired {
		title += " *"
	}
	if it.ApprovalStatus != model.ApprovalNone {
		title += " [" + string(it.ApprovalStatus) + "]"
	}

	due := cl.FormatDueDateWithStatus(it.DueDate, m.today)
	dueText := theme.DueStyle(string(due.Status)).Render(due.Label)
	if it.Status.IsClosed() {
		dueText = theme.MutedStyle.Render(it.DueDate.Format("Jan 2"))
	}

	text := fmt.Sprintf("%s %s  %s  %s",
		theme.ItemStatusStyle(string(it.Status)).Render(box), title, dueText,
		theme.MutedStyle.Render(it.AssigneeID))

	if it.Status.IsClosed() && !selected {
		text = theme.MutedStyle.Render(fmt.Sprintf("%s %s", box, title))
	}
	if selected {
		return theme.SelectedItemStyle.Render("▸ " + text)
	}
	return theme.ListItemStyle.Render(text)
}

// renderDetail shows the selected item's description, reminders and notes.
func (m Model) renderDetail() string {
	it, ok := m.Selected()
	if !ok {
		return theme.MutedStyle.Render("No items to show. Press H to show completed items.")
	}

	labelStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Width(11)
	row := func(label, value string) string {
		return labelStyle.Render(label) + value
	}

	reminders := make([]string, len(it.ReminderDates))
	for i, d := range it.ReminderDates {
		reminders[i] = d.Format("Jan 2")
	}

	rows := []string{
		lipgloss.NewStyle().Bold(true).Render(it.Title) + "  " +
			theme.MutedStyle.Render(string(it.Category)),
		row("Status", theme.ItemStatusStyle(string(it.Status)).Render(string(it.Status))),
		row("Due", it.DueDate.Format("Mon Jan 2, 2006")),
	}
	if len(reminders) > 0 {
		rows = append(rows, row("Reminders", strings.Join(reminders, ", ")))
	}
	if it.Description != "" {
		rows = append(rows, row("About", it.Description))
	}
	if n := len(it.Notes); n > 0 {
		last := it.Notes[n-1]
		rows = append(rows, row("Notes", fmt.Sprintf("%d, latest: %s", n, last.Text)))
	}
	if len(it.Attachments) > 0 {
		rows = append(rows, row("Files", strings.Join(it.Attachments, ", ")))
	}

	return theme.BorderStyle.
		Width(max(m.width-2, 20)).
		MaxHeight(detailHeight).
		Render(strings.Join(rows, "\n"))
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
