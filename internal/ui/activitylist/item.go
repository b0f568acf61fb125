package activitylist

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/activity-planner/internal/caldate"
	"github.com/nhle/activity-planner/internal/planner"
	"github.com/nhle/activity-planner/internal/theme"
)

// Item wraps a dashboard row so it can be used in a bubbles/list.
type Item struct {
	Summary planner.ActivitySummary
	Today   caldate.Date
}

// FilterValue returns the string used for filtering.
func (i Item) FilterValue() string { return i.Summary.Activity.Name }

// Delegate renders one activity per line.
type Delegate struct{}

// Height returns the number of lines each item takes.
func (d Delegate) Height() int { return 2 }

// Spacing returns the number of blank lines between items.
func (d Delegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d Delegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws the activity line and its next-due line.
func (d Delegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(Item)
	if !ok {
		return
	}
	s := it.Summary
	a := s.Activity

	status := theme.ActivityStatusStyle(string(a.Status)).Render(string(a.Status))
	overdue := ""
	if s.Overdue > 0 {
		overdue = theme.ErrorStyle.Render(fmt.Sprintf(" %d overdue", s.Overdue))
	}

	line := fmt.Sprintf("%s %3d%%  %s  %s %s%s",
		theme.ProgressBar(s.Progress, 10), s.Progress, a.Name,
		theme.MutedStyle.Render(a.Type+" · "+startLabel(a.StartDate, it.Today)),
		status, overdue)

	next := theme.MutedStyle.Render("all tasks done")
	if s.NextDue != nil {
		due := theme.DueStyle(string(s.NextDue.Due.Status)).Render(s.NextDue.Due.Label)
		next = fmt.Sprintf("next: %s  %s", s.NextDue.Item.Title, due)
	}
	next = lipgloss.NewStyle().PaddingLeft(13).Render(next)

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}
	fmt.Fprint(w, line+"\n"+next)
}

// startLabel describes the start date relative to today.
func startLabel(start, today caldate.Date) string {
	days := today.DaysUntil(start)
	switch {
	case days == 0:
		return "starts today"
	case days > 0:
		return fmt.Sprintf("starts %s (in %s)", start.Format("Jan 2"), caldate.Pluralize(days))
	default:
		return fmt.Sprintf("started %s", start.Format("Jan 2"))
	}
}
