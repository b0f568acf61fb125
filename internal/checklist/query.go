package checklist

import (
	"fmt"
	"slices"

	"github.com/nhle/activity-planner/internal/caldate"
	"github.com/nhle/activity-planner/internal/model"
)

// DefaultUpcomingDays is the look-ahead used by UpcomingTasks callers that
// have no configured window.
const DefaultUpcomingDays = 14

// UpcomingTasks returns open items due between today and today+daysAhead,
// both inclusive, sorted by due date.
func UpcomingTasks(cl model.Checklist, today caldate.Date, daysAhead int) []model.ChecklistItem {
	limit := today.AddDays(daysAhead)
	var out []model.ChecklistItem
	for _, item := range cl.Items {
		if item.Status.IsClosed() {
			continue
		}
		if item.DueDate.Before(today) || item.DueDate.After(limit) {
			continue
		}
		out = append(out, item)
	}
	SortByDueDate(out)
	return out
}

// OverdueTasks returns open items due before today, sorted by due date.
func OverdueTasks(cl model.Checklist, today caldate.Date) []model.ChecklistItem {
	var out []model.ChecklistItem
	for _, item := range cl.Items {
		if IsOverdue(item, today) {
			out = append(out, item)
		}
	}
	SortByDueDate(out)
	return out
}

// SortByDueDate orders items by ascending due date in place. Items due on
// the same day keep their relative order.
func SortByDueDate(items []model.ChecklistItem) {
	slices.SortStableFunc(items, func(a, b model.ChecklistItem) int {
		return a.DueDate.Compare(b.DueDate)
	})
}

// PhaseGroup is the items of one template phase.
type PhaseGroup struct {
	Phase model.ProcedurePhase
	Items []model.ChecklistItem
}

// TasksByPhase groups items by phase in the template's phase order, with
// each group sorted by due date. Every template phase gets a group, even
// when empty. Items whose phase is not in the template are omitted.
func TasksByPhase(cl model.Checklist, tmpl model.ProcedureTemplate) []PhaseGroup {
	byPhase := make(map[string][]model.ChecklistItem, len(tmpl.Phases))
	for _, item := range cl.Items {
		byPhase[item.PhaseID] = append(byPhase[item.PhaseID], item)
	}

	groups := make([]PhaseGroup, 0, len(tmpl.Phases))
	for _, phase := range tmpl.Phases {
		items := byPhase[phase.ID]
		SortByDueDate(items)
		groups = append(groups, PhaseGroup{Phase: phase, Items: items})
	}
	return groups
}

// PhaseSummary is a phase's rollup for dashboards.
type PhaseSummary struct {
	PhaseID   string     `json:"phase_id"`
	Name      string     `json:"name"`
	State     PhaseState `json:"state"`
	Completed int        `json:"completed"`
	Total     int        `json:"total"`
}

// SummarizePhases reports the state and completion of each template phase.
func SummarizePhases(cl model.Checklist, tmpl model.ProcedureTemplate) []PhaseSummary {
	groups := TasksByPhase(cl, tmpl)
	out := make([]PhaseSummary, 0, len(groups))
	for _, g := range groups {
		done := 0
		for _, item := range g.Items {
			if item.Status.IsClosed() {
				done++
			}
		}
		out = append(out, PhaseSummary{
			PhaseID:   g.Phase.ID,
			Name:      g.Phase.Name,
			State:     PhaseStatus(g.Items),
			Completed: done,
			Total:     len(g.Items),
		})
	}
	return out
}

// DueStatus classifies a due date relative to today.
type DueStatus string

const (
	DueOverdue  DueStatus = "overdue"
	DueToday    DueStatus = "today"
	DueUpcoming DueStatus = "upcoming"
	DueFuture   DueStatus = "future"
)

// upcomingWindow is the number of days ahead still shown as "upcoming".
const upcomingWindow = 7

// DueLabel pairs a due-date classification with display text.
type DueLabel struct {
	Status DueStatus `json:"status"`
	Label  string    `json:"label"`
}

// FormatDueDateWithStatus classifies due relative to today: before today
// is overdue, today is today, 1 to 7 days out is upcoming, and anything
// later is future.
func FormatDueDateWithStatus(due, today caldate.Date) DueLabel {
	diff := today.DaysUntil(due)
	switch {
	case diff < 0:
		return DueLabel{
			Status: DueOverdue,
			Label:  fmt.Sprintf("Overdue by %s", caldate.Pluralize(-diff)),
		}
	case diff == 0:
		return DueLabel{Status: DueToday, Label: "Due today"}
	case diff <= upcomingWindow:
		return DueLabel{
			Status: DueUpcoming,
			Label:  fmt.Sprintf("Due in %s", caldate.Pluralize(diff)),
		}
	default:
		return DueLabel{
			Status: DueFuture,
			Label:  "Due " + due.Format("Jan 2, 2006"),
		}
	}
}
