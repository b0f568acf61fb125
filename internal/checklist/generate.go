// Package checklist turns procedure templates into dated checklists for an
// activity and derives counts and views from them. Every function returns
// a new value; inputs are never modified. Functions that depend on "today"
// take it as an explicit reference date.
package checklist

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/activity-planner/internal/caldate"
	"github.com/nhle/activity-planner/internal/model"
)

// Generate instantiates a checklist for activity from tmpl. Items keep the
// template's phase order and task order. Counts start at zero except
// TotalCount; call UpdateCounts for an accurate overdue figure.
func Generate(
	activity model.Activity,
	tmpl model.ProcedureTemplate,
	now time.Time,
) (model.Checklist, error) {
	if activity.StartDate.IsZero() {
		return model.Checklist{}, fmt.Errorf(
			"generating checklist for activity %s: start date: %w",
			activity.ID, caldate.ErrInvalidDate,
		)
	}

	items := make([]model.ChecklistItem, 0, tmpl.TaskCount())
	for _, phase := range tmpl.Phases {
		for _, task := range phase.Tasks {
			items = append(items, newItem(phase.ID, task, activity.StartDate))
		}
	}

	return model.Checklist{
		ID:                  uuid.New().String(),
		ActivityID:          activity.ID,
		ProcedureTemplateID: tmpl.ID,
		Items:               items,
		CompletedCount:      0,
		TotalCount:          len(items),
		OverdueCount:        0,
		CreatedAt:           now,
		UpdatedAt:           now,
	}, nil
}

// newItem builds a fully populated item from a template task.
func newItem(phaseID string, task model.ProcedureTask, start caldate.Date) model.ChecklistItem {
	due, reminders := schedule(task, start)
	return model.ChecklistItem{
		ID:               uuid.New().String(),
		TaskID:           task.ID,
		PhaseID:          phaseID,
		Title:            task.Title,
		Description:      task.Description,
		Category:         task.Category,
		IsRequired:       task.IsRequired,
		RequiresApproval: task.RequiresApproval,
		Status:           model.ItemNotStarted,
		DueDate:          due,
		ReminderDates:    reminders,
		AssigneeID:       "",
		Notes:            []model.Note{},
		Attachments:      []string{},
		CompletedAt:      nil,
		CompletedByID:    "",
		ApprovalStatus:   model.ApprovalNone,
		ApprovedByID:     "",
		ApprovedAt:       nil,
	}
}

// schedule computes a task's due date and its reminder dates, one per
// distinct reminder offset in the template's order. A repeated offset
// would repeat a reminder id.
func schedule(task model.ProcedureTask, start caldate.Date) (caldate.Date, []caldate.Date) {
	due := start.AddDays(task.DueOffset)
	reminders := make([]caldate.Date, 0, len(task.ReminderOffsets))
	for i, off := range task.ReminderOffsets {
		if slices.Contains(task.ReminderOffsets[:i], off) {
			continue
		}
		reminders = append(reminders, due.AddDays(-off))
	}
	return due, reminders
}

// Recalculate moves the due and reminder dates of existing items to follow
// the activity's current start date. Items whose task is no longer in the
// template are left untouched. Status, notes, assignee and approval fields
// are preserved, and no items are added or removed. Counts are not
// refreshed.
func Recalculate(
	cl model.Checklist,
	activity model.Activity,
	tmpl model.ProcedureTemplate,
	now time.Time,
) (model.Checklist, error) {
	if activity.StartDate.IsZero() {
		return model.Checklist{}, fmt.Errorf(
			"recalculating checklist %s: start date: %w",
			cl.ID, caldate.ErrInvalidDate,
		)
	}

	tasks := make(map[string]model.ProcedureTask, tmpl.TaskCount())
	for _, phase := range tmpl.Phases {
		for _, task := range phase.Tasks {
			tasks[task.ID] = task
		}
	}

	out := cl
	out.Items = slices.Clone(cl.Items)
	for i, item := range out.Items {
		task, ok := tasks[item.TaskID]
		if !ok {
			continue
		}
		out.Items[i].DueDate, out.Items[i].ReminderDates = schedule(task, activity.StartDate)
	}
	out.UpdatedAt = now

	return out, nil
}
