// Package reminder derives notification events from checklist and activity
// state. Derivation is a pure function of its inputs and the reference
// date: calling it twice yields the same reminders with the same ids.
package reminder

import (
	"fmt"

	"github.com/nhle/activity-planner/internal/caldate"
	"github.com/nhle/activity-planner/internal/model"
)

// Derive returns the reminders raised by cl as of today. Closed items never
// produce reminders. An open item due before today produces one overdue
// reminder; each reminder date equal to today produces one due reminder.
// Read and dismissed flags always start cleared; see Carry.
func Derive(cl model.Checklist, activity model.Activity, today caldate.Date) []model.Reminder {
	out := []model.Reminder{}
	for _, item := range cl.Items {
		if item.Status.IsClosed() {
			continue
		}

		if item.DueDate.Before(today) {
			late := item.DueDate.DaysUntil(today)
			out = append(out, model.Reminder{
				ID:              "overdue-" + item.ID,
				Type:            model.ReminderTaskOverdue,
				ActivityID:      activity.ID,
				ChecklistItemID: item.ID,
				Title:           "Overdue: " + item.Title,
				Message:         fmt.Sprintf("%s: %q was due %s ago", activity.Name, item.Title, caldate.Pluralize(late)),
				ScheduledFor:    today,
				RecipientIDs:    recipients(item),
			})
		}

		for _, at := range item.ReminderDates {
			if !at.Equal(today) {
				continue
			}
			left := today.DaysUntil(item.DueDate)
			out = append(out, model.Reminder{
				ID:              fmt.Sprintf("upcoming-%s-%s", item.ID, at),
				Type:            model.ReminderTaskDue,
				ActivityID:      activity.ID,
				ChecklistItemID: item.ID,
				Title:           "Due soon: " + item.Title,
				Message:         fmt.Sprintf("%s: %q is due in %s", activity.Name, item.Title, caldate.Pluralize(left)),
				ScheduledFor:    at,
				RecipientIDs:    recipients(item),
			})
		}
	}
	return out
}

func recipients(item model.ChecklistItem) []string {
	if item.AssigneeID == "" {
		return []string{}
	}
	return []string{item.AssigneeID}
}

// DeriveActivityUpcoming returns one reminder per open activity starting
// within window days of today, inclusive on both ends.
func DeriveActivityUpcoming(activities []model.Activity, today caldate.Date, window int) []model.Reminder {
	limit := today.AddDays(window)
	out := []model.Reminder{}
	for _, a := range activities {
		if a.Status.IsClosed() || a.StartDate.IsZero() {
			continue
		}
		if a.StartDate.Before(today) || a.StartDate.After(limit) {
			continue
		}

		msg := fmt.Sprintf("%s starts today", a.Name)
		if days := today.DaysUntil(a.StartDate); days > 0 {
			msg = fmt.Sprintf("%s starts in %s", a.Name, caldate.Pluralize(days))
		}
		out = append(out, model.Reminder{
			ID:           "activity-" + a.ID,
			Type:         model.ReminderActivityUpcoming,
			ActivityID:   a.ID,
			Title:        "Upcoming: " + a.Name,
			Message:      msg,
			ScheduledFor: today,
			RecipientIDs: []string{},
		})
	}
	return out
}
