package checklist

import (
	"math"

	"github.com/nhle/activity-planner/internal/caldate"
	"github.com/nhle/activity-planner/internal/model"
)

// PhaseState is the derived progress of one phase.
type PhaseState string

const (
	PhaseNotStarted PhaseState = "not_started"
	PhaseInProgress PhaseState = "in_progress"
	PhaseCompleted  PhaseState = "completed"
)

// IsOverdue reports whether an open item's due date is before today.
func IsOverdue(item model.ChecklistItem, today caldate.Date) bool {
	return !item.Status.IsClosed() && item.DueDate.Before(today)
}

// UpdateCounts refreshes the cached counts from item statuses as of today.
func UpdateCounts(cl model.Checklist, today caldate.Date) model.Checklist {
	completed, overdue := 0, 0
	for _, item := range cl.Items {
		if item.Status.IsClosed() {
			completed++
			continue
		}
		if item.DueDate.Before(today) {
			overdue++
		}
	}

	cl.CompletedCount = completed
	cl.OverdueCount = overdue
	cl.TotalCount = len(cl.Items)
	return cl
}

// PhaseStatus derives a phase's state from the items belonging to it.
// A phase with no items counts as completed.
func PhaseStatus(items []model.ChecklistItem) PhaseState {
	closed := 0
	for _, item := range items {
		if item.Status.IsClosed() {
			closed++
		}
	}

	switch {
	case closed == len(items):
		return PhaseCompleted
	case closed == 0:
		return PhaseNotStarted
	default:
		return PhaseInProgress
	}
}

// ProgressPercent returns the completed share of the checklist as a whole
// percentage, using the cached counts. An empty checklist is 0%.
func ProgressPercent(cl model.Checklist) int {
	if cl.TotalCount == 0 {
		return 0
	}
	return int(math.Round(float64(cl.CompletedCount) * 100 / float64(cl.TotalCount)))
}
