package model

import (
	"time"

	"github.com/nhle/activity-planner/internal/caldate"
)

// ActivityStatus is the lifecycle state of an activity.
type ActivityStatus string

const (
	ActivityDraft      ActivityStatus = "draft"
	ActivityPlanning   ActivityStatus = "planning"
	ActivityInProgress ActivityStatus = "in_progress"
	ActivityCompleted  ActivityStatus = "completed"
	ActivityCancelled  ActivityStatus = "cancelled"
	ActivityPostponed  ActivityStatus = "postponed"
)

// ActivityStatuses lists every valid activity status in display order.
var ActivityStatuses = []ActivityStatus{
	ActivityDraft,
	ActivityPlanning,
	ActivityInProgress,
	ActivityCompleted,
	ActivityCancelled,
	ActivityPostponed,
}

// IsClosed reports whether the activity no longer needs reminders.
func (s ActivityStatus) IsClosed() bool {
	return s == ActivityCompleted || s == ActivityCancelled
}

// Activity is a scheduled trade, education or consultation event whose
// start date drives checklist timing.
type Activity struct {
	ID string `json:"id" db:"id"`

	// Name is the human-readable title, used in reminder messages.
	Name string `json:"name" db:"name" validate:"required"`

	// Type selects the procedure template (e.g., "trade_mission", "webinar").
	Type string `json:"type" db:"type" validate:"required"`

	// StartDate anchors every due and reminder date of the checklist.
	StartDate caldate.Date `json:"start_date" db:"start_date" validate:"required"`

	// EndDate is optional and informational.
	EndDate caldate.Date `json:"end_date,omitzero" db:"end_date"`

	Status      ActivityStatus `json:"status" db:"status" validate:"omitempty,oneof=draft planning in_progress completed cancelled postponed"`
	Location    string         `json:"location,omitempty" db:"location"`
	Description string         `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}
