package model

import (
	"time"

	"github.com/nhle/activity-planner/internal/caldate"
)

// ReminderType identifies why a reminder was raised.
type ReminderType string

const (
	ReminderTaskDue          ReminderType = "task_due"
	ReminderTaskOverdue      ReminderType = "task_overdue"
	ReminderActivityUpcoming ReminderType = "activity_upcoming"
	ReminderCustom           ReminderType = "custom"
)

// Reminder is a notification derived from checklist and activity state.
// Reminders are regenerated wholesale; IDs are deterministic so consumers
// can de-duplicate across regenerations.
type Reminder struct {
	ID              string       `json:"id"`
	Type            ReminderType `json:"type"`
	ActivityID      string       `json:"activity_id"`
	ChecklistItemID string       `json:"checklist_item_id,omitempty"`
	Title           string       `json:"title"`
	Message         string       `json:"message"`
	ScheduledFor    caldate.Date `json:"scheduled_for"`
	IsRead          bool         `json:"is_read"`
	IsDismissed     bool         `json:"is_dismissed"`
	RecipientIDs    []string     `json:"recipient_ids"`
}

// ReminderState is the persisted read/dismissed flag pair for a reminder id.
type ReminderState struct {
	ReminderID  string    `json:"reminder_id" db:"reminder_id"`
	ActivityID  string    `json:"activity_id" db:"activity_id"`
	IsRead      bool      `json:"is_read" db:"is_read"`
	IsDismissed bool      `json:"is_dismissed" db:"is_dismissed"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
