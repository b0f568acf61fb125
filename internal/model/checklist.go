package model

import (
	"time"

	"github.com/nhle/activity-planner/internal/caldate"
)

// ItemStatus is the progress state of a checklist item.
type ItemStatus string

const (
	ItemNotStarted ItemStatus = "not_started"
	ItemInProgress ItemStatus = "in_progress"
	ItemCompleted  ItemStatus = "completed"
	ItemBlocked    ItemStatus = "blocked"
	ItemSkipped    ItemStatus = "skipped"
)

// ItemStatuses lists every valid item status in cycling order.
var ItemStatuses = []ItemStatus{
	ItemNotStarted,
	ItemInProgress,
	ItemCompleted,
	ItemBlocked,
	ItemSkipped,
}

// Valid reports whether s is a known status.
func (s ItemStatus) Valid() bool {
	for _, v := range ItemStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// IsClosed reports whether the item counts as done: completed or skipped.
func (s ItemStatus) IsClosed() bool {
	return s == ItemCompleted || s == ItemSkipped
}

// ApprovalStatus tracks sign-off on items that require approval.
type ApprovalStatus string

const (
	ApprovalNone     ApprovalStatus = ""
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Note is a free-text remark attached to a checklist item.
type Note struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ChecklistItem is one task instantiated against an activity. Fields copied
// from the template are a snapshot taken at generation time. TaskID and
// PhaseID are lookup keys into the template, never ownership.
type ChecklistItem struct {
	ID      string `json:"id"`
	TaskID  string `json:"task_id"`
	PhaseID string `json:"phase_id"`

	Title            string       `json:"title"`
	Description      string       `json:"description"`
	Category         TaskCategory `json:"category"`
	IsRequired       bool         `json:"is_required"`
	RequiresApproval bool         `json:"requires_approval"`

	Status        ItemStatus     `json:"status"`
	DueDate       caldate.Date   `json:"due_date"`
	ReminderDates []caldate.Date `json:"reminder_dates"`
	AssigneeID    string         `json:"assignee_id,omitempty"`
	Notes         []Note         `json:"notes"`
	Attachments   []string       `json:"attachments"`

	CompletedAt    *time.Time     `json:"completed_at,omitempty"`
	CompletedByID  string         `json:"completed_by_id,omitempty"`
	ApprovalStatus ApprovalStatus `json:"approval_status,omitempty"`
	ApprovedByID   string         `json:"approved_by_id,omitempty"`
	ApprovedAt     *time.Time     `json:"approved_at,omitempty"`
}

// Checklist is the per-activity materialization of a procedure template.
// The count fields are a cache refreshed by a rollup, never edited directly.
type Checklist struct {
	ID                  string          `json:"id"`
	ActivityID          string          `json:"activity_id"`
	ProcedureTemplateID string          `json:"procedure_template_id"`
	Items               []ChecklistItem `json:"items"`
	CompletedCount      int             `json:"completed_count"`
	TotalCount          int             `json:"total_count"`
	OverdueCount        int             `json:"overdue_count"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// Item returns the item with the given id.
func (c Checklist) Item(id string) (ChecklistItem, bool) {
	for _, it := range c.Items {
		if it.ID == id {
			return it, true
		}
	}
	return ChecklistItem{}, false
}
