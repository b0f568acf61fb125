package store

import (
	"context"
	"errors"

	"github.com/nhle/activity-planner/internal/caldate"
	"github.com/nhle/activity-planner/internal/model"
)

// ErrNotFound is returned when a lookup or update names a missing row.
var ErrNotFound = errors.New("not found")

// ActivityFilter controls filtering, sorting, and pagination for activity queries.
type ActivityFilter struct {
	Status *model.ActivityStatus
	Type   *string
	Query  *string      // search name + description + location
	From   caldate.Date // start_date on or after, zero = unbounded
	To     caldate.Date // start_date on or before, zero = unbounded
	Open   bool         // exclude completed and cancelled
	SortBy string       // "start_date", "name", "type", "status", "created_at", "updated_at"

	SortDesc bool
	Limit    int
	Offset   int
}

// Store defines the persistence interface for activities, their checklists,
// and the read/dismissed state of derived reminders.
type Store interface {
	// === Activities ===

	CreateActivity(ctx context.Context, a model.Activity) error
	UpdateActivity(ctx context.Context, a model.Activity) error
	DeleteActivity(ctx context.Context, id string) error
	GetActivityByID(ctx context.Context, id string) (*model.Activity, error)
	GetActivities(ctx context.Context, filter ActivityFilter) ([]model.Activity, error)

	// === Checklists (one per activity) ===

	SaveChecklist(ctx context.Context, cl model.Checklist) error
	RescheduleActivity(ctx context.Context, a model.Activity, cl model.Checklist) error
	GetChecklist(ctx context.Context, activityID string) (*model.Checklist, error)
	GetChecklists(ctx context.Context) ([]model.Checklist, error)

	// === Reminder state ===

	SetReminderState(ctx context.Context, st model.ReminderState) error
	GetReminderStates(ctx context.Context) (map[string]model.ReminderState, error)
}
