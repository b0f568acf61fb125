package planner

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/nhle/activity-planner/internal/checklist"
	"github.com/nhle/activity-planner/internal/model"
	"github.com/nhle/activity-planner/internal/reminder"
	"github.com/nhle/activity-planner/internal/store"
)

// TaskRef is a checklist item together with the activity it belongs to.
type TaskRef struct {
	Activity model.Activity      `json:"activity"`
	Item     model.ChecklistItem `json:"item"`
	Due      checklist.DueLabel  `json:"due"`
}

// ActivitySummary is one dashboard row.
type ActivitySummary struct {
	Activity  model.Activity           `json:"activity"`
	Completed int                      `json:"completed"`
	Total     int                      `json:"total"`
	Overdue   int                      `json:"overdue"`
	Progress  int                      `json:"progress"`
	Phases    []checklist.PhaseSummary `json:"phases"`
	NextDue   *TaskRef                 `json:"next_due,omitempty"`
}

// entry pairs an open activity with its checklist.
type entry struct {
	activity model.Activity
	list     model.Checklist
}

// openEntries loads every activity that is not completed or cancelled and
// that has a checklist, in start date order.
func (s *Service) openEntries(ctx context.Context) ([]entry, error) {
	activities, err := s.store.GetActivities(ctx, store.ActivityFilter{Open: true})
	if err != nil {
		return nil, err
	}
	lists, err := s.store.GetChecklists(ctx)
	if err != nil {
		return nil, err
	}

	byActivity := make(map[string]model.Checklist, len(lists))
	for _, cl := range lists {
		byActivity[cl.ActivityID] = cl
	}

	out := make([]entry, 0, len(activities))
	for _, a := range activities {
		cl, ok := byActivity[a.ID]
		if !ok {
			s.logger.Warn("activity has no checklist", "activity_id", a.ID)
			continue
		}
		out = append(out, entry{activity: a, list: cl})
	}
	return out, nil
}

// Upcoming returns open items due within the configured window across all
// open activities, sorted by due date.
func (s *Service) Upcoming(ctx context.Context) ([]TaskRef, error) {
	return s.UpcomingWithin(ctx, s.upcomingDays)
}

// UpcomingWithin is Upcoming with an explicit window in days.
func (s *Service) UpcomingWithin(ctx context.Context, days int) ([]TaskRef, error) {
	entries, err := s.openEntries(ctx)
	if err != nil {
		return nil, err
	}
	today := s.Today()

	var refs []TaskRef
	for _, e := range entries {
		for _, item := range checklist.UpcomingTasks(e.list, today, days) {
			refs = append(refs, s.ref(e.activity, item))
		}
	}
	sortRefs(refs)
	return refs, nil
}

// Overdue returns open items past their due date across all open
// activities, sorted by due date.
func (s *Service) Overdue(ctx context.Context) ([]TaskRef, error) {
	entries, err := s.openEntries(ctx)
	if err != nil {
		return nil, err
	}
	today := s.Today()

	var refs []TaskRef
	for _, e := range entries {
		for _, item := range checklist.OverdueTasks(e.list, today) {
			refs = append(refs, s.ref(e.activity, item))
		}
	}
	sortRefs(refs)
	return refs, nil
}

func (s *Service) ref(a model.Activity, item model.ChecklistItem) TaskRef {
	return TaskRef{
		Activity: a,
		Item:     item,
		Due:      checklist.FormatDueDateWithStatus(item.DueDate, s.Today()),
	}
}

func sortRefs(refs []TaskRef) {
	slices.SortStableFunc(refs, func(a, b TaskRef) int {
		if c := a.Item.DueDate.Compare(b.Item.DueDate); c != 0 {
			return c
		}
		return strings.Compare(a.Activity.Name, b.Activity.Name)
	})
}

// Reminders derives the current reminders for every open activity, with
// stored read and dismissed flags applied.
func (s *Service) Reminders(ctx context.Context) ([]model.Reminder, error) {
	entries, err := s.openEntries(ctx)
	if err != nil {
		return nil, err
	}
	today := s.Today()

	rems := []model.Reminder{}
	activities := make([]model.Activity, 0, len(entries))
	for _, e := range entries {
		rems = append(rems, reminder.Derive(e.list, e.activity, today)...)
		activities = append(activities, e.activity)
	}
	rems = append(rems, reminder.DeriveActivityUpcoming(activities, today, s.activityWindow)...)

	states, err := s.store.GetReminderStates(ctx)
	if err != nil {
		return nil, err
	}
	rems = reminder.Carry(rems, states)
	reminder.Sort(rems)

	s.logger.Debug("reminders derived",
		"activities", len(entries),
		"reminders", len(rems),
		"unread", reminder.Unread(rems),
	)
	return rems, nil
}

// MarkReminderRead flags a current reminder as read.
func (s *Service) MarkReminderRead(ctx context.Context, id string) error {
	return s.setReminderFlags(ctx, id, func(st *model.ReminderState) { st.IsRead = true })
}

// DismissReminder hides a current reminder from future listings. Dismissing
// also marks it read.
func (s *Service) DismissReminder(ctx context.Context, id string) error {
	return s.setReminderFlags(ctx, id, func(st *model.ReminderState) {
		st.IsRead = true
		st.IsDismissed = true
	})
}

func (s *Service) setReminderFlags(ctx context.Context, id string, apply func(*model.ReminderState)) error {
	rems, err := s.Reminders(ctx)
	if err != nil {
		return err
	}
	idx := slices.IndexFunc(rems, func(r model.Reminder) bool { return r.ID == id })
	if idx < 0 {
		return fmt.Errorf("reminder %s: %w", id, store.ErrNotFound)
	}

	r := rems[idx]
	st := model.ReminderState{
		ReminderID:  r.ID,
		ActivityID:  r.ActivityID,
		IsRead:      r.IsRead,
		IsDismissed: r.IsDismissed,
		UpdatedAt:   s.Now(),
	}
	apply(&st)
	return s.store.SetReminderState(ctx, st)
}

// Dashboard summarizes progress for every open activity in start date order.
func (s *Service) Dashboard(ctx context.Context) ([]ActivitySummary, error) {
	entries, err := s.openEntries(ctx)
	if err != nil {
		return nil, err
	}
	today := s.Today()

	out := make([]ActivitySummary, 0, len(entries))
	for _, e := range entries {
		cl := checklist.UpdateCounts(e.list, today)
		sum := ActivitySummary{
			Activity:  e.activity,
			Completed: cl.CompletedCount,
			Total:     cl.TotalCount,
			Overdue:   cl.OverdueCount,
			Progress:  checklist.ProgressPercent(cl),
		}
		if tmpl, err := s.templateFor(cl, e.activity.Type); err == nil {
			sum.Phases = checklist.SummarizePhases(cl, tmpl)
		}
		if next := nextOpen(cl); next != nil {
			ref := s.ref(e.activity, *next)
			sum.NextDue = &ref
		}
		out = append(out, sum)
	}
	return out, nil
}

// nextOpen returns the open item with the earliest due date.
func nextOpen(cl model.Checklist) *model.ChecklistItem {
	var next *model.ChecklistItem
	for i := range cl.Items {
		item := &cl.Items[i]
		if item.Status.IsClosed() {
			continue
		}
		if next == nil || item.DueDate.Before(next.DueDate) {
			next = item
		}
	}
	return next
}
