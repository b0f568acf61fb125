package reminder

import (
	"slices"
	"strings"

	"github.com/nhle/activity-planner/internal/model"
)

// Carry copies read and dismissed flags from states onto reminders with the
// same id. Reminders without a stored state keep cleared flags. The input
// slice is not modified.
func Carry(rems []model.Reminder, states map[string]model.ReminderState) []model.Reminder {
	out := slices.Clone(rems)
	for i := range out {
		st, ok := states[out[i].ID]
		if !ok {
			continue
		}
		out[i].IsRead = st.IsRead
		out[i].IsDismissed = st.IsDismissed
	}
	return out
}

// CarryFrom is Carry with the flags taken from a previously derived set.
func CarryFrom(prev, next []model.Reminder) []model.Reminder {
	states := make(map[string]model.ReminderState, len(prev))
	for _, r := range prev {
		states[r.ID] = model.ReminderState{ReminderID: r.ID, IsRead: r.IsRead, IsDismissed: r.IsDismissed}
	}
	return Carry(next, states)
}

// Active drops dismissed reminders.
func Active(rems []model.Reminder) []model.Reminder {
	out := make([]model.Reminder, 0, len(rems))
	for _, r := range rems {
		if !r.IsDismissed {
			out = append(out, r)
		}
	}
	return out
}

// Unread counts reminders that are neither read nor dismissed.
func Unread(rems []model.Reminder) int {
	n := 0
	for _, r := range rems {
		if !r.IsRead && !r.IsDismissed {
			n++
		}
	}
	return n
}

// Sort orders reminders overdue first, then by scheduled date and id.
func Sort(rems []model.Reminder) {
	slices.SortStableFunc(rems, func(a, b model.Reminder) int {
		if ra, rb := rank(a.Type), rank(b.Type); ra != rb {
			return ra - rb
		}
		if c := a.ScheduledFor.Compare(b.ScheduledFor); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

func rank(t model.ReminderType) int {
	switch t {
	case model.ReminderTaskOverdue:
		return 0
	case model.ReminderTaskDue:
		return 1
	case model.ReminderActivityUpcoming:
		return 2
	default:
		return 3
	}
}
