package store

import (
	"context"
	"fmt"
	"time"

	"github.com/nhle/activity-planner/internal/model"
)

// SetReminderState records the read/dismissed flags for a reminder id,
// replacing any earlier state.
func (s *SQLiteStore) SetReminderState(ctx context.Context, st model.ReminderState) error {
	if st.ReminderID == "" {
		return fmt.Errorf("reminder id must not be empty")
	}
	if st.UpdatedAt.IsZero() {
		st.UpdatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO reminder_states (
			reminder_id, activity_id, is_read, is_dismissed, updated_at
		) VALUES (?, ?, ?, ?, ?)`,
		st.ReminderID, st.ActivityID,
		boolToInt(st.IsRead), boolToInt(st.IsDismissed),
		st.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("setting reminder state %s: %w", st.ReminderID, err)
	}
	return nil
}

// GetReminderStates returns every stored reminder state keyed by reminder id.
func (s *SQLiteStore) GetReminderStates(
	ctx context.Context,
) (map[string]model.ReminderState, error) {
	rows, err := s.db.QueryxContext(ctx, "SELECT * FROM reminder_states")
	if err != nil {
		return nil, fmt.Errorf("querying reminder states: %w", err)
	}
	defer rows.Close()

	states := make(map[string]model.ReminderState)
	for rows.Next() {
		var (
			st          model.ReminderState
			isRead      int
			isDismissed int
		)
		if err := rows.Scan(
			&st.ReminderID, &st.ActivityID, &isRead, &isDismissed, &st.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning reminder state row: %w", err)
		}
		st.IsRead = isRead != 0
		st.IsDismissed = isDismissed != 0
		states[st.ReminderID] = st
	}

	return states, rows.Err()
}
