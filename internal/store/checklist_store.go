package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/nhle/activity-planner/internal/model"
)

// SaveChecklist inserts or replaces the checklist of cl.ActivityID. The
// checklist is stored as one JSON document.
func (s *SQLiteStore) SaveChecklist(ctx context.Context, cl model.Checklist) error {
	return saveChecklist(ctx, s.db, cl)
}

func saveChecklist(ctx context.Context, ex sqlx.ExecerContext, cl model.Checklist) error {
	data, err := json.Marshal(cl)
	if err != nil {
		return fmt.Errorf("marshaling checklist %s: %w", cl.ID, err)
	}

	_, err = ex.ExecContext(ctx, `
		INSERT INTO checklists (
			id, activity_id, procedure_template_id, data, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(activity_id) DO UPDATE SET
			id = excluded.id,
			procedure_template_id = excluded.procedure_template_id,
			data = excluded.data,
			updated_at = excluded.updated_at`,
		cl.ID, cl.ActivityID, cl.ProcedureTemplateID, string(data),
		cl.CreatedAt.UTC(), cl.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving checklist for activity %s: %w", cl.ActivityID, err)
	}
	return nil
}

// RescheduleActivity stores an activity together with its recalculated
// checklist. Either both rows change or neither does.
func (s *SQLiteStore) RescheduleActivity(ctx context.Context, a model.Activity, cl model.Checklist) error {
	if cl.ActivityID != a.ID {
		return fmt.Errorf("checklist %s belongs to activity %s, not %s", cl.ID, cl.ActivityID, a.ID)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := updateActivity(ctx, tx, a); err != nil {
		return err
	}
	if err := saveChecklist(ctx, tx, cl); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing reschedule of %s: %w", a.ID, err)
	}
	return nil
}

// GetChecklist retrieves the checklist of an activity.
func (s *SQLiteStore) GetChecklist(
	ctx context.Context,
	activityID string,
) (*model.Checklist, error) {
	var data string
	err := s.db.GetContext(ctx, &data,
		"SELECT data FROM checklists WHERE activity_id = ?", activityID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("getting checklist for activity %s: %w", activityID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting checklist for activity %s: %w", activityID, err)
	}

	cl, err := decodeChecklist(data)
	if err != nil {
		return nil, fmt.Errorf("getting checklist for activity %s: %w", activityID, err)
	}
	return &cl, nil
}

// GetChecklists retrieves every stored checklist, ordered by activity start.
func (s *SQLiteStore) GetChecklists(ctx context.Context) ([]model.Checklist, error) {
	var rows []string
	err := s.db.SelectContext(ctx, &rows, `
		SELECT c.data FROM checklists c
		JOIN activities a ON a.id = c.activity_id
		ORDER BY a.start_date, a.id`)
	if err != nil {
		return nil, fmt.Errorf("querying checklists: %w", err)
	}

	checklists := make([]model.Checklist, 0, len(rows))
	for _, data := range rows {
		cl, err := decodeChecklist(data)
		if err != nil {
			return nil, err
		}
		checklists = append(checklists, cl)
	}
	return checklists, nil
}

// decodeChecklist unmarshals a stored checklist document.
func decodeChecklist(data string) (model.Checklist, error) {
	var cl model.Checklist
	if err := json.Unmarshal([]byte(data), &cl); err != nil {
		return model.Checklist{}, fmt.Errorf("unmarshaling checklist: %w", err)
	}
	return cl, nil
}
