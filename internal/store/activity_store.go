package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nhle/activity-planner/internal/model"
)

// CreateActivity inserts a new activity. Generates a UUID if ID is empty and
// stamps timestamps that are not set.
func (s *SQLiteStore) CreateActivity(ctx context.Context, a model.Activity) error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("activity name must not be empty")
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = a.CreatedAt
	}
	if a.Status == "" {
		a.Status = model.ActivityDraft
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO activities (
			id, name, type, start_date, end_date, status,
			location, description, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.Type, a.StartDate, a.EndDate, a.Status,
		a.Location, a.Description, a.CreatedAt.UTC(), a.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("creating activity: %w", err)
	}
	return nil
}

// UpdateActivity updates an existing activity by ID.
func (s *SQLiteStore) UpdateActivity(ctx context.Context, a model.Activity) error {
	return updateActivity(ctx, s.db, a)
}

// updateActivity runs the activity UPDATE on ex, which is the database or
// an open transaction.
func updateActivity(ctx context.Context, ex sqlx.ExecerContext, a model.Activity) error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("activity name must not be empty")
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = time.Now().UTC()
	}

	result, err := ex.ExecContext(ctx, `
		UPDATE activities SET
			name = ?, type = ?, start_date = ?, end_date = ?, status = ?,
			location = ?, description = ?, updated_at = ?
		WHERE id = ?`,
		a.Name, a.Type, a.StartDate, a.EndDate, a.Status,
		a.Location, a.Description, a.UpdatedAt.UTC(),
		a.ID,
	)
	if err != nil {
		return fmt.Errorf("updating activity %s: %w", a.ID, err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("activity %s: %w", a.ID, ErrNotFound)
	}
	return nil
}

// DeleteActivity removes an activity by ID. Cascades to its checklist and
// reminder states.
func (s *SQLiteStore) DeleteActivity(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM activities WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting activity %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("activity %s: %w", id, ErrNotFound)
	}
	return nil
}

// GetActivityByID retrieves a single activity by ID.
func (s *SQLiteStore) GetActivityByID(
	ctx context.Context,
	id string,
) (*model.Activity, error) {
	var a model.Activity
	err := s.db.GetContext(ctx, &a, "SELECT * FROM activities WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("getting activity %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting activity %s: %w", id, err)
	}
	return &a, nil
}

// GetActivities retrieves activities matching the filter.
func (s *SQLiteStore) GetActivities(
	ctx context.Context,
	filter ActivityFilter,
) ([]model.Activity, error) {
	query, args := buildActivityQuery(filter)

	var activities []model.Activity
	if err := s.db.SelectContext(ctx, &activities, query, args...); err != nil {
		return nil, fmt.Errorf("querying activities: %w", err)
	}
	return activities, nil
}

// buildActivityQuery constructs the SQL query and args for an activity filter.
func buildActivityQuery(filter ActivityFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filter.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, string(*filter.Status))
	}
	if filter.Type != nil {
		conditions = append(conditions, "type = ?")
		args = append(args, *filter.Type)
	}
	if filter.Query != nil && *filter.Query != "" {
		conditions = append(conditions,
			"(name LIKE ? OR description LIKE ? OR location LIKE ?)")
		q := "%" + *filter.Query + "%"
		args = append(args, q, q, q)
	}
	if !filter.From.IsZero() {
		conditions = append(conditions, "start_date >= ?")
		args = append(args, filter.From.String())
	}
	if !filter.To.IsZero() {
		conditions = append(conditions, "start_date <= ?")
		args = append(args, filter.To.String())
	}
	if filter.Open {
		conditions = append(conditions, "status NOT IN ('completed', 'cancelled')")
	}

	query := "SELECT * FROM activities"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	sortBy := "start_date"
	allowedSorts := map[string]bool{
		"start_date": true,
		"name":       true,
		"type":       true,
		"status":     true,
		"created_at": true,
		"updated_at": true,
	}
	if allowedSorts[filter.SortBy] {
		sortBy = filter.SortBy
	}

	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s, id ASC", sortBy, direction)

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		if filter.Limit <= 0 {
			query += " LIMIT -1"
		}
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	return query, args
}
