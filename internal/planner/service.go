// Package planner ties activities, their generated checklists and derived
// reminders to persistent storage.
package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/activity-planner/internal/caldate"
	"github.com/nhle/activity-planner/internal/checklist"
	"github.com/nhle/activity-planner/internal/model"
	"github.com/nhle/activity-planner/internal/procedure"
	"github.com/nhle/activity-planner/internal/store"
)

var (
	// ErrNoTemplate is returned when no procedure template covers an
	// activity's type.
	ErrNoTemplate = errors.New("no procedure template for activity type")

	// ErrTypeChanged is returned when an update changes an activity's type.
	// The checklist is bound to the template chosen at creation.
	ErrTypeChanged = errors.New("activity type cannot change")
)

// Service is the application layer over a Store and a template Registry.
type Service struct {
	store    store.Store
	registry *procedure.Registry
	clock    func() time.Time
	logger   *slog.Logger

	upcomingDays   int
	activityWindow int
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the source of "now". Today is derived from it.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithWindows sets the look-ahead for upcoming tasks and for activity
// reminders, in days. Non-positive values keep the defaults.
func WithWindows(upcomingDays, activityWindow int) Option {
	return func(s *Service) {
		if upcomingDays > 0 {
			s.upcomingDays = upcomingDays
		}
		if activityWindow > 0 {
			s.activityWindow = activityWindow
		}
	}
}

// New returns a Service backed by st that picks templates from registry.
func New(st store.Store, registry *procedure.Registry, opts ...Option) *Service {
	s := &Service{
		store:          st,
		registry:       registry,
		clock:          time.Now,
		logger:         slog.Default(),
		upcomingDays:   checklist.DefaultUpcomingDays,
		activityWindow: 7,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the current instant in UTC.
func (s *Service) Now() time.Time {
	return s.clock().UTC()
}

// Today returns the reference date used for every date comparison.
func (s *Service) Today() caldate.Date {
	return caldate.Of(s.clock())
}

// Registry returns the template registry.
func (s *Service) Registry() *procedure.Registry {
	return s.registry
}

// CreateActivity validates and stores a new activity, then generates and
// stores its checklist from the template for its type.
func (s *Service) CreateActivity(
	ctx context.Context,
	a model.Activity,
) (model.Activity, model.Checklist, error) {
	if a.Status == "" {
		a.Status = model.ActivityDraft
	}
	if err := procedure.ValidateActivity(a); err != nil {
		return model.Activity{}, model.Checklist{}, err
	}

	tmpl, ok := s.registry.ForActivityType(a.Type)
	if !ok {
		return model.Activity{}, model.Checklist{}, fmt.Errorf("creating activity %q: %w %q", a.Name, ErrNoTemplate, a.Type)
	}

	now := s.Now()
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	a.CreatedAt = now
	a.UpdatedAt = now

	cl, err := checklist.Generate(a, tmpl, now)
	if err != nil {
		return model.Activity{}, model.Checklist{}, err
	}
	cl = checklist.UpdateCounts(cl, s.Today())

	if err := s.store.CreateActivity(ctx, a); err != nil {
		return model.Activity{}, model.Checklist{}, err
	}
	if err := s.store.SaveChecklist(ctx, cl); err != nil {
		if delErr := s.store.DeleteActivity(ctx, a.ID); delErr != nil {
			s.logger.Error("rolling back activity", "activity_id", a.ID, "error", delErr)
		}
		return model.Activity{}, model.Checklist{}, err
	}

	s.logger.Info("activity created",
		"activity_id", a.ID,
		"type", a.Type,
		"template_id", tmpl.ID,
		"items", len(cl.Items),
	)
	return a, cl, nil
}

// UpdateActivity stores changes to an activity. When the start date moves,
// the checklist's due and reminder dates are recalculated and its counts
// refreshed; item state is kept.
func (s *Service) UpdateActivity(ctx context.Context, a model.Activity) (model.Activity, error) {
	prev, err := s.store.GetActivityByID(ctx, a.ID)
	if err != nil {
		return model.Activity{}, err
	}
	if a.Type != prev.Type {
		return model.Activity{}, fmt.Errorf("updating activity %s: %w", a.ID, ErrTypeChanged)
	}
	if err := procedure.ValidateActivity(a); err != nil {
		return model.Activity{}, err
	}

	now := s.Now()
	a.CreatedAt = prev.CreatedAt
	a.UpdatedAt = now

	if a.StartDate.Equal(prev.StartDate) {
		if err := s.store.UpdateActivity(ctx, a); err != nil {
			return model.Activity{}, err
		}
		return a, nil
	}

	// Everything that can fail runs before the write, so a failed
	// reschedule leaves both rows as they were.
	cl, err := s.store.GetChecklist(ctx, a.ID)
	if err != nil {
		return model.Activity{}, err
	}
	tmpl, err := s.templateFor(*cl, a.Type)
	if err != nil {
		return model.Activity{}, fmt.Errorf("rescheduling activity %s: %w", a.ID, err)
	}
	moved, err := checklist.Recalculate(*cl, a, tmpl, now)
	if err != nil {
		return model.Activity{}, err
	}
	moved = checklist.UpdateCounts(moved, s.Today())
	if err := s.store.RescheduleActivity(ctx, a, moved); err != nil {
		return model.Activity{}, err
	}

	s.logger.Info("activity rescheduled",
		"activity_id", a.ID,
		"from", prev.StartDate.String(),
		"to", a.StartDate.String(),
		"shift_days", prev.StartDate.DaysUntil(a.StartDate),
	)
	return a, nil
}

// Reschedule moves an activity to a new start date.
func (s *Service) Reschedule(ctx context.Context, id string, start caldate.Date) (model.Activity, error) {
	a, err := s.store.GetActivityByID(ctx, id)
	if err != nil {
		return model.Activity{}, err
	}
	a.StartDate = start
	return s.UpdateActivity(ctx, *a)
}

// SetActivityStatus changes an activity's lifecycle status.
func (s *Service) SetActivityStatus(
	ctx context.Context,
	id string,
	status model.ActivityStatus,
) (model.Activity, error) {
	a, err := s.store.GetActivityByID(ctx, id)
	if err != nil {
		return model.Activity{}, err
	}
	a.Status = status
	return s.UpdateActivity(ctx, *a)
}

// DeleteActivity removes an activity together with its checklist.
func (s *Service) DeleteActivity(ctx context.Context, id string) error {
	if err := s.store.DeleteActivity(ctx, id); err != nil {
		return err
	}
	s.logger.Info("activity deleted", "activity_id", id)
	return nil
}

// Activity returns one activity.
func (s *Service) Activity(ctx context.Context, id string) (model.Activity, error) {
	a, err := s.store.GetActivityByID(ctx, id)
	if err != nil {
		return model.Activity{}, err
	}
	return *a, nil
}

// Activities lists activities matching filter.
func (s *Service) Activities(ctx context.Context, filter store.ActivityFilter) ([]model.Activity, error) {
	return s.store.GetActivities(ctx, filter)
}

// Checklist returns an activity's checklist with counts as of today.
func (s *Service) Checklist(ctx context.Context, activityID string) (model.Checklist, error) {
	cl, err := s.store.GetChecklist(ctx, activityID)
	if err != nil {
		return model.Checklist{}, err
	}
	return checklist.UpdateCounts(*cl, s.Today()), nil
}

// Template returns the template a checklist was generated from, falling
// back to the current template for the activity type.
func (s *Service) Template(cl model.Checklist, activityType string) (model.ProcedureTemplate, error) {
	return s.templateFor(cl, activityType)
}

func (s *Service) templateFor(cl model.Checklist, activityType string) (model.ProcedureTemplate, error) {
	if tmpl, ok := s.registry.Get(cl.ProcedureTemplateID); ok {
		return tmpl, nil
	}
	if tmpl, ok := s.registry.ForActivityType(activityType); ok {
		s.logger.Warn("checklist template missing, using type default",
			"checklist_id", cl.ID,
			"template_id", cl.ProcedureTemplateID,
			"fallback_id", tmpl.ID,
		)
		return tmpl, nil
	}
	return model.ProcedureTemplate{}, fmt.Errorf("checklist %s: %w %q", cl.ID, ErrNoTemplate, activityType)
}

// UpdateItem applies patch to one checklist item, refreshes the counts and
// stores the result.
func (s *Service) UpdateItem(
	ctx context.Context,
	activityID, itemID string,
	patch checklist.ItemPatch,
) (model.Checklist, error) {
	cl, err := s.store.GetChecklist(ctx, activityID)
	if err != nil {
		return model.Checklist{}, err
	}

	out, err := checklist.ApplyPatch(*cl, itemID, patch, s.Now())
	if err != nil {
		return model.Checklist{}, err
	}
	out = checklist.UpdateCounts(out, s.Today())

	if err := s.store.SaveChecklist(ctx, out); err != nil {
		return model.Checklist{}, err
	}

	item, _ := out.Item(itemID)
	s.logger.Debug("checklist item updated",
		"activity_id", activityID,
		"item_id", itemID,
		"status", item.Status,
		"completed", out.CompletedCount,
		"total", out.TotalCount,
	)
	return out, nil
}
