package procedure

import (
	"fmt"
	"sort"

	"github.com/nhle/activity-planner/internal/model"
)

// Registry indexes procedure templates by id and by activity type.
// It is built once and read-only afterwards.
type Registry struct {
	byID   map[string]model.ProcedureTemplate
	byType map[string]string // activity type -> template id
}

// NewRegistry indexes the given templates. A later template replaces an
// earlier one with the same id or activity type.
func NewRegistry(templates ...model.ProcedureTemplate) *Registry {
	r := &Registry{
		byID:   make(map[string]model.ProcedureTemplate, len(templates)),
		byType: make(map[string]string, len(templates)),
	}
	for _, t := range templates {
		if old, ok := r.byID[t.ID]; ok && r.byType[old.ActivityType] == old.ID {
			delete(r.byType, old.ActivityType)
		}
		r.byID[t.ID] = t
		r.byType[t.ActivityType] = t.ID
	}
	return r
}

// LoadRegistry returns the built-in templates overlaid with those in dir.
// An empty dir yields the built-ins alone.
func LoadRegistry(dir string) (*Registry, error) {
	templates, err := Builtin()
	if err != nil {
		return nil, fmt.Errorf("loading built-in templates: %w", err)
	}
	if dir != "" {
		custom, err := LoadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("loading templates from %s: %w", dir, err)
		}
		templates = append(templates, custom...)
	}
	return NewRegistry(templates...), nil
}

// Get returns the template with the given id.
func (r *Registry) Get(id string) (model.ProcedureTemplate, bool) {
	t, ok := r.byID[id]
	return t, ok
}

// ForActivityType returns the template that applies to an activity type.
func (r *Registry) ForActivityType(activityType string) (model.ProcedureTemplate, bool) {
	id, ok := r.byType[activityType]
	if !ok {
		return model.ProcedureTemplate{}, false
	}
	return r.Get(id)
}

// ActivityTypes returns the activity types that have a template, sorted.
func (r *Registry) ActivityTypes() []string {
	types := make([]string, 0, len(r.byType))
	for t := range r.byType {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// All returns every template sorted by id.
func (r *Registry) All() []model.ProcedureTemplate {
	out := make([]model.ProcedureTemplate, 0, len(r.byID))
	for _, t := range r.byID {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
