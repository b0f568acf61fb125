package procedure

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"

	"github.com/nhle/activity-planner/internal/caldate"
	"github.com/nhle/activity-planner/internal/model"
)

// ErrDuplicateID is returned when a template reuses a phase or task id.
var ErrDuplicateID = errors.New("duplicate id in template")

// validate is shared by template and activity validation. Dates are mapped
// to their string form so the "required" tag treats the zero date as unset.
var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(caldate.Date); ok {
			return d.String()
		}
		return nil
	}, caldate.Date{})
}

// Validate checks a template's field constraints and that phase ids and
// task ids are each unique within it.
func Validate(t model.ProcedureTemplate) error {
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("validating template %q: %w", t.ID, err)
	}

	phases := make(map[string]bool, len(t.Phases))
	tasks := make(map[string]bool, t.TaskCount())
	for _, p := range t.Phases {
		if phases[p.ID] {
			return fmt.Errorf("template %q phase %q: %w", t.ID, p.ID, ErrDuplicateID)
		}
		phases[p.ID] = true

		for _, task := range p.Tasks {
			if tasks[task.ID] {
				return fmt.Errorf("template %q task %q: %w", t.ID, task.ID, ErrDuplicateID)
			}
			tasks[task.ID] = true
		}
	}
	return nil
}

// ValidateActivity checks the fields an activity needs before a checklist
// can be generated for it.
func ValidateActivity(a model.Activity) error {
	if err := validate.Struct(a); err != nil {
		return fmt.Errorf("validating activity %q: %w", a.Name, err)
	}
	return nil
}
