package model

// TaskCategory groups procedure tasks by the kind of work involved.
type TaskCategory string

const (
	CategoryAdministrative TaskCategory = "administrative"
	CategoryLogistics      TaskCategory = "logistics"
	CategoryCommunications TaskCategory = "communications"
	CategoryBudget         TaskCategory = "budget"
	CategoryParticipants   TaskCategory = "participants"
	CategoryMaterials      TaskCategory = "materials"
	CategoryCompliance     TaskCategory = "compliance"
	CategoryFollowUp       TaskCategory = "follow_up"
)

// ProcedureTask is one step of a procedure. Offsets are in days.
type ProcedureTask struct {
	ID          string       `json:"id" yaml:"id" validate:"required"`
	Title       string       `json:"title" yaml:"title" validate:"required"`
	Description string       `json:"description" yaml:"description"`
	Category    TaskCategory `json:"category" yaml:"category" validate:"required,oneof=administrative logistics communications budget participants materials compliance follow_up"`

	// DueOffset is relative to the activity start date; negative means
	// before the activity starts.
	DueOffset int `json:"due_offset" yaml:"due_offset"`

	// ReminderOffsets are days before the due date on which to remind.
	ReminderOffsets []int `json:"reminder_offsets" yaml:"reminder_offsets" validate:"unique,dive,gte=0"`

	IsRequired       bool `json:"is_required" yaml:"is_required"`
	RequiresApproval bool `json:"requires_approval" yaml:"requires_approval"`
}

// ProcedurePhase is an ordered group of tasks.
type ProcedurePhase struct {
	ID    string          `json:"id" yaml:"id" validate:"required"`
	Name  string          `json:"name" yaml:"name" validate:"required"`
	Order int             `json:"order" yaml:"order"`
	Tasks []ProcedureTask `json:"tasks" yaml:"tasks" validate:"dive"`
}

// ProcedureTemplate is the immutable blueprint a checklist is derived from.
// Task ids and phase ids are unique within a template.
type ProcedureTemplate struct {
	ID           string           `json:"id" yaml:"id" validate:"required"`
	Name         string           `json:"name" yaml:"name" validate:"required"`
	ActivityType string           `json:"activity_type" yaml:"activity_type" validate:"required"`
	Description  string           `json:"description,omitempty" yaml:"description"`
	Phases       []ProcedurePhase `json:"phases" yaml:"phases" validate:"required,min=1,dive"`
}

// TaskCount returns the number of tasks across all phases.
func (t ProcedureTemplate) TaskCount() int {
	n := 0
	for _, p := range t.Phases {
		n += len(p.Tasks)
	}
	return n
}
