package activityform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/activity-planner/internal/caldate"
	"github.com/nhle/activity-planner/internal/model"
	"github.com/nhle/activity-planner/internal/theme"
)

// CreatedMsg is dispatched when a new activity is submitted.
type CreatedMsg struct {
	Activity model.Activity
}

// UpdatedMsg is dispatched when an existing activity is submitted.
type UpdatedMsg struct {
	Activity model.Activity
}

// CancelMsg is dispatched when the user cancels the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	name        string
	activityTyp string
	start       string
	end         string
	status      string
	location    string
	description string
}

// Model is the Bubble Tea model for the activity create/edit form.
type Model struct {
	form    *huh.Form
	fb      *formBindings
	editing *model.Activity
	types   []string
	width   int
	height  int
}

// New creates a new activity form model offering the given activity types.
func New(types []string, width, height int) Model {
	return Model{
		fb:     &formBindings{},
		types:  types,
		width:  width,
		height: height,
	}
}

// StartCreate initializes the form for a new activity starting on start.
func (m *Model) StartCreate(start caldate.Date) tea.Cmd {
	m.editing = nil
	*m.fb = formBindings{
		start:  start.String(),
		status: string(model.ActivityPlanning),
	}
	if len(m.types) > 0 {
		m.fb.activityTyp = m.types[0]
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form for editing a. The type is fixed once an
// activity has a checklist.
func (m *Model) StartEdit(a model.Activity) tea.Cmd {
	m.editing = &a
	*m.fb = formBindings{
		name:        a.Name,
		activityTyp: a.Type,
		start:       a.StartDate.String(),
		status:      string(a.Status),
		location:    a.Location,
		description: a.Description,
	}
	if !a.EndDate.IsZero() {
		m.fb.end = a.EndDate.String()
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the activity form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		return m, m.handleSubmit()
	case huh.StateAborted:
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the activity form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Activity"
	if m.editing != nil {
		titleText = "Edit " + m.editing.Name
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(titleStyle.Render(titleText) + "\n" + m.form.View())
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Name").
			Placeholder("e.g. Berlin Trade Mission").
			Value(&m.fb.name).
			Validate(validateRequired("Name")),
	}

	if m.editing == nil {
		opts := make([]huh.Option[string], len(m.types))
		for i, t := range m.types {
			opts[i] = huh.NewOption(typeLabel(t), t)
		}
		fields = append(fields,
			huh.NewSelect[string]().
				Title("Type").
				Description("Selects the procedure template").
				Options(opts...).
				Value(&m.fb.activityTyp),
		)
	}

	statusOpts := make([]huh.Option[string], len(model.ActivityStatuses))
	for i, s := range model.ActivityStatuses {
		statusOpts[i] = huh.NewOption(typeLabel(string(s)), string(s))
	}

	fields = append(fields,
		huh.NewInput().
			Title("Start date").
			Description("Checklist due dates are counted from this day").
			Placeholder("YYYY-MM-DD").
			Value(&m.fb.start).
			Validate(validateDate),
		huh.NewInput().
			Title("End date").
			Placeholder("YYYY-MM-DD (optional)").
			Value(&m.fb.end).
			Validate(m.validateEnd),
		huh.NewSelect[string]().
			Title("Status").
			Options(statusOpts...).
			Value(&m.fb.status),
		huh.NewInput().
			Title("Location").
			Placeholder("Optional").
			Value(&m.fb.location),
		huh.NewText().
			Title("Description").
			Placeholder("Optional details...").
			Value(&m.fb.description),
	)

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	a, err := m.fb.activity()
	if err != nil {
		// Validation already ran field by field.
		return func() tea.Msg { return CancelMsg{} }
	}

	if m.editing != nil {
		out := *m.editing
		out.Name = a.Name
		out.StartDate = a.StartDate
		out.EndDate = a.EndDate
		out.Status = a.Status
		out.Location = a.Location
		out.Description = a.Description
		return func() tea.Msg { return UpdatedMsg{Activity: out} }
	}
	return func() tea.Msg { return CreatedMsg{Activity: a} }
}

// activity converts the bound values into an activity.
func (fb *formBindings) activity() (model.Activity, error) {
	start, err := caldate.Parse(strings.TrimSpace(fb.start))
	if err != nil {
		return model.Activity{}, err
	}
	var end caldate.Date
	if s := strings.TrimSpace(fb.end); s != "" {
		if end, err = caldate.Parse(s); err != nil {
			return model.Activity{}, err
		}
	}
	return model.Activity{
		Name:        strings.TrimSpace(fb.name),
		Type:        fb.activityTyp,
		StartDate:   start,
		EndDate:     end,
		Status:      model.ActivityStatus(fb.status),
		Location:    strings.TrimSpace(fb.location),
		Description: strings.TrimSpace(fb.description),
	}, nil
}

func (m Model) formWidth() int {
	return min(max(m.width-4, 40), 100)
}

func (m Model) formHeight() int {
	return max(m.height-4, 10)
}

// typeLabel turns "trade_mission" into "Trade mission".
func typeLabel(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateDate(s string) error {
	if _, err := caldate.Parse(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("use YYYY-MM-DD")
	}
	return nil
}

func (m Model) validateEnd(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	end, err := caldate.Parse(s)
	if err != nil {
		return fmt.Errorf("use YYYY-MM-DD")
	}
	if start, err := caldate.Parse(strings.TrimSpace(m.fb.start)); err == nil && end.Before(start) {
		return fmt.Errorf("ends before it starts")
	}
	return nil
}
