package procedure

import (
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/activity-planner/internal/caldate"
	"github.com/nhle/activity-planner/internal/model"
)

const validYAML = `
id: t1
name: Test
activity_type: webinar
phases:
  - id: p2
    name: Second
    order: 2
    tasks:
      - id: b
        title: B
        category: budget
        due_offset: 5
  - id: p1
    name: First
    order: 1
    tasks:
      - id: a
        title: A
        category: logistics
        due_offset: -3
        reminder_offsets: [2, 0]
        is_required: true
        requires_approval: true
`

func TestParseOrdersPhases(t *testing.T) {
	tmpl, err := Parse(strings.NewReader(validYAML))
	require.NoError(t, err)

	require.Len(t, tmpl.Phases, 2)
	assert.Equal(t, "p1", tmpl.Phases[0].ID)
	assert.Equal(t, "p2", tmpl.Phases[1].ID)

	a := tmpl.Phases[0].Tasks[0]
	assert.Equal(t, model.CategoryLogistics, a.Category)
	assert.Equal(t, -3, a.DueOffset)
	assert.Equal(t, []int{2, 0}, a.ReminderOffsets)
	assert.True(t, a.IsRequired)
	assert.True(t, a.RequiresApproval)
	assert.Equal(t, 2, tmpl.TaskCount())
}

func TestParseRejectsInvalidTemplates(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty", ""},
		{"unknown field", "id: x\nname: X\nactivity_type: y\nbogus: 1\nphases: []"},
		{"no phases", "id: x\nname: X\nactivity_type: y\nphases: []"},
		{"bad category", `
id: x
name: X
activity_type: y
phases:
  - id: p
    name: P
    tasks:
      - id: t
        title: T
        category: catering
`},
		{"negative reminder", `
id: x
name: X
activity_type: y
phases:
  - id: p
    name: P
    tasks:
      - id: t
        title: T
        category: budget
        reminder_offsets: [-1]
`},
		{"repeated reminder offset", `
id: x
name: X
activity_type: y
phases:
  - id: p
    name: P
    tasks:
      - id: t
        title: T
        category: budget
        reminder_offsets: [2, 2]
`},
		{"missing task title", `
id: x
name: X
activity_type: y
phases:
  - id: p
    name: P
    tasks:
      - id: t
        category: budget
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestValidateDuplicateIDs(t *testing.T) {
	task := model.ProcedureTask{ID: "t", Title: "T", Category: model.CategoryBudget}
	tmpl := model.ProcedureTemplate{
		ID: "x", Name: "X", ActivityType: "y",
		Phases: []model.ProcedurePhase{
			{ID: "p1", Name: "One", Tasks: []model.ProcedureTask{task}},
			{ID: "p2", Name: "Two", Tasks: []model.ProcedureTask{task}},
		},
	}
	err := Validate(tmpl)
	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.Contains(t, err.Error(), `task "t"`)

	tmpl.Phases[1] = model.ProcedurePhase{ID: "p1", Name: "Again"}
	err = Validate(tmpl)
	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.Contains(t, err.Error(), `phase "p1"`)
}

func TestValidateActivity(t *testing.T) {
	ok := model.Activity{Name: "Expo", Type: "webinar", StartDate: caldate.MustParse("2025-03-01")}
	assert.NoError(t, ValidateActivity(ok))

	noDate := ok
	noDate.StartDate = caldate.Date{}
	err := ValidateActivity(noDate)
	require.Error(t, err)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "StartDate", verrs[0].Field())

	badStatus := ok
	badStatus.Status = "archived"
	assert.Error(t, ValidateActivity(badStatus))

	noName := ok
	noName.Name = ""
	assert.Error(t, ValidateActivity(noName))
}

func TestBuiltinTemplatesAreValid(t *testing.T) {
	templates, err := Builtin()
	require.NoError(t, err)
	require.Len(t, templates, 3)

	types := map[string]bool{}
	for _, tmpl := range templates {
		assert.NoError(t, Validate(tmpl), tmpl.ID)
		assert.Positive(t, tmpl.TaskCount(), tmpl.ID)
		types[tmpl.ActivityType] = true
	}
	assert.True(t, types["trade_mission"])
	assert.True(t, types["webinar"])
	assert.True(t, types["consultation"])
}

func TestLoadDirSkipsNonYAML(t *testing.T) {
	templates, err := LoadDir("testdata")
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, "webinar-short", templates[0].ID)
	assert.Equal(t, "first", templates[0].Phases[0].ID)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile("testdata/does-not-exist.yaml")
	assert.Error(t, err)
}

func TestRegistryOverlay(t *testing.T) {
	reg, err := LoadRegistry("testdata")
	require.NoError(t, err)

	tmpl, ok := reg.ForActivityType("webinar")
	require.True(t, ok)
	assert.Equal(t, "webinar-short", tmpl.ID, "user template replaces built-in for its type")

	_, ok = reg.Get("webinar-standard")
	assert.True(t, ok, "built-in still addressable by id")

	tm, ok := reg.ForActivityType("trade_mission")
	require.True(t, ok)
	assert.Equal(t, "trade-mission-standard", tm.ID)

	assert.Equal(t, []string{"consultation", "trade_mission", "webinar"}, reg.ActivityTypes())
	assert.Len(t, reg.All(), 4)

	_, ok = reg.ForActivityType("gala")
	assert.False(t, ok)
}

func TestRegistryReplaceSameID(t *testing.T) {
	a := model.ProcedureTemplate{ID: "same", ActivityType: "old"}
	b := model.ProcedureTemplate{ID: "same", ActivityType: "new"}
	reg := NewRegistry(a, b)

	_, ok := reg.ForActivityType("old")
	assert.False(t, ok)
	got, ok := reg.ForActivityType("new")
	require.True(t, ok)
	assert.Equal(t, "same", got.ID)
}
