package testutil

import (
	"time"

	"github.com/nhle/activity-planner/internal/caldate"
	"github.com/nhle/activity-planner/internal/model"
)

// Now is the fixed instant used for CreatedAt/UpdatedAt in tests.
var Now = time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

// Date parses a yyyy-MM-dd literal.
func Date(s string) caldate.Date {
	return caldate.MustParse(s)
}

// Activity returns a webinar activity starting on start.
func Activity(start string) model.Activity {
	return model.Activity{
		ID:        "act-1",
		Name:      "Export Webinar",
		Type:      "webinar",
		StartDate: Date(start),
		Status:    model.ActivityPlanning,
	}
}

// SampleTemplate returns a two-phase webinar template:
//
//	prep:     invite (due -14, reminders 3,1), slides (due -3, reminder 2, approval)
//	followup: survey (due +2, no reminders)
func SampleTemplate() model.ProcedureTemplate {
	return model.ProcedureTemplate{
		ID:           "tmpl-webinar",
		Name:         "Webinar",
		ActivityType: "webinar",
		Phases: []model.ProcedurePhase{
			{
				ID:    "prep",
				Name:  "Preparation",
				Order: 1,
				Tasks: []model.ProcedureTask{
					{
						ID:              "invite",
						Title:           "Send invitations",
						Description:     "Mail the invitation list.",
						Category:        model.CategoryCommunications,
						DueOffset:       -14,
						ReminderOffsets: []int{3, 1},
						IsRequired:      true,
					},
					{
						ID:               "slides",
						Title:            "Collect slides",
						Category:         model.CategoryMaterials,
						DueOffset:        -3,
						ReminderOffsets:  []int{2},
						IsRequired:       true,
						RequiresApproval: true,
					},
				},
			},
			{
				ID:    "followup",
				Name:  "Follow-up",
				Order: 2,
				Tasks: []model.ProcedureTask{
					{
						ID:              "survey",
						Title:           "Send survey",
						Category:        model.CategoryFollowUp,
						DueOffset:       2,
						ReminderOffsets: []int{},
					},
				},
			},
		},
	}
}

// SingleTaskTemplate returns a template with one task due dueOffset days
// after the start, reminding reminderOffsets days before it.
func SingleTaskTemplate(dueOffset int, reminderOffsets ...int) model.ProcedureTemplate {
	return model.ProcedureTemplate{
		ID:           "tmpl-single",
		Name:         "Single",
		ActivityType: "webinar",
		Phases: []model.ProcedurePhase{
			{
				ID:   "only",
				Name: "Only",
				Tasks: []model.ProcedureTask{
					{
						ID:              "task",
						Title:           "Book room",
						Category:        model.CategoryLogistics,
						DueOffset:       dueOffset,
						ReminderOffsets: reminderOffsets,
					},
				},
			},
		},
	}
}

// Item returns a bare checklist item for rollup and query tests.
func Item(id, phaseID string, status model.ItemStatus, due string) model.ChecklistItem {
	return model.ChecklistItem{
		ID:          id,
		TaskID:      "task-" + id,
		PhaseID:     phaseID,
		Title:       "Item " + id,
		Status:      status,
		DueDate:     Date(due),
		Notes:       []model.Note{},
		Attachments: []string{},
	}
}
