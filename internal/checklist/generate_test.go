package checklist

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/activity-planner/internal/caldate"
	"github.com/nhle/activity-planner/internal/model"
	"github.com/nhle/activity-planner/internal/reminder"
	"github.com/nhle/activity-planner/tests/testutil"
)

func dates(ds []caldate.Date) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.String()
	}
	return out
}

func TestGenerateOffsets(t *testing.T) {
	cl, err := Generate(testutil.Activity("2025-01-01"), testutil.SingleTaskTemplate(10, 3, 1), testutil.Now)
	require.NoError(t, err)
	require.Len(t, cl.Items, 1)

	item := cl.Items[0]
	assert.Equal(t, "2025-01-11", item.DueDate.String())
	assert.Equal(t, []string{"2025-01-08", "2025-01-10"}, dates(item.ReminderDates))
}

func TestGenerateSkipsRepeatedReminderOffsets(t *testing.T) {
	activity := testutil.Activity("2025-03-01")
	cl, err := Generate(activity, testutil.SingleTaskTemplate(5, 2, 4, 2), testutil.Now)
	require.NoError(t, err)

	item := cl.Items[0]
	assert.Equal(t, []string{"2025-03-04", "2025-03-02"}, dates(item.ReminderDates))

	rems := reminder.Derive(cl, activity, testutil.Date("2025-03-04"))
	require.Len(t, rems, 1)
	assert.Equal(t, "upcoming-"+item.ID+"-2025-03-04", rems[0].ID)

	moved, err := Recalculate(cl, testutil.Activity("2025-03-08"), testutil.SingleTaskTemplate(5, 2, 4, 2), testutil.Now)
	require.NoError(t, err)
	assert.Len(t, moved.Items[0].ReminderDates, 2)
}

func TestGenerateBuildsCompleteItems(t *testing.T) {
	activity := testutil.Activity("2025-03-01")
	tmpl := testutil.SampleTemplate()

	cl, err := Generate(activity, tmpl, testutil.Now)
	require.NoError(t, err)

	assert.NotEmpty(t, cl.ID)
	assert.Equal(t, activity.ID, cl.ActivityID)
	assert.Equal(t, tmpl.ID, cl.ProcedureTemplateID)
	assert.Equal(t, 3, cl.TotalCount)
	assert.Zero(t, cl.CompletedCount)
	assert.Zero(t, cl.OverdueCount)
	assert.Equal(t, testutil.Now, cl.CreatedAt)
	assert.Equal(t, testutil.Now, cl.UpdatedAt)

	var taskIDs []string
	seen := map[string]bool{}
	for _, item := range cl.Items {
		taskIDs = append(taskIDs, item.TaskID)
		assert.NotEmpty(t, item.ID)
		assert.NotEqual(t, item.TaskID, item.ID)
		assert.False(t, seen[item.ID], "item ids must be unique")
		seen[item.ID] = true

		assert.Equal(t, model.ItemNotStarted, item.Status)
		assert.NotNil(t, item.Notes)
		assert.Empty(t, item.Notes)
		assert.NotNil(t, item.Attachments)
		assert.Nil(t, item.CompletedAt)
		assert.Equal(t, model.ApprovalNone, item.ApprovalStatus)
	}
	assert.Equal(t, []string{"invite", "slides", "survey"}, taskIDs, "template order is preserved")

	invite := cl.Items[0]
	assert.Equal(t, "prep", invite.PhaseID)
	assert.Equal(t, "Send invitations", invite.Title)
	assert.Equal(t, "Mail the invitation list.", invite.Description)
	assert.Equal(t, model.CategoryCommunications, invite.Category)
	assert.True(t, invite.IsRequired)
	assert.Equal(t, "2025-02-15", invite.DueDate.String())
	assert.Equal(t, []string{"2025-02-12", "2025-02-14"}, dates(invite.ReminderDates))

	slides := cl.Items[1]
	assert.True(t, slides.RequiresApproval)
	assert.Equal(t, "2025-02-26", slides.DueDate.String())

	survey := cl.Items[2]
	assert.Equal(t, "followup", survey.PhaseID)
	assert.Equal(t, "2025-03-03", survey.DueDate.String())
	assert.NotNil(t, survey.ReminderDates)
	assert.Empty(t, survey.ReminderDates)
}

func TestGenerateIsDeterministicInDates(t *testing.T) {
	activity := testutil.Activity("2025-06-10")
	tmpl := testutil.SampleTemplate()

	a, err := Generate(activity, tmpl, testutil.Now)
	require.NoError(t, err)
	b, err := Generate(activity, tmpl, testutil.Now)
	require.NoError(t, err)

	require.Len(t, b.Items, len(a.Items))
	assert.NotEqual(t, a.ID, b.ID)
	for i := range a.Items {
		assert.NotEqual(t, a.Items[i].ID, b.Items[i].ID)
		assert.Equal(t, a.Items[i].DueDate.String(), b.Items[i].DueDate.String())
		assert.Equal(t, dates(a.Items[i].ReminderDates), dates(b.Items[i].ReminderDates))
	}
}

func TestGenerateRequiresStartDate(t *testing.T) {
	activity := testutil.Activity("2025-01-01")
	activity.StartDate = caldate.Date{}

	_, err := Generate(activity, testutil.SampleTemplate(), testutil.Now)
	assert.ErrorIs(t, err, caldate.ErrInvalidDate)
}

func TestGenerateDoesNotMutateTemplate(t *testing.T) {
	tmpl := testutil.SampleTemplate()
	_, err := Generate(testutil.Activity("2025-01-01"), tmpl, testutil.Now)
	require.NoError(t, err)
	assert.Equal(t, testutil.SampleTemplate(), tmpl)
}

func TestRecalculatePreservesUserState(t *testing.T) {
	tmpl := testutil.SampleTemplate()
	cl, err := Generate(testutil.Activity("2025-03-01"), tmpl, testutil.Now)
	require.NoError(t, err)

	completed := model.ItemCompleted
	assignee := "u-7"
	cl, err = ApplyPatch(cl, cl.Items[0].ID, ItemPatch{
		Status:     &completed,
		AssigneeID: &assignee,
		Note:       "sent via mailing list",
		ActorID:    "u-7",
	}, testutil.Now)
	require.NoError(t, err)
	before := cl.Items[0]
	require.NotNil(t, before.CompletedAt)

	moved := testutil.Activity("2025-03-11")
	later := testutil.Now.Add(48 * time.Hour)
	out, err := Recalculate(cl, moved, tmpl, later)
	require.NoError(t, err)

	require.Len(t, out.Items, len(cl.Items))
	after := out.Items[0]
	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, model.ItemCompleted, after.Status)
	assert.Equal(t, before.CompletedAt, after.CompletedAt)
	assert.Equal(t, "u-7", after.AssigneeID)
	assert.Equal(t, before.Notes, after.Notes)
	assert.Equal(t, 10, before.DueDate.DaysUntil(after.DueDate))
	assert.Equal(t, []string{"2025-02-22", "2025-02-24"}, dates(after.ReminderDates))

	for i := range out.Items {
		assert.Equal(t, 10, cl.Items[i].DueDate.DaysUntil(out.Items[i].DueDate))
	}

	assert.Equal(t, later, out.UpdatedAt)
	assert.Equal(t, cl.CreatedAt, out.CreatedAt)
	assert.Equal(t, cl.CompletedCount, out.CompletedCount, "counts stay stale until rollup")
	assert.Equal(t, "2025-02-15", cl.Items[0].DueDate.String(), "input checklist is not mutated")
}

func TestRecalculateLeavesUnknownTasksAlone(t *testing.T) {
	tmpl := testutil.SampleTemplate()
	cl, err := Generate(testutil.Activity("2025-03-01"), tmpl, testutil.Now)
	require.NoError(t, err)

	// The template evolves: "slides" is removed and a new task is added.
	evolved := testutil.SampleTemplate()
	evolved.Phases[0].Tasks = []model.ProcedureTask{
		evolved.Phases[0].Tasks[0],
		{ID: "rehearsal", Title: "Rehearse", Category: model.CategoryParticipants, DueOffset: -1},
	}

	out, err := Recalculate(cl, testutil.Activity("2025-04-01"), evolved, testutil.Now)
	require.NoError(t, err)

	require.Len(t, out.Items, 3, "no items are added or dropped")
	assert.Equal(t, cl.Items[1], out.Items[1], "orphaned item is untouched")
	assert.Equal(t, "2025-03-18", out.Items[0].DueDate.String())
	assert.Equal(t, "2025-04-03", out.Items[2].DueDate.String())
}

func TestRecalculateRequiresStartDate(t *testing.T) {
	cl, err := Generate(testutil.Activity("2025-03-01"), testutil.SampleTemplate(), testutil.Now)
	require.NoError(t, err)

	bad := testutil.Activity("2025-03-01")
	bad.StartDate = caldate.Date{}
	_, err = Recalculate(cl, bad, testutil.SampleTemplate(), testutil.Now)
	assert.ErrorIs(t, err, caldate.ErrInvalidDate)
}
