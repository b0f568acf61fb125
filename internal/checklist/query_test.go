package checklist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/activity-planner/internal/model"
	"github.com/nhle/activity-planner/tests/testutil"
)

func ids(items []model.ChecklistItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func queryChecklist() model.Checklist {
	return model.Checklist{
		Items: []model.ChecklistItem{
			testutil.Item("late", "prep", model.ItemNotStarted, "2025-03-05"),
			testutil.Item("edge-end", "prep", model.ItemNotStarted, "2025-03-17"),
			testutil.Item("today", "prep", model.ItemInProgress, "2025-03-10"),
			testutil.Item("done", "prep", model.ItemCompleted, "2025-03-11"),
			testutil.Item("beyond", "followup", model.ItemNotStarted, "2025-03-18"),
			testutil.Item("soon", "followup", model.ItemBlocked, "2025-03-12"),
			testutil.Item("later", "prep", model.ItemNotStarted, "2025-03-01"),
			testutil.Item("skipped", "followup", model.ItemSkipped, "2025-03-02"),
		},
	}
}

func TestUpcomingTasks(t *testing.T) {
	today := testutil.Date("2025-03-10")
	got := UpcomingTasks(queryChecklist(), today, 7)
	assert.Equal(t, []string{"today", "soon", "edge-end"}, ids(got))
}

func TestUpcomingTasksZeroWindow(t *testing.T) {
	got := UpcomingTasks(queryChecklist(), testutil.Date("2025-03-10"), 0)
	assert.Equal(t, []string{"today"}, ids(got))
}

func TestOverdueTasks(t *testing.T) {
	today := testutil.Date("2025-03-10")
	got := OverdueTasks(queryChecklist(), today)
	assert.Equal(t, []string{"later", "late"}, ids(got))
	for _, item := range got {
		assert.True(t, item.DueDate.Before(today))
		assert.False(t, item.Status.IsClosed())
	}
}

func TestSortByDueDateIsStable(t *testing.T) {
	items := []model.ChecklistItem{
		testutil.Item("b", "p", model.ItemNotStarted, "2025-03-02"),
		testutil.Item("a1", "p", model.ItemNotStarted, "2025-03-01"),
		testutil.Item("c", "p", model.ItemNotStarted, "2025-03-03"),
		testutil.Item("a2", "p", model.ItemNotStarted, "2025-03-01"),
	}
	SortByDueDate(items)
	assert.Equal(t, []string{"a1", "a2", "b", "c"}, ids(items))
}

func TestTasksByPhase(t *testing.T) {
	tmpl := testutil.SampleTemplate()
	tmpl.Phases = append(tmpl.Phases, model.ProcedurePhase{ID: "wrapup", Name: "Wrap-up", Order: 3})

	cl := queryChecklist()
	cl.Items = append(cl.Items, testutil.Item("orphan", "retired", model.ItemNotStarted, "2025-03-01"))

	groups := TasksByPhase(cl, tmpl)
	require.Len(t, groups, 3)

	assert.Equal(t, "prep", groups[0].Phase.ID)
	assert.Equal(t, []string{"later", "late", "today", "done", "edge-end"}, ids(groups[0].Items))

	assert.Equal(t, "followup", groups[1].Phase.ID)
	assert.Equal(t, []string{"skipped", "soon", "beyond"}, ids(groups[1].Items))

	assert.Equal(t, "wrapup", groups[2].Phase.ID)
	assert.Empty(t, groups[2].Items)

	total := 0
	for _, g := range groups {
		total += len(g.Items)
	}
	assert.Equal(t, len(cl.Items)-1, total, "only the orphan is dropped")
}

func TestSummarizePhases(t *testing.T) {
	tmpl := testutil.SampleTemplate()
	cl := model.Checklist{
		Items: []model.ChecklistItem{
			testutil.Item("a", "prep", model.ItemCompleted, "2025-03-01"),
			testutil.Item("b", "prep", model.ItemNotStarted, "2025-03-02"),
			testutil.Item("c", "followup", model.ItemSkipped, "2025-03-03"),
		},
	}

	got := SummarizePhases(cl, tmpl)
	assert.Equal(t, []PhaseSummary{
		{PhaseID: "prep", Name: "Preparation", State: PhaseInProgress, Completed: 1, Total: 2},
		{PhaseID: "followup", Name: "Follow-up", State: PhaseCompleted, Completed: 1, Total: 1},
	}, got)
}

func TestFormatDueDateWithStatus(t *testing.T) {
	today := testutil.Date("2025-03-10")
	tests := []struct {
		due    string
		status DueStatus
		label  string
	}{
		{"2025-03-07", DueOverdue, "Overdue by 3 days"},
		{"2025-03-09", DueOverdue, "Overdue by 1 day"},
		{"2025-03-10", DueToday, "Due today"},
		{"2025-03-11", DueUpcoming, "Due in 1 day"},
		{"2025-03-17", DueUpcoming, "Due in 7 days"},
		{"2025-03-18", DueFuture, "Due Mar 18, 2025"},
		{"2026-01-05", DueFuture, "Due Jan 5, 2026"},
	}
	for _, tt := range tests {
		t.Run(tt.due, func(t *testing.T) {
			got := FormatDueDateWithStatus(testutil.Date(tt.due), today)
			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, tt.label, got.Label)
		})
	}
}
