package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/activity-planner/internal/caldate"
	"github.com/nhle/activity-planner/internal/model"
	"github.com/nhle/activity-planner/internal/planner"
)

// harness runs the root command against a temporary database with the
// date pinned.
type harness struct {
	t      *testing.T
	dir    string
	today  string
	stderr bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	return &harness{t: t, dir: t.TempDir(), today: "2025-02-20"}
}

func (h *harness) run(args ...string) (string, error) {
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(&h.stderr)
	cmd.SetArgs(append(args,
		"--db", filepath.Join(h.dir, "planner.db"),
		"--config", filepath.Join(h.dir, "config.yaml"),
		"--today", h.today,
	))
	err := cmd.Execute()
	return buf.String(), err
}

func (h *harness) mustRun(args ...string) string {
	out, err := h.run(args...)
	require.NoError(h.t, err, "planner %s\nstderr: %s", strings.Join(args, " "), h.stderr.String())
	return out
}

// jsonData runs a command with --format json and decodes the data field.
func (h *harness) jsonData(v interface{}, args ...string) {
	out := h.mustRun(append(args, "--format", "json")...)
	var resp struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(h.t, json.Unmarshal([]byte(out), &resp), out)
	require.Equal(h.t, "ok", resp.Status)
	require.NoError(h.t, json.Unmarshal(resp.Data, v), string(resp.Data))
}

// addWebinar creates a webinar starting 2025-03-20 with id "berlin".
func (h *harness) addWebinar() {
	h.mustRun("activity", "add",
		"--id", "berlin",
		"--name", "Berlin Webinar",
		"--type", "webinar",
		"--start", "2025-03-20",
		"--location", "Online",
	)
}

func TestTemplates(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("templates")
	assert.Contains(t, out, "webinar-standard")
	assert.Contains(t, out, "trade-mission-standard")
	assert.Contains(t, out, "consultation-standard")

	var tmpl model.ProcedureTemplate
	h.jsonData(&tmpl, "templates", "show", "webinar-standard")
	assert.Equal(t, "webinar", tmpl.ActivityType)
	assert.Equal(t, 7, tmpl.TaskCount())

	out = h.mustRun("templates", "show", "webinar-standard")
	assert.Contains(t, out, "Collect final slides")
	assert.Contains(t, out, "start-3")
	assert.Contains(t, out, "required, approval")

	_, err := h.run("templates", "show", "nope")
	assert.ErrorContains(t, err, `template "nope" not found`)
}

func TestActivityAdd(t *testing.T) {
	h := newHarness(t)

	var created struct {
		Activity  model.Activity  `json:"activity"`
		Checklist model.Checklist `json:"checklist"`
	}
	h.jsonData(&created, "activity", "add",
		"--id", "berlin",
		"--name", "Berlin Webinar",
		"--type", "webinar",
		"--start", "2025-03-20",
	)

	assert.Equal(t, "berlin", created.Activity.ID)
	assert.Equal(t, model.ActivityPlanning, created.Activity.Status)
	assert.Equal(t, "webinar-standard", created.Checklist.ProcedureTemplateID)
	assert.Equal(t, 7, created.Checklist.TotalCount)
	assert.Equal(t, 1, created.Checklist.OverdueCount, "speakers were due 2025-02-18")
}

func TestActivityAdd_Errors(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("activity", "add", "--name", "X", "--type", "gala", "--start", "2025-03-01")
	assert.ErrorIs(t, err, planner.ErrNoTemplate)

	_, err = h.run("activity", "add", "--name", "X", "--type", "webinar", "--start", "03/01/2025")
	assert.ErrorContains(t, err, "--start")

	_, err = h.run("activity", "add", "--name", "X", "--type", "webinar",
		"--start", "2025-03-10", "--end", "2025-03-01")
	assert.ErrorContains(t, err, "before --start")

	_, err = h.run("activity", "add", "--name", "X", "--type", "webinar")
	assert.ErrorContains(t, err, "required flag")
}

func TestChecklistCommand(t *testing.T) {
	h := newHarness(t)
	h.addWebinar()

	out := h.mustRun("checklist", "berlin")
	assert.Contains(t, out, "Berlin Webinar")
	assert.Contains(t, out, "Preparation")
	assert.Contains(t, out, "Confirm speakers *")
	assert.Contains(t, out, "Overdue by 2 days")
	assert.Contains(t, out, "Due in 7 days")

	var view checklistView
	h.jsonData(&view, "checklist", "berlin")
	assert.Equal(t, "berlin", view.Activity.ID)
	require.Len(t, view.Phases, 3)
	assert.Equal(t, "wb-preparation", view.Phases[0].PhaseID)
	assert.Equal(t, 3, view.Phases[0].Total)
	assert.Equal(t, 0, view.Progress)

	_, err := h.run("checklist", "missing")
	assert.Error(t, err)
}

func TestItemSet_ApprovalFlow(t *testing.T) {
	h := newHarness(t)
	h.addWebinar()

	var item model.ChecklistItem
	h.jsonData(&item, "item", "set", "berlin", "wb-slides", "--status", "completed", "--actor", "dana")
	assert.Equal(t, model.ItemCompleted, item.Status)
	assert.Equal(t, "dana", item.CompletedByID)
	require.NotNil(t, item.CompletedAt)
	assert.Equal(t, model.ApprovalPending, item.ApprovalStatus)

	h.jsonData(&item, "item", "set", "berlin", "wb-slides", "--approval", "approved", "--actor", "lee")
	assert.Equal(t, model.ApprovalApproved, item.ApprovalStatus)
	assert.Equal(t, "lee", item.ApprovedByID)

	h.jsonData(&item, "item", "set", "berlin", "wb-slides", "--note", "final deck uploaded", "--assignee", "dana")
	require.Len(t, item.Notes, 1)
	assert.Equal(t, "final deck uploaded", item.Notes[0].Text)
	assert.Equal(t, "dana", item.AssigneeID)

	var view checklistView
	h.jsonData(&view, "checklist", "berlin")
	assert.Equal(t, 1, view.Checklist.CompletedCount)
	assert.Equal(t, 14, view.Progress)
}

func TestItemSet_Errors(t *testing.T) {
	h := newHarness(t)
	h.addWebinar()

	_, err := h.run("item", "set", "berlin", "wb-slides")
	assert.ErrorContains(t, err, "nothing to change")
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = h.run("item", "set", "berlin", "wb-slides", "--status", "finished")
	assert.ErrorContains(t, err, "invalid status")

	_, err = h.run("item", "done", "berlin", "no-such-task")
	assert.ErrorContains(t, err, "not found")
}

func TestItemDone_ClearsOverdue(t *testing.T) {
	h := newHarness(t)
	h.addWebinar()

	out := h.mustRun("item", "done", "berlin", "wb-speakers")
	assert.Contains(t, out, "Confirm speakers")

	var refs []planner.TaskRef
	h.jsonData(&refs, "overdue")
	assert.Empty(t, refs)
}

func TestUpcomingAndOverdue(t *testing.T) {
	h := newHarness(t)
	h.addWebinar()

	var refs []planner.TaskRef
	h.jsonData(&refs, "upcoming")
	require.Len(t, refs, 2)
	assert.Equal(t, "wb-platform", refs[0].Item.TaskID)
	assert.Equal(t, "wb-invite", refs[1].Item.TaskID)

	h.jsonData(&refs, "upcoming", "--days", "7")
	require.Len(t, refs, 1)
	assert.Equal(t, "Due in 7 days", refs[0].Due.Label)

	h.jsonData(&refs, "overdue")
	require.Len(t, refs, 1)
	assert.Equal(t, "wb-speakers", refs[0].Item.TaskID)
	assert.Equal(t, "Berlin Webinar", refs[0].Activity.Name)

	out := h.mustRun("overdue")
	assert.Contains(t, out, "Overdue by 2 days")
}

func TestReminders_ReadAndDismiss(t *testing.T) {
	h := newHarness(t)
	h.addWebinar()

	var rems []model.Reminder
	h.jsonData(&rems, "reminders")
	require.Len(t, rems, 1)
	r := rems[0]
	assert.Equal(t, model.ReminderTaskOverdue, r.Type)
	assert.Equal(t, "Overdue: Confirm speakers", r.Title)
	assert.Equal(t, `Berlin Webinar: "Confirm speakers" was due 2 days ago`, r.Message)
	assert.False(t, r.IsRead)

	h.mustRun("reminders", "read", r.ID)
	h.jsonData(&rems, "reminders")
	require.Len(t, rems, 1)
	assert.True(t, rems[0].IsRead)

	h.mustRun("reminders", "dismiss", r.ID)
	h.jsonData(&rems, "reminders")
	assert.Empty(t, rems)

	h.jsonData(&rems, "reminders", "--all")
	require.Len(t, rems, 1)
	assert.True(t, rems[0].IsDismissed)

	_, err := h.run("reminders", "read", "overdue-nope")
	assert.ErrorContains(t, err, "not found")
}

func TestReminders_FollowTheDate(t *testing.T) {
	h := newHarness(t)
	h.addWebinar()

	// wb-platform is due 2025-02-27 with a reminder three days before.
	h.today = "2025-02-24"
	var rems []model.Reminder
	h.jsonData(&rems, "reminders")

	var titles []string
	for _, r := range rems {
		titles = append(titles, r.Title)
	}
	assert.Contains(t, titles, "Due soon: Schedule webinar platform session")
}

func TestReminders_Digest(t *testing.T) {
	h := newHarness(t)
	h.addWebinar()

	out := h.mustRun("reminders", "--digest", "--to", "ops@example.com")
	assert.Contains(t, out, "ops@example.com")
	assert.Contains(t, out, "Subject: Activity planner: 1 reminder for 2025-02-20")
	assert.Contains(t, out, "reminders.json")

	_, err := h.run("reminders", "--digest")
	assert.ErrorContains(t, err, "no recipients")
}

func TestReschedule(t *testing.T) {
	h := newHarness(t)
	h.addWebinar()

	out := h.mustRun("activity", "reschedule", "berlin", "2025-03-27")
	assert.Contains(t, out, "from 2025-03-20 to 2025-03-27 (+7 days)")

	var view checklistView
	h.jsonData(&view, "checklist", "berlin")
	assert.Equal(t, 0, view.Checklist.OverdueCount)
	for _, it := range view.Checklist.Items {
		if it.TaskID == "wb-speakers" {
			assert.Equal(t, caldate.MustParse("2025-02-25"), it.DueDate)
		}
	}
}

func TestActivityStatusAndList(t *testing.T) {
	h := newHarness(t)
	h.addWebinar()
	h.mustRun("activity", "add", "--id", "tokyo", "--name", "Tokyo Mission",
		"--type", "trade_mission", "--start", "2025-06-01")

	var list []model.Activity
	h.jsonData(&list, "activity", "list")
	require.Len(t, list, 2)
	assert.Equal(t, "berlin", list[0].ID)

	h.mustRun("activity", "status", "berlin", "cancelled")

	h.jsonData(&list, "activity", "list")
	require.Len(t, list, 1)
	assert.Equal(t, "tokyo", list[0].ID)

	h.jsonData(&list, "activity", "list", "--all")
	assert.Len(t, list, 2)

	h.jsonData(&list, "activity", "list", "--status", "cancelled")
	require.Len(t, list, 1)
	assert.Equal(t, "berlin", list[0].ID)

	h.jsonData(&list, "activity", "list", "--type", "trade_mission")
	require.Len(t, list, 1)
	assert.Equal(t, "tokyo", list[0].ID)

	var rems []model.Reminder
	h.jsonData(&rems, "reminders")
	for _, r := range rems {
		assert.NotEqual(t, "berlin", r.ActivityID, "cancelled activities raise no reminders")
	}

	_, err := h.run("activity", "status", "tokyo", "archived")
	assert.Error(t, err)
}

func TestDashboardAndDelete(t *testing.T) {
	h := newHarness(t)
	h.addWebinar()

	var rows []planner.ActivitySummary
	h.jsonData(&rows, "dashboard")
	require.Len(t, rows, 1)
	assert.Equal(t, 7, rows[0].Total)
	assert.Equal(t, 1, rows[0].Overdue)
	require.NotNil(t, rows[0].NextDue)
	assert.Equal(t, "wb-speakers", rows[0].NextDue.Item.TaskID)

	out := h.mustRun("dashboard")
	assert.Contains(t, out, "Berlin Webinar")
	assert.Contains(t, out, "0/7")

	h.mustRun("activity", "delete", "berlin")
	out = h.mustRun("dashboard")
	assert.Contains(t, out, "No open activities.")

	_, err := h.run("activity", "delete", "berlin")
	assert.Error(t, err)
}

func TestConfigInitAndShow(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(h.dir, "config.yaml")

	out := h.mustRun("config", "init")
	assert.Contains(t, out, "Wrote "+path)
	_, err := os.Stat(path)
	require.NoError(t, err)

	_, err = h.run("config", "init")
	assert.ErrorContains(t, err, "already exists")
	h.mustRun("config", "init", "--force")

	var cfg model.AppConfig
	h.jsonData(&cfg, "config", "show")
	assert.Equal(t, filepath.Join(h.dir, "planner.db"), cfg.Storage.DBPath)
	assert.Equal(t, 14, cfg.Reminders.UpcomingDays)

	out = h.mustRun("config", "show")
	assert.Contains(t, out, "upcoming_days: 14")
}

func TestInvalidFormatAndDate(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("templates", "--format", "xml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	h.today = "tomorrow"
	_, err = h.run("templates")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestJSONErrorEnvelope(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("checklist", "missing", "--format", "json")
	require.Error(t, err)

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Contains(t, resp.Error, "not found")
}

func TestResolveItem(t *testing.T) {
	cl := model.Checklist{Items: []model.ChecklistItem{
		{ID: "3f2a1c00-aaaa", TaskID: "invite"},
		{ID: "3f2b9d00-bbbb", TaskID: "slides"},
		{ID: "77e0aa00-cccc", TaskID: "survey"},
	}}

	it, err := resolveItem(cl, "3f2b9d00-bbbb")
	require.NoError(t, err)
	assert.Equal(t, "slides", it.TaskID)

	it, err = resolveItem(cl, "survey")
	require.NoError(t, err)
	assert.Equal(t, "77e0aa00-cccc", it.ID)

	it, err = resolveItem(cl, "3f2a")
	require.NoError(t, err)
	assert.Equal(t, "invite", it.TaskID)

	_, err = resolveItem(cl, "3f2")
	assert.ErrorContains(t, err, "ambiguous")

	_, err = resolveItem(cl, "zz")
	assert.ErrorContains(t, err, "not found")
}

func TestLabels(t *testing.T) {
	today := caldate.MustParse("2025-02-20")
	assert.Equal(t, "today", startsLabel(today, today))
	assert.Equal(t, "in 1 day", startsLabel(today.AddDays(1), today))
	assert.Equal(t, "3 days ago", startsLabel(today.AddDays(-3), today))

	assert.Equal(t, "start-14", formatOffset(-14))
	assert.Equal(t, "start+2", formatOffset(2))
	assert.Equal(t, "start", formatOffset(0))
	assert.Equal(t, "3d, 1d", formatReminderOffsets([]int{3, 1}))

	assert.Equal(t, "3f2a1c00", shortID("3f2a1c00-aaaa-bbbb"))
	assert.Equal(t, "plain", shortID("plain"))
}
