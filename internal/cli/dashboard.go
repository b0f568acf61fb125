package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nhle/activity-planner/internal/planner"
	"github.com/nhle/activity-planner/internal/theme"
)

// NewDashboardCommand creates the dashboard command.
func NewDashboardCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Summarize progress of every open activity",
		Args:  cobra.NoArgs,
		RunE: withEnv(rootOpts, func(cmd *cobra.Command, args []string, e *env) error {
			rows, err := e.svc.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			return e.out.Success(rows, func(w io.Writer) {
				renderDashboard(w, rows)
			})
		}),
	}
}

func renderDashboard(w io.Writer, rows []planner.ActivitySummary) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No open activities.")
		return
	}
	t := newTable("Activity", "Start", "Status", "Progress", "Done", "Overdue", "Next")
	for _, r := range rows {
		next := "-"
		if r.NextDue != nil {
			next = r.NextDue.Item.Title + " (" + dueCell(r.NextDue.Due) + ")"
		}
		overdue := strconv.Itoa(r.Overdue)
		if r.Overdue > 0 {
			overdue = theme.ErrorStyle.Render(overdue)
		}
		t.Row(r.Activity.Name, r.Activity.StartDate.String(),
			theme.ActivityStatusStyle(string(r.Activity.Status)).Render(string(r.Activity.Status)),
			fmt.Sprintf("%s %d%%", theme.ProgressBar(r.Progress, 10), r.Progress),
			fmt.Sprintf("%d/%d", r.Completed, r.Total), overdue, next)
	}
	fmt.Fprintln(w, t.Render())
}
