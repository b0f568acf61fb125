package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nhle/activity-planner/internal/planner"
)

// NewUpcomingCommand creates the upcoming command.
func NewUpcomingCommand(rootOpts *RootOptions) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "List open tasks due soon across all activities",
		Args:  cobra.NoArgs,
		RunE: withEnv(rootOpts, func(cmd *cobra.Command, args []string, e *env) error {
			var (
				refs []planner.TaskRef
				err  error
			)
			if cmd.Flags().Changed("days") {
				refs, err = e.svc.UpcomingWithin(cmd.Context(), days)
			} else {
				refs, err = e.svc.Upcoming(cmd.Context())
			}
			if err != nil {
				return err
			}
			return e.out.Success(refs, func(w io.Writer) {
				renderRefs(w, refs, "Nothing due soon.")
			})
		}),
	}

	cmd.Flags().IntVarP(&days, "days", "d", 0, "look-ahead window in days (default reminders.upcoming_days)")
	return cmd
}

// NewOverdueCommand creates the overdue command.
func NewOverdueCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "overdue",
		Short: "List open tasks past their due date across all activities",
		Args:  cobra.NoArgs,
		RunE: withEnv(rootOpts, func(cmd *cobra.Command, args []string, e *env) error {
			refs, err := e.svc.Overdue(cmd.Context())
			if err != nil {
				return err
			}
			return e.out.Success(refs, func(w io.Writer) {
				renderRefs(w, refs, "Nothing overdue.")
			})
		}),
	}
}

func renderRefs(w io.Writer, refs []planner.TaskRef, empty string) {
	if len(refs) == 0 {
		fmt.Fprintln(w, empty)
		return
	}
	t := newTable("Due", "Date", "Activity", "Task", "Status", "Assignee")
	for _, r := range refs {
		t.Row(dueCell(r.Due), r.Item.DueDate.String(), r.Activity.Name,
			itemTitle(r.Item), statusCell(r.Item.Status), r.Item.AssigneeID)
	}
	fmt.Fprintln(w, t.Render())
}
