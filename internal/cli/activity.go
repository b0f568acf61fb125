package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nhle/activity-planner/internal/caldate"
	"github.com/nhle/activity-planner/internal/checklist"
	"github.com/nhle/activity-planner/internal/model"
	"github.com/nhle/activity-planner/internal/store"
	"github.com/nhle/activity-planner/internal/theme"
)

// NewActivityCommand creates the activity command group.
func NewActivityCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "activity",
		Aliases: []string{"activities"},
		Short:   "Create, list and change activities",
	}

	cmd.AddCommand(newActivityAddCommand(rootOpts))
	cmd.AddCommand(newActivityListCommand(rootOpts))
	cmd.AddCommand(newActivityRescheduleCommand(rootOpts))
	cmd.AddCommand(newActivityStatusCommand(rootOpts))
	cmd.AddCommand(newActivityDeleteCommand(rootOpts))
	return cmd
}

// activityAddOptions holds flags for "activity add".
type activityAddOptions struct {
	ID          string
	Name        string
	Type        string
	Start       string
	End         string
	Status      string
	Location    string
	Description string
}

// createdActivity is the JSON payload of "activity add".
type createdActivity struct {
	Activity  model.Activity  `json:"activity"`
	Checklist model.Checklist `json:"checklist"`
}

func newActivityAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &activityAddOptions{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an activity and generate its checklist",
		Args:  cobra.NoArgs,
		RunE: withEnv(rootOpts, func(cmd *cobra.Command, args []string, e *env) error {
			a, err := opts.activity()
			if err != nil {
				return err
			}
			a, cl, err := e.svc.CreateActivity(cmd.Context(), a)
			if err != nil {
				return err
			}
			return e.out.Success(createdActivity{Activity: a, Checklist: cl}, func(w io.Writer) {
				fmt.Fprintf(w, "Created %s %q (%s) starting %s\n", a.Type, a.Name, a.ID, a.StartDate)
				fmt.Fprintf(w, "Checklist %s: %d items from template %s, %d overdue\n",
					cl.ID, cl.TotalCount, cl.ProcedureTemplateID, cl.OverdueCount)
			})
		}),
	}

	cmd.Flags().StringVar(&opts.ID, "id", "", "activity id (default: generated)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "activity name")
	cmd.Flags().StringVar(&opts.Type, "type", "", "activity type, selects the template")
	cmd.Flags().StringVar(&opts.Start, "start", "", "start date yyyy-MM-dd")
	cmd.Flags().StringVar(&opts.End, "end", "", "end date yyyy-MM-dd")
	cmd.Flags().StringVar(&opts.Status, "status", string(model.ActivityPlanning), "initial status")
	cmd.Flags().StringVar(&opts.Location, "location", "", "location")
	cmd.Flags().StringVar(&opts.Description, "description", "", "description")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

// activity converts the flags into an activity.
func (o *activityAddOptions) activity() (model.Activity, error) {
	start, err := caldate.Parse(o.Start)
	if err != nil {
		return model.Activity{}, fmt.Errorf("--start: %w", err)
	}
	var end caldate.Date
	if o.End != "" {
		if end, err = caldate.Parse(o.End); err != nil {
			return model.Activity{}, fmt.Errorf("--end: %w", err)
		}
		if end.Before(start) {
			return model.Activity{}, fmt.Errorf("--end %s is before --start %s", end, start)
		}
	}
	return model.Activity{
		ID:          o.ID,
		Name:        o.Name,
		Type:        o.Type,
		StartDate:   start,
		EndDate:     end,
		Status:      model.ActivityStatus(o.Status),
		Location:    o.Location,
		Description: o.Description,
	}, nil
}

func newActivityListCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		status string
		typ    string
		query  string
		all    bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List activities by start date",
		Args:  cobra.NoArgs,
		RunE: withEnv(rootOpts, func(cmd *cobra.Command, args []string, e *env) error {
			filter := store.ActivityFilter{Open: !all}
			if status != "" {
				s := model.ActivityStatus(status)
				filter.Status = &s
				filter.Open = false
			}
			if typ != "" {
				filter.Type = &typ
			}
			if query != "" {
				filter.Query = &query
			}

			activities, err := e.svc.Activities(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if activities == nil {
				activities = []model.Activity{}
			}

			today := e.svc.Today()
			return e.out.Success(activities, func(w io.Writer) {
				if len(activities) == 0 {
					fmt.Fprintln(w, "No activities.")
					return
				}
				t := newTable("ID", "Name", "Type", "Start", "Status", "Starts")
				for _, a := range activities {
					t.Row(a.ID, a.Name, a.Type, a.StartDate.String(),
						theme.ActivityStatusStyle(string(a.Status)).Render(string(a.Status)),
						startsLabel(a.StartDate, today))
				}
				fmt.Fprintln(w, t.Render())
			})
		}),
	}

	cmd.Flags().StringVar(&status, "status", "", "only this status")
	cmd.Flags().StringVar(&typ, "type", "", "only this activity type")
	cmd.Flags().StringVarP(&query, "query", "q", "", "search name, description and location")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include completed and cancelled activities")

	return cmd
}

// startsLabel describes a start date relative to today.
func startsLabel(start, today caldate.Date) string {
	days := today.DaysUntil(start)
	switch {
	case days == 0:
		return "today"
	case days > 0:
		return "in " + caldate.Pluralize(days)
	default:
		return caldate.Pluralize(-days) + " ago"
	}
}

func newActivityRescheduleCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reschedule <activity-id> <start-date>",
		Short: "Move an activity and shift its checklist dates",
		Args:  cobra.ExactArgs(2),
		RunE: withEnv(rootOpts, func(cmd *cobra.Command, args []string, e *env) error {
			start, err := caldate.Parse(args[1])
			if err != nil {
				return err
			}
			prev, err := e.svc.Activity(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a, err := e.svc.Reschedule(cmd.Context(), args[0], start)
			if err != nil {
				return err
			}
			cl, err := e.svc.Checklist(cmd.Context(), a.ID)
			if err != nil {
				return err
			}
			return e.out.Success(createdActivity{Activity: a, Checklist: cl}, func(w io.Writer) {
				fmt.Fprintf(w, "Rescheduled %q from %s to %s (%+d days)\n",
					a.Name, prev.StartDate, a.StartDate, prev.StartDate.DaysUntil(a.StartDate))
				fmt.Fprintf(w, "%d of %d items done, %d overdue\n",
					cl.CompletedCount, cl.TotalCount, cl.OverdueCount)
			})
		}),
	}
}

func newActivityStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "status <activity-id> <status>",
		Short:     "Change an activity's status",
		Args:      cobra.ExactArgs(2),
		ValidArgs: activityStatusNames(),
		RunE: withEnv(rootOpts, func(cmd *cobra.Command, args []string, e *env) error {
			a, err := e.svc.SetActivityStatus(cmd.Context(), args[0], model.ActivityStatus(args[1]))
			if err != nil {
				return err
			}
			return e.out.Success(a, func(w io.Writer) {
				fmt.Fprintf(w, "%q is now %s\n", a.Name, a.Status)
			})
		}),
	}
}

func activityStatusNames() []string {
	names := make([]string, len(model.ActivityStatuses))
	for i, s := range model.ActivityStatuses {
		names[i] = string(s)
	}
	return names
}

func newActivityDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <activity-id>",
		Short: "Delete an activity and its checklist",
		Args:  cobra.ExactArgs(1),
		RunE: withEnv(rootOpts, func(cmd *cobra.Command, args []string, e *env) error {
			if err := e.svc.DeleteActivity(cmd.Context(), args[0]); err != nil {
				return err
			}
			return e.out.Success(map[string]string{"deleted": args[0]}, func(w io.Writer) {
				fmt.Fprintf(w, "Deleted %s\n", args[0])
			})
		}),
	}
}

// progressLine summarizes a checklist in one line.
func progressLine(cl model.Checklist) string {
	pct := checklist.ProgressPercent(cl)
	return fmt.Sprintf("%s %3d%%  %d/%d done, %d overdue",
		theme.ProgressBar(pct, 20), pct, cl.CompletedCount, cl.TotalCount, cl.OverdueCount)
}
