package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nhle/activity-planner/internal/model"
	"github.com/nhle/activity-planner/internal/notify"
	"github.com/nhle/activity-planner/internal/reminder"
	"github.com/nhle/activity-planner/internal/theme"
)

// NewRemindersCommand creates the reminders command.
func NewRemindersCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		all    bool
		digest bool
		to     []string
	)

	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "Show today's reminders",
		Long: `Show reminders derived from every open activity for today: overdue tasks,
tasks whose reminder date is today, and activities starting soon.

With --digest the reminders are written to stdout as a MIME mail message
addressed to digest.to (or --to), ready to pipe into sendmail.`,
		Args: cobra.NoArgs,
		RunE: withEnv(rootOpts, func(cmd *cobra.Command, args []string, e *env) error {
			rems, err := e.svc.Reminders(cmd.Context())
			if err != nil {
				return err
			}

			if digest {
				recipients := e.cfg.Digest.To
				if len(to) > 0 {
					recipients = to
				}
				e.logger.Debug("writing digest", "to", recipients, "reminders", len(rems))
				return notify.WriteDigest(cmd.OutOrStdout(), notify.Digest{
					From:      e.cfg.Digest.From,
					To:        recipients,
					Date:      e.svc.Now(),
					Today:     e.svc.Today(),
					Reminders: rems,
				})
			}

			if !all {
				rems = reminder.Active(rems)
			}
			return e.out.Success(rems, func(w io.Writer) {
				renderReminders(w, rems)
			})
		}),
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "include dismissed reminders")
	cmd.Flags().BoolVar(&digest, "digest", false, "write a mail digest instead of a table")
	cmd.Flags().StringSliceVar(&to, "to", nil, "digest recipients (overrides digest.to)")

	cmd.AddCommand(newReminderFlagCommand(rootOpts, "read", "Mark a reminder read"))
	cmd.AddCommand(newReminderFlagCommand(rootOpts, "dismiss", "Dismiss a reminder"))
	return cmd
}

func renderReminders(w io.Writer, rems []model.Reminder) {
	if len(rems) == 0 {
		fmt.Fprintln(w, "No reminders.")
		return
	}
	t := newTable("", "ID", "Type", "Title", "Message")
	for _, r := range rems {
		mark := " "
		if !r.IsRead {
			mark = "*"
		}
		if r.IsDismissed {
			mark = "x"
		}
		t.Row(mark, r.ID, theme.ReminderTypeStyle(string(r.Type)).Render(string(r.Type)), r.Title, r.Message)
	}
	fmt.Fprintln(w, t.Render())
	fmt.Fprintf(w, "%d unread\n", reminder.Unread(rems))
}

func newReminderFlagCommand(rootOpts *RootOptions, action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " <reminder-id>...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: withEnv(rootOpts, func(cmd *cobra.Command, args []string, e *env) error {
			for _, id := range args {
				var err error
				if action == "dismiss" {
					err = e.svc.DismissReminder(cmd.Context(), id)
				} else {
					err = e.svc.MarkReminderRead(cmd.Context(), id)
				}
				if err != nil {
					return err
				}
			}
			return e.out.Success(map[string]interface{}{action: args}, func(w io.Writer) {
				for _, id := range args {
					fmt.Fprintf(w, "%s: %s\n", action, id)
				}
			})
		}),
	}
}
