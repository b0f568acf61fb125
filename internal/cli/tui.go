package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/activity-planner/internal/app"
	appsync "github.com/nhle/activity-planner/internal/sync"
)

// NewTUICommand creates the interactive terminal UI command.
func NewTUICommand(rootOpts *RootOptions) *cobra.Command {
	var refresh time.Duration

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive planner",
		Long: `Open a full-screen planner with the activity dashboard, an agenda of
overdue and upcoming tasks, the reminder inbox and per-activity checklists.
Views are recomputed in the background so reminders follow the date.`,
		Args: cobra.NoArgs,
		RunE: withEnv(rootOpts, func(cmd *cobra.Command, args []string, e *env) error {
			e.logger.Debug("starting tui", "refresh", refresh)
			return app.Run(e.svc, refresh)
		}),
	}

	cmd.Flags().DurationVar(&refresh, "refresh", appsync.DefaultInterval, "background refresh interval")
	return cmd
}
