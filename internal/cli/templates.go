package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/activity-planner/internal/model"
)

// NewTemplatesCommand creates the templates command.
func NewTemplatesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List procedure templates",
		Long: `List the procedure templates available for new activities.

Built-in templates cover trade_mission, webinar and consultation. YAML files
in templates.dir replace built-ins with the same id.`,
		Args: cobra.NoArgs,
		RunE: withEnv(rootOpts, func(cmd *cobra.Command, args []string, e *env) error {
			templates := e.svc.Registry().All()
			return e.out.Success(templates, func(w io.Writer) {
				t := newTable("ID", "Activity type", "Name", "Phases", "Tasks")
				for _, tmpl := range templates {
					t.Row(tmpl.ID, tmpl.ActivityType, tmpl.Name,
						strconv.Itoa(len(tmpl.Phases)), strconv.Itoa(tmpl.TaskCount()))
				}
				fmt.Fprintln(w, t.Render())
			})
		}),
	}

	cmd.AddCommand(newTemplateShowCommand(rootOpts))
	return cmd
}

func newTemplateShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <template-id>",
		Short: "Show the phases and tasks of a template",
		Args:  cobra.ExactArgs(1),
		RunE: withEnv(rootOpts, func(cmd *cobra.Command, args []string, e *env) error {
			tmpl, ok := e.svc.Registry().Get(args[0])
			if !ok {
				return fmt.Errorf("template %q not found", args[0])
			}
			return e.out.Success(tmpl, func(w io.Writer) {
				renderTemplate(w, tmpl)
			})
		}),
	}
}

func renderTemplate(w io.Writer, tmpl model.ProcedureTemplate) {
	fmt.Fprintf(w, "%s (%s)\n", tmpl.Name, tmpl.ActivityType)
	if tmpl.Description != "" {
		fmt.Fprintln(w, tmpl.Description)
	}

	t := newTable("Phase", "Task", "Category", "Due", "Reminders", "Flags")
	for _, phase := range tmpl.Phases {
		for _, task := range phase.Tasks {
			t.Row(phase.Name, task.Title, string(task.Category),
				formatOffset(task.DueOffset), formatReminderOffsets(task.ReminderOffsets),
				taskFlags(task))
		}
	}
	fmt.Fprintln(w, t.Render())
}

// formatOffset renders a due offset relative to the start date.
func formatOffset(days int) string {
	switch {
	case days < 0:
		return fmt.Sprintf("start-%d", -days)
	case days > 0:
		return fmt.Sprintf("start+%d", days)
	default:
		return "start"
	}
}

func formatReminderOffsets(offsets []int) string {
	parts := make([]string, len(offsets))
	for i, off := range offsets {
		parts[i] = strconv.Itoa(off) + "d"
	}
	return strings.Join(parts, ", ")
}

func taskFlags(task model.ProcedureTask) string {
	var flags []string
	if task.IsRequired {
		flags = append(flags, "required")
	}
	if task.RequiresApproval {
		flags = append(flags, "approval")
	}
	return strings.Join(flags, ", ")
}
