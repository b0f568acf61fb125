package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/activity-planner/internal/checklist"
	"github.com/nhle/activity-planner/internal/model"
	"github.com/nhle/activity-planner/internal/theme"
)

// checklistView is the JSON payload of the checklist command.
type checklistView struct {
	Activity  model.Activity           `json:"activity"`
	Checklist model.Checklist          `json:"checklist"`
	Phases    []checklist.PhaseSummary `json:"phases"`
	Progress  int                      `json:"progress"`
}

// NewChecklistCommand creates the checklist command.
func NewChecklistCommand(rootOpts *RootOptions) *cobra.Command {
	var openOnly bool

	cmd := &cobra.Command{
		Use:   "checklist <activity-id>",
		Short: "Show an activity's checklist grouped by phase",
		Args:  cobra.ExactArgs(1),
		RunE: withEnv(rootOpts, func(cmd *cobra.Command, args []string, e *env) error {
			a, err := e.svc.Activity(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			cl, err := e.svc.Checklist(cmd.Context(), a.ID)
			if err != nil {
				return err
			}
			tmpl, err := e.svc.Template(cl, a.Type)
			if err != nil {
				return err
			}

			view := checklistView{
				Activity:  a,
				Checklist: cl,
				Phases:    checklist.SummarizePhases(cl, tmpl),
				Progress:  checklist.ProgressPercent(cl),
			}
			today := e.svc.Today()

			return e.out.Success(view, func(w io.Writer) {
				fmt.Fprintln(w, theme.HeaderStyle.Render(fmt.Sprintf("%s (%s) starts %s", a.Name, a.Type, a.StartDate)))
				fmt.Fprintln(w, progressLine(cl))

				summaries := make(map[string]checklist.PhaseSummary, len(view.Phases))
				for _, ps := range view.Phases {
					summaries[ps.PhaseID] = ps
				}

				for _, g := range checklist.TasksByPhase(cl, tmpl) {
					ps := summaries[g.Phase.ID]
					fmt.Fprintln(w, theme.PhaseHeaderStyle.Render(
						fmt.Sprintf("%s  %d/%d %s", g.Phase.Name, ps.Completed, ps.Total, ps.State)))

					t := newTable("ID", "Task", "Status", "Due", "Assignee")
					rows := 0
					for _, item := range g.Items {
						if openOnly && item.Status.IsClosed() {
							continue
						}
						t.Row(shortID(item.ID), itemTitle(item), statusCell(item.Status),
							dueCell(checklist.FormatDueDateWithStatus(item.DueDate, today)),
							item.AssigneeID)
						rows++
					}
					if rows == 0 {
						fmt.Fprintln(w, theme.MutedStyle.Render("  (nothing to show)"))
						continue
					}
					fmt.Fprintln(w, t.Render())
				}
			})
		}),
	}

	cmd.Flags().BoolVar(&openOnly, "open", false, "hide completed and skipped items")
	return cmd
}

// itemTitle decorates a title with its required and approval markers.
func itemTitle(item model.ChecklistItem) string {
	title := item.Title
	if item.IsRequired {
		title += " *"
	}
	if item.ApprovalStatus != model.ApprovalNone {
		title += " [" + string(item.ApprovalStatus) + "]"
	}
	return title
}

// shortID trims a uuid to its first block for display.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

// resolveItem finds an item by full id, task id or unique id prefix.
func resolveItem(cl model.Checklist, ref string) (model.ChecklistItem, error) {
	if item, ok := cl.Item(ref); ok {
		return item, nil
	}
	for _, item := range cl.Items {
		if item.TaskID == ref {
			return item, nil
		}
	}

	var matches []model.ChecklistItem
	for _, item := range cl.Items {
		if strings.HasPrefix(item.ID, ref) {
			matches = append(matches, item)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return model.ChecklistItem{}, fmt.Errorf("item %q: %w", ref, checklist.ErrItemNotFound)
	default:
		return model.ChecklistItem{}, fmt.Errorf("item %q is ambiguous: %d items match", ref, len(matches))
	}
}

// loadItem resolves an item reference against an activity's checklist.
func loadItem(ctx context.Context, e *env, activityID, ref string) (model.ChecklistItem, error) {
	cl, err := e.svc.Checklist(ctx, activityID)
	if err != nil {
		return model.ChecklistItem{}, err
	}
	return resolveItem(cl, ref)
}
