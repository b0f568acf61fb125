package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nhle/activity-planner/internal/checklist"
	"github.com/nhle/activity-planner/internal/model"
)

// NewItemCommand creates the item command group.
func NewItemCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Update checklist items",
	}
	cmd.AddCommand(newItemSetCommand(rootOpts))
	cmd.AddCommand(newItemDoneCommand(rootOpts))
	return cmd
}

// itemSetOptions holds flags for "item set".
type itemSetOptions struct {
	Status     string
	Assignee   string
	Approval   string
	Note       string
	Attachment string
	Actor      string
}

// patch builds an ItemPatch from the flags the user actually set.
func (o *itemSetOptions) patch(cmd *cobra.Command) checklist.ItemPatch {
	p := checklist.ItemPatch{
		Note:       o.Note,
		Attachment: o.Attachment,
		ActorID:    o.Actor,
	}
	if cmd.Flags().Changed("status") {
		s := model.ItemStatus(o.Status)
		p.Status = &s
	}
	if cmd.Flags().Changed("assignee") {
		p.AssigneeID = &o.Assignee
	}
	if cmd.Flags().Changed("approval") {
		a := model.ApprovalStatus(o.Approval)
		p.ApprovalStatus = &a
	}
	return p
}

func newItemSetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &itemSetOptions{}

	cmd := &cobra.Command{
		Use:   "set <activity-id> <item>",
		Short: "Change an item's status, assignee or approval, or add a note",
		Long: `Change one checklist item. The item may be given as its id, its task id
or a unique id prefix. Only the flags that are passed are applied.`,
		Example: `  planner item set act-1 invite --status completed --actor dana
  planner item set act-1 slides --approval approved --actor lee
  planner item set act-1 3f2a --note "venue confirmed"`,
		Args: cobra.ExactArgs(2),
		RunE: withEnv(rootOpts, func(cmd *cobra.Command, args []string, e *env) error {
			patch := opts.patch(cmd)
			if patch.Status == nil && patch.AssigneeID == nil && patch.ApprovalStatus == nil &&
				patch.Note == "" && patch.Attachment == "" {
				return WrapExitError(ExitCommandError, "nothing to change",
					fmt.Errorf("pass at least one of --status, --assignee, --approval, --note, --attach"))
			}
			return updateItem(cmd, e, args[0], args[1], patch)
		}),
	}

	cmd.Flags().StringVar(&opts.Status, "status", "", "not_started|in_progress|completed|blocked|skipped")
	cmd.Flags().StringVar(&opts.Assignee, "assignee", "", "assignee id (empty clears)")
	cmd.Flags().StringVar(&opts.Approval, "approval", "", "pending|approved|rejected")
	cmd.Flags().StringVar(&opts.Note, "note", "", "append a note")
	cmd.Flags().StringVar(&opts.Attachment, "attach", "", "append an attachment reference")
	cmd.Flags().StringVar(&opts.Actor, "actor", "", "who is making the change")

	return cmd
}

func newItemDoneCommand(rootOpts *RootOptions) *cobra.Command {
	var actor string

	cmd := &cobra.Command{
		Use:   "done <activity-id> <item>",
		Short: "Mark an item completed",
		Args:  cobra.ExactArgs(2),
		RunE: withEnv(rootOpts, func(cmd *cobra.Command, args []string, e *env) error {
			s := model.ItemCompleted
			return updateItem(cmd, e, args[0], args[1], checklist.ItemPatch{Status: &s, ActorID: actor})
		}),
	}
	cmd.Flags().StringVar(&actor, "actor", "", "who completed the item")
	return cmd
}

func updateItem(cmd *cobra.Command, e *env, activityID, ref string, patch checklist.ItemPatch) error {
	item, err := loadItem(cmd.Context(), e, activityID, ref)
	if err != nil {
		return err
	}
	cl, err := e.svc.UpdateItem(cmd.Context(), activityID, item.ID, patch)
	if err != nil {
		return err
	}
	updated, _ := cl.Item(item.ID)

	return e.out.Success(updated, func(w io.Writer) {
		fmt.Fprintf(w, "%s: %s\n", updated.Title, statusCell(updated.Status))
		if updated.ApprovalStatus != model.ApprovalNone {
			fmt.Fprintf(w, "Approval: %s\n", updated.ApprovalStatus)
		}
		if updated.AssigneeID != "" {
			fmt.Fprintf(w, "Assignee: %s\n", updated.AssigneeID)
		}
		fmt.Fprintln(w, progressLine(cl))
	})
}
