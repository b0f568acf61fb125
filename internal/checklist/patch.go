package checklist

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/activity-planner/internal/model"
)

var (
	// ErrItemNotFound is returned when a patch names an unknown item.
	ErrItemNotFound = errors.New("checklist item not found")

	// ErrInvalidStatus is returned for an unknown item or approval status.
	ErrInvalidStatus = errors.New("invalid status")
)

// ItemPatch is a partial update of one checklist item. Nil fields are left
// as they are.
type ItemPatch struct {
	Status         *model.ItemStatus
	AssigneeID     *string
	ApprovalStatus *model.ApprovalStatus
	Note           string
	Attachment     string

	// ActorID is recorded as completer, approver or note author.
	ActorID string
}

// ApplyPatch returns a copy of cl with patch applied to the item itemID.
// Completion and approval timestamps follow status transitions. The cached
// counts are not refreshed; callers run UpdateCounts afterwards.
func ApplyPatch(cl model.Checklist, itemID string, patch ItemPatch, now time.Time) (model.Checklist, error) {
	idx := slices.IndexFunc(cl.Items, func(it model.ChecklistItem) bool {
		return it.ID == itemID
	})
	if idx < 0 {
		return model.Checklist{}, fmt.Errorf("patching item %s: %w", itemID, ErrItemNotFound)
	}

	item := cl.Items[idx]

	if patch.Status != nil {
		if !patch.Status.Valid() {
			return model.Checklist{}, fmt.Errorf("patching item %s: %w %q", itemID, ErrInvalidStatus, *patch.Status)
		}
		item = transition(item, *patch.Status, patch.ActorID, now)
	}

	if patch.ApprovalStatus != nil {
		switch *patch.ApprovalStatus {
		case model.ApprovalApproved, model.ApprovalRejected:
			t := now
			item.ApprovalStatus = *patch.ApprovalStatus
			item.ApprovedByID = patch.ActorID
			item.ApprovedAt = &t
		case model.ApprovalPending, model.ApprovalNone:
			item.ApprovalStatus = *patch.ApprovalStatus
			item.ApprovedByID = ""
			item.ApprovedAt = nil
		default:
			return model.Checklist{}, fmt.Errorf("patching item %s: %w %q", itemID, ErrInvalidStatus, *patch.ApprovalStatus)
		}
	}

	if patch.AssigneeID != nil {
		item.AssigneeID = *patch.AssigneeID
	}

	if text := strings.TrimSpace(patch.Note); text != "" {
		item.Notes = append(slices.Clone(item.Notes), model.Note{
			ID:        uuid.New().String(),
			Text:      text,
			AuthorID:  patch.ActorID,
			CreatedAt: now,
		})
	}

	if ref := strings.TrimSpace(patch.Attachment); ref != "" {
		item.Attachments = append(slices.Clone(item.Attachments), ref)
	}

	out := cl
	out.Items = slices.Clone(cl.Items)
	out.Items[idx] = item
	out.UpdatedAt = now
	return out, nil
}

// transition moves item to status, keeping completion fields consistent:
// entering completed stamps them once, leaving completed clears them.
// Completing an item that needs sign-off puts it up for approval.
func transition(item model.ChecklistItem, status model.ItemStatus, actor string, now time.Time) model.ChecklistItem {
	item.Status = status

	if status == model.ItemCompleted {
		if item.CompletedAt == nil {
			t := now
			item.CompletedAt = &t
			item.CompletedByID = actor
		}
		if item.RequiresApproval && item.ApprovalStatus == model.ApprovalNone {
			item.ApprovalStatus = model.ApprovalPending
		}
		return item
	}

	item.CompletedAt = nil
	item.CompletedByID = ""
	return item
}

// NextStatus returns the status after s in the cycling order used by
// interactive views.
func NextStatus(s model.ItemStatus) model.ItemStatus {
	i := slices.Index(model.ItemStatuses, s)
	return model.ItemStatuses[(i+1)%len(model.ItemStatuses)]
}
