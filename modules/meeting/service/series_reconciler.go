package service

import (
	"context"
	"time"

	"workspace-api/core/errors"
	"workspace-api/core/logger"
	"workspace-api/modules/meeting/entity"
	"workspace-api/modules/meeting/repository"

	"github.com/google/uuid"
)

// SeriesReconciler diffs a desired occurrence list against the persisted
// members of a series and applies the minimal create/update/delete set.
type SeriesReconciler struct {
	meetings repository.MeetingRepositoryInterface
}

func NewSeriesReconciler(meetings repository.MeetingRepositoryInterface) *SeriesReconciler {
	return &SeriesReconciler{meetings: meetings}
}

// Reconcile aligns the series under head with desired. Existing members are
// matched to desired positions in date order: matched rows get the position's
// date and index, missing positions become inserts cloned from the head, and
// surplus rows are deleted unless listed in preserveIDs (the split flow uses
// that to protect the instance being detached). Updates run before inserts
// and deletes so a row moving into a slot never collides with one scheduled
// for deletion at that slot.
//
// Non-head positions also take the head's title and location, so editing the
// head cascades to the rest of the series. The head's own descriptive fields
// are never touched here.
//
// Returns the ids of inserted rows so the caller can propagate templates
// onto them.
func (r *SeriesReconciler) Reconcile(ctx context.Context, head *entity.Meeting, desired []time.Time, preserveIDs []uuid.UUID) ([]uuid.UUID, *errors.AppError) {
	children, err := r.meetings.GetChildren(ctx, head.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStorage, "failed to load series members", err)
	}

	existing := make([]*entity.Meeting, 0, len(children)+1)
	existing = append(existing, head)
	for i := range children {
		existing = append(existing, &children[i])
	}

	preserved := make(map[uuid.UUID]bool, len(preserveIDs))
	for _, id := range preserveIDs {
		preserved[id] = true
	}

	var updates []*entity.Meeting
	var inserts []*entity.Meeting
	var deletes []uuid.UUID

	for i := range desired {
		occurrence := desired[i]
		if i < len(existing) {
			member := existing[i]
			var wantParent *uuid.UUID
			if i > 0 {
				wantParent = &head.ID
			}

			dirty := member.StartsAt == nil ||
				!member.StartsAt.Equal(occurrence) ||
				member.InstanceIndex != i+1 ||
				!uuidPtrEqual(member.RecurrenceParentID, wantParent)
			if i > 0 && (member.Title != head.Title || !strPtrEqual(member.Location, head.Location)) {
				dirty = true
			}
			if !dirty {
				continue
			}

			member.StartsAt = &occurrence
			member.InstanceIndex = i + 1
			member.RecurrenceParentID = wantParent
			if i > 0 {
				member.Title = head.Title
				member.Location = head.Location
			}
			updates = append(updates, member)
			continue
		}

		inserts = append(inserts, &entity.Meeting{
			UserID:             head.UserID,
			Title:              head.Title,
			Location:           head.Location,
			DurationMinutes:    head.DurationMinutes,
			StartsAt:           &occurrence,
			RecurrenceParentID: &head.ID,
			InstanceIndex:      i + 1,
		})
	}

	for j := len(desired); j < len(existing); j++ {
		if preserved[existing[j].ID] {
			continue
		}
		deletes = append(deletes, existing[j].ID)
	}

	logger.Debug("SeriesReconciler:Reconcile",
		"series_head_id", head.ID,
		"desired", len(desired),
		"updates", len(updates),
		"inserts", len(inserts),
		"deletes", len(deletes),
	)

	for _, member := range updates {
		if err := r.meetings.Update(ctx, member); err != nil {
			return nil, errors.NewAppError(errors.ErrStorage, "failed to update series member", err)
		}
	}

	insertedIDs := make([]uuid.UUID, 0, len(inserts))
	for _, member := range inserts {
		if err := r.meetings.Insert(ctx, member); err != nil {
			return nil, errors.NewAppError(errors.ErrStorage, "failed to insert series member", err)
		}
		insertedIDs = append(insertedIDs, member.ID)
	}

	if err := r.meetings.DeleteByIDs(ctx, deletes); err != nil {
		return nil, errors.NewAppError(errors.ErrStorage, "failed to delete surplus series members", err)
	}

	return insertedIDs, nil
}

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
