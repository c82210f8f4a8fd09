package service

import (
	"context"

	"workspace-api/core/errors"
	"workspace-api/modules/meeting/entity"
	"workspace-api/modules/meeting/repository"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// TemplatePropagator copies the series head's attendee and tag associations
// onto newly created series members. Copies are independent rows: editing one
// instance's attendee list never touches another's.
type TemplatePropagator struct {
	attendees repository.AttendeeRepositoryInterface
	tags      repository.TagRepositoryInterface
}

func NewTemplatePropagator(attendees repository.AttendeeRepositoryInterface, tags repository.TagRepositoryInterface) *TemplatePropagator {
	return &TemplatePropagator{attendees: attendees, tags: tags}
}

// CopyTemplates loads the head's attendee and tag rows (two independent
// reads, issued concurrently) and inserts one copy per target meeting,
// preserving role and status. No-ops cleanly when there is nothing to copy.
func (p *TemplatePropagator) CopyTemplates(ctx context.Context, sourceHeadID uuid.UUID, targetIDs []uuid.UUID) *errors.AppError {
	if len(targetIDs) == 0 {
		return nil
	}

	var (
		attendees []entity.MeetingAttendee
		tagLinks  []entity.MeetingTag
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		attendees, err = p.attendees.ListByMeetingID(groupCtx, sourceHeadID)
		return err
	})
	group.Go(func() error {
		var err error
		tagLinks, err = p.tags.ListAssociationsByMeetingID(groupCtx, sourceHeadID)
		return err
	})
	if err := group.Wait(); err != nil {
		return errors.NewAppError(errors.ErrStorage, "failed to load series templates", err)
	}

	if len(attendees) == 0 && len(tagLinks) == 0 {
		return nil
	}

	attendeeCopies := make([]entity.MeetingAttendee, 0, len(attendees)*len(targetIDs))
	tagCopies := make([]entity.MeetingTag, 0, len(tagLinks)*len(targetIDs))
	for _, targetID := range targetIDs {
		for _, attendee := range attendees {
			attendeeCopies = append(attendeeCopies, entity.MeetingAttendee{
				MeetingID: targetID,
				ContactID: attendee.ContactID,
				Role:      attendee.Role,
				Status:    attendee.Status,
			})
		}
		for _, link := range tagLinks {
			tagCopies = append(tagCopies, entity.MeetingTag{
				MeetingID: targetID,
				TagID:     link.TagID,
			})
		}
	}

	if err := p.attendees.BulkInsert(ctx, attendeeCopies); err != nil {
		return errors.NewAppError(errors.ErrStorage, "failed to copy attendees", err)
	}
	if err := p.tags.BulkInsertAssociations(ctx, tagCopies); err != nil {
		return errors.NewAppError(errors.ErrStorage, "failed to copy tags", err)
	}
	return nil
}
