package service

import (
	"context"

	"workspace-api/core/cache"
	"workspace-api/core/database"
	"workspace-api/core/errors"
	"workspace-api/core/logger"
	"workspace-api/modules/meeting/dto"
	"workspace-api/modules/meeting/entity"
	"workspace-api/modules/meeting/repository"

	"github.com/google/uuid"
)

// RecurrenceServiceInterface is the entry point for recurrence edits.
type RecurrenceServiceInterface interface {
	UpsertRecurrence(ctx context.Context, userID, meetingID uuid.UUID, req *dto.UpsertRecurrenceRequest) (*dto.RecurrenceResponse, *errors.AppError)
	DeleteRecurrence(ctx context.Context, userID, meetingID uuid.UUID) *errors.AppError
}

// RecurrenceService orchestrates rule writes, occurrence generation, series
// reconciliation and template propagation. Every edit runs inside one
// database transaction holding a per-series advisory lock, so a failed step
// rolls the whole edit back and concurrent edits to one series serialize.
type RecurrenceService struct {
	db        database.IDatabase
	meetings  repository.MeetingRepositoryInterface
	rules     repository.RecurrenceRepositoryInterface
	attendees repository.AttendeeRepositoryInterface
	tags      repository.TagRepositoryInterface
	generator *OccurrenceGenerator
	cache     cache.Invalidator
}

func NewRecurrenceService(
	db database.IDatabase,
	meetings repository.MeetingRepositoryInterface,
	rules repository.RecurrenceRepositoryInterface,
	attendees repository.AttendeeRepositoryInterface,
	tags repository.TagRepositoryInterface,
	generator *OccurrenceGenerator,
	viewCache cache.Invalidator,
) RecurrenceServiceInterface {
	return &RecurrenceService{
		db:        db,
		meetings:  meetings,
		rules:     rules,
		attendees: attendees,
		tags:      tags,
		generator: generator,
		cache:     viewCache,
	}
}

// UpsertRecurrence creates or replaces the recurrence configuration of a
// meeting's series. Scope "series" rewrites the whole series; "following"
// splits it at the edited instance.
func (s *RecurrenceService) UpsertRecurrence(ctx context.Context, userID, meetingID uuid.UUID, req *dto.UpsertRecurrenceRequest) (*dto.RecurrenceResponse, *errors.AppError) {
	scope := dto.EditScope(req.Scope)
	if scope == "" {
		scope = dto.EditScopeSeries
	}
	if scope != dto.EditScopeSeries && scope != dto.EditScopeFollowing {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "unknown edit scope", nil)
	}

	var resp *dto.RecurrenceResponse
	txErr := s.db.Transact(ctx, func(tx database.IDatabase) error {
		meetings := s.meetings.WithTx(tx)
		rules := s.rules.WithTx(tx)
		reconciler := NewSeriesReconciler(meetings)
		propagator := NewTemplatePropagator(s.attendees.WithTx(tx), s.tags.WithTx(tx))

		target, head, appErr := s.resolveSeries(ctx, meetings, userID, meetingID)
		if appErr != nil {
			return appErr
		}

		if err := meetings.LockSeries(ctx, head.ID); err != nil {
			return errors.NewAppError(errors.ErrStorage, "failed to lock series", err)
		}

		// Editing the head "from this point forward" is just the whole
		// series; there is no earlier portion to preserve.
		if scope == dto.EditScopeFollowing && target.ID == head.ID {
			scope = dto.EditScopeSeries
		}

		var generated int
		if scope == dto.EditScopeSeries {
			generated, appErr = s.applySeriesEdit(ctx, rules, reconciler, propagator, head, &req.Rule)
		} else {
			generated, scope, appErr = s.applySplitEdit(ctx, meetings, rules, reconciler, propagator, head, target, &req.Rule)
		}
		if appErr != nil {
			return appErr
		}

		resp = &dto.RecurrenceResponse{
			MeetingID:      meetingID.String(),
			Scope:          string(scope),
			GeneratedCount: generated,
		}
		return nil
	})
	if txErr != nil {
		return nil, asAppError(txErr)
	}

	if s.cache != nil {
		s.cache.InvalidateMeetings(ctx, userID)
	}

	logger.Info("RecurrenceService:UpsertRecurrence:Success",
		"user_id", userID,
		"meeting_id", meetingID,
		"scope", resp.Scope,
		"generated_count", resp.GeneratedCount,
	)
	return resp, nil
}

// DeleteRecurrence removes the recurrence configuration from a series,
// collapsing it back to the single head meeting.
func (s *RecurrenceService) DeleteRecurrence(ctx context.Context, userID, meetingID uuid.UUID) *errors.AppError {
	txErr := s.db.Transact(ctx, func(tx database.IDatabase) error {
		meetings := s.meetings.WithTx(tx)
		rules := s.rules.WithTx(tx)
		attendees := s.attendees.WithTx(tx)
		tags := s.tags.WithTx(tx)

		_, head, appErr := s.resolveSeries(ctx, meetings, userID, meetingID)
		if appErr != nil {
			return appErr
		}

		if err := meetings.LockSeries(ctx, head.ID); err != nil {
			return errors.NewAppError(errors.ErrStorage, "failed to lock series", err)
		}

		children, err := meetings.GetChildren(ctx, head.ID)
		if err != nil {
			return errors.NewAppError(errors.ErrStorage, "failed to load series members", err)
		}

		childIDs := make([]uuid.UUID, 0, len(children))
		for _, child := range children {
			childIDs = append(childIDs, child.ID)
		}

		if err := attendees.DeleteByMeetingIDs(ctx, childIDs); err != nil {
			return errors.NewAppError(errors.ErrStorage, "failed to delete series attendees", err)
		}
		if err := tags.DeleteAssociationsByMeetingIDs(ctx, childIDs); err != nil {
			return errors.NewAppError(errors.ErrStorage, "failed to delete series tags", err)
		}
		if err := meetings.DeleteByIDs(ctx, childIDs); err != nil {
			return errors.NewAppError(errors.ErrStorage, "failed to delete series members", err)
		}
		if err := rules.DeleteByMeetingID(ctx, head.ID); err != nil {
			return errors.NewAppError(errors.ErrStorage, "failed to delete recurrence rule", err)
		}
		return nil
	})
	if txErr != nil {
		return asAppError(txErr)
	}

	if s.cache != nil {
		s.cache.InvalidateMeetings(ctx, userID)
	}

	logger.Info("RecurrenceService:DeleteRecurrence:Success", "user_id", userID, "meeting_id", meetingID)
	return nil
}

// resolveSeries loads the target meeting and its series head. A meeting with
// no parent is its own head.
func (s *RecurrenceService) resolveSeries(ctx context.Context, meetings repository.MeetingRepositoryInterface, userID, meetingID uuid.UUID) (*entity.Meeting, *entity.Meeting, *errors.AppError) {
	target, err := meetings.GetByID(ctx, userID, meetingID)
	if err != nil {
		return nil, nil, errors.NewAppError(errors.ErrStorage, "failed to load meeting", err)
	}
	if target == nil {
		return nil, nil, errors.NewAppError(errors.ErrNotFound, "meeting not found", nil)
	}

	head := target
	if target.RecurrenceParentID != nil {
		head, err = meetings.GetByID(ctx, userID, *target.RecurrenceParentID)
		if err != nil {
			return nil, nil, errors.NewAppError(errors.ErrStorage, "failed to load series head", err)
		}
		if head == nil {
			return nil, nil, errors.NewAppError(errors.ErrNotFound, "series head not found", nil)
		}
	}
	return target, head, nil
}

// applySeriesEdit anchors the rule at the head and rewrites the whole series.
func (s *RecurrenceService) applySeriesEdit(
	ctx context.Context,
	rules repository.RecurrenceRepositoryInterface,
	reconciler *SeriesReconciler,
	propagator *TemplatePropagator,
	head *entity.Meeting,
	input *dto.RecurrenceRuleInput,
) (int, *errors.AppError) {
	if head.StartsAt == nil {
		return 0, errors.NewAppError(errors.ErrInvalidInput, "meeting has no scheduled date", nil)
	}

	rule := dto.ToRecurrenceRule(input, head.ID, *head.StartsAt)
	if appErr := rule.Validate(); appErr != nil {
		return 0, appErr
	}
	if err := rules.Upsert(ctx, rule); err != nil {
		return 0, errors.NewAppError(errors.ErrStorage, "failed to save recurrence rule", err)
	}

	occurrences, appErr := s.generator.Generate(rule)
	if appErr != nil {
		return 0, appErr
	}

	insertedIDs, appErr := reconciler.Reconcile(ctx, head, occurrences, nil)
	if appErr != nil {
		return 0, appErr
	}

	if appErr := propagator.CopyTemplates(ctx, head.ID, insertedIDs); appErr != nil {
		return 0, appErr
	}
	return len(occurrences), nil
}

// applySplitEdit ends the original series just before the target instance and
// starts a new, independently configured series at it. The original head's
// rule is truncated in place, the target is detached as the new head, and
// templates from the original head are copied onto inserts on both sides.
// The returned scope is the edit that was actually performed: a split that
// degenerates into a whole-series rewrite reports EditScopeSeries.
func (s *RecurrenceService) applySplitEdit(
	ctx context.Context,
	meetings repository.MeetingRepositoryInterface,
	rules repository.RecurrenceRepositoryInterface,
	reconciler *SeriesReconciler,
	propagator *TemplatePropagator,
	head *entity.Meeting,
	target *entity.Meeting,
	input *dto.RecurrenceRuleInput,
) (int, dto.EditScope, *errors.AppError) {
	existingRule, err := rules.GetByMeetingID(ctx, head.ID)
	if err != nil {
		return 0, dto.EditScopeFollowing, errors.NewAppError(errors.ErrStorage, "failed to load recurrence rule", err)
	}
	if existingRule == nil {
		return 0, dto.EditScopeFollowing, errors.NewAppError(errors.ErrNotFound, "no recurrence configured for this series", nil)
	}

	original, appErr := s.generator.Generate(existingRule)
	if appErr != nil {
		return 0, dto.EditScopeFollowing, appErr
	}

	// Locate the target instance in the original sequence by exact instant.
	splitIndex := -1
	if target.StartsAt != nil {
		for i, occurrence := range original {
			if occurrence.Equal(*target.StartsAt) {
				splitIndex = i
				break
			}
		}
	}
	// Splitting at the first occurrence (or an unmatched date) leaves
	// nothing to preserve; treat it as a whole-series update.
	if splitIndex <= 0 {
		generated, appErr := s.applySeriesEdit(ctx, rules, reconciler, propagator, head, input)
		return generated, dto.EditScopeSeries, appErr
	}

	keepOccurrences := original[:splitIndex]

	// Truncate the original rule so it ends exactly at the kept portion.
	if existingRule.EndType == entity.RecurrenceEndAfter {
		existingRule.OccurrenceCount = len(keepOccurrences)
	} else {
		lastKept := keepOccurrences[len(keepOccurrences)-1]
		existingRule.EndDate = &lastKept
	}
	if err := rules.Update(ctx, existingRule); err != nil {
		return 0, dto.EditScopeFollowing, errors.NewAppError(errors.ErrStorage, "failed to truncate recurrence rule", err)
	}

	// The target becomes an independent series head.
	target.RecurrenceParentID = nil
	target.InstanceIndex = 1
	if err := meetings.Update(ctx, target); err != nil {
		return 0, dto.EditScopeFollowing, errors.NewAppError(errors.ErrStorage, "failed to detach split meeting", err)
	}

	// Members after the split point belong to the superseded tail.
	children, err := meetings.GetChildren(ctx, head.ID)
	if err != nil {
		return 0, dto.EditScopeFollowing, errors.NewAppError(errors.ErrStorage, "failed to load series members", err)
	}
	var supersededIDs []uuid.UUID
	for i := range children {
		child := &children[i]
		if child.ID == target.ID || child.StartsAt == nil {
			continue
		}
		if child.StartsAt.After(*target.StartsAt) {
			supersededIDs = append(supersededIDs, child.ID)
		}
	}
	if err := meetings.DeleteByIDs(ctx, supersededIDs); err != nil {
		return 0, dto.EditScopeFollowing, errors.NewAppError(errors.ErrStorage, "failed to delete superseded series members", err)
	}

	// Shrink the original series to the kept occurrences. The detached
	// target is preserved explicitly so the truncation window can never
	// delete the anchor of the new series.
	insertedOld, appErr := reconciler.Reconcile(ctx, head, keepOccurrences, []uuid.UUID{target.ID})
	if appErr != nil {
		return 0, dto.EditScopeFollowing, appErr
	}

	newRule := dto.ToRecurrenceRule(input, target.ID, *target.StartsAt)
	if appErr := newRule.Validate(); appErr != nil {
		return 0, dto.EditScopeFollowing, appErr
	}
	if err := rules.Upsert(ctx, newRule); err != nil {
		return 0, dto.EditScopeFollowing, errors.NewAppError(errors.ErrStorage, "failed to save recurrence rule", err)
	}

	newOccurrences, appErr := s.generator.Generate(newRule)
	if appErr != nil {
		return 0, dto.EditScopeFollowing, appErr
	}

	insertedNew, appErr := reconciler.Reconcile(ctx, target, newOccurrences, nil)
	if appErr != nil {
		return 0, dto.EditScopeFollowing, appErr
	}

	insertedIDs := append(insertedOld, insertedNew...)
	if appErr := propagator.CopyTemplates(ctx, head.ID, insertedIDs); appErr != nil {
		return 0, dto.EditScopeFollowing, appErr
	}
	return len(newOccurrences), dto.EditScopeFollowing, nil
}

func asAppError(err error) *errors.AppError {
	if appErr, ok := err.(*errors.AppError); ok {
		return appErr
	}
	return errors.NewAppError(errors.ErrStorage, "series update failed", err)
}
