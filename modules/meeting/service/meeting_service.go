package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"workspace-api/core/database"
	"workspace-api/core/errors"
	"workspace-api/core/logger"
	"workspace-api/modules/meeting/dto"
	"workspace-api/modules/meeting/entity"
	"workspace-api/modules/meeting/repository"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const (
	defaultDurationMinutes = 30
	meetingsCacheTTL       = 5 * time.Minute
)

// ViewCache is the read-through cache for meeting list views.
type ViewCache interface {
	InvalidateMeetings(ctx context.Context, userID uuid.UUID)
	GetMeetings(ctx context.Context, userID uuid.UUID) string
	SetMeetings(ctx context.Context, userID uuid.UUID, payload string, ttl time.Duration)
}

// MeetingServiceInterface defines the meeting CRUD and export surface.
type MeetingServiceInterface interface {
	CreateMeeting(ctx context.Context, userID uuid.UUID, req *dto.CreateMeetingRequest) (*dto.MeetingResponse, *errors.AppError)
	GetMeetingByID(ctx context.Context, userID, id uuid.UUID) (*dto.MeetingResponse, *errors.AppError)
	GetMyMeetings(ctx context.Context, userID uuid.UUID) ([]dto.MeetingResponse, *errors.AppError)
	UpdateMeeting(ctx context.Context, userID, id uuid.UUID, req *dto.UpdateMeetingRequest) (*dto.MeetingResponse, *errors.AppError)
	DeleteMeeting(ctx context.Context, userID, id uuid.UUID) *errors.AppError
	ExportSeriesICS(ctx context.Context, userID, id uuid.UUID) (string, *errors.AppError)
}

type MeetingService struct {
	db        database.IDatabase
	meetings  repository.MeetingRepositoryInterface
	rules     repository.RecurrenceRepositoryInterface
	attendees repository.AttendeeRepositoryInterface
	tags      repository.TagRepositoryInterface
	cache     ViewCache
}

func NewMeetingService(
	db database.IDatabase,
	meetings repository.MeetingRepositoryInterface,
	rules repository.RecurrenceRepositoryInterface,
	attendees repository.AttendeeRepositoryInterface,
	tags repository.TagRepositoryInterface,
	viewCache ViewCache,
) MeetingServiceInterface {
	return &MeetingService{
		db:        db,
		meetings:  meetings,
		rules:     rules,
		attendees: attendees,
		tags:      tags,
		cache:     viewCache,
	}
}

// CreateMeeting inserts a single meeting with its attendees and tags.
func (s *MeetingService) CreateMeeting(ctx context.Context, userID uuid.UUID, req *dto.CreateMeetingRequest) (*dto.MeetingResponse, *errors.AppError) {
	meeting := &entity.Meeting{
		UserID:          userID,
		Title:           req.Title,
		DurationMinutes: req.DurationMinutes,
		StartsAt:        req.StartsAt,
		InstanceIndex:   1,
	}
	if req.Location != "" {
		meeting.Location = &req.Location
	}
	if meeting.DurationMinutes <= 0 {
		meeting.DurationMinutes = defaultDurationMinutes
	}

	txErr := s.db.Transact(ctx, func(tx database.IDatabase) error {
		meetings := s.meetings.WithTx(tx)
		attendees := s.attendees.WithTx(tx)
		tags := s.tags.WithTx(tx)

		if err := meetings.Insert(ctx, meeting); err != nil {
			return errors.NewAppError(errors.ErrStorage, "failed to create meeting", err)
		}

		attendeeRows := make([]entity.MeetingAttendee, 0, len(req.Attendees))
		for _, input := range req.Attendees {
			contactID, parseErr := uuid.Parse(input.ContactID)
			if parseErr != nil {
				return errors.NewAppError(errors.ErrInvalidInput, "invalid contact id", parseErr)
			}
			role := entity.AttendeeRole(input.Role)
			if role == "" {
				role = entity.AttendeeRoleRequired
			}
			attendeeRows = append(attendeeRows, entity.MeetingAttendee{
				MeetingID: meeting.ID,
				ContactID: contactID,
				Role:      role,
				Status:    entity.AttendeeStatusPending,
			})
		}
		if err := attendees.BulkInsert(ctx, attendeeRows); err != nil {
			return errors.NewAppError(errors.ErrStorage, "failed to add attendees", err)
		}

		associations := make([]entity.MeetingTag, 0, len(req.Tags))
		for _, name := range req.Tags {
			tag := &entity.Tag{
				UserID: userID,
				Name:   name,
				Slug:   slug.Make(name),
			}
			if err := tags.UpsertTag(ctx, tag); err != nil {
				return errors.NewAppError(errors.ErrStorage, "failed to save tag", err)
			}
			associations = append(associations, entity.MeetingTag{
				MeetingID: meeting.ID,
				TagID:     tag.ID,
			})
		}
		if err := tags.BulkInsertAssociations(ctx, associations); err != nil {
			return errors.NewAppError(errors.ErrStorage, "failed to tag meeting", err)
		}
		return nil
	})
	if txErr != nil {
		return nil, asAppError(txErr)
	}

	if s.cache != nil {
		s.cache.InvalidateMeetings(ctx, userID)
	}
	return s.GetMeetingByID(ctx, userID, meeting.ID)
}

// GetMeetingByID returns one meeting with its attendees, tags and, for a
// series head, its recurrence rule.
func (s *MeetingService) GetMeetingByID(ctx context.Context, userID, id uuid.UUID) (*dto.MeetingResponse, *errors.AppError) {
	meeting, err := s.meetings.GetByID(ctx, userID, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStorage, "failed to load meeting", err)
	}
	if meeting == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "meeting not found", nil)
	}

	attendees, err := s.attendees.ListByMeetingID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStorage, "failed to load attendees", err)
	}
	tags, err := s.tags.ListTagsByMeetingID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStorage, "failed to load tags", err)
	}

	var rule *entity.RecurrenceRule
	if meeting.IsSeriesHead() {
		rule, err = s.rules.GetByMeetingID(ctx, id)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrStorage, "failed to load recurrence rule", err)
		}
	}

	return dto.ToMeetingResponse(meeting, attendees, tags, rule), nil
}

// GetMyMeetings lists a user's meetings, served from the view cache when
// fresh.
func (s *MeetingService) GetMyMeetings(ctx context.Context, userID uuid.UUID) ([]dto.MeetingResponse, *errors.AppError) {
	if s.cache != nil {
		if payload := s.cache.GetMeetings(ctx, userID); payload != "" {
			var cached []dto.MeetingResponse
			if err := json.Unmarshal([]byte(payload), &cached); err == nil {
				return cached, nil
			}
			logger.Warn("MeetingService:GetMyMeetings:CacheDecode", "user_id", userID)
		}
	}

	meetings, err := s.meetings.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStorage, "failed to load meetings", err)
	}

	result := make([]dto.MeetingResponse, 0, len(meetings))
	for i := range meetings {
		result = append(result, *dto.ToMeetingResponse(&meetings[i], nil, nil, nil))
	}

	if s.cache != nil {
		if payload, err := json.Marshal(result); err == nil {
			s.cache.SetMeetings(ctx, userID, string(payload), meetingsCacheTTL)
		}
	}
	return result, nil
}

// UpdateMeeting edits descriptive fields of one instance.
func (s *MeetingService) UpdateMeeting(ctx context.Context, userID, id uuid.UUID, req *dto.UpdateMeetingRequest) (*dto.MeetingResponse, *errors.AppError) {
	meeting, err := s.meetings.GetByID(ctx, userID, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStorage, "failed to load meeting", err)
	}
	if meeting == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "meeting not found", nil)
	}

	if req.Title != "" {
		meeting.Title = req.Title
	}
	if req.Location != "" {
		meeting.Location = &req.Location
	}
	if req.DurationMinutes > 0 {
		meeting.DurationMinutes = req.DurationMinutes
	}
	if req.StartsAt != nil {
		meeting.StartsAt = req.StartsAt
	}

	if err := s.meetings.Update(ctx, meeting); err != nil {
		return nil, errors.NewAppError(errors.ErrStorage, "failed to update meeting", err)
	}

	if s.cache != nil {
		s.cache.InvalidateMeetings(ctx, userID)
	}
	return s.GetMeetingByID(ctx, userID, id)
}

// DeleteMeeting removes a meeting; deleting a series head removes the whole
// series and its rule.
func (s *MeetingService) DeleteMeeting(ctx context.Context, userID, id uuid.UUID) *errors.AppError {
	txErr := s.db.Transact(ctx, func(tx database.IDatabase) error {
		meetings := s.meetings.WithTx(tx)
		rules := s.rules.WithTx(tx)
		attendees := s.attendees.WithTx(tx)
		tags := s.tags.WithTx(tx)

		meeting, err := meetings.GetByID(ctx, userID, id)
		if err != nil {
			return errors.NewAppError(errors.ErrStorage, "failed to load meeting", err)
		}
		if meeting == nil {
			return errors.NewAppError(errors.ErrNotFound, "meeting not found", nil)
		}

		ids := []uuid.UUID{meeting.ID}
		if meeting.IsSeriesHead() {
			children, err := meetings.GetChildren(ctx, meeting.ID)
			if err != nil {
				return errors.NewAppError(errors.ErrStorage, "failed to load series members", err)
			}
			for _, child := range children {
				ids = append(ids, child.ID)
			}
			if err := rules.DeleteByMeetingID(ctx, meeting.ID); err != nil {
				return errors.NewAppError(errors.ErrStorage, "failed to delete recurrence rule", err)
			}
		}

		if err := attendees.DeleteByMeetingIDs(ctx, ids); err != nil {
			return errors.NewAppError(errors.ErrStorage, "failed to delete attendees", err)
		}
		if err := tags.DeleteAssociationsByMeetingIDs(ctx, ids); err != nil {
			return errors.NewAppError(errors.ErrStorage, "failed to delete tags", err)
		}
		if err := meetings.DeleteByIDs(ctx, ids); err != nil {
			return errors.NewAppError(errors.ErrStorage, "failed to delete meeting", err)
		}
		return nil
	})
	if txErr != nil {
		return asAppError(txErr)
	}

	if s.cache != nil {
		s.cache.InvalidateMeetings(ctx, userID)
	}
	return nil
}

// ExportSeriesICS renders a meeting's whole series as an iCalendar document,
// one VEVENT per persisted member.
func (s *MeetingService) ExportSeriesICS(ctx context.Context, userID, id uuid.UUID) (string, *errors.AppError) {
	meeting, err := s.meetings.GetByID(ctx, userID, id)
	if err != nil {
		return "", errors.NewAppError(errors.ErrStorage, "failed to load meeting", err)
	}
	if meeting == nil {
		return "", errors.NewAppError(errors.ErrNotFound, "meeting not found", nil)
	}

	head := meeting
	if meeting.RecurrenceParentID != nil {
		head, err = s.meetings.GetByID(ctx, userID, *meeting.RecurrenceParentID)
		if err != nil {
			return "", errors.NewAppError(errors.ErrStorage, "failed to load series head", err)
		}
		if head == nil {
			return "", errors.NewAppError(errors.ErrNotFound, "series head not found", nil)
		}
	}

	children, err := s.meetings.GetChildren(ctx, head.ID)
	if err != nil {
		return "", errors.NewAppError(errors.ErrStorage, "failed to load series members", err)
	}

	members := make([]*entity.Meeting, 0, len(children)+1)
	members = append(members, head)
	for i := range children {
		members = append(members, &children[i])
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//workspace-api//meetings//EN")

	now := time.Now()
	for _, member := range members {
		if member.StartsAt == nil {
			continue
		}
		event := cal.AddEvent(fmt.Sprintf("%s@workspace-api", member.ID))
		event.SetDtStampTime(now)
		event.SetStartAt(*member.StartsAt)
		event.SetEndAt(member.StartsAt.Add(time.Duration(member.DurationMinutes) * time.Minute))
		event.SetSummary(member.Title)
		if member.Location != nil {
			event.SetLocation(*member.Location)
		}
	}

	return cal.Serialize(), nil
}
