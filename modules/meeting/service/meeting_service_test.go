package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"workspace-api/core/errors"
	"workspace-api/modules/meeting/dto"
	"workspace-api/modules/meeting/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type meetingFixture struct {
	meetings  *fakeMeetingRepo
	rules     *fakeRuleRepo
	attendees *fakeAttendeeRepo
	tags      *fakeTagRepo
	cache     *fakeViewCache
	svc       MeetingServiceInterface
}

func newMeetingFixture(seed ...*entity.Meeting) *meetingFixture {
	f := &meetingFixture{
		meetings:  newFakeMeetingRepo(seed...),
		rules:     newFakeRuleRepo(),
		attendees: &fakeAttendeeRepo{},
		tags:      &fakeTagRepo{},
		cache:     newFakeViewCache(),
	}
	f.svc = NewMeetingService(&fakeDB{}, f.meetings, f.rules, f.attendees, f.tags, f.cache)
	return f
}

func TestCreateMeetingSlugsTagsAndDefaultsAttendees(t *testing.T) {
	f := newMeetingFixture()
	userID := uuid.New()
	contactID := uuid.New()
	startsAt := at(2024, time.April, 1, 10, 0)

	resp, appErr := f.svc.CreateMeeting(context.Background(), userID, &dto.CreateMeetingRequest{
		Title:    "Quarterly Review",
		StartsAt: &startsAt,
		Tags:     []string{"Weekly Sync!"},
		Attendees: []dto.AttendeeInput{
			{ContactID: contactID.String()},
		},
	})
	require.Nil(t, appErr)

	assert.Equal(t, "Quarterly Review", resp.Title)
	assert.Equal(t, defaultDurationMinutes, resp.DurationMinutes)
	assert.Equal(t, 1, resp.InstanceIndex)

	require.Len(t, resp.Tags, 1)
	assert.Equal(t, "weekly-sync", resp.Tags[0].Slug)

	require.Len(t, resp.Attendees, 1)
	assert.Equal(t, contactID.String(), resp.Attendees[0].ContactID)
	assert.Equal(t, string(entity.AttendeeRoleRequired), resp.Attendees[0].Role)
	assert.Equal(t, string(entity.AttendeeStatusPending), resp.Attendees[0].Status)

	assert.Equal(t, 1, f.cache.invalidated)
}

func TestCreateMeetingRejectsMalformedContactID(t *testing.T) {
	f := newMeetingFixture()

	_, appErr := f.svc.CreateMeeting(context.Background(), uuid.New(), &dto.CreateMeetingRequest{
		Title:     "Broken",
		Attendees: []dto.AttendeeInput{{ContactID: "not-a-uuid"}},
	})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
}

func TestGetMyMeetingsServesFromCacheOnSecondRead(t *testing.T) {
	userID := uuid.New()
	head := newSeriesHead(userID, at(2024, time.April, 1, 10, 0))
	f := newMeetingFixture(head)

	first, appErr := f.svc.GetMyMeetings(context.Background(), userID)
	require.Nil(t, appErr)
	require.Len(t, first, 1)
	assert.Equal(t, 1, f.cache.sets)

	// Remove the row behind the cache's back; a cached read still sees it.
	require.NoError(t, f.meetings.DeleteByIDs(context.Background(), []uuid.UUID{head.ID}))

	second, appErr := f.svc.GetMyMeetings(context.Background(), userID)
	require.Nil(t, appErr)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, 1, f.cache.sets, "cache hit must not rewrite the entry")
}

func TestGetMeetingByIDIncludesRuleForSeriesHead(t *testing.T) {
	userID := uuid.New()
	head := newSeriesHead(userID, at(2024, time.January, 2, 9, 0))
	child := childOf(head, at(2024, time.January, 9, 9, 0), 2)
	f := newMeetingFixture(head, child)

	require.NoError(t, f.rules.Upsert(context.Background(), &entity.RecurrenceRule{
		MeetingID:       head.ID,
		Frequency:       entity.FrequencyWeek,
		Interval:        1,
		EndType:         entity.RecurrenceEndAfter,
		OccurrenceCount: 2,
		StartsAt:        *head.StartsAt,
	}))

	headResp, appErr := f.svc.GetMeetingByID(context.Background(), userID, head.ID)
	require.Nil(t, appErr)
	require.NotNil(t, headResp.Recurrence)
	assert.Equal(t, "week", headResp.Recurrence.Frequency)

	childResp, appErr := f.svc.GetMeetingByID(context.Background(), userID, child.ID)
	require.Nil(t, appErr)
	assert.Nil(t, childResp.Recurrence)
	assert.Equal(t, head.ID.String(), childResp.RecurrenceParentID)
}

func TestDeleteMeetingHeadRemovesWholeSeries(t *testing.T) {
	userID := uuid.New()
	head := newSeriesHead(userID, at(2024, time.January, 2, 9, 0))
	second := childOf(head, at(2024, time.January, 9, 9, 0), 2)
	third := childOf(head, at(2024, time.January, 16, 9, 0), 3)
	f := newMeetingFixture(head, second, third)

	require.NoError(t, f.rules.Upsert(context.Background(), &entity.RecurrenceRule{
		MeetingID: head.ID, Frequency: entity.FrequencyWeek, Interval: 1,
		EndType: entity.RecurrenceEndAfter, OccurrenceCount: 3, StartsAt: *head.StartsAt,
	}))
	f.attendees.rows = append(f.attendees.rows, entity.MeetingAttendee{
		ID: uuid.New(), MeetingID: second.ID, ContactID: uuid.New(),
		Role: entity.AttendeeRoleRequired, Status: entity.AttendeeStatusPending,
	})

	appErr := f.svc.DeleteMeeting(context.Background(), userID, head.ID)
	require.Nil(t, appErr)

	assert.Empty(t, f.meetings.meetings)
	assert.Empty(t, f.rules.rules)
	assert.Empty(t, f.attendees.rows)
	assert.Equal(t, 1, f.cache.invalidated)
}

func TestDeleteMeetingChildRemovesOnlyThatInstance(t *testing.T) {
	userID := uuid.New()
	head := newSeriesHead(userID, at(2024, time.January, 2, 9, 0))
	child := childOf(head, at(2024, time.January, 9, 9, 0), 2)
	f := newMeetingFixture(head, child)

	appErr := f.svc.DeleteMeeting(context.Background(), userID, child.ID)
	require.Nil(t, appErr)

	assert.Len(t, f.meetings.meetings, 1)
	remaining, err := f.meetings.GetByID(context.Background(), userID, head.ID)
	require.NoError(t, err)
	assert.NotNil(t, remaining)
}

func TestExportSeriesICSEmitsOneEventPerMember(t *testing.T) {
	userID := uuid.New()
	head := newSeriesHead(userID, at(2024, time.January, 2, 9, 0))
	child := childOf(head, at(2024, time.January, 9, 9, 0), 2)
	f := newMeetingFixture(head, child)

	// Exporting through a child renders the whole series.
	payload, appErr := f.svc.ExportSeriesICS(context.Background(), userID, child.ID)
	require.Nil(t, appErr)

	assert.True(t, strings.HasPrefix(payload, "BEGIN:VCALENDAR"))
	assert.Equal(t, 2, strings.Count(payload, "BEGIN:VEVENT"))
	assert.Contains(t, payload, "SUMMARY:Team Sync")
	assert.Contains(t, payload, "LOCATION:Room A")
	assert.Contains(t, payload, head.ID.String())
	assert.Contains(t, payload, child.ID.String())
}

func TestExportSeriesICSMeetingNotFound(t *testing.T) {
	f := newMeetingFixture()

	_, appErr := f.svc.ExportSeriesICS(context.Background(), uuid.New(), uuid.New())
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}
