package dto

import (
	"time"

	"workspace-api/modules/meeting/entity"
)

// ===================== Request DTOs =====================

// AttendeeInput adds one contact to a meeting.
type AttendeeInput struct {
	ContactID string `json:"contact_id" validate:"required"`
	Role      string `json:"role"`
}

// CreateMeetingRequest creates a single (non-recurring) meeting.
type CreateMeetingRequest struct {
	Title           string          `json:"title" validate:"required"`
	Location        string          `json:"location"`
	DurationMinutes int             `json:"duration_minutes"`
	StartsAt        *time.Time      `json:"starts_at"`
	Tags            []string        `json:"tags"`
	Attendees       []AttendeeInput `json:"attendees"`
}

// UpdateMeetingRequest edits one meeting instance. This path never touches
// other series members; recurrence edits go through the recurrence endpoint.
type UpdateMeetingRequest struct {
	Title           string     `json:"title"`
	Location        string     `json:"location"`
	DurationMinutes int        `json:"duration_minutes"`
	StartsAt        *time.Time `json:"starts_at"`
}

// ===================== Response DTOs =====================

type AttendeeResponse struct {
	ContactID string `json:"contact_id"`
	Role      string `json:"role"`
	Status    string `json:"status"`
}

type TagResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type MeetingResponse struct {
	ID                 string               `json:"id"`
	Title              string               `json:"title"`
	Location           string               `json:"location,omitempty"`
	DurationMinutes    int                  `json:"duration_minutes"`
	StartsAt           *time.Time           `json:"starts_at,omitempty"`
	RecurrenceParentID string               `json:"recurrence_parent_id,omitempty"`
	InstanceIndex      int                  `json:"instance_index"`
	Attendees          []AttendeeResponse   `json:"attendees,omitempty"`
	Tags               []TagResponse        `json:"tags,omitempty"`
	Recurrence         *RecurrenceRuleInput `json:"recurrence,omitempty"`
	CreatedAt          time.Time            `json:"created_at"`
}

// ===================== Mapper Functions =====================

func ToMeetingResponse(m *entity.Meeting, attendees []entity.MeetingAttendee, tags []entity.Tag, rule *entity.RecurrenceRule) *MeetingResponse {
	resp := &MeetingResponse{
		ID:              m.ID.String(),
		Title:           m.Title,
		DurationMinutes: m.DurationMinutes,
		StartsAt:        m.StartsAt,
		InstanceIndex:   m.InstanceIndex,
		CreatedAt:       m.CreatedAt,
	}

	if m.Location != nil {
		resp.Location = *m.Location
	}
	if m.RecurrenceParentID != nil {
		resp.RecurrenceParentID = m.RecurrenceParentID.String()
	}
	if rule != nil {
		resp.Recurrence = ToRecurrenceRuleResponse(rule)
	}

	for _, a := range attendees {
		resp.Attendees = append(resp.Attendees, AttendeeResponse{
			ContactID: a.ContactID.String(),
			Role:      string(a.Role),
			Status:    string(a.Status),
		})
	}
	for _, t := range tags {
		resp.Tags = append(resp.Tags, TagResponse{
			ID:   t.ID.String(),
			Name: t.Name,
			Slug: t.Slug,
		})
	}

	return resp
}
