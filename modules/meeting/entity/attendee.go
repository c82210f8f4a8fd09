package entity

import (
	"time"

	"github.com/google/uuid"
)

// AttendeeRole distinguishes organizers from invitees.
type AttendeeRole string

const (
	AttendeeRoleOrganizer AttendeeRole = "organizer"
	AttendeeRoleRequired  AttendeeRole = "required"
	AttendeeRoleOptional  AttendeeRole = "optional"
)

// AttendeeStatus is the invitation state of one attendee.
type AttendeeStatus string

const (
	AttendeeStatusPending  AttendeeStatus = "pending"
	AttendeeStatusAccepted AttendeeStatus = "accepted"
	AttendeeStatusDeclined AttendeeStatus = "declined"
)

// MeetingAttendee links a contact to a meeting. Rows are owned by their
// meeting: copying an attendee onto another series member creates an
// independent row, never a shared reference.
type MeetingAttendee struct {
	ID        uuid.UUID      `db:"id" json:"id"`
	MeetingID uuid.UUID      `db:"meeting_id" json:"meeting_id"`
	ContactID uuid.UUID      `db:"contact_id" json:"contact_id"`
	Role      AttendeeRole   `db:"role" json:"role"`
	Status    AttendeeStatus `db:"status" json:"status"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}
