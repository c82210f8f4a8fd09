package entity

import (
	"time"

	"github.com/google/uuid"
)

// Tag is a user-scoped label. Slug is derived from the name and unique per
// user.
type Tag struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// MeetingTag associates a tag with one meeting. Like attendees, associations
// are copied row-by-row onto new series members, not shared.
type MeetingTag struct {
	ID        uuid.UUID `db:"id" json:"id"`
	MeetingID uuid.UUID `db:"meeting_id" json:"meeting_id"`
	TagID     uuid.UUID `db:"tag_id" json:"tag_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
