package entity

import (
	"time"

	"github.com/google/uuid"
)

// Meeting is one scheduled meeting. A recurring series is a set of meetings
// sharing a head: the head has no parent and instance index 1, every other
// member points at the head via RecurrenceParentID and carries its 1-based
// position in the occurrence sequence.
type Meeting struct {
	ID                 uuid.UUID  `db:"id" json:"id"`
	UserID             uuid.UUID  `db:"user_id" json:"user_id"`
	Title              string     `db:"title" json:"title"`
	Location           *string    `db:"location" json:"location,omitempty"`
	DurationMinutes    int        `db:"duration_minutes" json:"duration_minutes"`
	StartsAt           *time.Time `db:"starts_at" json:"starts_at,omitempty"`
	RecurrenceParentID *uuid.UUID `db:"recurrence_parent_id" json:"recurrence_parent_id,omitempty"`
	InstanceIndex      int        `db:"instance_index" json:"instance_index"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

// IsSeriesHead reports whether this meeting anchors its series.
func (m *Meeting) IsSeriesHead() bool {
	return m.RecurrenceParentID == nil
}
