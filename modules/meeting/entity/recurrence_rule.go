package entity

import (
	"time"

	"workspace-api/core/errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Frequency is the unit of the recurrence step.
type Frequency string

const (
	FrequencyDay   Frequency = "day"
	FrequencyWeek  Frequency = "week"
	FrequencyMonth Frequency = "month"
	FrequencyYear  Frequency = "year"
)

// MonthlyOption selects how a monthly rule picks its day.
type MonthlyOption string

const (
	MonthlyByDayOfMonth MonthlyOption = "day_of_month"
	MonthlyByWeekday    MonthlyOption = "weekday"
)

// RecurrenceEnd is the termination condition of a series. Every series must
// terminate; an open-ended "never" value is rejected at validation.
type RecurrenceEnd string

const (
	RecurrenceEndAfter RecurrenceEnd = "after"
	RecurrenceEndOn    RecurrenceEnd = "on"
	RecurrenceEndNever RecurrenceEnd = "never"
)

// RecurrenceRule describes a repeating pattern for a series head. One row per
// head, keyed by meeting id.
type RecurrenceRule struct {
	ID        uuid.UUID `db:"id" json:"id"`
	MeetingID uuid.UUID `db:"meeting_id" json:"meeting_id"`
	Frequency Frequency `db:"frequency" json:"frequency"`
	Interval  int       `db:"interval" json:"interval"`

	// Weekdays applies to weekly rules only (0=Sunday..6=Saturday). Empty
	// means the anchor's own weekday.
	Weekdays pq.Int64Array `db:"weekdays" json:"weekdays"`

	MonthlyOption   MonthlyOption `db:"monthly_option" json:"monthly_option,omitempty"`
	MonthlyDay      int           `db:"monthly_day" json:"monthly_day_of_month,omitempty"`
	MonthlyWeekday  int           `db:"monthly_weekday" json:"monthly_weekday,omitempty"`
	MonthlyPosition int           `db:"monthly_position" json:"monthly_weekday_position,omitempty"`

	EndType         RecurrenceEnd `db:"end_type" json:"end_type"`
	EndDate         *time.Time    `db:"end_date" json:"end_date,omitempty"`
	OccurrenceCount int           `db:"occurrence_count" json:"occurrence_count,omitempty"`

	// StartsAt anchors the series; its wall-clock time-of-day is reapplied
	// verbatim on every generated occurrence.
	StartsAt time.Time `db:"starts_at" json:"starts_at"`
	// Timezone is a display label; arithmetic uses absolute instants.
	Timezone string `db:"timezone" json:"timezone,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Validate enforces the structural invariants of a rule.
func (r *RecurrenceRule) Validate() *errors.AppError {
	switch r.Frequency {
	case FrequencyDay, FrequencyWeek, FrequencyMonth, FrequencyYear:
	default:
		return errors.NewAppError(errors.ErrInvalidRule, "unknown frequency", nil)
	}

	if r.Interval < 1 {
		return errors.NewAppError(errors.ErrInvalidRule, "interval must be a positive integer", nil)
	}

	for _, wd := range r.Weekdays {
		if wd < 0 || wd > 6 {
			return errors.NewAppError(errors.ErrInvalidRule, "weekday must be between 0 (Sunday) and 6 (Saturday)", nil)
		}
	}

	if r.Frequency == FrequencyMonth {
		switch r.MonthlyOption {
		case MonthlyByDayOfMonth:
			if r.MonthlyDay < 0 || r.MonthlyDay > 31 {
				return errors.NewAppError(errors.ErrInvalidRule, "day of month must be between 1 and 31", nil)
			}
		case MonthlyByWeekday:
			if r.MonthlyWeekday < 0 || r.MonthlyWeekday > 6 {
				return errors.NewAppError(errors.ErrInvalidRule, "monthly weekday must be between 0 (Sunday) and 6 (Saturday)", nil)
			}
			if r.MonthlyPosition < 1 {
				return errors.NewAppError(errors.ErrInvalidRule, "monthly weekday position must be at least 1", nil)
			}
		default:
			return errors.NewAppError(errors.ErrInvalidRule, "unknown monthly option", nil)
		}
	}

	switch r.EndType {
	case RecurrenceEndAfter:
		if r.OccurrenceCount < 1 {
			return errors.NewAppError(errors.ErrInvalidRule, "occurrence count must be at least 1", nil)
		}
	case RecurrenceEndOn:
		if r.EndDate == nil {
			return errors.NewAppError(errors.ErrInvalidRule, "end date is required", nil)
		}
		if r.EndDate.Before(r.StartsAt) {
			return errors.NewAppError(errors.ErrInvalidRule, "end date is before the series start", nil)
		}
	case RecurrenceEndNever:
		return errors.NewAppError(errors.ErrInvalidRule, "every series must have a defined end", nil)
	default:
		return errors.NewAppError(errors.ErrInvalidRule, "unknown end type", nil)
	}

	if r.StartsAt.IsZero() {
		return errors.NewAppError(errors.ErrInvalidRule, "series start is required", nil)
	}

	return nil
}
