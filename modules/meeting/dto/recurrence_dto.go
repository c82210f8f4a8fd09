package dto

import (
	"time"

	"workspace-api/modules/meeting/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// EditScope selects how far a recurrence change reaches.
type EditScope string

const (
	// EditScopeSeries rewrites the whole series.
	EditScopeSeries EditScope = "series"
	// EditScopeFollowing splits the series at the edited instance and applies
	// the new rule from there forward.
	EditScopeFollowing EditScope = "following"
)

// RecurrenceRuleInput is the recurrence configuration submitted by a client.
type RecurrenceRuleInput struct {
	Frequency       string     `json:"frequency" validate:"required"`
	Interval        int        `json:"interval"`
	Weekdays        []int      `json:"weekdays"`
	MonthlyOption   string     `json:"monthly_option"`
	MonthlyDay      int        `json:"monthly_day_of_month"`
	MonthlyWeekday  int        `json:"monthly_weekday"`
	MonthlyPosition int        `json:"monthly_weekday_position"`
	EndType         string     `json:"end_type"`
	EndDate         *time.Time `json:"end_date"`
	OccurrenceCount int        `json:"occurrence_count"`
	Timezone        string     `json:"timezone"`
}

// UpsertRecurrenceRequest carries the rule and the edit scope.
type UpsertRecurrenceRequest struct {
	Rule  RecurrenceRuleInput `json:"rule"`
	Scope string              `json:"scope"` // "series" (default) or "following"
}

// RecurrenceResponse reports the outcome of a recurrence edit.
type RecurrenceResponse struct {
	MeetingID      string `json:"meeting_id"`
	Scope          string `json:"scope"`
	GeneratedCount int    `json:"generated_count"`
}

// ToRecurrenceRule builds a rule entity for the given series head, anchored
// at the head's date. Interval defaults to 1 and monthly option to
// day-of-month when omitted.
func ToRecurrenceRule(input *RecurrenceRuleInput, meetingID uuid.UUID, anchor time.Time) *entity.RecurrenceRule {
	rule := &entity.RecurrenceRule{
		MeetingID:       meetingID,
		Frequency:       entity.Frequency(input.Frequency),
		Interval:        input.Interval,
		MonthlyOption:   entity.MonthlyOption(input.MonthlyOption),
		MonthlyDay:      input.MonthlyDay,
		MonthlyWeekday:  input.MonthlyWeekday,
		MonthlyPosition: input.MonthlyPosition,
		EndType:         entity.RecurrenceEnd(input.EndType),
		EndDate:         input.EndDate,
		OccurrenceCount: input.OccurrenceCount,
		StartsAt:        anchor,
		Timezone:        input.Timezone,
	}

	if rule.Interval == 0 {
		rule.Interval = 1
	}
	if rule.Frequency == entity.FrequencyMonth && rule.MonthlyOption == "" {
		rule.MonthlyOption = entity.MonthlyByDayOfMonth
	}
	if rule.Timezone == "" {
		rule.Timezone = anchor.Location().String()
	}

	weekdays := make(pq.Int64Array, 0, len(input.Weekdays))
	for _, wd := range input.Weekdays {
		weekdays = append(weekdays, int64(wd))
	}
	rule.Weekdays = weekdays

	return rule
}

// ToRecurrenceRuleResponse maps a stored rule back to input shape for reads.
func ToRecurrenceRuleResponse(rule *entity.RecurrenceRule) *RecurrenceRuleInput {
	weekdays := make([]int, 0, len(rule.Weekdays))
	for _, wd := range rule.Weekdays {
		weekdays = append(weekdays, int(wd))
	}

	return &RecurrenceRuleInput{
		Frequency:       string(rule.Frequency),
		Interval:        rule.Interval,
		Weekdays:        weekdays,
		MonthlyOption:   string(rule.MonthlyOption),
		MonthlyDay:      rule.MonthlyDay,
		MonthlyWeekday:  rule.MonthlyWeekday,
		MonthlyPosition: rule.MonthlyPosition,
		EndType:         string(rule.EndType),
		EndDate:         rule.EndDate,
		OccurrenceCount: rule.OccurrenceCount,
		Timezone:        rule.Timezone,
	}
}
