package dto

import (
	"testing"
	"time"

	"workspace-api/modules/meeting/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestToRecurrenceRuleDefaults(t *testing.T) {
	meetingID := uuid.New()
	anchor := time.Date(2024, time.January, 2, 9, 0, 0, 0, time.UTC)

	rule := ToRecurrenceRule(&RecurrenceRuleInput{
		Frequency:       "month",
		EndType:         "after",
		OccurrenceCount: 3,
	}, meetingID, anchor)

	assert.Equal(t, meetingID, rule.MeetingID)
	assert.Equal(t, 1, rule.Interval, "interval defaults to 1")
	assert.Equal(t, entity.MonthlyByDayOfMonth, rule.MonthlyOption)
	assert.Equal(t, "UTC", rule.Timezone)
	assert.True(t, rule.StartsAt.Equal(anchor))
}

func TestToRecurrenceRuleConvertsWeekdays(t *testing.T) {
	anchor := time.Date(2024, time.January, 2, 9, 0, 0, 0, time.UTC)

	rule := ToRecurrenceRule(&RecurrenceRuleInput{
		Frequency:       "week",
		Interval:        2,
		Weekdays:        []int{1, 3, 5},
		EndType:         "after",
		OccurrenceCount: 4,
		Timezone:        "America/New_York",
	}, uuid.New(), anchor)

	assert.Equal(t, pq.Int64Array{1, 3, 5}, rule.Weekdays)
	assert.Equal(t, 2, rule.Interval)
	assert.Equal(t, "America/New_York", rule.Timezone)
}

func TestRecurrenceRuleRoundTripsThroughResponse(t *testing.T) {
	anchor := time.Date(2024, time.January, 31, 10, 0, 0, 0, time.UTC)
	input := &RecurrenceRuleInput{
		Frequency:       "month",
		Interval:        1,
		MonthlyOption:   "day_of_month",
		MonthlyDay:      31,
		EndType:         "after",
		OccurrenceCount: 3,
		Timezone:        "UTC",
	}

	rule := ToRecurrenceRule(input, uuid.New(), anchor)
	out := ToRecurrenceRuleResponse(rule)

	assert.Equal(t, input.Frequency, out.Frequency)
	assert.Equal(t, input.MonthlyDay, out.MonthlyDay)
	assert.Equal(t, input.OccurrenceCount, out.OccurrenceCount)
	assert.Equal(t, input.EndType, out.EndType)
}
