package service

import (
	"testing"
	"time"

	"workspace-api/core/errors"
	"workspace-api/modules/meeting/entity"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
}

func requireIncreasing(t *testing.T, occurrences []time.Time) {
	t.Helper()
	for i := 1; i < len(occurrences); i++ {
		require.True(t, occurrences[i].After(occurrences[i-1]),
			"occurrence %d (%s) is not after %d (%s)", i, occurrences[i], i-1, occurrences[i-1])
	}
}

func TestGenerateWeeklyOnWeekdays(t *testing.T) {
	// Tuesday anchor, Tue+Thu, four occurrences.
	gen := NewOccurrenceGenerator(0)
	rule := &entity.RecurrenceRule{
		Frequency:       entity.FrequencyWeek,
		Interval:        1,
		Weekdays:        pq.Int64Array{2, 4},
		EndType:         entity.RecurrenceEndAfter,
		OccurrenceCount: 4,
		StartsAt:        at(2024, time.January, 2, 9, 0),
	}

	occurrences, appErr := gen.Generate(rule)
	require.Nil(t, appErr)

	assert.Equal(t, []time.Time{
		at(2024, time.January, 2, 9, 0),
		at(2024, time.January, 4, 9, 0),
		at(2024, time.January, 9, 9, 0),
		at(2024, time.January, 11, 9, 0),
	}, occurrences)
}

func TestGenerateWeeklySkipsWeekdaysBeforeAnchor(t *testing.T) {
	// Thursday anchor with Mon+Thu selected: the Monday of the anchor week
	// is in the past and must not appear.
	gen := NewOccurrenceGenerator(0)
	rule := &entity.RecurrenceRule{
		Frequency:       entity.FrequencyWeek,
		Interval:        1,
		Weekdays:        pq.Int64Array{1, 4},
		EndType:         entity.RecurrenceEndAfter,
		OccurrenceCount: 4,
		StartsAt:        at(2024, time.January, 4, 10, 30),
	}

	occurrences, appErr := gen.Generate(rule)
	require.Nil(t, appErr)

	assert.Equal(t, []time.Time{
		at(2024, time.January, 4, 10, 30),
		at(2024, time.January, 8, 10, 30),
		at(2024, time.January, 11, 10, 30),
		at(2024, time.January, 15, 10, 30),
	}, occurrences)
}

func TestGenerateWeeklyDefaultsToAnchorWeekday(t *testing.T) {
	gen := NewOccurrenceGenerator(0)
	rule := &entity.RecurrenceRule{
		Frequency:       entity.FrequencyWeek,
		Interval:        2,
		EndType:         entity.RecurrenceEndAfter,
		OccurrenceCount: 3,
		StartsAt:        at(2024, time.January, 2, 9, 0),
	}

	occurrences, appErr := gen.Generate(rule)
	require.Nil(t, appErr)

	assert.Equal(t, []time.Time{
		at(2024, time.January, 2, 9, 0),
		at(2024, time.January, 16, 9, 0),
		at(2024, time.January, 30, 9, 0),
	}, occurrences)
}

func TestGenerateMonthlyClampsShortMonths(t *testing.T) {
	// Day 31 in February of a leap year lands on the 29th, then back to the
	// 31st in March.
	gen := NewOccurrenceGenerator(0)
	rule := &entity.RecurrenceRule{
		Frequency:       entity.FrequencyMonth,
		Interval:        1,
		MonthlyOption:   entity.MonthlyByDayOfMonth,
		MonthlyDay:      31,
		EndType:         entity.RecurrenceEndAfter,
		OccurrenceCount: 3,
		StartsAt:        at(2024, time.January, 31, 10, 0),
	}

	occurrences, appErr := gen.Generate(rule)
	require.Nil(t, appErr)

	assert.Equal(t, []time.Time{
		at(2024, time.January, 31, 10, 0),
		at(2024, time.February, 29, 10, 0),
		at(2024, time.March, 31, 10, 0),
	}, occurrences)
}

func TestGenerateMonthlyNthWeekdayOverflowFallsBack(t *testing.T) {
	// March 2024 has five Fridays; April has four, so the "fifth Friday"
	// falls back to the last one instead of spilling into May.
	gen := NewOccurrenceGenerator(0)
	rule := &entity.RecurrenceRule{
		Frequency:       entity.FrequencyMonth,
		Interval:        1,
		MonthlyOption:   entity.MonthlyByWeekday,
		MonthlyWeekday:  5,
		MonthlyPosition: 5,
		EndType:         entity.RecurrenceEndAfter,
		OccurrenceCount: 3,
		StartsAt:        at(2024, time.March, 29, 14, 0),
	}

	occurrences, appErr := gen.Generate(rule)
	require.Nil(t, appErr)

	assert.Equal(t, []time.Time{
		at(2024, time.March, 29, 14, 0),
		at(2024, time.April, 26, 14, 0),
		at(2024, time.May, 31, 14, 0),
	}, occurrences)
	for _, occurrence := range occurrences {
		assert.Equal(t, time.Friday, occurrence.Weekday())
	}
}

func TestGenerateYearlyLeapDayClamps(t *testing.T) {
	gen := NewOccurrenceGenerator(0)
	rule := &entity.RecurrenceRule{
		Frequency:       entity.FrequencyYear,
		Interval:        1,
		EndType:         entity.RecurrenceEndAfter,
		OccurrenceCount: 3,
		StartsAt:        at(2024, time.February, 29, 8, 0),
	}

	occurrences, appErr := gen.Generate(rule)
	require.Nil(t, appErr)

	assert.Equal(t, []time.Time{
		at(2024, time.February, 29, 8, 0),
		at(2025, time.February, 28, 8, 0),
		at(2026, time.February, 28, 8, 0),
	}, occurrences)
}

func TestGenerateDailyUntilEndDate(t *testing.T) {
	end := at(2024, time.June, 10, 23, 59)
	gen := NewOccurrenceGenerator(0)
	rule := &entity.RecurrenceRule{
		Frequency: entity.FrequencyDay,
		Interval:  2,
		EndType:   entity.RecurrenceEndOn,
		EndDate:   &end,
		StartsAt:  at(2024, time.June, 1, 9, 0),
	}

	occurrences, appErr := gen.Generate(rule)
	require.Nil(t, appErr)

	require.Len(t, occurrences, 5)
	assert.Equal(t, at(2024, time.June, 1, 9, 0), occurrences[0])
	assert.Equal(t, at(2024, time.June, 9, 9, 0), occurrences[4])
	requireIncreasing(t, occurrences)
	for _, occurrence := range occurrences {
		assert.False(t, occurrence.After(end))
	}
}

func TestGenerateFirstOccurrenceIsAnchor(t *testing.T) {
	gen := NewOccurrenceGenerator(0)
	anchor := at(2024, time.May, 15, 16, 45)

	rules := []*entity.RecurrenceRule{
		{Frequency: entity.FrequencyDay, Interval: 3, EndType: entity.RecurrenceEndAfter, OccurrenceCount: 7, StartsAt: anchor},
		{Frequency: entity.FrequencyWeek, Interval: 1, Weekdays: pq.Int64Array{0, 3, 6}, EndType: entity.RecurrenceEndAfter, OccurrenceCount: 7, StartsAt: anchor},
		{Frequency: entity.FrequencyMonth, Interval: 2, MonthlyOption: entity.MonthlyByDayOfMonth, MonthlyDay: 15, EndType: entity.RecurrenceEndAfter, OccurrenceCount: 7, StartsAt: anchor},
		{Frequency: entity.FrequencyYear, Interval: 1, EndType: entity.RecurrenceEndAfter, OccurrenceCount: 7, StartsAt: anchor},
	}

	for _, rule := range rules {
		occurrences, appErr := gen.Generate(rule)
		require.Nil(t, appErr, "frequency %s", rule.Frequency)
		require.Len(t, occurrences, 7, "frequency %s", rule.Frequency)
		assert.True(t, occurrences[0].Equal(anchor), "frequency %s", rule.Frequency)
		requireIncreasing(t, occurrences)
	}
}

func TestGenerateSingleOccurrenceShortCircuits(t *testing.T) {
	gen := NewOccurrenceGenerator(0)
	rule := &entity.RecurrenceRule{
		Frequency:       entity.FrequencyDay,
		Interval:        1,
		EndType:         entity.RecurrenceEndAfter,
		OccurrenceCount: 1,
		StartsAt:        at(2024, time.July, 4, 12, 0),
	}

	occurrences, appErr := gen.Generate(rule)
	require.Nil(t, appErr)
	assert.Equal(t, []time.Time{at(2024, time.July, 4, 12, 0)}, occurrences)
}

func TestGenerateCycleCapTruncates(t *testing.T) {
	end := at(2030, time.January, 1, 0, 0)
	gen := NewOccurrenceGenerator(5)
	rule := &entity.RecurrenceRule{
		Frequency: entity.FrequencyDay,
		Interval:  1,
		EndType:   entity.RecurrenceEndOn,
		EndDate:   &end,
		StartsAt:  at(2024, time.January, 1, 9, 0),
	}

	occurrences, appErr := gen.Generate(rule)
	require.Nil(t, appErr)

	// Anchor plus one occurrence per allowed cycle.
	assert.Len(t, occurrences, 6)
}

func TestGenerateRejectsInvalidRules(t *testing.T) {
	gen := NewOccurrenceGenerator(0)
	anchor := at(2024, time.January, 2, 9, 0)
	before := at(2023, time.December, 1, 9, 0)

	cases := []struct {
		name string
		rule *entity.RecurrenceRule
	}{
		{
			name: "never-ending",
			rule: &entity.RecurrenceRule{Frequency: entity.FrequencyDay, Interval: 1, EndType: entity.RecurrenceEndNever, StartsAt: anchor},
		},
		{
			name: "end date before anchor",
			rule: &entity.RecurrenceRule{Frequency: entity.FrequencyDay, Interval: 1, EndType: entity.RecurrenceEndOn, EndDate: &before, StartsAt: anchor},
		},
		{
			name: "unknown frequency",
			rule: &entity.RecurrenceRule{Frequency: "fortnight", Interval: 1, EndType: entity.RecurrenceEndAfter, OccurrenceCount: 2, StartsAt: anchor},
		},
		{
			name: "zero interval",
			rule: &entity.RecurrenceRule{Frequency: entity.FrequencyDay, Interval: 0, EndType: entity.RecurrenceEndAfter, OccurrenceCount: 2, StartsAt: anchor},
		},
		{
			name: "weekday out of range",
			rule: &entity.RecurrenceRule{Frequency: entity.FrequencyWeek, Interval: 1, Weekdays: pq.Int64Array{7}, EndType: entity.RecurrenceEndAfter, OccurrenceCount: 2, StartsAt: anchor},
		},
		{
			name: "monthly position below one",
			rule: &entity.RecurrenceRule{Frequency: entity.FrequencyMonth, Interval: 1, MonthlyOption: entity.MonthlyByWeekday, MonthlyWeekday: 1, MonthlyPosition: 0, EndType: entity.RecurrenceEndAfter, OccurrenceCount: 2, StartsAt: anchor},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			occurrences, appErr := gen.Generate(tc.rule)
			require.NotNil(t, appErr)
			assert.Equal(t, errors.ErrInvalidRule, appErr.Code)
			assert.Nil(t, occurrences)
		})
	}
}
