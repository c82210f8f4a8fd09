package service

import (
	"sort"
	"time"

	"workspace-api/core/constants"
	"workspace-api/core/errors"
	"workspace-api/core/logger"
	"workspace-api/modules/meeting/entity"
)

// OccurrenceGenerator expands a recurrence rule into the ordered, finite list
// of instants the series occupies. The first occurrence is always the anchor
// itself; the generation loop only produces instants strictly after it.
//
// A cycle cap bounds every branch so a misconfigured rule can never spin
// forever. Hitting the cap truncates the sequence and logs a warning rather
// than failing.
type OccurrenceGenerator struct {
	maxCycles int
}

func NewOccurrenceGenerator(maxCycles int) *OccurrenceGenerator {
	if maxCycles <= 0 {
		maxCycles = constants.DefaultMaxGenerationCycles
	}
	return &OccurrenceGenerator{maxCycles: maxCycles}
}

// Generate returns the occurrence instants for a rule, sorted ascending.
func (g *OccurrenceGenerator) Generate(rule *entity.RecurrenceRule) ([]time.Time, *errors.AppError) {
	if appErr := rule.Validate(); appErr != nil {
		return nil, appErr
	}

	anchor := rule.StartsAt
	if rule.EndType == entity.RecurrenceEndAfter && rule.OccurrenceCount <= 1 {
		return []time.Time{anchor}, nil
	}

	occurrences := []time.Time{anchor}

	var appErr *errors.AppError
	switch rule.Frequency {
	case entity.FrequencyDay:
		occurrences = g.generateDaily(rule, occurrences)
	case entity.FrequencyWeek:
		occurrences = g.generateWeekly(rule, occurrences)
	case entity.FrequencyMonth:
		occurrences, appErr = g.generateMonthly(rule, occurrences)
	case entity.FrequencyYear:
		occurrences = g.generateYearly(rule, occurrences)
	}
	if appErr != nil {
		return nil, appErr
	}

	return occurrences, nil
}

// pastEnd reports whether a candidate lies beyond a date-bounded rule's end.
func (g *OccurrenceGenerator) pastEnd(rule *entity.RecurrenceRule, candidate time.Time) bool {
	return rule.EndType == entity.RecurrenceEndOn && candidate.After(*rule.EndDate)
}

// countReached reports whether a count-bounded rule has enough occurrences.
func (g *OccurrenceGenerator) countReached(rule *entity.RecurrenceRule, generated int) bool {
	return rule.EndType == entity.RecurrenceEndAfter && generated >= rule.OccurrenceCount
}

func (g *OccurrenceGenerator) warnCycleCap(rule *entity.RecurrenceRule) {
	logger.Warn("OccurrenceGenerator:Generate:CycleCapReached",
		"frequency", rule.Frequency,
		"max_cycles", g.maxCycles,
		"meeting_id", rule.MeetingID,
	)
}

func (g *OccurrenceGenerator) generateDaily(rule *entity.RecurrenceRule, occurrences []time.Time) []time.Time {
	current := rule.StartsAt
	for cycle := 0; cycle < g.maxCycles; cycle++ {
		current = current.AddDate(0, 0, rule.Interval)
		if g.pastEnd(rule, current) {
			return occurrences
		}
		occurrences = append(occurrences, current)
		if g.countReached(rule, len(occurrences)) {
			return occurrences
		}
	}
	g.warnCycleCap(rule)
	return occurrences
}

func (g *OccurrenceGenerator) generateWeekly(rule *entity.RecurrenceRule, occurrences []time.Time) []time.Time {
	anchor := rule.StartsAt
	hour, minute, sec := anchor.Clock()
	nsec := anchor.Nanosecond()
	loc := anchor.Location()

	weekdays := make([]int, 0, len(rule.Weekdays))
	for _, wd := range rule.Weekdays {
		weekdays = append(weekdays, int(wd))
	}
	if len(weekdays) == 0 {
		weekdays = []int{int(anchor.Weekday())}
	}
	sort.Ints(weekdays)

	// Weeks start on Sunday; candidates are offsets from the anchor's
	// week-start day with the anchor's time-of-day reapplied.
	weekStart := anchor.AddDate(0, 0, -int(anchor.Weekday()))

	for cycle := 0; cycle < g.maxCycles; cycle++ {
		dayBase := cycle * 7 * rule.Interval
		for _, wd := range weekdays {
			candidate := time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day()+dayBase+wd,
				hour, minute, sec, nsec, loc)
			if !candidate.After(anchor) {
				continue
			}
			if g.pastEnd(rule, candidate) {
				return occurrences
			}
			occurrences = append(occurrences, candidate)
			if g.countReached(rule, len(occurrences)) {
				return occurrences
			}
		}
	}
	g.warnCycleCap(rule)
	return occurrences
}

func (g *OccurrenceGenerator) generateMonthly(rule *entity.RecurrenceRule, occurrences []time.Time) ([]time.Time, *errors.AppError) {
	anchor := rule.StartsAt
	hour, minute, sec := anchor.Clock()
	nsec := anchor.Nanosecond()
	loc := anchor.Location()

	dayOfMonth := rule.MonthlyDay
	if dayOfMonth == 0 {
		dayOfMonth = anchor.Day()
	}

	for cycle := 1; cycle <= g.maxCycles; cycle++ {
		totalMonths := int(anchor.Month()) - 1 + cycle*rule.Interval
		year := anchor.Year() + totalMonths/12
		month := time.Month(totalMonths%12 + 1)
		lastDay := daysInMonth(year, month)

		var day int
		if rule.MonthlyOption == entity.MonthlyByWeekday {
			first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
			offset := (rule.MonthlyWeekday - int(first.Weekday()) + 7) % 7
			day = 1 + offset + 7*(rule.MonthlyPosition-1)
			if day > lastDay {
				// Position overflows the month; fall back to the last
				// such weekday instead of spilling into the next month.
				day -= 7
			}
			if day < 1 || day > lastDay {
				return nil, errors.NewAppError(errors.ErrInvalidRule, "cannot resolve monthly weekday target", nil)
			}
		} else {
			// Short months clamp: day 31 in February yields the 28th/29th.
			day = dayOfMonth
			if day > lastDay {
				day = lastDay
			}
		}

		candidate := time.Date(year, month, day, hour, minute, sec, nsec, loc)
		if !candidate.After(anchor) {
			continue
		}
		if g.pastEnd(rule, candidate) {
			return occurrences, nil
		}
		occurrences = append(occurrences, candidate)
		if g.countReached(rule, len(occurrences)) {
			return occurrences, nil
		}
	}
	g.warnCycleCap(rule)
	return occurrences, nil
}

func (g *OccurrenceGenerator) generateYearly(rule *entity.RecurrenceRule, occurrences []time.Time) []time.Time {
	anchor := rule.StartsAt
	hour, minute, sec := anchor.Clock()
	nsec := anchor.Nanosecond()
	loc := anchor.Location()

	for cycle := 1; cycle <= g.maxCycles; cycle++ {
		year := anchor.Year() + cycle*rule.Interval
		day := anchor.Day()
		if last := daysInMonth(year, anchor.Month()); day > last {
			day = last
		}

		candidate := time.Date(year, anchor.Month(), day, hour, minute, sec, nsec, loc)
		if !candidate.After(anchor) {
			continue
		}
		if g.pastEnd(rule, candidate) {
			return occurrences
		}
		occurrences = append(occurrences, candidate)
		if g.countReached(rule, len(occurrences)) {
			return occurrences
		}
	}
	g.warnCycleCap(rule)
	return occurrences
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
