package schedule

import (
	"sort"
	"time"
)

func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Matches reports whether the assignment applies on date. Explicit weekdays take
// precedence over the recurrence kind.
func Matches(a Assignment, date time.Time) bool {
	day := civil(date)
	effective := civil(a.EffectiveDate)
	if day.Before(effective) {
		return false
	}
	if a.EndDate != nil && day.After(civil(*a.EndDate)) {
		return false
	}

	if len(a.Weekdays) > 0 {
		for _, wd := range a.Weekdays {
			if wd == day.Weekday() {
				return true
			}
		}
		return false
	}

	switch a.Recurrence {
	case RecurrenceNone:
		return day.Equal(effective)
	case RecurrenceDaily, RecurrenceWeekly:
		return true
	case RecurrenceMonthly:
		return day.Day() == effective.Day()
	}
	return false
}

func outranks(a, b Assignment) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	ea, eb := civil(a.EffectiveDate), civil(b.EffectiveDate)
	if !ea.Equal(eb) {
		return ea.After(eb)
	}
	return a.ID < b.ID
}

// SelectAssignment picks the winning assignment among matches. The rest are
// returned as conflicts. ambiguous is set when the winner tied the runner-up on
// both priority and effective date.
func SelectAssignment(matches []Assignment) (best Assignment, conflicts []Assignment, ambiguous bool, ok bool) {
	if len(matches) == 0 {
		return Assignment{}, nil, false, false
	}
	ordered := append([]Assignment(nil), matches...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return outranks(ordered[i], ordered[j])
	})
	best = ordered[0]
	conflicts = ordered[1:]
	if len(conflicts) > 0 {
		next := conflicts[0]
		ambiguous = next.Priority == best.Priority && civil(next.EffectiveDate).Equal(civil(best.EffectiveDate))
	}
	return best, conflicts, ambiguous, true
}
