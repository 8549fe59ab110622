package schedule

import (
	"fmt"
	"strings"
)

type Recurrence string

const (
	RecurrenceNone    Recurrence = "none"
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
)

// ParseRecurrence maps a stored recurrence_type onto the closed set. An empty value
// is treated as none.
func ParseRecurrence(value string) (Recurrence, error) {
	switch Recurrence(strings.ToLower(strings.TrimSpace(value))) {
	case "", RecurrenceNone:
		return RecurrenceNone, nil
	case RecurrenceDaily:
		return RecurrenceDaily, nil
	case RecurrenceWeekly:
		return RecurrenceWeekly, nil
	case RecurrenceMonthly:
		return RecurrenceMonthly, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRecurrence, value)
}
