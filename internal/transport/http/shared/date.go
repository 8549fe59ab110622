package shared

import (
	"errors"
	"time"
)

var errEmptyDate = errors.New("empty date")

// ParseDate reads an attendance or payroll date. YYYY-MM-DD is preferred; an
// RFC3339 timestamp is reduced to its calendar date in its own offset. The
// result is midnight UTC so it compares equal to DATE columns.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errEmptyDate
	}
	parsed, err := time.Parse(time.DateOnly, value)
	if err != nil {
		ts, tsErr := time.Parse(time.RFC3339, value)
		if tsErr != nil {
			return time.Time{}, err
		}
		parsed = ts
	}
	return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC), nil
}
