package schedule

import "errors"

var (
	ErrNoShift           = errors.New("no shift assignment matches and no default shift is configured")
	ErrShiftNotFound     = errors.New("shift not found")
	ErrInvalidRecurrence = errors.New("invalid recurrence type")
	ErrInvalidShiftTimes = errors.New("shift start or end time is not set")
)
