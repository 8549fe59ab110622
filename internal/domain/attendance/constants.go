package attendance

import "time"

const (
	SegmentMorning   = "morning"
	SegmentAfternoon = "afternoon"

	BaselineShiftValidIn      = "shift_valid_in"
	BaselineSplitBreakValidIn = "split_break_valid_in"
	BaselineSplitBreakEnd     = "split_break_end"
	BaselineDefaultGrace      = "default_grace"

	SkipNoPunch = "no_punch"
	SkipNoTier  = "no_tier"
	SkipNoRule  = "no_rule"

	DefaultGraceMinutes               = 5
	DefaultEarlyPunchToleranceMinutes = 30

	overnightWindow = 12 * time.Hour
)
