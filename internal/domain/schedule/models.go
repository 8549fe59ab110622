package schedule

import (
	"time"

	"hrcredit/internal/domain/interval"
)

// ShiftDefinition times are wall-clock "HH:MM:SS" strings; an empty string means
// not configured.
type ShiftDefinition struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	TotalMinutes int    `json:"totalMinutes"`
	ValidInStart string `json:"validInStart,omitempty"`
	ValidInEnd   string `json:"validInEnd,omitempty"`
	IsDefault    bool   `json:"isDefault"`
}

// Interval places the shift on date, rolling the end past midnight when needed.
func (s ShiftDefinition) Interval(date time.Time) (interval.Interval, bool) {
	return interval.Normalize(date, s.StartTime, s.EndTime)
}

type Assignment struct {
	ID            string         `json:"id"`
	EmployeeID    string         `json:"employeeId"`
	ShiftID       string         `json:"shiftId"`
	EffectiveDate time.Time      `json:"effectiveDate"`
	EndDate       *time.Time     `json:"endDate,omitempty"`
	Recurrence    Recurrence     `json:"recurrence"`
	Weekdays      []time.Weekday `json:"weekdays,omitempty"`
	Priority      int            `json:"priority"`
}

type BreakDefinition struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	StartTime          string `json:"startTime"`
	EndTime            string `json:"endTime"`
	ValidBreakInStart  string `json:"validBreakInStart,omitempty"`
	ValidBreakInEnd    string `json:"validBreakInEnd,omitempty"`
	ValidBreakOutStart string `json:"validBreakOutStart,omitempty"`
	ValidBreakOutEnd   string `json:"validBreakOutEnd,omitempty"`
	IsShiftSplit       bool   `json:"isShiftSplit"`
}

// MappedBreak is a break placed on an attendance date. Clipped is the part that
// falls inside the shift.
type MappedBreak struct {
	Definition BreakDefinition   `json:"definition"`
	Raw        interval.Interval `json:"raw"`
	Clipped    interval.Interval `json:"clipped"`
}

func (b MappedBreak) IsShiftSplit() bool {
	return b.Definition.IsShiftSplit
}

type Resolution struct {
	Shift        ShiftDefinition `json:"shift"`
	AssignmentID string          `json:"assignmentId,omitempty"`
	Conflicts    []string        `json:"conflicts,omitempty"`
	UsedDefault  bool            `json:"usedDefault"`
	Ambiguous    bool            `json:"ambiguous"`
}
