package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"hrcredit/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const shiftColumns = `
    id, name, COALESCE(start_time::text, ''), COALESCE(end_time::text, ''), total_minutes,
    COALESCE(valid_in_start::text, ''), COALESCE(valid_in_end::text, ''), is_default`

func scanShift(row pgx.Row) (ShiftDefinition, error) {
	var s ShiftDefinition
	err := row.Scan(&s.ID, &s.Name, &s.StartTime, &s.EndTime, &s.TotalMinutes, &s.ValidInStart, &s.ValidInEnd, &s.IsDefault)
	return s, err
}

// ListAssignments returns the employee's assignments whose date range covers date.
// Recurrence matching happens in Go.
func (s *Store) ListAssignments(ctx context.Context, employeeID string, date time.Time) ([]Assignment, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, shift_id, effective_date, end_date, recurrence_type,
           COALESCE(weekdays, '{}')::int[], priority
    FROM shift_assignments
    WHERE employee_id = $1
      AND effective_date <= $2::date
      AND (end_date IS NULL OR end_date >= $2::date)
    ORDER BY priority DESC, effective_date DESC, id
  `, employeeID, date.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Assignment, 0)
	for rows.Next() {
		var a Assignment
		var recurrence string
		var weekdays []int32
		if err := rows.Scan(&a.ID, &a.EmployeeID, &a.ShiftID, &a.EffectiveDate, &a.EndDate, &recurrence, &weekdays, &a.Priority); err != nil {
			return nil, err
		}
		if a.Recurrence, err = ParseRecurrence(recurrence); err != nil {
			return nil, fmt.Errorf("assignment %s: %w", a.ID, err)
		}
		for _, d := range weekdays {
			if d < 0 || d > 6 {
				return nil, fmt.Errorf("assignment %s: weekday %d out of range", a.ID, d)
			}
			a.Weekdays = append(a.Weekdays, time.Weekday(d))
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) GetShift(ctx context.Context, shiftID string) (ShiftDefinition, error) {
	shift, err := scanShift(s.DB.QueryRow(ctx, `SELECT `+shiftColumns+`
    FROM shift_definitions
    WHERE id = $1
  `, shiftID))
	if errors.Is(err, pgx.ErrNoRows) {
		return ShiftDefinition{}, fmt.Errorf("%w: %s", ErrShiftNotFound, shiftID)
	}
	return shift, err
}

func (s *Store) DefaultShift(ctx context.Context) (ShiftDefinition, error) {
	shift, err := scanShift(s.DB.QueryRow(ctx, `SELECT `+shiftColumns+`
    FROM shift_definitions
    WHERE is_default = true
    LIMIT 1
  `))
	if errors.Is(err, pgx.ErrNoRows) {
		return ShiftDefinition{}, ErrNoShift
	}
	return shift, err
}

func (s *Store) ListBreaksForShift(ctx context.Context, shiftID string) ([]BreakDefinition, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT b.id, b.name, COALESCE(b.start_time::text, ''), COALESCE(b.end_time::text, ''),
           COALESCE(b.valid_break_in_start::text, ''), COALESCE(b.valid_break_in_end::text, ''),
           COALESCE(b.valid_break_out_start::text, ''), COALESCE(b.valid_break_out_end::text, ''),
           b.is_shift_split
    FROM shift_breaks sb
    JOIN break_definitions b ON b.id = sb.break_id
    WHERE sb.shift_id = $1
    ORDER BY b.start_time, b.id
  `, shiftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]BreakDefinition, 0)
	for rows.Next() {
		var b BreakDefinition
		if err := rows.Scan(&b.ID, &b.Name, &b.StartTime, &b.EndTime,
			&b.ValidBreakInStart, &b.ValidBreakInEnd, &b.ValidBreakOutStart, &b.ValidBreakOutEnd,
			&b.IsShiftSplit); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
