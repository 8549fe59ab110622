package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hrcredit/internal/domain/interval"
	"hrcredit/internal/requestctx"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

// Resolve selects the shift that applies to employeeID on date, falling back to
// the system default shift when no assignment matches.
func (s *Service) Resolve(ctx context.Context, employeeID string, date time.Time) (Resolution, error) {
	assignments, err := s.store.ListAssignments(ctx, employeeID, date)
	if err != nil {
		return Resolution{}, fmt.Errorf("list shift assignments for %s: %w", employeeID, err)
	}

	matches := make([]Assignment, 0, len(assignments))
	for _, a := range assignments {
		if Matches(a, date) {
			matches = append(matches, a)
		}
	}

	best, conflicts, ambiguous, ok := SelectAssignment(matches)
	if !ok {
		shift, err := s.store.DefaultShift(ctx)
		if err != nil {
			if errors.Is(err, ErrNoShift) {
				return Resolution{}, err
			}
			return Resolution{}, fmt.Errorf("load default shift: %w", err)
		}
		return Resolution{Shift: shift, UsedDefault: true}, nil
	}

	shift, err := s.store.GetShift(ctx, best.ShiftID)
	if err != nil {
		return Resolution{}, fmt.Errorf("assignment %s: %w", best.ID, err)
	}

	res := Resolution{Shift: shift, AssignmentID: best.ID, Ambiguous: ambiguous}
	for _, c := range conflicts {
		res.Conflicts = append(res.Conflicts, c.ID)
	}
	if ambiguous {
		requestctx.Logger(ctx).Warn("ambiguous shift assignment", "employeeId", employeeID, "date", date.Format("2006-01-02"), "selected", best.ID, "conflicts", res.Conflicts)
	}
	return res, nil
}

// Breaks loads the breaks mapped to shift and places them on date.
func (s *Service) Breaks(ctx context.Context, shift ShiftDefinition, date time.Time) (interval.Interval, []MappedBreak, error) {
	span, ok := shift.Interval(date)
	if !ok {
		return interval.Interval{}, nil, fmt.Errorf("shift %s: %w", shift.ID, ErrInvalidShiftTimes)
	}
	defs, err := s.store.ListBreaksForShift(ctx, shift.ID)
	if err != nil {
		return interval.Interval{}, nil, fmt.Errorf("list breaks for shift %s: %w", shift.ID, err)
	}
	return span, MapBreaks(date, span, defs), nil
}
