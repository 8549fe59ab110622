package attendance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"hrcredit/internal/domain/interval"
	"hrcredit/internal/domain/schedule"
)

type ShiftResolver interface {
	Resolve(ctx context.Context, employeeID string, date time.Time) (schedule.Resolution, error)
	Breaks(ctx context.Context, shift schedule.ShiftDefinition, date time.Time) (interval.Interval, []schedule.MappedBreak, error)
}

type Options struct {
	GraceMinutes               int
	EarlyPunchToleranceMinutes int
	Location                   *time.Location
}

type Service struct {
	store     StoreAPI
	shifts    ShiftResolver
	grace     time.Duration
	tolerance time.Duration
	loc       *time.Location
}

func NewService(store StoreAPI, shifts ShiftResolver, opts Options) *Service {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		store:     store,
		shifts:    shifts,
		grace:     time.Duration(opts.GraceMinutes) * time.Minute,
		tolerance: time.Duration(opts.EarlyPunchToleranceMinutes) * time.Minute,
		loc:       loc,
	}
}

func (s *Service) day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc)
}

// Compute derives the day credit for one employee and date, applies late
// deductions and stores the result. Recomputing overwrites the previous result.
func (s *Service) Compute(ctx context.Context, req ComputeRequest) (ComputeResult, error) {
	if strings.TrimSpace(req.EmployeeID) == "" {
		return ComputeResult{}, fmt.Errorf("%w: employee id is required", ErrInvalidRequest)
	}
	if req.Date.IsZero() {
		return ComputeResult{}, fmt.Errorf("%w: date is required", ErrInvalidRequest)
	}
	date := s.day(req.Date)

	resolution, err := s.shifts.Resolve(ctx, req.EmployeeID, date)
	if err != nil {
		return ComputeResult{}, err
	}
	span, breaks, err := s.shifts.Breaks(ctx, resolution.Shift, date)
	if err != nil {
		return ComputeResult{}, err
	}

	worked := AlignToShift(span, WorkedIntervals(date, req.Punches))
	credit := ComputeCredit(span, breaks, worked)

	tiers, err := s.store.TiersForShift(ctx, resolution.Shift.ID)
	if err != nil {
		return ComputeResult{}, fmt.Errorf("load late tiers for shift %s: %w", resolution.Shift.ID, err)
	}

	late := ApplyLateDeductions(LateInput{
		Date:            date,
		Blocks:          BuildBlocks(credit.Creditable, breaks),
		Worked:          worked,
		ShiftValidInEnd: resolution.Shift.ValidInEnd,
		Tiers:           tiers,
		DayCredit:       credit.DayCreditFraction,
		Grace:           s.grace,
		EarlyTolerance:  s.tolerance,
	})

	rec := Record{
		EmployeeID:            req.EmployeeID,
		EmployeeName:          req.EmployeeName,
		Date:                  date,
		ShiftID:               resolution.Shift.ID,
		Punches:               req.Punches,
		AppliedBreakMinutes:   credit.AppliedBreakMinutes,
		NetCreditableMinutes:  credit.CreditBasisMinutes,
		ActualRenderedMinutes: credit.RenderedMinutes(),
		DayCreditBefore:       credit.DayCreditFraction,
		DayCredit:             late.FinalDayCredit,
	}
	// A matched zero-fraction rule is still recorded.
	if len(late.RuleIDs) > 0 {
		rec.LateDeductionFraction = decimal.NewNullDecimal(late.TotalDeduction)
		rec.LateDeductionDays = decimal.NewNullDecimal(credit.DayCreditFraction.Sub(late.FinalDayCredit))
		rec.LateRuleID = late.LastRuleID
		rec.LateRuleIDs = late.RuleIDs
	}

	saved, err := s.store.SaveRecord(ctx, rec)
	if err != nil {
		return ComputeResult{}, fmt.Errorf("save attendance record: %w", err)
	}

	return ComputeResult{
		Record:          saved,
		Resolution:      resolution,
		Credit:          credit,
		Blocks:          late.Blocks,
		DayCreditBefore: credit.DayCreditFraction,
		DayCreditAfter:  late.FinalDayCredit,
	}, nil
}

func (s *Service) Get(ctx context.Context, employeeID string, date time.Time) (Record, error) {
	if strings.TrimSpace(employeeID) == "" || date.IsZero() {
		return Record{}, fmt.Errorf("%w: employee id and date are required", ErrInvalidRequest)
	}
	return s.store.GetRecord(ctx, employeeID, s.day(date))
}
