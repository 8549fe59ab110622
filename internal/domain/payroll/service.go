package payroll

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"hrcredit/internal/platform/lock"
	"hrcredit/internal/requestctx"
)

type Service struct {
	store      StoreAPI
	locker     lock.Locker
	nonWorking []time.Weekday
}

func NewService(store StoreAPI, locker lock.Locker, nonWorking []time.Weekday) *Service {
	return &Service{store: store, locker: locker, nonWorking: nonWorking}
}

// ApplyAllowances recomputes the allowance journal of a payroll and replaces the
// stored journal and total atomically. Concurrent calls for the same payroll are
// serialized.
func (s *Service) ApplyAllowances(ctx context.Context, payrollID string) (ApplyResult, error) {
	payrollID = strings.TrimSpace(payrollID)
	if payrollID == "" {
		return ApplyResult{}, fmt.Errorf("%w: payroll id is required", ErrInvalidRequest)
	}

	if s.locker != nil {
		release, err := s.locker.Acquire(ctx, lockKeyPrefix+payrollID)
		if err != nil {
			return ApplyResult{}, fmt.Errorf("lock payroll %s: %w", payrollID, err)
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				requestctx.Logger(ctx).Warn("payroll lock release failed", "payrollId", payrollID, "err", err)
			}
		}()
	}

	period, err := s.store.GetPayroll(ctx, payrollID)
	if err != nil {
		return ApplyResult{}, err
	}
	allowances, err := s.store.ListActiveAllowances(ctx, period.EmployeeID, period.StartDate, period.EndDate)
	if err != nil {
		return ApplyResult{}, fmt.Errorf("list allowances for %s: %w", period.EmployeeID, err)
	}
	exceptions, err := s.store.ListExceptions(ctx, period.ID, period.EmployeeID)
	if err != nil {
		return ApplyResult{}, fmt.Errorf("list allowance exceptions for payroll %s: %w", period.ID, err)
	}

	comp := ComputeAllowances(period, allowances, exceptions, s.nonWorking)
	if err := s.store.ReplaceJournal(ctx, period.ID, comp.Entries, comp.Total); err != nil {
		return ApplyResult{}, fmt.Errorf("replace allowance journal for payroll %s: %w", period.ID, err)
	}

	requestctx.Logger(ctx).Info("allowances applied", "payrollId", period.ID, "entries", len(comp.Entries), "skipped", len(comp.Skipped), "total", comp.Total.StringFixed(2))
	return ApplyResult{
		PayrollID:       period.ID,
		TotalAllowances: comp.Total,
		DaysInRange:     comp.DaysInRange,
		Entries:         comp.Entries,
		Skipped:         comp.Skipped,
	}, nil
}

func (s *Service) Journal(ctx context.Context, payrollID string) (Period, []JournalEntry, error) {
	if strings.TrimSpace(payrollID) == "" {
		return Period{}, nil, fmt.Errorf("%w: payroll id is required", ErrInvalidRequest)
	}
	period, err := s.store.GetPayroll(ctx, payrollID)
	if err != nil {
		return Period{}, nil, err
	}
	entries, err := s.store.ListJournal(ctx, period.ID)
	if err != nil {
		return Period{}, nil, err
	}
	return period, entries, nil
}

// JournalPDF renders the stored allowance journal of a payroll.
func (s *Service) JournalPDF(ctx context.Context, payrollID string) ([]byte, error) {
	period, entries, err := s.Journal(ctx, payrollID)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Allowance Journal")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Payroll: %s", period.ID))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", period.EmployeeID))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s (%s)", period.StartDate.Format("2006-01-02"), period.EndDate.Format("2006-01-02"), period.Cadence))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(45, 7, "Allowance", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 7, "Amount", "1", 0, "R", false, 0, "")
	pdf.CellFormat(115, 7, "Note", "1", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	for _, e := range entries {
		pdf.CellFormat(45, 7, e.AllowanceID[:min(8, len(e.AllowanceID))], "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, e.Amount.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(115, 7, e.Note, "1", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total allowances: %s", period.TotalAllowances.StringFixed(2)))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
