package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"hrcredit/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) GetPayroll(ctx context.Context, payrollID string) (Period, error) {
	var p Period
	var cadence string
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, start_date, end_date, cadence, basic_salary, total_days, total_allowances
    FROM payrolls
    WHERE id::text = $1
  `, payrollID).Scan(&p.ID, &p.EmployeeID, &p.StartDate, &p.EndDate, &cadence, &p.BasicSalary, &p.TotalDays, &p.TotalAllowances)
	if errors.Is(err, pgx.ErrNoRows) {
		return Period{}, fmt.Errorf("%w: %s", ErrPayrollNotFound, payrollID)
	}
	if err != nil {
		return Period{}, err
	}
	if p.Cadence, err = ParseCadence(cadence); err != nil {
		return Period{}, fmt.Errorf("payroll %s: %w", payrollID, err)
	}
	return p, nil
}

// ListActiveAllowances returns active allowances whose optional active range
// overlaps [start, end].
func (s *Store) ListActiveAllowances(ctx context.Context, employeeID string, start, end time.Time) ([]Allowance, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, name, amount, amount_type, COALESCE(percent_of, ''), frequency,
           prorate_if_partial, active_from, active_to
    FROM employee_allowances
    WHERE employee_id = $1
      AND is_active = true
      AND (active_from IS NULL OR active_from <= $3::date)
      AND (active_to IS NULL OR active_to >= $2::date)
    ORDER BY id
  `, employeeID, start.Format("2006-01-02"), end.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Allowance, 0)
	for rows.Next() {
		var a Allowance
		var amountType, frequency string
		if err := rows.Scan(&a.ID, &a.EmployeeID, &a.Name, &a.Amount, &amountType, &a.PercentOf, &frequency,
			&a.ProrateIfPartial, &a.ActiveFrom, &a.ActiveTo); err != nil {
			return nil, err
		}
		if a.AmountType, err = ParseAmountType(amountType); err != nil {
			return nil, fmt.Errorf("allowance %s: %w", a.ID, err)
		}
		if a.Frequency, err = ParseCadence(frequency); err != nil {
			return nil, fmt.Errorf("allowance %s: %w", a.ID, err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) ListExceptions(ctx context.Context, payrollID, employeeID string) ([]Exception, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, payroll_id, employee_id, COALESCE(allowance_id::text, '')
    FROM allowance_exceptions
    WHERE payroll_id = $1 AND employee_id = $2
  `, payrollID, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Exception, 0)
	for rows.Next() {
		var ex Exception
		if err := rows.Scan(&ex.ID, &ex.PayrollID, &ex.EmployeeID, &ex.AllowanceID); err != nil {
			return nil, err
		}
		out = append(out, ex)
	}
	return out, rows.Err()
}

func (s *Store) ReplaceJournal(ctx context.Context, payrollID string, entries []JournalEntry, total decimal.Decimal) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	if err := replaceJournalTx(ctx, tx, payrollID, entries, total); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			slog.Warn("allowance journal rollback failed", "payrollId", payrollID, "err", rbErr)
		}
		return err
	}
	return tx.Commit(ctx)
}

func replaceJournalTx(ctx context.Context, tx pgx.Tx, payrollID string, entries []JournalEntry, total decimal.Decimal) error {
	if _, err := tx.Exec(ctx, `DELETE FROM payroll_allowance_journal WHERE payroll_id = $1`, payrollID); err != nil {
		return fmt.Errorf("delete allowance journal: %w", err)
	}

	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(`
      INSERT INTO payroll_allowance_journal (payroll_id, allowance_id, employee_id, amount, start_date, end_date, note)
      VALUES ($1,$2,$3,$4,$5::date,$6::date,$7)
    `, payrollID, e.AllowanceID, e.EmployeeID, e.Amount, e.StartDate.Format("2006-01-02"), e.EndDate.Format("2006-01-02"), e.Note)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert allowance journal: %w", err)
		}
	}

	tag, err := tx.Exec(ctx, `UPDATE payrolls SET total_allowances = $2 WHERE id = $1`, payrollID, total)
	if err != nil {
		return fmt.Errorf("update payroll total: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrPayrollNotFound, payrollID)
	}
	return nil
}

func (s *Store) ListJournal(ctx context.Context, payrollID string) ([]JournalEntry, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, payroll_id, allowance_id, employee_id, amount, start_date, end_date, note
    FROM payroll_allowance_journal
    WHERE payroll_id = $1
    ORDER BY allowance_id
  `, payrollID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]JournalEntry, 0)
	for rows.Next() {
		var e JournalEntry
		if err := rows.Scan(&e.ID, &e.PayrollID, &e.AllowanceID, &e.EmployeeID, &e.Amount, &e.StartDate, &e.EndDate, &e.Note); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
