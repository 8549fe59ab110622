package attendance

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

func (s *Store) TiersForShift(ctx context.Context, shiftID string) (TierSet, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT st.block_index, t.id, t.name, r.id, r.min_minutes, r.max_minutes, r.deduction_fraction
    FROM shift_late_tiers st
    JOIN late_deduction_tiers t ON t.id = st.tier_id
    LEFT JOIN late_deduction_rules r ON r.tier_id = t.id
    WHERE st.shift_id = $1
    ORDER BY st.block_index, r.min_minutes
  `, shiftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tiers := make(TierSet)
	for rows.Next() {
		var blockIndex int
		var tier Tier
		var ruleID *string
		var minMinutes, maxMinutes *int
		var fraction decimal.NullDecimal
		if err := rows.Scan(&blockIndex, &tier.ID, &tier.Name, &ruleID, &minMinutes, &maxMinutes, &fraction); err != nil {
			return nil, err
		}
		existing, ok := tiers[blockIndex]
		if !ok {
			tier.BlockIndex = blockIndex
			existing = tier
		}
		if ruleID != nil && minMinutes != nil {
			existing.Rules = append(existing.Rules, Rule{
				ID:                *ruleID,
				TierID:            existing.ID,
				MinMinutes:        *minMinutes,
				MaxMinutes:        maxMinutes,
				DeductionFraction: fraction.Decimal,
			})
		}
		tiers[blockIndex] = existing
	}
	return tiers, rows.Err()
}

func (s *Store) SaveRecord(ctx context.Context, rec Record) (Record, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Record{}, err
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			slog.Warn("attendance save rollback failed", "err", rbErr)
		}
	}()

	err = tx.QueryRow(ctx, `
    INSERT INTO attendance_records (
      employee_id, employee_name, attendance_date, shift_id,
      morning_in, morning_out, afternoon_in, afternoon_out,
      applied_break_minutes, net_creditable_minutes, actual_rendered_minutes,
      day_credit_before, day_credit
    )
    VALUES ($1,$2,$3::date,NULLIF($4::text, '')::uuid,$5,$6,$7,$8,$9,$10,$11,$12,$13)
    ON CONFLICT (employee_id, attendance_date) DO UPDATE SET
      employee_name = EXCLUDED.employee_name,
      shift_id = EXCLUDED.shift_id,
      morning_in = EXCLUDED.morning_in,
      morning_out = EXCLUDED.morning_out,
      afternoon_in = EXCLUDED.afternoon_in,
      afternoon_out = EXCLUDED.afternoon_out,
      applied_break_minutes = EXCLUDED.applied_break_minutes,
      net_creditable_minutes = EXCLUDED.net_creditable_minutes,
      actual_rendered_minutes = EXCLUDED.actual_rendered_minutes,
      day_credit_before = EXCLUDED.day_credit_before,
      day_credit = EXCLUDED.day_credit,
      updated_at = now()
    RETURNING id, created_at, updated_at
  `, rec.EmployeeID, rec.EmployeeName, rec.Date.Format("2006-01-02"), rec.ShiftID,
		rec.Punches.MorningIn, rec.Punches.MorningOut, rec.Punches.AfternoonIn, rec.Punches.AfternoonOut,
		rec.AppliedBreakMinutes, rec.NetCreditableMinutes, rec.ActualRenderedMinutes,
		rec.DayCreditBefore, rec.DayCredit).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return Record{}, fmt.Errorf("upsert attendance record: %w", err)
	}

	if _, err := tx.Exec(ctx, `
    UPDATE attendance_records
    SET late_deduction_fraction = NULL, late_deduction_days = NULL, late_rule_id = NULL, late_rule_ids = NULL
    WHERE id = $1
  `, rec.ID); err != nil {
		return Record{}, fmt.Errorf("clear late deduction: %w", err)
	}

	if rec.LateDeductionFraction.Valid {
		if _, err := tx.Exec(ctx, `
      UPDATE attendance_records
      SET late_deduction_fraction = $2,
          late_deduction_days = $3,
          late_rule_id = NULLIF($4::text, '')::uuid,
          late_rule_ids = $5::text[]::uuid[]
      WHERE id = $1
    `, rec.ID, rec.LateDeductionFraction, rec.LateDeductionDays, rec.LateRuleID, rec.LateRuleIDs); err != nil {
			return Record{}, fmt.Errorf("update late deduction: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Record{}, err
	}
	committed = true
	return rec, nil
}

func (s *Store) GetRecord(ctx context.Context, employeeID string, date time.Time) (Record, error) {
	var rec Record
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, employee_name, attendance_date, COALESCE(shift_id::text, ''),
           morning_in, morning_out, afternoon_in, afternoon_out,
           applied_break_minutes, net_creditable_minutes, actual_rendered_minutes,
           day_credit_before, day_credit, late_deduction_fraction, late_deduction_days,
           COALESCE(late_rule_id::text, ''), COALESCE(late_rule_ids::text[], '{}'),
           created_at, updated_at
    FROM attendance_records
    WHERE employee_id = $1 AND attendance_date = $2::date
  `, employeeID, date.Format("2006-01-02")).Scan(
		&rec.ID, &rec.EmployeeID, &rec.EmployeeName, &rec.Date, &rec.ShiftID,
		&rec.Punches.MorningIn, &rec.Punches.MorningOut, &rec.Punches.AfternoonIn, &rec.Punches.AfternoonOut,
		&rec.AppliedBreakMinutes, &rec.NetCreditableMinutes, &rec.ActualRenderedMinutes,
		&rec.DayCreditBefore, &rec.DayCredit, &rec.LateDeductionFraction, &rec.LateDeductionDays,
		&rec.LateRuleID, &rec.LateRuleIDs, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrRecordNotFound
	}
	if err != nil {
		return Record{}, err
	}
	if len(rec.LateRuleIDs) == 0 {
		rec.LateRuleIDs = nil
	}
	return rec, nil
}
