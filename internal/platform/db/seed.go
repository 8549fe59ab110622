package db

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"hrcredit/internal/domain/interval"
	"hrcredit/internal/platform/config"
	"hrcredit/internal/platform/querier"
)

// Seed makes sure a system default shift exists so that shift resolution always has
// a fallback for employees without a matching assignment.
func Seed(ctx context.Context, db querier.Querier, cfg config.Config) error {
	if strings.TrimSpace(cfg.DefaultShiftStart) == "" || strings.TrimSpace(cfg.DefaultShiftEnd) == "" {
		return nil
	}
	return ensureDefaultShift(ctx, db, cfg)
}

func ensureDefaultShift(ctx context.Context, db querier.Querier, cfg config.Config) error {
	var id string
	err := db.QueryRow(ctx, "SELECT id FROM shift_definitions WHERE is_default = true LIMIT 1").Scan(&id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	var totalMinutes int64
	if span, ok := interval.Normalize(time.Now(), cfg.DefaultShiftStart, cfg.DefaultShiftEnd); ok {
		totalMinutes = span.Minutes()
	}

	err = db.QueryRow(ctx, `
    INSERT INTO shift_definitions (name, start_time, end_time, total_minutes, valid_in_start, valid_in_end, is_default)
    VALUES ($1, $2::time, $3::time, $4, NULLIF($5::text, '')::time, NULLIF($6::text, '')::time, true)
    RETURNING id
  `, cfg.DefaultShiftName, cfg.DefaultShiftStart, cfg.DefaultShiftEnd, totalMinutes, cfg.DefaultShiftValidInStart, cfg.DefaultShiftValidInEnd).Scan(&id)
	if err != nil {
		return err
	}
	slog.Info("default shift seeded", "shiftId", id, "name", cfg.DefaultShiftName)
	return nil
}
