package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"hrcredit/internal/platform/querier"
	"hrcredit/internal/requestctx"
)

const (
	JobAttendanceCompute = "attendance_compute"
	JobAllowanceApply    = "allowance_apply"

	statusRunning   = "running"
	statusCompleted = "completed"
	statusFailed    = "failed"
)

// Service records every computation in compute_runs. Runs are synchronous; the
// caller's request drives each computation.
type Service struct {
	DB querier.Querier
}

func New(db querier.Querier) *Service {
	return &Service{DB: db}
}

// RunNow executes run and records its outcome. Recording failures are logged and
// never mask the computation result.
func (s *Service) RunNow(ctx context.Context, jobType, subjectID string, run func(context.Context) (any, error)) (any, error) {
	if s == nil || s.DB == nil {
		return run(ctx)
	}

	runID := ""
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO compute_runs (job_type, subject_id, status)
    VALUES ($1,$2,$3)
    RETURNING id
  `, jobType, subjectID, statusRunning).Scan(&runID); err != nil {
		requestctx.Logger(ctx).Warn("compute run insert failed", "jobType", jobType, "subjectId", subjectID, "err", err)
	}

	details, err := run(ctx)
	status := statusCompleted
	payload := details
	if err != nil {
		status = statusFailed
		payload = map[string]any{"error": err.Error()}
	}
	detailsJSON, marshalErr := json.Marshal(payload)
	if marshalErr != nil {
		slog.Warn("compute run details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if _, updErr := s.DB.Exec(ctx, `
      UPDATE compute_runs
      SET status = $1, details_json = $2, completed_at = now()
      WHERE id = $3
    `, status, detailsJSON, runID); updErr != nil {
			requestctx.Logger(ctx).Warn("compute run update failed", "runId", runID, "err", updErr)
		}
	}
	return details, err
}
