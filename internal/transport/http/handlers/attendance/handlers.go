package attendancehandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hrcredit/internal/domain/attendance"
	"hrcredit/internal/domain/audit"
	"hrcredit/internal/domain/schedule"
	"hrcredit/internal/platform/jobs"
	"hrcredit/internal/platform/metrics"
	"hrcredit/internal/transport/http/api"
	"hrcredit/internal/transport/http/middleware"
	"hrcredit/internal/transport/http/shared"
)

type Service interface {
	Compute(ctx context.Context, req attendance.ComputeRequest) (attendance.ComputeResult, error)
	Get(ctx context.Context, employeeID string, date time.Time) (attendance.Record, error)
}

type Auditor interface {
	Record(ctx context.Context, actorID, action, entityType, entityID, requestID, ip string, before, after any) error
}

type Runner interface {
	RunNow(ctx context.Context, jobType, subjectID string, run func(context.Context) (any, error)) (any, error)
}

type Handler struct {
	Service Service
	Audit   Auditor
	Jobs    Runner
	Metrics *metrics.Collector
}

func NewHandler(service Service, auditor Auditor, runner Runner, collector *metrics.Collector) *Handler {
	return &Handler{Service: service, Audit: auditor, Jobs: runner, Metrics: collector}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/attendance", func(r chi.Router) {
		r.Post("/compute", h.handleCompute)
		r.Get("/{employeeID}/{date}", h.handleGetRecord)
	})
}

type computePayload struct {
	Date         string `json:"date" validate:"required"`
	EmployeeID   string `json:"employeeId" validate:"required,max=64"`
	EmployeeName string `json:"employeeName" validate:"max=200"`
	MorningIn    string `json:"morningIn" validate:"clock"`
	MorningOut   string `json:"morningOut" validate:"clock"`
	AfternoonIn  string `json:"afternoonIn" validate:"clock"`
	AfternoonOut string `json:"afternoonOut" validate:"clock"`
}

func (h *Handler) handleCompute(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload computePayload
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	validator := shared.NewValidator()
	validator.Struct(payload)
	var date time.Time
	if payload.Date != "" {
		date, _ = validator.Date("date", payload.Date)
	}
	if validator.Reject(w, requestID) {
		return
	}

	req := attendance.ComputeRequest{
		Date:         date,
		EmployeeID:   payload.EmployeeID,
		EmployeeName: payload.EmployeeName,
		Punches: attendance.Punches{
			MorningIn:    payload.MorningIn,
			MorningOut:   payload.MorningOut,
			AfternoonIn:  payload.AfternoonIn,
			AfternoonOut: payload.AfternoonOut,
		},
	}
	subject := payload.EmployeeID + "@" + date.Format("2006-01-02")
	out, err := h.run(r.Context(), jobs.JobAttendanceCompute, subject, func(ctx context.Context) (any, error) {
		return h.Service.Compute(ctx, req)
	})
	result, _ := out.(attendance.ComputeResult)
	h.Metrics.AttendanceComputed(err, err == nil && result.Resolution.Ambiguous)
	if err != nil {
		writeError(w, err, requestID)
		return
	}

	if h.Audit != nil {
		if err := h.Audit.Record(r.Context(), middleware.ActorID(r.Context()), audit.ActionAttendanceCompute, audit.EntityAttendanceRecord, result.Record.ID, requestID, shared.ClientIP(r), nil, result.Record); err != nil {
			slog.Warn("audit attendance.compute failed", "recordId", result.Record.ID, "err", err)
		}
	}
	api.Success(w, result, requestID)
}

func (h *Handler) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	validator := shared.NewValidator()
	employeeID := chi.URLParam(r, "employeeID")
	validator.Required("employeeID", employeeID, "is required")
	date, _ := validator.Date("date", chi.URLParam(r, "date"))
	if validator.Reject(w, requestID) {
		return
	}

	record, err := h.Service.Get(r.Context(), employeeID, date)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Success(w, record, requestID)
}

func (h *Handler) run(ctx context.Context, jobType, subject string, fn func(context.Context) (any, error)) (any, error) {
	if h.Jobs == nil {
		return fn(ctx)
	}
	return h.Jobs.RunNow(ctx, jobType, subject, fn)
}

func writeError(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, attendance.ErrInvalidRequest):
		api.Fail(w, http.StatusBadRequest, "invalid_request", err.Error(), requestID)
	case errors.Is(err, schedule.ErrNoShift):
		api.Fail(w, http.StatusNotFound, "no_shift", err.Error(), requestID)
	case errors.Is(err, schedule.ErrShiftNotFound):
		api.Fail(w, http.StatusNotFound, "shift_not_found", err.Error(), requestID)
	case errors.Is(err, attendance.ErrRecordNotFound):
		api.Fail(w, http.StatusNotFound, "attendance_not_found", "attendance record not found", requestID)
	default:
		slog.Error("attendance request failed", "requestId", requestID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "attendance_compute_failed", err.Error(), requestID)
	}
}
