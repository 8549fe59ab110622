package payrollhandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrcredit/internal/domain/audit"
	"hrcredit/internal/domain/payroll"
	"hrcredit/internal/platform/jobs"
	"hrcredit/internal/platform/lock"
	"hrcredit/internal/platform/metrics"
	"hrcredit/internal/transport/http/api"
	"hrcredit/internal/transport/http/middleware"
	"hrcredit/internal/transport/http/shared"
)

type Service interface {
	ApplyAllowances(ctx context.Context, payrollID string) (payroll.ApplyResult, error)
	Journal(ctx context.Context, payrollID string) (payroll.Period, []payroll.JournalEntry, error)
	JournalPDF(ctx context.Context, payrollID string) ([]byte, error)
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
	r.Route("/payrolls/{payrollID}/allowances", func(r chi.Router) {
		r.Post("/apply", h.handleApplyAllowances)
		r.Get("/", h.handleListJournal)
		r.Get("/export.pdf", h.handleExportJournal)
	})
}

type journalResponse struct {
	Payroll payroll.Period         `json:"payroll"`
	Entries []payroll.JournalEntry `json:"entries"`
}

func (h *Handler) handleApplyAllowances(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	payrollID := chi.URLParam(r, "payrollID")

	var out any
	var err error
	run := func(ctx context.Context) (any, error) {
		return h.Service.ApplyAllowances(ctx, payrollID)
	}
	if h.Jobs != nil {
		out, err = h.Jobs.RunNow(r.Context(), jobs.JobAllowanceApply, payrollID, run)
	} else {
		out, err = run(r.Context())
	}
	h.Metrics.AllowancesApplied(err)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	result, _ := out.(payroll.ApplyResult)

	if h.Audit != nil {
		if err := h.Audit.Record(r.Context(), middleware.ActorID(r.Context()), audit.ActionAllowancesApply, audit.EntityPayroll, result.PayrollID, requestID, shared.ClientIP(r), nil, result); err != nil {
			slog.Warn("audit payroll.allowances.apply failed", "payrollId", result.PayrollID, "err", err)
		}
	}
	api.Success(w, result, requestID)
}

func (h *Handler) handleListJournal(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	period, entries, err := h.Service.Journal(r.Context(), chi.URLParam(r, "payrollID"))
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	if entries == nil {
		entries = []payroll.JournalEntry{}
	}
	api.Success(w, journalResponse{Payroll: period, Entries: entries}, requestID)
}

func (h *Handler) handleExportJournal(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	payrollID := chi.URLParam(r, "payrollID")
	doc, err := h.Service.JournalPDF(r.Context(), payrollID)
	if err != nil {
		writeError(w, err, requestID)
		return
	}
	api.Attachment(w, "application/pdf", "allowances-"+payrollID+".pdf", doc)
}

func writeError(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, payroll.ErrInvalidRequest):
		api.Fail(w, http.StatusBadRequest, "invalid_request", err.Error(), requestID)
	case errors.Is(err, payroll.ErrPayrollNotFound):
		api.Fail(w, http.StatusNotFound, "payroll_not_found", "payroll not found", requestID)
	case errors.Is(err, lock.ErrLocked):
		api.Fail(w, http.StatusConflict, "payroll_busy", "allowances are being applied to this payroll", requestID)
	default:
		slog.Error("payroll allowance request failed", "requestId", requestID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "payroll_allowances_failed", err.Error(), requestID)
	}
}
