package audithandler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hrcredit/internal/domain/audit"
	"hrcredit/internal/transport/http/api"
	"hrcredit/internal/transport/http/middleware"
)

const maxLimit = 500

type Lister interface {
	ListForEntity(ctx context.Context, entityType, entityID string, limit int) ([]audit.Event, error)
}

type Handler struct {
	Service Lister
}

func NewHandler(service Lister) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/audit/{entityType}/{entityID}", h.handleListEvents)
}

func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			api.Fail(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer", middleware.GetRequestID(r.Context()))
			return
		}
		limit = min(parsed, maxLimit)
	}

	events, err := h.Service.ListForEntity(r.Context(), chi.URLParam(r, "entityType"), chi.URLParam(r, "entityID"), limit)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_list_failed", "failed to list audit events", middleware.GetRequestID(r.Context()))
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	api.Success(w, events, middleware.GetRequestID(r.Context()))
}
