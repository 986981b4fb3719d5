package handlers

import (
	"context"
	"net/http"

	"github.com/GregMSThompson/sales-dashboard/internal/dto"
	"github.com/GregMSThompson/sales-dashboard/internal/response"
)

const fetchFailedMessage = "Failed to fetch deals"

// DashboardService returns the current snapshot and whether it was reused.
type DashboardService interface {
	GetDashboard(ctx context.Context) (dto.DashboardSnapshot, bool, error)
}

type dashboardHandlers struct {
	ResponseHandler response.ResponseHandler
	DashboardSvc    DashboardService
}

func NewDashboardHandlers(deps *Deps) *dashboardHandlers {
	return &dashboardHandlers{
		ResponseHandler: deps.ResponseHandler,
		DashboardSvc:    deps.DashboardSvc,
	}
}

func (h *dashboardHandlers) GetDeals(w http.ResponseWriter, r *http.Request) {
	snap, fromCache, err := h.DashboardSvc.GetDashboard(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err, fetchFailedMessage)
		return
	}
	h.ResponseHandler.WriteCached(w, r, http.StatusOK, snap, fromCache)
}

func (h *dashboardHandlers) Healthz(w http.ResponseWriter, r *http.Request) {
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
