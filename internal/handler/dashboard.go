package handler

import (
	"net/http"

	"github.com/habitmatrix/habitmatrix/internal/ctxkeys"
	"github.com/habitmatrix/habitmatrix/internal/service"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
}

func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	stats, err := h.dashboardService.Stats(r.Context(), user.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondOK(w, stats)
}
