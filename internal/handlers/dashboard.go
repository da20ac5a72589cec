// internal/handlers/dashboard.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ammerola/stockroom-console/internal/core/domain"
	"github.com/ammerola/stockroom-console/internal/core/ports"
	"github.com/ammerola/stockroom-console/internal/core/services"
)

// DashboardHandler handles the dashboard page and its chart data
type DashboardHandler struct {
	base
	dashboard *services.DashboardService
}

type dashboardData struct {
	Stats *services.DashboardStats
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(sessions ports.SessionStore, provider ports.APIProvider, views *Renderer, dashboard *services.DashboardService, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		base: base{
			sessions: sessions,
			provider: provider,
			views:    views,
			logger:   logger.With(slog.String("handler", "dashboard")),
		},
		dashboard: dashboard,
	}
}

// Dashboard handles GET /{$}
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	session, api := h.api(r)

	stats, err := h.dashboard.Stats(r.Context(), api)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to load dashboard stats", slog.Any("error", err))
		session.AddNotice(domain.NoticeDanger, noticeText(err, "Could not load dashboard"))
	}

	h.render(w, r, session, "dashboard.html", "dashboard", "Dashboard", dashboardData{Stats: stats})
}

// Charts handles GET /dashboard/charts
func (h *DashboardHandler) Charts(w http.ResponseWriter, r *http.Request) {
	_, api := h.api(r)

	charts, err := h.dashboard.Charts(r.Context(), api)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to load chart data", slog.Any("error", err))
		h.respondError(w, http.StatusBadGateway, noticeText(err, "Could not load chart data"))
		return
	}

	h.respondJSON(w, http.StatusOK, charts)
}
