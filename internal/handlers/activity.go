// internal/handlers/activity.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ammerola/stockroom-console/internal/core/domain"
	"github.com/ammerola/stockroom-console/internal/core/ports"
	"github.com/ammerola/stockroom-console/internal/core/services"
)

// ActivityHandler renders the activity log
type ActivityHandler struct {
	base
	catalog *services.CatalogService
}

type activityData struct {
	Rows []services.ActivityRow
}

// NewActivityHandler creates a new activity log handler
func NewActivityHandler(sessions ports.SessionStore, provider ports.APIProvider, views *Renderer, catalog *services.CatalogService, logger *slog.Logger) *ActivityHandler {
	return &ActivityHandler{
		base: base{
			sessions: sessions,
			provider: provider,
			views:    views,
			logger:   logger.With(slog.String("handler", "activity")),
		},
		catalog: catalog,
	}
}

// ActivityLog handles GET /activity-log
func (h *ActivityHandler) ActivityLog(w http.ResponseWriter, r *http.Request) {
	session, api := h.api(r)

	rows, err := h.catalog.ActivityLog(r.Context(), api)
	if err != nil {
		session.AddNotice(domain.NoticeDanger, noticeText(err, "Could not load activity log"))
	}

	h.render(w, r, session, "activity.html", "activity", "Activity Log", activityData{Rows: rows})
}
