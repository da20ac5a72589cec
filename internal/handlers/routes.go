// internal/handlers/routes.go
package handlers

import (
	"net/http"

	"github.com/ammerola/stockroom-console/internal/handlers/middleware"
)

// Handlers groups the console's HTTP handlers for route registration
type Handlers struct {
	Auth      *AuthHandler
	Dashboard *DashboardHandler
	Items     *ItemsHandler
	Activity  *ActivityHandler
	Reports   *ReportsHandler
	Health    *HealthHandler
}

// RegisterRoutes mounts every console route on mux. All pages except login,
// logout and the probes go through requireSession.
func RegisterRoutes(mux *http.ServeMux, h *Handlers, requireSession middleware.Middleware) {
	protected := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, requireSession(fn))
	}

	mux.HandleFunc("GET /login", h.Auth.LoginPage)
	mux.HandleFunc("POST /login", h.Auth.Login)
	mux.HandleFunc("POST /logout", h.Auth.Logout)

	if h.Health != nil {
		mux.HandleFunc("GET /health", h.Health.Health)
		mux.HandleFunc("GET /ready", h.Health.Readiness)
	}

	protected("GET /{$}", h.Dashboard.Dashboard)
	protected("GET /dashboard/charts", h.Dashboard.Charts)

	protected("GET /items", h.Items.List)
	protected("GET /items/new", h.Items.New)
	protected("POST /items", h.Items.Create)
	protected("GET /items/{id}/edit", h.Items.Edit)
	protected("POST /items/{id}", h.Items.Update)
	protected("POST /items/{id}/delete", h.Items.Delete)
	protected("POST /categories/refresh", h.Items.RefreshCategories)
	protected("GET /low-stock", h.Items.LowStock)
	protected("POST /items/{id}/add-stock", h.Items.AddStock)
	protected("POST /items/{id}/reduce-stock", h.Items.ReduceStock)

	protected("GET /activity-log", h.Activity.ActivityLog)

	protected("GET /reports", h.Reports.Index)
	protected("GET /reports/{kind}", h.Reports.Download)
	protected("POST /reports/{kind}/archive", h.Reports.Archive)
}
