// internal/handlers/health.go
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/ammerola/stockroom-console/internal/core/ports"
	"github.com/ammerola/stockroom-console/internal/pkg/config"
	"github.com/ammerola/stockroom-console/internal/workers"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
	statusDegraded  = "degraded"
)

// dependency is one external system the console talks to. Required
// dependencies gate readiness. Background ones are left out of /ready.
type dependency struct {
	name       string
	required   bool
	background bool
	ping       func(ctx context.Context) error
	details    func(ctx context.Context) map[string]any
}

// HealthHandler serves /health and /ready
type HealthHandler struct {
	deps      []dependency
	config    *config.Config
	logger    *slog.Logger
	startedAt time.Time
}

// NewHealthHandler wires the console's dependencies into liveness and
// readiness probes. The inspector may be nil when report archiving is off.
func NewHealthHandler(
	backend ports.APIProvider,
	redisClient *redis.Client,
	inspector *asynq.Inspector,
	cfg *config.Config,
	logger *slog.Logger,
) *HealthHandler {
	deps := []dependency{
		{
			name: "backend",
			ping: backend.Ping,
			details: func(context.Context) map[string]any {
				return map[string]any{"base_url": cfg.Backend.BaseURL}
			},
		},
		{
			// sessions and the category cache live here
			name:     "redis",
			required: true,
			ping:     func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
			details: func(context.Context) map[string]any {
				stats := redisClient.PoolStats()
				return map[string]any{
					"total_conns": stats.TotalConns,
					"idle_conns":  stats.IdleConns,
					"stale_conns": stats.StaleConns,
				}
			},
		},
	}

	if inspector != nil {
		deps = append(deps, dependency{
			name:       "asynq",
			background: true,
			ping: func(context.Context) error {
				_, err := inspector.Queues()
				return err
			},
			details: func(context.Context) map[string]any { return archiveQueueDetails(inspector) },
		})
	}

	return &HealthHandler{
		deps:      deps,
		config:    cfg,
		logger:    logger.With(slog.String("handler", "health")),
		startedAt: time.Now(),
	}
}

// HealthStatus is the /health response body
type HealthStatus struct {
	Status      string                 `json:"status"`
	Version     string                 `json:"version"`
	Environment string                 `json:"environment"`
	Uptime      string                 `json:"uptime"`
	Timestamp   time.Time              `json:"timestamp"`
	Services    map[string]ServiceInfo `json:"services"`
	Runtime     RuntimeInfo            `json:"runtime"`
}

// ServiceInfo reports a single dependency
type ServiceInfo struct {
	Status       string         `json:"status"`
	Message      string         `json:"message,omitempty"`
	ResponseTime string         `json:"response_time,omitempty"`
	Details      map[string]any `json:"details,omitempty"`
}

type RuntimeInfo struct {
	GoVersion    string `json:"go_version"`
	Goroutines   int    `json:"goroutines"`
	HeapAllocMB  uint64 `json:"heap_alloc_mb"`
	GCPauseTotal string `json:"gc_pause_total"`
	NumGC        uint32 `json:"num_gc"`
}

// Health probes every dependency. Any failure degrades the console and
// answers 503.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := HealthStatus{
		Status:      statusHealthy,
		Version:     h.config.App.Version,
		Environment: h.config.App.Environment,
		Uptime:      time.Since(h.startedAt).Round(time.Second).String(),
		Timestamp:   time.Now(),
		Services:    make(map[string]ServiceInfo, len(h.deps)),
		Runtime:     runtimeInfo(),
	}

	for _, dep := range h.deps {
		info := h.probe(ctx, dep)
		if info.Status != statusHealthy {
			status.Status = statusDegraded
		}
		status.Services[dep.name] = info
	}

	code := http.StatusOK
	if status.Status != statusHealthy {
		code = http.StatusServiceUnavailable
	}
	h.writeJSON(ctx, w, code, status)
}

// Readiness answers 503 only when a required dependency is down
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ready := true
	details := make(map[string]string, len(h.deps))

	for _, dep := range h.deps {
		if dep.background {
			continue
		}
		err := dep.ping(ctx)
		switch {
		case err == nil:
			details[dep.name] = "ready"
		case dep.required:
			ready = false
			details[dep.name] = "not ready"
		default:
			details[dep.name] = "unreachable"
		}
	}

	code := http.StatusOK
	if !ready {
		code = http.StatusServiceUnavailable
	}
	h.writeJSON(ctx, w, code, map[string]any{
		"ready":   ready,
		"details": details,
	})
}

func (h *HealthHandler) probe(ctx context.Context, dep dependency) ServiceInfo {
	start := time.Now()
	if err := dep.ping(ctx); err != nil {
		h.logger.ErrorContext(ctx, "health check failed",
			slog.String("dependency", dep.name),
			slog.String("error", err.Error()))
		return ServiceInfo{
			Status:  statusUnhealthy,
			Message: err.Error(),
			Details: dep.details(ctx),
		}
	}

	return ServiceInfo{
		Status:       statusHealthy,
		ResponseTime: time.Since(start).String(),
		Details:      dep.details(ctx),
	}
}

func (h *HealthHandler) writeJSON(ctx context.Context, w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.ErrorContext(ctx, "failed to encode health response",
			slog.String("error", err.Error()))
	}
}

// archiveQueueDetails reports the queue report archive tasks run on
func archiveQueueDetails(inspector *asynq.Inspector) map[string]any {
	details := map[string]any{"queue": workers.QueueDefault}

	if q, err := inspector.GetQueueInfo(workers.QueueDefault); err == nil {
		details["pending"] = q.Pending
		details["active"] = q.Active
		details["retry"] = q.Retry
		details["archived"] = q.Archived
		details["completed"] = q.Completed
	}
	if servers, err := inspector.Servers(); err == nil {
		details["servers"] = len(servers)
	}
	return details
}

func runtimeInfo() RuntimeInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return RuntimeInfo{
		GoVersion:    runtime.Version(),
		Goroutines:   runtime.NumGoroutine(),
		HeapAllocMB:  m.HeapAlloc / 1024 / 1024,
		GCPauseTotal: time.Duration(m.PauseTotalNs).String(),
		NumGC:        m.NumGC,
	}
}
