// internal/handlers/reports.go
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ammerola/stockroom-console/internal/core/domain"
	"github.com/ammerola/stockroom-console/internal/core/ports"
	"github.com/ammerola/stockroom-console/internal/core/services"
	"github.com/ammerola/stockroom-console/internal/workers"
)

const archivePrefix = "reports/"

// ReportsHandler serves report downloads and archive requests
type ReportsHandler struct {
	base
	reports       *services.ReportService
	archive       ports.ReportArchive
	enqueuer      workers.Enqueuer
	presignExpiry time.Duration
}

type reportLink struct {
	Kind        domain.ReportKind
	Title       string
	Description string
}

type archivedReport struct {
	Key string
	URL string
}

type reportsData struct {
	Kinds          []reportLink
	ArchiveEnabled bool
	Archived       []archivedReport
}

var reportLinks = []reportLink{
	{Kind: domain.ReportAll, Title: "Full Inventory", Description: "Every item with quantity, price and value."},
	{Kind: domain.ReportLowStock, Title: "Low Stock", Description: "Items at or below their reorder level."},
	{Kind: domain.ReportValue, Title: "Inventory Valuation", Description: "Item values with the grand total."},
}

// NewReportsHandler creates a new reports handler. archive and enqueuer may
// both be nil, which disables archiving.
func NewReportsHandler(
	sessions ports.SessionStore,
	provider ports.APIProvider,
	views *Renderer,
	reports *services.ReportService,
	archive ports.ReportArchive,
	enqueuer workers.Enqueuer,
	presignExpiry time.Duration,
	logger *slog.Logger,
) *ReportsHandler {
	if presignExpiry <= 0 {
		presignExpiry = 15 * time.Minute
	}
	return &ReportsHandler{
		base: base{
			sessions: sessions,
			provider: provider,
			views:    views,
			logger:   logger.With(slog.String("handler", "reports")),
		},
		reports:       reports,
		archive:       archive,
		enqueuer:      enqueuer,
		presignExpiry: presignExpiry,
	}
}

func (h *ReportsHandler) archiveEnabled() bool {
	return h.archive != nil && h.enqueuer != nil
}

// Index handles GET /reports
func (h *ReportsHandler) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session, _ := h.api(r)

	data := reportsData{Kinds: reportLinks, ArchiveEnabled: h.archiveEnabled()}

	if data.ArchiveEnabled {
		keys, err := h.archive.List(ctx, archivePrefix)
		if err != nil {
			h.logger.ErrorContext(ctx, "failed to list archived reports", slog.Any("error", err))
			session.AddNotice(domain.NoticeDanger, "Could not list archived reports")
		}
		for _, key := range keys {
			url, err := h.archive.GetPresignedURL(ctx, key, h.presignExpiry)
			if err != nil {
				h.logger.WarnContext(ctx, "failed to presign report", slog.String("key", key), slog.Any("error", err))
			}
			data.Archived = append(data.Archived, archivedReport{Key: key, URL: url})
		}
	}

	h.render(w, r, session, "reports.html", "reports", "Reports", data)
}

// Download handles GET /reports/{kind}?format=csv|xlsx
func (h *ReportsHandler) Download(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session, api := h.api(r)

	kind, err := services.ParseReportKind(r.PathValue("kind"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	format, err := services.ParseReportFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.redirect(w, r, session, "/reports", domain.NoticeDanger, "Unsupported report format")
		return
	}

	report, err := h.reports.Generate(ctx, api, kind, format)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate report",
			slog.String("kind", string(kind)),
			slog.Any("error", err))
		h.redirect(w, r, session, "/reports", domain.NoticeDanger, noticeText(err, "Error generating report"))
		return
	}

	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(report.Data)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(report.Data); err != nil {
		h.logger.WarnContext(ctx, "failed to write report", slog.Any("error", err))
	}
}

// Archive handles POST /reports/{kind}/archive
func (h *ReportsHandler) Archive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session, _ := h.api(r)

	if !h.archiveEnabled() {
		h.redirect(w, r, session, "/reports", domain.NoticeDanger, "Report archiving is not configured")
		return
	}

	kind, err := services.ParseReportKind(r.PathValue("kind"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	task, err := workers.NewReportArchiveTask(workers.ReportArchivePayload{
		Kind:        kind,
		Token:       session.Token,
		RequestedBy: session.User.Username,
		RequestedAt: time.Now().UTC(),
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to build report archive task", slog.Any("error", err))
		h.redirect(w, r, session, "/reports", domain.NoticeDanger, "Could not queue the report for archiving")
		return
	}

	info, err := h.enqueuer.EnqueueContext(ctx, task)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to enqueue report archive",
			slog.String("kind", string(kind)),
			slog.Any("error", err))
		h.redirect(w, r, session, "/reports", domain.NoticeDanger, "Could not queue the report for archiving")
		return
	}

	h.logger.InfoContext(ctx, "report archive queued",
		slog.String("kind", string(kind)),
		slog.String("task_id", info.ID),
		slog.String("queue", info.Queue))
	h.redirect(w, r, session, "/reports", domain.NoticeInfo, "Report queued for archiving")
}
