// internal/workers/report_processor.go
package workers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/stockroom-console/internal/adapters/backend"
	"github.com/ammerola/stockroom-console/internal/adapters/storage"
	"github.com/ammerola/stockroom-console/internal/core/domain"
	"github.com/ammerola/stockroom-console/internal/core/ports"
	"github.com/ammerola/stockroom-console/internal/core/services"
)

const (
	TypeReportArchive = "report:archive"

	QueueDefault          = "default"
	ReportArchiveMaxRetry = 3
	reportArchiveTimeout  = 5 * time.Minute
)

// ReportArchivePayload represents the payload for report archive jobs. The
// token is the requesting session's bearer token; the report is built with
// that user's backend permissions.
type ReportArchivePayload struct {
	Kind        domain.ReportKind `json:"kind"`
	Token       string            `json:"token"`
	RequestedBy string            `json:"requested_by"`
	RequestedAt time.Time         `json:"requested_at"`
}

// ReportArchiveResult is written to the task result on success
type ReportArchiveResult struct {
	Key      string `json:"key"`
	Location string `json:"location"`
	Rows     int    `json:"rows"`
}

// Enqueuer is the part of *asynq.Client used to submit tasks
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

var _ Enqueuer = (*asynq.Client)(nil)

// NewReportArchiveTask builds a report:archive task on the default queue
func NewReportArchiveTask(payload ReportArchivePayload) (*asynq.Task, error) {
	if payload.Token == "" {
		return nil, fmt.Errorf("report archive task requires a token")
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return asynq.NewTask(TypeReportArchive, b,
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(ReportArchiveMaxRetry),
		asynq.Timeout(reportArchiveTimeout)), nil
}

// ReportProcessor handles report archive tasks
type ReportProcessor struct {
	provider ports.APIProvider
	reports  *services.ReportService
	archive  ports.ReportArchive
	logger   *slog.Logger
}

// NewReportProcessor creates a new report processor
func NewReportProcessor(provider ports.APIProvider, reports *services.ReportService, archive ports.ReportArchive, logger *slog.Logger) *ReportProcessor {
	return &ReportProcessor{
		provider: provider,
		reports:  reports,
		archive:  archive,
		logger:   logger.With(slog.String("processor", "report")),
	}
}

// ArchiveReport builds the requested CSV report and uploads it to the archive
func (p *ReportProcessor) ArchiveReport(ctx context.Context, t *asynq.Task) error {
	start := time.Now()

	var payload ReportArchivePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	kind, err := services.ParseReportKind(string(payload.Kind))
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if payload.Token == "" {
		return fmt.Errorf("payload has no token: %w", asynq.SkipRetry)
	}
	if payload.RequestedAt.IsZero() {
		payload.RequestedAt = time.Now()
	}

	p.logger.InfoContext(ctx, "archiving report",
		slog.String("kind", string(kind)),
		slog.String("requested_by", payload.RequestedBy))

	report, err := p.reports.Generate(ctx, p.provider.As(payload.Token), kind, domain.FormatCSV)
	if err != nil {
		// the backend answered; retrying with the same token will not help
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) {
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return fmt.Errorf("failed to generate report: %w", err)
	}

	key := storage.ArchiveKey(report.Filename, payload.RequestedAt)
	location, err := p.archive.Upload(ctx, key, bytes.NewReader(report.Data), report.ContentType)
	if err != nil {
		return fmt.Errorf("failed to upload report: %w", err)
	}

	if w := t.ResultWriter(); w != nil {
		result, _ := json.Marshal(ReportArchiveResult{Key: key, Location: location, Rows: report.Rows})
		if _, err := w.Write(result); err != nil {
			p.logger.WarnContext(ctx, "failed to write task result", slog.Any("error", err))
		}
	}

	p.logger.InfoContext(ctx, "report archived",
		slog.String("key", key),
		slog.String("location", location),
		slog.Int("rows", report.Rows),
		slog.Duration("duration", time.Since(start)))

	return nil
}
