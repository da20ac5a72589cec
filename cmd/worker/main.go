// cmd/worker/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"

	"github.com/ammerola/stockroom-console/internal/adapters/backend"
	"github.com/ammerola/stockroom-console/internal/adapters/storage"
	"github.com/ammerola/stockroom-console/internal/core/ports"
	"github.com/ammerola/stockroom-console/internal/core/services"
	"github.com/ammerola/stockroom-console/internal/pkg/config"
	"github.com/ammerola/stockroom-console/internal/pkg/logger"
	"github.com/ammerola/stockroom-console/internal/workers"
)

func main() {
	slogger := logger.SetupLogger("info", "json")

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger.Info("starting worker",
		slog.String("environment", cfg.App.Environment),
		slog.String("redis_addr", cfg.Asynq.RedisAddr),
		slog.String("archive_driver", cfg.Reports.ArchiveDriver))

	decimal.MarshalJSONWithoutQuotes = true

	ctx := context.Background()
	archive, err := initArchive(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize report archive", slog.String("error", err.Error()))
		os.Exit(1)
	}

	client := backend.NewClient(backend.Config{
		BaseURL:   cfg.Backend.BaseURL,
		Timeout:   cfg.Backend.RequestTimeout,
		UserAgent: cfg.Backend.UserAgent,
	}, nil, slogger)

	reports := services.NewReportService(slogger,
		services.WithFetchCap(cfg.Reports.FetchCap),
		services.WithCurrency(cfg.Reports.Currency))

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Asynq.RedisAddr,
			Password: cfg.Asynq.RedisPassword,
			DB:       cfg.Asynq.RedisDB,
		},
		asynq.Config{
			Concurrency:     cfg.Asynq.Concurrency,
			Queues:          cfg.Asynq.Queues,
			StrictPriority:  cfg.Asynq.StrictPriority,
			ErrorHandler:    asynq.ErrorHandlerFunc(handleError),
			RetryDelayFunc:  workers.RetryDelay,
			ShutdownTimeout: cfg.Asynq.ShutdownTimeout,
			HealthCheckFunc: func(err error) {
				if err != nil {
					slogger.Error("worker lost redis", slog.String("error", err.Error()))
				}
			},
			Logger: workers.NewAsynqLogger(slogger),
		},
	)

	mux := asynq.NewServeMux()
	mux.Use(workers.TaskContext(slogger))

	reportProcessor := workers.NewReportProcessor(client, reports, archive, slogger)
	mux.HandleFunc(workers.TypeReportArchive, reportProcessor.ArchiveReport)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Run(mux); err != nil {
			slogger.Error("failed to run worker server", slog.String("error", err.Error()))
			shutdown <- syscall.SIGTERM
		}
	}()

	slogger.Info("worker started successfully",
		slog.Int("concurrency", cfg.Asynq.Concurrency),
		slog.Any("queues", cfg.Asynq.Queues))

	sig := <-shutdown
	slogger.Info("shutdown signal received", slog.String("signal", sig.String()))

	srv.Shutdown()
	slogger.Info("worker shutdown complete")
}

func initArchive(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ports.ReportArchive, error) {
	switch cfg.Reports.ArchiveDriver {
	case config.ArchiveS3:
		return storage.NewS3Archive(ctx, &storage.S3Config{
			Region:          cfg.AWS.Region,
			Bucket:          cfg.AWS.S3Bucket,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
			Endpoint:        cfg.AWS.S3Endpoint,
			UsePathStyle:    cfg.AWS.UsePathStyle,
		}, logger)
	case config.ArchiveLocal:
		return storage.NewLocalArchive(cfg.Reports.LocalArchiveDir, logger), nil
	default:
		return nil, fmt.Errorf("archive driver %q cannot store reports", cfg.Reports.ArchiveDriver)
	}
}

// handleError runs once retries are exhausted or skipped. The payload
// carries a bearer token and is never logged.
func handleError(ctx context.Context, task *asynq.Task, err error) {
	retried, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)
	if retried < maxRetry && !errors.Is(err, asynq.SkipRetry) {
		return
	}
	taskID, _ := asynq.GetTaskID(ctx)
	slog.ErrorContext(ctx, "report archive abandoned",
		slog.String("type", task.Type()),
		slog.String("task_id", taskID),
		slog.Int("retried", retried),
		slog.String("error", err.Error()))
}
