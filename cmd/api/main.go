// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/ammerola/stockroom-console/internal/adapters/backend"
	redis_a "github.com/ammerola/stockroom-console/internal/adapters/redis_adapter"
	"github.com/ammerola/stockroom-console/internal/adapters/storage"
	"github.com/ammerola/stockroom-console/internal/core/ports"
	"github.com/ammerola/stockroom-console/internal/core/services"
	"github.com/ammerola/stockroom-console/internal/handlers"
	"github.com/ammerola/stockroom-console/internal/handlers/middleware"
	"github.com/ammerola/stockroom-console/internal/pkg/config"
	"github.com/ammerola/stockroom-console/internal/pkg/logger"
	"github.com/ammerola/stockroom-console/internal/workers"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
	GoVersion = "unknown"
)

func main() {
	slogger := logger.SetupLogger("debug", "json")

	slogger.Info("starting stockroom console",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
		slog.String("go_version", GoVersion),
	)

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger.Info("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("log_level", cfg.App.LogLevel),
		slog.String("backend", cfg.Backend.BaseURL),
		slog.String("archive_driver", cfg.Reports.ArchiveDriver),
	)

	// The backend expects prices as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	// cancelled on exit; stops the rate limiter sweep
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deps, err := initializeDependencies(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.cleanup()

	server := setupHTTPServer(ctx, cfg, deps, slogger)

	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server",
			slog.String("address", cfg.GetServerAddress()),
			slog.Bool("tls", cfg.Server.TLSEnabled),
		)

		if cfg.Server.TLSEnabled {
			serverErrors <- server.ListenAndServeTLS(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile)
		} else {
			serverErrors <- server.ListenAndServe()
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
		}
	case sig := <-shutdown:
		slogger.Info("shutdown signal received",
			slog.String("signal", sig.String()),
		)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}

		slogger.Info("server shutdown complete")
	}
}

// dependencies holds all application dependencies
type dependencies struct {
	redisClient    *redis.Client
	asynqClient    *asynq.Client
	asynqInspector *asynq.Inspector
	handlers       *handlers.Handlers
	sessions       ports.SessionStore
}

func (d *dependencies) cleanup() {
	if d.redisClient != nil {
		d.redisClient.Close()
	}
	if d.asynqClient != nil {
		d.asynqClient.Close()
	}
	if d.asynqInspector != nil {
		d.asynqInspector.Close()
	}
}

func initializeDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dependencies, error) {
	deps := &dependencies{}

	logger.Info("connecting to Redis",
		slog.String("host", cfg.Redis.Host),
		slog.String("port", cfg.Redis.Port),
	)

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.GetRedisAddress(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxRetries:   cfg.Redis.MaxRetries,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		PoolTimeout:  cfg.Redis.PoolTimeout,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	deps.redisClient = redisClient

	cache := redis_a.NewCache(redisClient, cfg.Redis.TTL, logger)
	sessions := redis_a.NewSessionStore(cache, cfg.Session.TTL, logger)
	deps.sessions = sessions

	client := backend.NewClient(backend.Config{
		BaseURL:   cfg.Backend.BaseURL,
		Timeout:   cfg.Backend.RequestTimeout,
		UserAgent: cfg.Backend.UserAgent,
	}, nil, logger)

	archive, err := newReportArchive(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	asynqRedisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}
	deps.asynqInspector = asynq.NewInspector(asynqRedisOpt)

	// A nil interface value disables archiving in the reports handler
	var enqueuer workers.Enqueuer
	if archive != nil {
		logger.Info("initializing Asynq client")
		deps.asynqClient = asynq.NewClient(asynqRedisOpt)
		enqueuer = deps.asynqClient
	}

	views, err := handlers.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	reports := services.NewReportService(logger,
		services.WithFetchCap(cfg.Reports.FetchCap),
		services.WithCurrency(cfg.Reports.Currency))
	catalog := services.NewCatalogService(cache, cfg.Redis.CategoryTTL, logger)

	deps.handlers = &handlers.Handlers{
		Auth: handlers.NewAuthHandler(sessions, client, views, handlers.CookieOptions{
			Name:     cfg.Session.CookieName,
			Secure:   cfg.Session.CookieSecure,
			PageSize: cfg.Session.PageSize,
		}, logger),
		Dashboard: handlers.NewDashboardHandler(sessions, client, views, services.NewDashboardService(logger), logger),
		Items: handlers.NewItemsHandler(sessions, client, views,
			services.NewListController(logger), catalog, cfg.Reports.Currency, logger),
		Activity: handlers.NewActivityHandler(sessions, client, views, catalog, logger),
		Reports: handlers.NewReportsHandler(sessions, client, views, reports,
			archive, enqueuer, cfg.Reports.PresignExpiry, logger),
	}

	if cfg.Server.EnableHealthCheck {
		deps.handlers.Health = handlers.NewHealthHandler(client, redisClient, deps.asynqInspector, cfg, logger)
	}

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// newReportArchive returns nil when archiving is switched off
func newReportArchive(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ports.ReportArchive, error) {
	switch cfg.Reports.ArchiveDriver {
	case config.ArchiveS3:
		archive, err := storage.NewS3Archive(ctx, &storage.S3Config{
			Region:          cfg.AWS.Region,
			Bucket:          cfg.AWS.S3Bucket,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
			Endpoint:        cfg.AWS.S3Endpoint,
			UsePathStyle:    cfg.AWS.UsePathStyle,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 archive: %w", err)
		}
		return archive, nil
	case config.ArchiveLocal:
		return storage.NewLocalArchive(cfg.Reports.LocalArchiveDir, logger), nil
	default:
		logger.Info("report archiving disabled")
		return nil, nil
	}
}

func setupHTTPServer(ctx context.Context, cfg *config.Config, deps *dependencies, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	handlers.RegisterRoutes(mux, deps.handlers,
		middleware.RequireSession(deps.sessions, cfg.Session.CookieName, logger))

	chain := []middleware.Middleware{
		middleware.RequestID(cfg.Security.RequestIDHeader),
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.RateLimit(ctx, cfg.Security.RateLimitRequests, cfg.Security.RateLimitDuration, cfg.Security.TrustedProxies),
	}
	if cfg.Security.SecureHeaders {
		chain = append(chain, middleware.SecureHeaders)
	}
	chain = append(chain, middleware.Compression)

	return &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        middleware.Chain(mux, chain...),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
}
