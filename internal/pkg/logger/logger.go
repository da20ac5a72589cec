// internal/pkg/logger/logger.go
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ContextKey represents keys for context values
type ContextKey string

const (
	// Context keys for logging
	ContextKeyRequestID ContextKey = "request_id"
	ContextKeySessionID ContextKey = "session_id"
	ContextKeyUsername  ContextKey = "username"
	ContextKeyTraceID   ContextKey = "trace_id"
	ContextKeyClientIP  ContextKey = "client_ip"
	ContextKeyUserAgent ContextKey = "user_agent"
	ContextKeyMethod    ContextKey = "method"
	ContextKeyPath      ContextKey = "path"
	ContextKeyTaskID    ContextKey = "task_id"

	contextKeyLogger ContextKey = "logger"
)

// LogConfig holds logger configuration
type LogConfig struct {
	Level          string  `json:"level"`
	Format         string  `json:"format"`
	Output         string  `json:"output"`
	AddSource      bool    `json:"add_source"`
	SampleRate     float64 `json:"sample_rate"`
	Environment    string  `json:"environment"`
	ServiceName    string  `json:"service_name"`
	ServiceVersion string  `json:"service_version"`
}

// Logger wraps slog.Logger with context extraction
type Logger struct {
	*slog.Logger
	config *LogConfig
}

var defaultLogger *Logger

// SetupLogger initializes the process logger and installs it as the slog default.
// LOG_OUTPUT and LOG_SAMPLE_RATE tune the destination and sampling.
func SetupLogger(level string, format string) *slog.Logger {
	sampleRate, _ := strconv.ParseFloat(os.Getenv("LOG_SAMPLE_RATE"), 64)

	config := &LogConfig{
		Level:          level,
		Format:         format,
		Output:         envOr("LOG_OUTPUT", "stdout"),
		AddSource:      level == "debug",
		SampleRate:     sampleRate,
		ServiceName:    os.Getenv("SERVICE_NAME"),
		ServiceVersion: os.Getenv("SERVICE_VERSION"),
		Environment:    os.Getenv("APP_ENV"),
	}

	l := NewLogger(config, getWriter(config.Output))
	defaultLogger = l
	slog.SetDefault(l.Logger)

	return l.Logger
}

// NewLogger creates a logger writing to w. Records pass through redaction,
// then optional sampling and context enrichment, before being formatted.
func NewLogger(config *LogConfig, w io.Writer) *Logger {
	if config == nil {
		config = &LogConfig{Level: "info", Format: "json"}
	}
	if w == nil {
		w = os.Stdout
	}

	opts := &slog.HandlerOptions{
		Level:     parseLevel(config.Level),
		AddSource: config.AddSource,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			return replaceAttr(config, groups, a)
		},
	}

	var handler slog.Handler
	switch config.Format {
	case "text":
		handler = newConsoleHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	handler = newContextHandler(handler)
	if config.SampleRate > 0 && config.SampleRate < 1.0 {
		handler = newSamplingHandler(handler, config.SampleRate)
	}
	handler = newRedactHandler(handler)

	var attrs []slog.Attr
	if config.ServiceName != "" {
		attrs = append(attrs, slog.String("service", config.ServiceName))
	}
	if config.ServiceVersion != "" {
		attrs = append(attrs, slog.String("version", config.ServiceVersion))
	}
	if config.Environment != "" {
		attrs = append(attrs, slog.String("env", config.Environment))
	}
	if len(attrs) > 0 {
		handler = handler.WithAttrs(attrs)
	}

	return &Logger{
		Logger: slog.New(handler),
		config: config,
	}
}

// WithContext returns a logger carrying the context's request values as attributes
func (l *Logger) WithContext(ctx context.Context) *slog.Logger {
	attrs := contextAttrs(ctx, defaultContextKeys())
	if len(attrs) == 0 {
		return l.Logger
	}
	return slog.New(l.Handler().WithAttrs(attrs))
}

// Helper functions

func parseLevel(level string) slog.Leveler {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getWriter(output string) io.Writer {
	switch output {
	case "stdout":
		return os.Stdout
	case "stderr":
		return os.Stderr
	default:
		if strings.HasPrefix(output, "file:") {
			filename := strings.TrimPrefix(output, "file:")
			file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return os.Stdout
			}
			return file
		}
		return os.Stdout
	}
}

func defaultContextKeys() []ContextKey {
	return []ContextKey{
		ContextKeyRequestID,
		ContextKeySessionID,
		ContextKeyUsername,
		ContextKeyTraceID,
		ContextKeyClientIP,
		ContextKeyUserAgent,
		ContextKeyMethod,
		ContextKeyPath,
		ContextKeyTaskID,
	}
}

func contextAttrs(ctx context.Context, keys []ContextKey) []slog.Attr {
	var attrs []slog.Attr
	for _, key := range keys {
		name := string(key)
		switch v := ctx.Value(key).(type) {
		case nil:
		case string:
			if v != "" {
				attrs = append(attrs, slog.String(name, v))
			}
		case int:
			attrs = append(attrs, slog.Int(name, v))
		case time.Duration:
			attrs = append(attrs, slog.Duration(name, v))
		case uuid.UUID:
			attrs = append(attrs, slog.String(name, v.String()))
		default:
			attrs = append(attrs, slog.Any(name, v))
		}
	}
	return attrs
}

func replaceAttr(config *LogConfig, _ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		if t, ok := a.Value.Any().(time.Time); ok {
			a.Value = slog.StringValue(t.Format(time.RFC3339Nano))
		}
	}

	// Rename level key for log aggregators
	if a.Key == slog.LevelKey && config.Format == "json" {
		a.Key = "severity"
	}

	if strings.HasSuffix(a.Key, "_ms") {
		if d, ok := a.Value.Any().(time.Duration); ok {
			a.Value = slog.Float64Value(float64(d.Milliseconds()))
		}
	}

	return a
}

// GetDefault returns the default logger instance
func GetDefault() *Logger {
	if defaultLogger == nil {
		defaultLogger = NewLogger(nil, os.Stdout)
	}
	return defaultLogger
}

// FromContext extracts logger from context or returns default
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(contextKeyLogger).(*Logger); ok {
		return l.WithContext(ctx)
	}
	return GetDefault().WithContext(ctx)
}

// WithLogger adds logger to context
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, contextKeyLogger, logger)
}
