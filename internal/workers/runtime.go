// internal/workers/runtime.go
package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/stockroom-console/internal/pkg/logger"
)

const (
	retryBaseDelay = 5 * time.Second
	retryMaxDelay  = 5 * time.Minute
)

// RetryDelay doubles from five seconds per attempt and caps at five minutes
func RetryDelay(n int, _ error, _ *asynq.Task) time.Duration {
	if n < 0 {
		n = 0
	}
	if n > 16 {
		return retryMaxDelay
	}
	return min(retryBaseDelay<<n, retryMaxDelay)
}

// TaskContext puts the task id on the context so handler logs carry it, and
// logs the outcome of every task. Payloads are never logged.
func TaskContext(log *slog.Logger) asynq.MiddlewareFunc {
	return func(next asynq.Handler) asynq.Handler {
		return asynq.HandlerFunc(func(ctx context.Context, t *asynq.Task) error {
			taskID, _ := asynq.GetTaskID(ctx)
			retried, _ := asynq.GetRetryCount(ctx)
			ctx = context.WithValue(ctx, logger.ContextKeyTaskID, taskID)

			start := time.Now()
			err := next.ProcessTask(ctx, t)

			attrs := []any{
				slog.String("type", t.Type()),
				slog.Int("retried", retried),
				slog.Duration("duration", time.Since(start)),
			}
			switch {
			case err == nil:
				log.InfoContext(ctx, "task done", attrs...)
			case errors.Is(err, asynq.SkipRetry):
				log.ErrorContext(ctx, "task dropped", append(attrs, slog.String("error", err.Error()))...)
			default:
				log.WarnContext(ctx, "task will retry", append(attrs, slog.String("error", err.Error()))...)
			}
			return err
		})
	}
}

// asynqLogger routes asynq's internal logging through slog
type asynqLogger struct {
	log *slog.Logger
}

// NewAsynqLogger adapts log for asynq.Config.Logger
func NewAsynqLogger(log *slog.Logger) asynq.Logger {
	return &asynqLogger{log: log.With(slog.String("component", "asynq"))}
}

func (l *asynqLogger) emit(level slog.Level, args []any) {
	l.log.Log(context.Background(), level, fmt.Sprint(args...))
}

func (l *asynqLogger) Debug(args ...any) { l.emit(slog.LevelDebug, args) }
func (l *asynqLogger) Info(args ...any)  { l.emit(slog.LevelInfo, args) }
func (l *asynqLogger) Warn(args ...any)  { l.emit(slog.LevelWarn, args) }
func (l *asynqLogger) Error(args ...any) { l.emit(slog.LevelError, args) }

func (l *asynqLogger) Fatal(args ...any) {
	l.emit(slog.LevelError, args)
	os.Exit(1)
}
