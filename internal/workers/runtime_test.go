package workers_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"

	"github.com/ammerola/stockroom-console/internal/pkg/logger"
	"github.com/ammerola/stockroom-console/internal/workers"
)

func TestRetryDelay(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 5 * time.Second},
		{1, 10 * time.Second},
		{3, 40 * time.Second},
		{6, 5 * time.Minute},
		{40, 5 * time.Minute},
		{-1, 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt_%d", tt.attempt), func(t *testing.T) {
			assert.Equal(t, tt.expected, workers.RetryDelay(tt.attempt, nil, nil))
		})
	}
}

func TestTaskContext(t *testing.T) {
	tests := []struct {
		name        string
		handlerErr  error
		expectedMsg string
	}{
		{name: "success", expectedMsg: "task done"},
		{name: "retryable_failure", handlerErr: errors.New("s3 timeout"), expectedMsg: "task will retry"},
		{name: "skip_retry", handlerErr: fmt.Errorf("bad payload: %w", asynq.SkipRetry), expectedMsg: "task dropped"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := slog.New(slog.NewTextHandler(&buf, nil))

			var sawTaskKey bool
			handler := workers.TaskContext(log)(asynq.HandlerFunc(func(ctx context.Context, _ *asynq.Task) error {
				_, sawTaskKey = ctx.Value(logger.ContextKeyTaskID).(string)
				return tt.handlerErr
			}))

			task := asynq.NewTask(workers.TypeReportArchive, []byte(`{"token":"secret-token"}`))
			err := handler.ProcessTask(context.Background(), task)

			assert.Equal(t, tt.handlerErr, err)
			assert.True(t, sawTaskKey)
			assert.Contains(t, buf.String(), tt.expectedMsg)
			assert.Contains(t, buf.String(), "type="+workers.TypeReportArchive)
			assert.NotContains(t, buf.String(), "secret-token")
		})
	}
}

func TestAsynqLogger(t *testing.T) {
	var buf bytes.Buffer
	l := workers.NewAsynqLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	l.Info("server ", "started")
	l.Warn("lease ", 3, " expired")

	out := buf.String()
	assert.Contains(t, out, `msg="server started"`)
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, `msg="lease 3 expired"`)
	assert.Contains(t, out, "component=asynq")
}
