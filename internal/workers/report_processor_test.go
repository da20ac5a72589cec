package workers_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/stockroom-console/internal/adapters/backend"
	"github.com/ammerola/stockroom-console/internal/core/domain"
	"github.com/ammerola/stockroom-console/internal/core/services"
	"github.com/ammerola/stockroom-console/internal/workers"
	"github.com/ammerola/stockroom-console/test/helpers"
	"github.com/ammerola/stockroom-console/test/mocks"
)

func TestNewReportArchiveTask(t *testing.T) {
	requestedAt := time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC)

	task, err := workers.NewReportArchiveTask(workers.ReportArchivePayload{
		Kind:        domain.ReportValue,
		Token:       "tok",
		RequestedBy: "admin",
		RequestedAt: requestedAt,
	})
	require.NoError(t, err)

	assert.Equal(t, workers.TypeReportArchive, task.Type())

	var payload workers.ReportArchivePayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, domain.ReportValue, payload.Kind)
	assert.Equal(t, "tok", payload.Token)
	assert.True(t, requestedAt.Equal(payload.RequestedAt))

	_, err = workers.NewReportArchiveTask(workers.ReportArchivePayload{Kind: domain.ReportAll})
	assert.Error(t, err)
}

func TestNewReportArchiveTask_EnqueueOptions(t *testing.T) {
	mr := helpers.SetupTestRedis(t)
	client := asynq.NewClient(asynq.RedisClientOpt{Addr: mr.Server.Addr()})
	t.Cleanup(func() { client.Close() })

	task, err := workers.NewReportArchiveTask(workers.ReportArchivePayload{
		Kind:  domain.ReportAll,
		Token: "tok",
	})
	require.NoError(t, err)

	info, err := client.EnqueueContext(context.Background(), task)
	require.NoError(t, err)

	assert.Equal(t, workers.QueueDefault, info.Queue)
	assert.Equal(t, workers.ReportArchiveMaxRetry, info.MaxRetry)
	// the payload carries a bearer token, so completed tasks are not kept
	assert.Zero(t, info.Retention)
}

func TestReportProcessor_ArchiveReport(t *testing.T) {
	requestedAt := time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC)
	items := []domain.Item{{
		ID:           1,
		Name:         "Widget",
		CategoryName: "Tools",
		Quantity:     5,
		UnitPrice:    decimal.RequireFromString("10.00"),
		TotalValue:   decimal.RequireFromString("50.00"),
	}}

	validPayload := func(kind domain.ReportKind) []byte {
		b, _ := json.Marshal(workers.ReportArchivePayload{
			Kind:        kind,
			Token:       "tok",
			RequestedBy: "admin",
			RequestedAt: requestedAt,
		})
		return b
	}

	tests := []struct {
		name          string
		payload       []byte
		setupMocks    func(*mocks.MockAPIProvider, *mocks.MockInventoryAPI, *mocks.MockReportArchive)
		expectedError bool
		skipRetry     bool
	}{
		{
			name:    "archives_valuation_report",
			payload: validPayload(domain.ReportValue),
			setupMocks: func(p *mocks.MockAPIProvider, api *mocks.MockInventoryAPI, a *mocks.MockReportArchive) {
				p.EXPECT().As("tok").Return(api)
				api.EXPECT().ListItems(gomock.Any(), 0, services.DefaultReportFetchCap).Return(&domain.ItemPage{Content: items}, nil)
				a.EXPECT().
					Upload(gomock.Any(), "reports/2025/03/report-value-2025-03-09.csv", gomock.Any(), "text/csv; charset=utf-8").
					DoAndReturn(func(_ context.Context, key string, data io.Reader, _ string) (string, error) {
						body, err := io.ReadAll(data)
						require.NoError(t, err)
						assert.Contains(t, string(body), "Grand Total Value (PKR),50.00")
						return "s3://reports-bucket/" + key, nil
					})
			},
		},
		{
			name:    "archives_low_stock_report",
			payload: validPayload(domain.ReportLowStock),
			setupMocks: func(p *mocks.MockAPIProvider, api *mocks.MockInventoryAPI, a *mocks.MockReportArchive) {
				p.EXPECT().As("tok").Return(api)
				api.EXPECT().LowStockItems(gomock.Any()).Return(items, nil)
				a.EXPECT().
					Upload(gomock.Any(), "reports/2025/03/report-low-stock-2025-03-09.csv", gomock.Any(), gomock.Any()).
					Return("archive/reports/2025/03/report-low-stock-2025-03-09.csv", nil)
			},
		},
		{
			name:          "malformed_payload_is_not_retried",
			payload:       []byte("{not json"),
			setupMocks:    func(*mocks.MockAPIProvider, *mocks.MockInventoryAPI, *mocks.MockReportArchive) {},
			expectedError: true,
			skipRetry:     true,
		},
		{
			name:          "unknown_kind_is_not_retried",
			payload:       validPayload(domain.ReportKind("monthly")),
			setupMocks:    func(*mocks.MockAPIProvider, *mocks.MockInventoryAPI, *mocks.MockReportArchive) {},
			expectedError: true,
			skipRetry:     true,
		},
		{
			name:    "backend_rejection_is_not_retried",
			payload: validPayload(domain.ReportAll),
			setupMocks: func(p *mocks.MockAPIProvider, api *mocks.MockInventoryAPI, _ *mocks.MockReportArchive) {
				p.EXPECT().As("tok").Return(api)
				api.EXPECT().ListItems(gomock.Any(), 0, services.DefaultReportFetchCap).
					Return(nil, &backend.APIError{Op: "list items", Message: "Token expired"})
			},
			expectedError: true,
			skipRetry:     true,
		},
		{
			name:    "transport_failure_is_retried",
			payload: validPayload(domain.ReportAll),
			setupMocks: func(p *mocks.MockAPIProvider, api *mocks.MockInventoryAPI, _ *mocks.MockReportArchive) {
				p.EXPECT().As("tok").Return(api)
				api.EXPECT().ListItems(gomock.Any(), 0, services.DefaultReportFetchCap).
					Return(nil, backend.ErrTransport)
			},
			expectedError: true,
		},
		{
			name:    "upload_failure_is_retried",
			payload: validPayload(domain.ReportAll),
			setupMocks: func(p *mocks.MockAPIProvider, api *mocks.MockInventoryAPI, a *mocks.MockReportArchive) {
				p.EXPECT().As("tok").Return(api)
				api.EXPECT().ListItems(gomock.Any(), 0, services.DefaultReportFetchCap).Return(&domain.ItemPage{Content: items}, nil)
				a.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("bucket unavailable"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			provider := mocks.NewMockAPIProvider(ctrl)
			api := mocks.NewMockInventoryAPI(ctrl)
			archive := mocks.NewMockReportArchive(ctrl)
			tt.setupMocks(provider, api, archive)

			reports := services.NewReportService(helpers.TestLogger(),
				services.WithClock(func() time.Time { return requestedAt }))
			processor := workers.NewReportProcessor(provider, reports, archive, helpers.TestLogger())

			err := processor.ArchiveReport(context.Background(), asynq.NewTask(workers.TypeReportArchive, tt.payload))

			if !tt.expectedError {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.skipRetry, errors.Is(err, asynq.SkipRetry))
		})
	}
}
