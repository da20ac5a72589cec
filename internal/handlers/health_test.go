// internal/handlers/health_test.go
package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/stockroom-console/internal/handlers"
	"github.com/ammerola/stockroom-console/test/helpers"
	"github.com/ammerola/stockroom-console/test/mocks"
)

func TestHealthHandler_Readiness(t *testing.T) {
	tests := []struct {
		name           string
		backendErr     error
		redisDown      bool
		expectedStatus int
		expectedReady  bool
		expectedDetail map[string]string
	}{
		{
			name:           "all_ready",
			expectedStatus: http.StatusOK,
			expectedReady:  true,
			expectedDetail: map[string]string{"backend": "ready", "redis": "ready"},
		},
		{
			name:           "backend_down_stays_ready",
			backendErr:     errors.New("connection refused"),
			expectedStatus: http.StatusOK,
			expectedReady:  true,
			expectedDetail: map[string]string{"backend": "unreachable", "redis": "ready"},
		},
		{
			name:           "redis_down",
			redisDown:      true,
			expectedStatus: http.StatusServiceUnavailable,
			expectedReady:  false,
			expectedDetail: map[string]string{"backend": "ready", "redis": "not ready"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			provider := mocks.NewMockAPIProvider(ctrl)
			provider.EXPECT().Ping(gomock.Any()).Return(tt.backendErr)

			testRedis := helpers.SetupTestRedis(t)
			if tt.redisDown {
				testRedis.Server.Close()
			}

			h := handlers.NewHealthHandler(provider, testRedis.Client, nil, helpers.LoadTestConfig(), helpers.TestLogger())

			rec := httptest.NewRecorder()
			h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)

			var body struct {
				Ready   bool              `json:"ready"`
				Details map[string]string `json:"details"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.expectedReady, body.Ready)
			assert.Equal(t, tt.expectedDetail, body.Details)
		})
	}
}

func TestHealthHandler_Health(t *testing.T) {
	tests := []struct {
		name           string
		backendErr     error
		expectedStatus int
		expectedHealth string
	}{
		{name: "healthy", expectedStatus: http.StatusOK, expectedHealth: "healthy"},
		{name: "backend_unhealthy", backendErr: errors.New("timeout"), expectedStatus: http.StatusServiceUnavailable, expectedHealth: "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			provider := mocks.NewMockAPIProvider(ctrl)
			provider.EXPECT().Ping(gomock.Any()).Return(tt.backendErr)

			cfg := helpers.LoadTestConfig()
			h := handlers.NewHealthHandler(provider, helpers.SetupTestRedis(t).Client, nil, cfg, helpers.TestLogger())

			rec := httptest.NewRecorder()
			h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)

			var status handlers.HealthStatus
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
			assert.Equal(t, tt.expectedHealth, status.Status)
			assert.Equal(t, "healthy", status.Services["redis"].Status)
			assert.Equal(t, cfg.Backend.BaseURL, status.Services["backend"].Details["base_url"])
			assert.NotContains(t, status.Services, "asynq")
		})
	}
}
