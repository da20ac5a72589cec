// test/helpers/helpers.go
package helpers

import (
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/ammerola/stockroom-console/internal/core/domain"
	"github.com/ammerola/stockroom-console/internal/pkg/config"
)

// TestRedis represents a test Redis instance
type TestRedis struct {
	Client *redis.Client
	Server *miniredis.Miniredis
}

// TestLogger returns a test logger
func TestLogger() *slog.Logger {
	if testing.Verbose() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// SetupTestRedis creates an in-memory Redis instance for testing
func SetupTestRedis(t *testing.T) *TestRedis {
	t.Helper()

	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		client.Close()
	})

	return &TestRedis{
		Client: client,
		Server: mr,
	}
}

// LoadTestConfig returns a test configuration that passes basic validation
func LoadTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "stockroom-console-test",
			Environment: "test",
			Version:     "test",
			LogLevel:    "debug",
			LogFormat:   "text",
			Debug:       true,
		},
		Backend: config.BackendConfig{
			BaseURL:        "http://localhost:8080/api",
			RequestTimeout: 5 * time.Second,
			UserAgent:      "stockroom-console-test",
		},
		Session: config.SessionConfig{
			TTL:        time.Hour,
			CookieName: "stockroom_session",
			PageSize:   domain.DefaultPageSize,
		},
		Redis: config.RedisConfig{
			Host:        "localhost",
			Port:        "6379",
			DB:          0,
			TTL:         time.Hour,
			CategoryTTL: 10 * time.Minute,
			PoolSize:    10,
		},
		Asynq: config.AsynqConfig{
			RedisAddr:   "localhost:6379",
			Concurrency: 2,
			Queues:      map[string]int{"default": 1},
			RetryMax:    3,
		},
		Reports: config.ReportsConfig{
			FetchCap:        10000,
			Currency:        "PKR",
			ArchiveDriver:   config.ArchiveNone,
			LocalArchiveDir: os.TempDir(),
			PresignExpiry:   15 * time.Minute,
		},
		Security: config.SecurityConfig{
			RateLimitRequests: 100,
			RateLimitDuration: time.Minute,
			SecureHeaders:     false,
			RequestIDHeader:   "X-Request-ID",
		},
		Server: config.ServerConfig{
			Host:         "localhost",
			Port:         "3000",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
	}
}

var testCategories = []domain.Category{
	{ID: 1, Name: "Electronics"},
	{ID: 2, Name: "Stationery"},
	{ID: 3, Name: "Furniture"},
}

// TestCategories returns the category fixtures used across tests
func TestCategories() []domain.Category {
	out := make([]domain.Category, len(testCategories))
	copy(out, testCategories)
	return out
}

// CreateTestItem creates a test inventory item
func CreateTestItem(overrides ...func(*domain.Item)) *domain.Item {
	item := &domain.Item{
		ID:           1,
		Name:         "USB-C Cable",
		CategoryID:   1,
		CategoryName: "Electronics",
		Quantity:     40,
		ReorderLevel: 10,
		UnitPrice:    decimal.RequireFromString("12.50"),
		Description:  "1m braided cable",
		Location:     "A-01",
		SKU:          "EL-0001",
		AddedBy:      "Test Admin",
		CreatedAt:    "2025-01-15T09:30:00",
		UpdatedAt:    "2025-01-15T09:30:00",
	}

	for _, override := range overrides {
		override(item)
	}
	item.TotalValue = item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))

	return item
}

// CreateTestItems creates multiple test inventory items
func CreateTestItems(count int) []domain.Item {
	items := make([]domain.Item, count)

	for i := 0; i < count; i++ {
		category := testCategories[i%len(testCategories)]
		items[i] = *CreateTestItem(func(item *domain.Item) {
			item.ID = i + 1
			item.Name = fmt.Sprintf("Test Item %d", i+1)
			item.CategoryID = category.ID
			item.CategoryName = category.Name
			item.Quantity = (i * 7) % 50
			item.UnitPrice = decimal.NewFromInt(int64(5 + i))
			item.SKU = fmt.Sprintf("SKU-%04d", i+1)
		})
	}

	return items
}

// AssertEventuallyWithTimeout asserts that a condition is met within a timeout
func AssertEventuallyWithTimeout(t *testing.T, condition func() bool, timeout time.Duration, msg string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}

	t.Errorf("Condition not met within %v: %s", timeout, msg)
}
