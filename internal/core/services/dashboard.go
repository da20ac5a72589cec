// internal/core/services/dashboard.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ammerola/stockroom-console/internal/core/domain"
	"github.com/ammerola/stockroom-console/internal/core/ports"
)

const (
	chartSampleSize   = 100
	stockChartEntries = 10
)

// DashboardService computes the dashboard figures and chart series
type DashboardService struct {
	logger *slog.Logger
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(logger *slog.Logger) *DashboardService {
	return &DashboardService{
		logger: logger.With(slog.String("service", "dashboard")),
	}
}

// Stats returns the total item count and the number of low-stock items
func (s *DashboardService) Stats(ctx context.Context, api ports.InventoryAPI) (*DashboardStats, error) {
	page, err := api.ListItems(ctx, 0, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to count items: %w", err)
	}

	lowStock, err := api.LowStockItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch low stock items: %w", err)
	}

	stats := &DashboardStats{LowStockCount: len(lowStock)}
	if page != nil {
		stats.TotalItems = page.TotalElements
	}
	return stats, nil
}

// Charts samples the first page of items and builds the category and stock
// level series
func (s *DashboardService) Charts(ctx context.Context, api ports.InventoryAPI) (*DashboardCharts, error) {
	page, err := api.ListItems(ctx, 0, chartSampleSize)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chart data: %w", err)
	}

	var items []domain.Item
	if page != nil {
		items = page.Content
	}

	charts := &DashboardCharts{
		Categories:  CategoryDistribution(items),
		StockLevels: StockLevels(items, stockChartEntries),
	}

	s.logger.DebugContext(ctx, "dashboard charts computed",
		slog.Int("sampled_items", len(items)),
		slog.Int("categories", len(charts.Categories.Labels)))

	return charts, nil
}

// CategoryDistribution counts items per category in first-seen order
func CategoryDistribution(items []domain.Item) domain.ChartSeries {
	series := domain.ChartSeries{Labels: []string{}, Values: []int{}}
	index := make(map[string]int)

	for _, item := range items {
		i, ok := index[item.CategoryName]
		if !ok {
			i = len(series.Labels)
			index[item.CategoryName] = i
			series.Labels = append(series.Labels, item.CategoryName)
			series.Values = append(series.Values, 0)
		}
		series.Values[i]++
	}

	return series
}

// StockLevels maps the first n items to their quantities
func StockLevels(items []domain.Item, n int) domain.ChartSeries {
	if len(items) > n {
		items = items[:n]
	}

	series := domain.ChartSeries{
		Labels: make([]string, 0, len(items)),
		Values: make([]int, 0, len(items)),
	}
	for _, item := range items {
		series.Labels = append(series.Labels, item.Name)
		series.Values = append(series.Values, item.Quantity)
	}
	return series
}
