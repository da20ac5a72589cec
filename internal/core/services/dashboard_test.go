package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/stockroom-console/internal/core/domain"
	"github.com/ammerola/stockroom-console/internal/core/services"
	"github.com/ammerola/stockroom-console/test/helpers"
	"github.com/ammerola/stockroom-console/test/mocks"
)

func TestDashboardService_Stats(t *testing.T) {
	tests := []struct {
		name          string
		setupMocks    func(*mocks.MockInventoryAPI)
		expected      *services.DashboardStats
		errorContains string
	}{
		{
			name: "counts_total_and_low_stock",
			setupMocks: func(m *mocks.MockInventoryAPI) {
				m.EXPECT().ListItems(gomock.Any(), 0, 1).Return(&domain.ItemPage{TotalElements: 42}, nil)
				m.EXPECT().LowStockItems(gomock.Any()).Return(helpers.CreateTestItems(3), nil)
			},
			expected: &services.DashboardStats{TotalItems: 42, LowStockCount: 3},
		},
		{
			name: "empty_inventory",
			setupMocks: func(m *mocks.MockInventoryAPI) {
				m.EXPECT().ListItems(gomock.Any(), 0, 1).Return(&domain.ItemPage{}, nil)
				m.EXPECT().LowStockItems(gomock.Any()).Return([]domain.Item{}, nil)
			},
			expected: &services.DashboardStats{},
		},
		{
			name: "count_failure",
			setupMocks: func(m *mocks.MockInventoryAPI) {
				m.EXPECT().ListItems(gomock.Any(), 0, 1).Return(nil, errBackend)
			},
			errorContains: "failed to count items",
		},
		{
			name: "low_stock_failure",
			setupMocks: func(m *mocks.MockInventoryAPI) {
				m.EXPECT().ListItems(gomock.Any(), 0, 1).Return(&domain.ItemPage{TotalElements: 1}, nil)
				m.EXPECT().LowStockItems(gomock.Any()).Return(nil, errBackend)
			},
			errorContains: "failed to fetch low stock items",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			api := mocks.NewMockInventoryAPI(ctrl)
			tt.setupMocks(api)

			svc := services.NewDashboardService(helpers.TestLogger())
			stats, err := svc.Stats(context.Background(), api)

			if tt.errorContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, stats)
		})
	}
}

func TestDashboardService_Charts(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockInventoryAPI(ctrl)

	items := helpers.CreateTestItems(12)
	api.EXPECT().ListItems(gomock.Any(), 0, 100).Return(&domain.ItemPage{Content: items}, nil)

	svc := services.NewDashboardService(helpers.TestLogger())
	charts, err := svc.Charts(context.Background(), api)
	require.NoError(t, err)

	assert.Equal(t, []string{"Electronics", "Stationery", "Furniture"}, charts.Categories.Labels)
	assert.Equal(t, []int{4, 4, 4}, charts.Categories.Values)
	assert.Len(t, charts.StockLevels.Labels, 10)
	assert.Equal(t, "Test Item 1", charts.StockLevels.Labels[0])
	assert.Equal(t, items[9].Quantity, charts.StockLevels.Values[9])
}

func TestCategoryDistribution(t *testing.T) {
	tests := []struct {
		name           string
		categories     []string
		expectedLabels []string
		expectedValues []int
	}{
		{name: "empty", categories: nil, expectedLabels: []string{}, expectedValues: []int{}},
		{name: "first_seen_order", categories: []string{"B", "A", "B", "C", "A", "B"}, expectedLabels: []string{"B", "A", "C"}, expectedValues: []int{3, 2, 1}},
		{name: "single", categories: []string{"Tools"}, expectedLabels: []string{"Tools"}, expectedValues: []int{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := make([]domain.Item, 0, len(tt.categories))
			for _, c := range tt.categories {
				items = append(items, domain.Item{CategoryName: c})
			}

			series := services.CategoryDistribution(items)
			assert.Equal(t, tt.expectedLabels, series.Labels)
			assert.Equal(t, tt.expectedValues, series.Values)
		})
	}
}

func TestStockLevels(t *testing.T) {
	items := helpers.CreateTestItems(3)

	series := services.StockLevels(items, 10)

	assert.Equal(t, []string{"Test Item 1", "Test Item 2", "Test Item 3"}, series.Labels)
	assert.Equal(t, []int{items[0].Quantity, items[1].Quantity, items[2].Quantity}, series.Values)
}
