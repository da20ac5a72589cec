package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/stockroom-console/internal/core/domain"
	"github.com/ammerola/stockroom-console/internal/core/services"
	"github.com/ammerola/stockroom-console/test/helpers"
	"github.com/ammerola/stockroom-console/test/mocks"
)

func labels(controls []services.PageControl) []string {
	out := make([]string, 0, len(controls))
	for _, c := range controls {
		out = append(out, c.Label)
	}
	return out
}

func TestBuildPagination(t *testing.T) {
	tests := []struct {
		name       string
		current    int
		totalPages int
		expected   []string
		active     string
	}{
		{name: "no_pages", current: 0, totalPages: 0, expected: []string{}},
		{name: "single_page", current: 0, totalPages: 1, expected: []string{"1"}, active: "1"},
		{name: "first_of_three", current: 0, totalPages: 3, expected: []string{"1", "2", "3", "Next"}, active: "1"},
		{name: "middle_of_three", current: 1, totalPages: 3, expected: []string{"Previous", "1", "2", "3", "Next"}, active: "2"},
		{name: "last_of_three", current: 2, totalPages: 3, expected: []string{"Previous", "1", "2", "3"}, active: "3"},
		{name: "eight_pages_capped", current: 0, totalPages: 8, expected: []string{"1", "2", "3", "4", "5", "Next"}, active: "1"},
		{name: "beyond_strip", current: 6, totalPages: 8, expected: []string{"Previous", "1", "2", "3", "4", "5", "Next"}},
		{name: "last_beyond_strip", current: 7, totalPages: 8, expected: []string{"Previous", "1", "2", "3", "4", "5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			controls := services.BuildPagination(tt.current, tt.totalPages)
			assert.Equal(t, tt.expected, labels(controls))

			var active []string
			for _, c := range controls {
				if c.Active {
					active = append(active, c.Label)
				}
			}
			if tt.active == "" {
				assert.Empty(t, active)
			} else {
				assert.Equal(t, []string{tt.active}, active)
			}
		})
	}
}

func TestBuildPagination_Targets(t *testing.T) {
	controls := services.BuildPagination(2, 4)

	require.Len(t, controls, 6)
	assert.Equal(t, services.PageControl{Label: "Previous", Page: 1}, controls[0])
	assert.Equal(t, 0, controls[1].Page)
	assert.Equal(t, 3, controls[4].Page)
	assert.Equal(t, services.PageControl{Label: "Next", Page: 3}, controls[5])
}

func TestBuildRows(t *testing.T) {
	t.Run("empty_list_yields_placeholder", func(t *testing.T) {
		rows := services.BuildRows(nil, true)

		require.Len(t, rows, 1)
		assert.True(t, rows[0].Placeholder)
		assert.Equal(t, services.ItemTableColumns, rows[0].ColSpan)
		assert.Equal(t, "No items found", rows[0].Message)
	})

	t.Run("rows_keep_server_order", func(t *testing.T) {
		items := helpers.CreateTestItems(3)
		items[0], items[2] = items[2], items[0]

		rows := services.BuildRows(items, false)

		require.Len(t, rows, 3)
		assert.Equal(t, []int{3, 2, 1}, []int{rows[0].ID, rows[1].ID, rows[2].ID})
		for _, row := range rows {
			assert.False(t, row.CanDelete)
			assert.False(t, row.Placeholder)
		}
	})

	t.Run("formats_money_and_flags_low_stock", func(t *testing.T) {
		item := helpers.CreateTestItem(func(i *domain.Item) {
			i.Quantity = 10
			i.ReorderLevel = 10
		})

		rows := services.BuildRows([]domain.Item{*item}, true)

		require.Len(t, rows, 1)
		assert.Equal(t, "12.50", rows[0].UnitPrice)
		assert.Equal(t, "125.00", rows[0].TotalValue)
		assert.True(t, rows[0].LowStock)
		assert.True(t, rows[0].CanDelete)
	})
}

func itemPage(items []domain.Item, number, totalPages int, total int64) *domain.ItemPage {
	return &domain.ItemPage{
		Content:       items,
		TotalPages:    totalPages,
		TotalElements: total,
		Number:        number,
		Size:          domain.DefaultPageSize,
	}
}

func TestListController_Load(t *testing.T) {
	ctx := context.Background()
	items := helpers.CreateTestItems(3)

	tests := []struct {
		name         string
		state        domain.ViewState
		query        services.ListQuery
		setupMocks   func(*mocks.MockInventoryAPI)
		expectedPage int
		expectedTerm string
		expectedRows int
		errorIs      error
	}{
		{
			name:  "lists_first_page",
			state: domain.ViewState{PageSize: 10},
			setupMocks: func(m *mocks.MockInventoryAPI) {
				m.EXPECT().ListItems(gomock.Any(), 0, 10).Return(itemPage(items, 0, 1, 3), nil)
			},
			expectedPage: 0,
			expectedRows: 3,
		},
		{
			name:  "defaults_page_size",
			state: domain.ViewState{},
			setupMocks: func(m *mocks.MockInventoryAPI) {
				m.EXPECT().ListItems(gomock.Any(), 0, domain.DefaultPageSize).Return(itemPage(items, 0, 1, 3), nil)
			},
			expectedPage: 0,
			expectedRows: 3,
		},
		{
			name:  "search_submit_resets_page",
			state: domain.ViewState{CurrentPage: 4, PageSize: 10},
			query: services.ListQuery{Search: ptr("cable")},
			setupMocks: func(m *mocks.MockInventoryAPI) {
				m.EXPECT().SearchItems(gomock.Any(), "cable", 0, 10).Return(itemPage(items[:1], 0, 1, 1), nil)
			},
			expectedPage: 0,
			expectedTerm: "cable",
			expectedRows: 1,
		},
		{
			name:  "empty_search_submit_clears_term",
			state: domain.ViewState{CurrentPage: 2, PageSize: 10, SearchTerm: "cable"},
			query: services.ListQuery{Search: ptr("")},
			setupMocks: func(m *mocks.MockInventoryAPI) {
				m.EXPECT().ListItems(gomock.Any(), 0, 10).Return(itemPage(items, 0, 1, 3), nil)
			},
			expectedPage: 0,
			expectedRows: 3,
		},
		{
			name:  "retained_search_term_used_without_submit",
			state: domain.ViewState{CurrentPage: 1, PageSize: 10, SearchTerm: "cable"},
			setupMocks: func(m *mocks.MockInventoryAPI) {
				m.EXPECT().SearchItems(gomock.Any(), "cable", 1, 10).Return(itemPage(items, 1, 2, 13), nil)
			},
			expectedPage: 1,
			expectedTerm: "cable",
			expectedRows: 3,
		},
		{
			name:  "out_of_range_page_clamped_and_refetched",
			state: domain.ViewState{CurrentPage: 9, PageSize: 10},
			setupMocks: func(m *mocks.MockInventoryAPI) {
				gomock.InOrder(
					m.EXPECT().ListItems(gomock.Any(), 9, 10).Return(itemPage(nil, 9, 3, 25), nil),
					m.EXPECT().ListItems(gomock.Any(), 2, 10).Return(itemPage(items, 2, 3, 25), nil),
				)
			},
			expectedPage: 2,
			expectedRows: 3,
		},
		{
			name:  "negative_page_treated_as_first",
			state: domain.ViewState{CurrentPage: -3, PageSize: 10},
			setupMocks: func(m *mocks.MockInventoryAPI) {
				m.EXPECT().ListItems(gomock.Any(), 0, 10).Return(itemPage(items, 0, 1, 3), nil)
			},
			expectedPage: 0,
			expectedRows: 3,
		},
		{
			name:  "empty_result_yields_placeholder",
			state: domain.ViewState{CurrentPage: 3, PageSize: 10},
			setupMocks: func(m *mocks.MockInventoryAPI) {
				m.EXPECT().ListItems(gomock.Any(), 3, 10).Return(itemPage([]domain.Item{}, 3, 0, 0), nil)
			},
			expectedPage: 0,
			expectedRows: 1,
		},
		{
			name:  "backend_failure_propagates",
			state: domain.ViewState{PageSize: 10},
			setupMocks: func(m *mocks.MockInventoryAPI) {
				m.EXPECT().ListItems(gomock.Any(), 0, 10).Return(nil, errBackend)
			},
			errorIs: errBackend,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			api := mocks.NewMockInventoryAPI(ctrl)
			tt.setupMocks(api)

			controller := services.NewListController(helpers.TestLogger())
			state := tt.state
			table, err := controller.Load(ctx, api, &state, tt.query)

			if tt.errorIs != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.errorIs))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expectedPage, state.CurrentPage)
			assert.Equal(t, tt.expectedPage, table.CurrentPage)
			assert.Equal(t, tt.expectedTerm, state.SearchTerm)
			assert.Len(t, table.Rows, tt.expectedRows)
		})
	}
}

func TestListController_GoToPage_KeepsSearchTerm(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockInventoryAPI(ctrl)

	items := helpers.CreateTestItems(2)
	api.EXPECT().SearchItems(gomock.Any(), "widget", 2, 5).Return(itemPage(items, 2, 4, 17), nil)

	controller := services.NewListController(helpers.TestLogger())
	state := domain.ViewState{CurrentPage: 0, PageSize: 5, SearchTerm: "widget"}

	table, err := controller.GoToPage(context.Background(), api, &state, 2, true)
	require.NoError(t, err)

	assert.Equal(t, 2, state.CurrentPage)
	assert.Equal(t, "widget", table.SearchTerm)
	assert.Equal(t, int64(17), table.TotalElements)
	assert.Equal(t, []string{"Previous", "1", "2", "3", "4", "Next"}, labels(table.Pagination))
	assert.True(t, table.Rows[0].CanDelete)
}

var errBackend = errors.New("backend unavailable")

func ptr(s string) *string { return &s }
