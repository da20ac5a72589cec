package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/stockroom-console/internal/core/domain"
)

func TestItem_IsLowStockAndShortage(t *testing.T) {
	tests := []struct {
		name         string
		quantity     int
		reorderLevel int
		wantLow      bool
		wantShortage int
	}{
		{name: "below_reorder_level", quantity: 2, reorderLevel: 5, wantLow: true, wantShortage: 3},
		{name: "at_reorder_level", quantity: 5, reorderLevel: 5, wantLow: true, wantShortage: 0},
		{name: "above_reorder_level", quantity: 9, reorderLevel: 5, wantLow: false, wantShortage: -4},
		{name: "empty_shelf", quantity: 0, reorderLevel: 0, wantLow: true, wantShortage: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := domain.Item{Quantity: tt.quantity, ReorderLevel: tt.reorderLevel}
			assert.Equal(t, tt.wantLow, item.IsLowStock())
			assert.Equal(t, tt.wantShortage, item.Shortage())
		})
	}
}

func TestItem_DecodesBackendJSON(t *testing.T) {
	raw := `{
		"itemId": 7,
		"itemName": "Widget",
		"categoryId": 2,
		"categoryName": "Tools",
		"quantity": 5,
		"reorderLevel": 3,
		"unitPrice": 10.5,
		"totalValue": 52.5,
		"location": "A-1",
		"sku": "W-7",
		"createdAt": "2025-01-02T10:11:12"
	}`

	var item domain.Item
	require.NoError(t, json.Unmarshal([]byte(raw), &item))

	assert.Equal(t, 7, item.ID)
	assert.Equal(t, "Widget", item.Name)
	assert.Equal(t, "Tools", item.CategoryName)
	assert.True(t, decimal.RequireFromString("10.5").Equal(item.UnitPrice))
	assert.True(t, decimal.RequireFromString("52.5").Equal(item.TotalValue))
	assert.Equal(t, "2025-01-02T10:11:12", item.CreatedAt)
}

func TestNewItem_Validate(t *testing.T) {
	tests := []struct {
		name      string
		item      domain.NewItem
		wantError string
	}{
		{
			name: "valid_item",
			item: domain.NewItem{Name: "Bolt", Category: domain.CategoryRef{ID: 1}, Quantity: 3, UnitPrice: decimal.NewFromFloat(1.5)},
		},
		{
			name:      "blank_name",
			item:      domain.NewItem{Name: "   ", Category: domain.CategoryRef{ID: 1}},
			wantError: "item name is required",
		},
		{
			name:      "missing_category",
			item:      domain.NewItem{Name: "Bolt"},
			wantError: "category is required",
		},
		{
			name:      "negative_quantity",
			item:      domain.NewItem{Name: "Bolt", Category: domain.CategoryRef{ID: 1}, Quantity: -1},
			wantError: "quantity cannot be negative",
		},
		{
			name:      "negative_price",
			item:      domain.NewItem{Name: "Bolt", Category: domain.CategoryRef{ID: 1}, UnitPrice: decimal.NewFromInt(-1)},
			wantError: "unit price cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestItemUpdate_ValidateTrimsName(t *testing.T) {
	update := domain.ItemUpdate{Name: "  Bolt  ", Quantity: 1, UnitPrice: decimal.NewFromInt(2)}
	require.NoError(t, update.Validate())
	assert.Equal(t, "Bolt", update.Name)
}

func TestLogEntry_Actor(t *testing.T) {
	assert.Equal(t, "System", (&domain.LogEntry{}).Actor())
	assert.Equal(t, "System", (&domain.LogEntry{User: &domain.LogUser{}}).Actor())
	assert.Equal(t, "Ayesha Khan", (&domain.LogEntry{User: &domain.LogUser{FullName: "Ayesha Khan"}}).Actor())
}
