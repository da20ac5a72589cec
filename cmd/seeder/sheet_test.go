package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/stockroom-console/internal/core/domain"
)

func writeSheet(t *testing.T, rows [][]string) string {
	t.Helper()

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Items")
	require.NoError(t, err)

	for _, values := range rows {
		row := sheet.AddRow()
		for _, v := range values {
			row.AddCell().SetString(v)
		}
	}

	path := filepath.Join(t.TempDir(), "items.xlsx")
	require.NoError(t, file.Save(path))
	return path
}

func TestLoadSheet(t *testing.T) {
	path := writeSheet(t, [][]string{
		{"Name", "Category", "Quantity", "Unit Price", "SKU", "Location", "Description"},
		{"USB-C Cable", "Electronics", "40", "450.00", "EL-0001", "A-01", "1m braided"},
		{"Desk Lamp", "", "3", "PKR 1500", "", "B-02", ""},
		{"", "Stationery", "1", "10", "", "", ""},
		{"Broken Row", "Furniture", "many", "10", "", "", ""},
		{"Bad Price", "Furniture", "1", "ten", "", "", ""},
	})

	rows, skipped, err := LoadSheet(path)
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, "USB-C Cable", rows[0].Name)
	assert.Equal(t, "Electronics", rows[0].Category)
	assert.Equal(t, 40, rows[0].Quantity)
	assert.Equal(t, "450.00", rows[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "EL-0001", rows[0].SKU)
	assert.Equal(t, 2, rows[0].Line)

	assert.Equal(t, "Desk Lamp", rows[1].Name)
	assert.Equal(t, "1500.00", rows[1].UnitPrice.StringFixed(2))

	require.Len(t, skipped, 2)
	assert.Contains(t, skipped[0].Error(), "invalid quantity")
	assert.Contains(t, skipped[1].Error(), "invalid unit price")
}

func TestLoadSheet_MissingFile(t *testing.T) {
	_, _, err := LoadSheet(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)
}

func TestCategoryClassifier_Resolve(t *testing.T) {
	categories := []domain.Category{
		{ID: 1, Name: "Electronics"},
		{ID: 2, Name: "Stationery"},
		{ID: 3, Name: "Furniture"},
	}

	tests := []struct {
		name       string
		row        SeedRow
		expectedID int
		expectedOK bool
	}{
		{name: "explicit_category", row: SeedRow{Name: "Anything", Category: "furniture"}, expectedID: 3, expectedOK: true},
		{name: "keyword_in_name", row: SeedRow{Name: "HDMI Cable 2m"}, expectedID: 1, expectedOK: true},
		{name: "keyword_in_description", row: SeedRow{Name: "Item 12", Description: "spiral notebook"}, expectedID: 2, expectedOK: true},
		{name: "unknown_category_falls_back_to_keywords", row: SeedRow{Name: "Office Chair", Category: "Seating"}, expectedID: 3, expectedOK: true},
		{name: "no_match", row: SeedRow{Name: "Mystery Box"}, expectedOK: false},
	}

	classifier := NewCategoryClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category, ok := classifier.Resolve(tt.row, categories)
			assert.Equal(t, tt.expectedOK, ok)
			if tt.expectedOK {
				assert.Equal(t, tt.expectedID, category.ID)
			}
		})
	}
}

func TestSampleRows(t *testing.T) {
	rows := SampleRows(20)
	require.Len(t, rows, 20)

	keys := make(map[string]bool)
	for _, row := range rows {
		assert.False(t, keys[row.Key()], "duplicate key %s", row.Key())
		keys[row.Key()] = true

		item := row.NewItem(domain.Category{ID: 1})
		assert.NoError(t, item.Validate())
	}

	assert.Equal(t, "USB-C Cable", rows[0].Name)
	assert.Equal(t, "USB-C Cable #2", rows[9].Name)

	classifier := NewCategoryClassifier()
	_, ok := classifier.Resolve(rows[3], []domain.Category{{ID: 2, Name: "Stationery"}})
	assert.True(t, ok)
}
