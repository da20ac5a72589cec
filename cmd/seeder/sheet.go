package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/stockroom-console/internal/core/domain"
)

// SeedRow is one item line read from a seed sheet or generated as a sample
type SeedRow struct {
	Line        int
	Name        string
	Category    string
	Quantity    int
	UnitPrice   decimal.Decimal
	SKU         string
	Location    string
	Description string
}

// Key identifies the row in the seeder state file
func (r SeedRow) Key() string {
	if r.SKU != "" {
		return "sku:" + strings.ToLower(r.SKU)
	}
	return "name:" + strings.ToLower(r.Name)
}

// NewItem builds the create payload for the resolved category
func (r SeedRow) NewItem(category domain.Category) *domain.NewItem {
	return &domain.NewItem{
		Name:        r.Name,
		Category:    domain.CategoryRef{ID: category.ID},
		Quantity:    r.Quantity,
		UnitPrice:   r.UnitPrice,
		SKU:         r.SKU,
		Location:    r.Location,
		Description: r.Description,
	}
}

// LoadSheet reads items from the first sheet of an Excel file. Columns are
// Name, Category, Quantity, Unit Price, SKU, Location, Description, after a
// header row. Rows that cannot be parsed are returned as errors and skipped.
func LoadSheet(path string) ([]SeedRow, []error, error) {
	file, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	if len(file.Sheets) == 0 {
		return nil, nil, errors.New("no sheets found in seed file")
	}
	sheet := file.Sheets[0]

	var (
		rows    []SeedRow
		skipped []error
		line    int
	)
	err = sheet.ForEachRow(func(r *xlsx.Row) error {
		line++
		// Skip header
		if line == 1 {
			return nil
		}

		get := func(i int) string {
			c := r.GetCell(i)
			if c == nil {
				return ""
			}
			if s, err := c.FormattedValue(); err == nil {
				return strings.TrimSpace(s)
			}
			return strings.TrimSpace(c.String())
		}

		name := get(0)
		if name == "" {
			return nil
		}

		quantity, err := strconv.Atoi(get(2))
		if err != nil {
			skipped = append(skipped, fmt.Errorf("line %d: invalid quantity %q", line, get(2)))
			return nil
		}
		price, err := decimal.NewFromString(strings.TrimPrefix(get(3), "PKR "))
		if err != nil {
			skipped = append(skipped, fmt.Errorf("line %d: invalid unit price %q", line, get(3)))
			return nil
		}

		rows = append(rows, SeedRow{
			Line:        line,
			Name:        name,
			Category:    get(1),
			Quantity:    quantity,
			UnitPrice:   price,
			SKU:         get(4),
			Location:    get(5),
			Description: get(6),
		})
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return rows, skipped, nil
}

var sampleCatalog = []struct {
	name     string
	category string
	price    string
}{
	{"USB-C Cable", "Electronics", "450.00"},
	{"Wireless Mouse", "Electronics", "1850.00"},
	{"24in Monitor", "Electronics", "38500.00"},
	{"A4 Printer Paper", "Stationery", "1200.00"},
	{"Ballpoint Pens (Box)", "Stationery", "350.00"},
	{"Stapler", "Stationery", "650.00"},
	{"Office Chair", "Furniture", "24000.00"},
	{"Standing Desk", "Furniture", "55000.00"},
	{"Filing Cabinet", "Furniture", "18500.00"},
}

// SampleRows generates n deterministic rows cycling through a small catalog
func SampleRows(n int) []SeedRow {
	rows := make([]SeedRow, 0, n)
	for i := 0; i < n; i++ {
		base := sampleCatalog[i%len(sampleCatalog)]
		name := base.name
		if round := i / len(sampleCatalog); round > 0 {
			name = fmt.Sprintf("%s #%d", base.name, round+1)
		}
		rows = append(rows, SeedRow{
			Line:      i + 1,
			Name:      name,
			Category:  base.category,
			Quantity:  (i * 7) % 40,
			UnitPrice: decimal.RequireFromString(base.price),
			SKU:       fmt.Sprintf("SEED-%04d", i+1),
			Location:  fmt.Sprintf("%c-%02d", 'A'+rune(i%4), i%12+1),
		})
	}
	return rows
}

// CategoryClassifier picks a backend category for rows whose category column
// is blank or unknown
type CategoryClassifier struct {
	keywords map[string][]string
}

func NewCategoryClassifier() *CategoryClassifier {
	return &CategoryClassifier{
		keywords: map[string][]string{
			"electronics": {"cable", "charger", "usb", "hdmi", "laptop", "monitor", "keyboard",
				"mouse", "printer", "router", "adapter", "battery", "headset"},
			"stationery": {"paper", "pen", "pencil", "stapler", "staples", "notebook", "folder",
				"envelope", "marker", "toner", "ink", "tape", "clip"},
			"furniture": {"desk", "chair", "table", "shelf", "cabinet", "drawer", "lamp",
				"whiteboard", "sofa", "stool", "rack"},
		},
	}
}

// Resolve matches the row's category column first and falls back to keyword
// scoring over name and description
func (c *CategoryClassifier) Resolve(row SeedRow, categories []domain.Category) (domain.Category, bool) {
	if row.Category != "" {
		for _, category := range categories {
			if strings.EqualFold(category.Name, row.Category) {
				return category, true
			}
		}
	}

	text := strings.ToLower(row.Name + " " + row.Description)

	var (
		best      domain.Category
		bestScore int
	)
	for _, category := range categories {
		name := strings.ToLower(category.Name)
		score := 0
		if strings.Contains(text, name) {
			score++
		}
		for _, kw := range c.keywords[name] {
			if strings.Contains(text, kw) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = category, score
		}
	}

	return best, bestScore > 0
}
