// internal/core/services/types.go
package services

import "github.com/ammerola/stockroom-console/internal/core/domain"

// ListQuery carries the inputs of one list load.
type ListQuery struct {
	// Search is nil when the user did not submit the search box; a non-nil
	// value, even an empty one, restarts pagination at page 0.
	Search *string
	// Admin enables the delete control in each row
	Admin bool
}

// ItemRow is one rendered row of the item table
type ItemRow struct {
	ID         int
	Name       string
	Category   string
	Quantity   int
	UnitPrice  string
	TotalValue string
	LowStock   bool
	CanDelete  bool

	// Placeholder rows span the whole table and carry only Message
	Placeholder bool
	ColSpan     int
	Message     string
}

// PageControl is one entry of the pagination strip
type PageControl struct {
	Label  string
	Page   int
	Active bool
}

// ItemTable is the render model for the paginated item list
type ItemTable struct {
	Rows          []ItemRow
	Pagination    []PageControl
	CurrentPage   int
	TotalPages    int
	TotalElements int64
	SearchTerm    string
}

// DashboardStats are the headline figures on the dashboard
type DashboardStats struct {
	TotalItems    int64 `json:"total_items"`
	LowStockCount int   `json:"low_stock_count"`
}

// DashboardCharts are the series handed to the chart library
type DashboardCharts struct {
	Categories  domain.ChartSeries `json:"categories"`
	StockLevels domain.ChartSeries `json:"stock_levels"`
}

// ActivityRow is one rendered activity log row
type ActivityRow struct {
	Time        string
	Actor       string
	Action      string
	Description string
}
