// internal/core/services/listing.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/ammerola/stockroom-console/internal/core/domain"
	"github.com/ammerola/stockroom-console/internal/core/ports"
)

const (
	// MaxPageControls is the number of page-number controls in the strip.
	// Pages past it are reachable only through Next.
	MaxPageControls = 5
	// ItemTableColumns is the column count of the item table
	ItemTableColumns = 7

	noItemsMessage = "No items found"
)

// ListController drives the paginated item list for one session's view state
type ListController struct {
	logger *slog.Logger
}

// NewListController creates a new list controller
func NewListController(logger *slog.Logger) *ListController {
	return &ListController{
		logger: logger.With(slog.String("service", "listing")),
	}
}

// Load fetches the current page, optionally applying a newly submitted search
// term, and builds the table rows and pagination strip. An out-of-range page
// index is clamped to the last page and fetched again.
func (c *ListController) Load(ctx context.Context, api ports.InventoryAPI, state *domain.ViewState, q ListQuery) (*ItemTable, error) {
	if state.PageSize <= 0 {
		state.PageSize = domain.DefaultPageSize
	}
	if q.Search != nil {
		state.SearchTerm = *q.Search
		state.CurrentPage = 0
	}
	if state.CurrentPage < 0 {
		state.CurrentPage = 0
	}

	page, err := c.fetch(ctx, api, state)
	if err != nil {
		return nil, err
	}

	if page.TotalPages > 0 && state.CurrentPage >= page.TotalPages {
		c.logger.DebugContext(ctx, "page index out of range, clamping",
			slog.Int("requested", state.CurrentPage),
			slog.Int("total_pages", page.TotalPages))

		state.CurrentPage = page.TotalPages - 1
		if page, err = c.fetch(ctx, api, state); err != nil {
			return nil, err
		}
	}
	if page.TotalPages == 0 {
		state.CurrentPage = 0
	}

	return &ItemTable{
		Rows:          BuildRows(page.Content, q.Admin),
		Pagination:    BuildPagination(state.CurrentPage, page.TotalPages),
		CurrentPage:   state.CurrentPage,
		TotalPages:    page.TotalPages,
		TotalElements: page.TotalElements,
		SearchTerm:    state.SearchTerm,
	}, nil
}

// GoToPage moves to the given page and reloads, keeping the active search term
func (c *ListController) GoToPage(ctx context.Context, api ports.InventoryAPI, state *domain.ViewState, page int, admin bool) (*ItemTable, error) {
	state.CurrentPage = page
	return c.Load(ctx, api, state, ListQuery{Admin: admin})
}

func (c *ListController) fetch(ctx context.Context, api ports.InventoryAPI, state *domain.ViewState) (*domain.ItemPage, error) {
	var (
		page *domain.ItemPage
		err  error
	)
	if state.SearchTerm != "" {
		page, err = api.SearchItems(ctx, state.SearchTerm, state.CurrentPage, state.PageSize)
	} else {
		page, err = api.ListItems(ctx, state.CurrentPage, state.PageSize)
	}
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to load items",
			slog.Int("page", state.CurrentPage),
			slog.String("search", state.SearchTerm),
			slog.Any("error", err))
		return nil, fmt.Errorf("failed to load items: %w", err)
	}
	if page == nil {
		return &domain.ItemPage{}, nil
	}
	return page, nil
}

// BuildRows renders records in server order. An empty list yields exactly one
// placeholder row.
func BuildRows(items []domain.Item, admin bool) []ItemRow {
	if len(items) == 0 {
		return []ItemRow{{
			Placeholder: true,
			ColSpan:     ItemTableColumns,
			Message:     noItemsMessage,
		}}
	}

	rows := make([]ItemRow, 0, len(items))
	for i := range items {
		item := &items[i]
		rows = append(rows, ItemRow{
			ID:         item.ID,
			Name:       item.Name,
			Category:   item.CategoryName,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice.StringFixed(2),
			TotalValue: item.TotalValue.StringFixed(2),
			LowStock:   item.IsLowStock(),
			CanDelete:  admin,
		})
	}
	return rows
}

// BuildPagination computes the control strip: Previous when not on the first
// page, page numbers for the first MaxPageControls indices, Next when not on
// the last page.
func BuildPagination(current, totalPages int) []PageControl {
	controls := make([]PageControl, 0, MaxPageControls+2)

	if current > 0 {
		controls = append(controls, PageControl{Label: "Previous", Page: current - 1})
	}

	for i := 0; i < min(totalPages, MaxPageControls); i++ {
		controls = append(controls, PageControl{
			Label:  strconv.Itoa(i + 1),
			Page:   i,
			Active: i == current,
		})
	}

	if current < totalPages-1 {
		controls = append(controls, PageControl{Label: "Next", Page: current + 1})
	}

	return controls
}
