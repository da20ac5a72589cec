// internal/core/services/catalog.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ammerola/stockroom-console/internal/core/domain"
	"github.com/ammerola/stockroom-console/internal/core/ports"
)

const (
	CategoryCacheKey      = "cat:list"
	DefaultCategoryTTL    = 10 * time.Minute
	ActivityLogPageSize   = 50
	activityTimeLayout    = "2006-01-02 15:04:05"
	activityNoDescription = "-"
)

var (
	// ErrInvalidQuantity is returned for stock moves that are not positive
	ErrInvalidQuantity = errors.New("quantity must be a positive number")
	// ErrValidation wraps form input rejected before any backend call
	ErrValidation = errors.New("validation failed")
)

var backendTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// CatalogService wraps item CRUD, stock moves, categories and the activity log
type CatalogService struct {
	cache       ports.Cache
	categoryTTL time.Duration
	logger      *slog.Logger
}

// NewCatalogService creates a new catalog service. cache may be nil, in which
// case categories are fetched on every call.
func NewCatalogService(cache ports.Cache, categoryTTL time.Duration, logger *slog.Logger) *CatalogService {
	if categoryTTL <= 0 {
		categoryTTL = DefaultCategoryTTL
	}
	return &CatalogService{
		cache:       cache,
		categoryTTL: categoryTTL,
		logger:      logger.With(slog.String("service", "catalog")),
	}
}

// Categories returns the category list, served from cache when possible
func (s *CatalogService) Categories(ctx context.Context, api ports.InventoryAPI) ([]domain.Category, error) {
	if s.cache == nil {
		return s.fetchCategories(ctx, api)
	}

	var categories []domain.Category
	var fetchErr error
	err := s.cache.GetOrLoad(ctx, CategoryCacheKey, &categories, s.categoryTTL, func(ctx context.Context) (any, error) {
		list, err := s.fetchCategories(ctx, api)
		fetchErr = err
		return list, err
	})
	if err == nil {
		return categories, nil
	}
	if fetchErr != nil {
		return nil, fetchErr
	}

	// cache unavailable
	s.logger.WarnContext(ctx, "category cache unavailable, fetching directly",
		slog.Any("error", err))
	return s.fetchCategories(ctx, api)
}

func (s *CatalogService) fetchCategories(ctx context.Context, api ports.InventoryAPI) ([]domain.Category, error) {
	categories, err := api.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	return categories, nil
}

// InvalidateCategories drops the cached category list
func (s *CatalogService) InvalidateCategories(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, CategoryCacheKey)
}

// GetItem retrieves a single item
func (s *CatalogService) GetItem(ctx context.Context, api ports.InventoryAPI, id int) (*domain.Item, error) {
	item, err := api.GetItem(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get item %d: %w", id, err)
	}
	return item, nil
}

// CreateItem validates and creates an item
func (s *CatalogService) CreateItem(ctx context.Context, api ports.InventoryAPI, item *domain.NewItem) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if err := api.CreateItem(ctx, item); err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}

	s.logger.InfoContext(ctx, "item created",
		slog.String("item_name", item.Name),
		slog.Int("category_id", item.Category.ID))
	return nil
}

// UpdateItem validates and applies an item update
func (s *CatalogService) UpdateItem(ctx context.Context, api ports.InventoryAPI, id int, update *domain.ItemUpdate) error {
	if err := update.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if err := api.UpdateItem(ctx, id, update); err != nil {
		return fmt.Errorf("failed to update item %d: %w", id, err)
	}

	s.logger.InfoContext(ctx, "item updated", slog.Int("item_id", id))
	return nil
}

// DeleteItem deletes an item
func (s *CatalogService) DeleteItem(ctx context.Context, api ports.InventoryAPI, id int) error {
	if err := api.DeleteItem(ctx, id); err != nil {
		return fmt.Errorf("failed to delete item %d: %w", id, err)
	}

	s.logger.InfoContext(ctx, "item deleted", slog.Int("item_id", id))
	return nil
}

// LowStock returns items at or below their reorder level
func (s *CatalogService) LowStock(ctx context.Context, api ports.InventoryAPI) ([]domain.Item, error) {
	items, err := api.LowStockItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch low stock items: %w", err)
	}
	return items, nil
}

// AddStock increases an item's quantity
func (s *CatalogService) AddStock(ctx context.Context, api ports.InventoryAPI, id, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if err := api.AddStock(ctx, id, quantity); err != nil {
		return fmt.Errorf("failed to add stock to item %d: %w", id, err)
	}

	s.logger.InfoContext(ctx, "stock added",
		slog.Int("item_id", id),
		slog.Int("quantity", quantity))
	return nil
}

// ReduceStock decreases an item's quantity
func (s *CatalogService) ReduceStock(ctx context.Context, api ports.InventoryAPI, id, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if err := api.ReduceStock(ctx, id, quantity); err != nil {
		return fmt.Errorf("failed to reduce stock of item %d: %w", id, err)
	}

	s.logger.InfoContext(ctx, "stock reduced",
		slog.Int("item_id", id),
		slog.Int("quantity", quantity))
	return nil
}

// ActivityLog returns the most recent activity log rows
func (s *CatalogService) ActivityLog(ctx context.Context, api ports.InventoryAPI) ([]ActivityRow, error) {
	entries, err := api.ActivityLogs(ctx, 0, ActivityLogPageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activity log: %w", err)
	}

	rows := make([]ActivityRow, 0, len(entries))
	for i := range entries {
		entry := &entries[i]
		description := entry.Description
		if description == "" {
			description = activityNoDescription
		}
		rows = append(rows, ActivityRow{
			Time:        FormatTimestamp(entry.CreatedAt),
			Actor:       entry.Actor(),
			Action:      entry.Action,
			Description: description,
		})
	}
	return rows, nil
}

// FormatTimestamp renders a backend ISO timestamp for display, returning the
// input unchanged when it cannot be parsed
func FormatTimestamp(raw string) string {
	for _, layout := range backendTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(activityTimeLayout)
		}
	}
	return raw
}
