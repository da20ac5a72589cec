// internal/core/ports/inventory_api.go
package ports

import (
	"context"

	"github.com/ammerola/stockroom-console/internal/core/domain"
)

// InventoryAPI defines the port for the inventory backend, bound to one
// session's bearer token. It is implemented by the backend adapter.
type InventoryAPI interface {
	ListItems(ctx context.Context, page, size int) (*domain.ItemPage, error)
	SearchItems(ctx context.Context, query string, page, size int) (*domain.ItemPage, error)
	GetItem(ctx context.Context, id int) (*domain.Item, error)
	CreateItem(ctx context.Context, item *domain.NewItem) error
	UpdateItem(ctx context.Context, id int, update *domain.ItemUpdate) error
	DeleteItem(ctx context.Context, id int) error
	LowStockItems(ctx context.Context) ([]domain.Item, error)
	AddStock(ctx context.Context, id, quantity int) error
	ReduceStock(ctx context.Context, id, quantity int) error
	Categories(ctx context.Context) ([]domain.Category, error)
	ActivityLogs(ctx context.Context, page, size int) ([]domain.LogEntry, error)
}

// APIProvider hands out token-bound InventoryAPI clients and performs the
// unauthenticated login call.
type APIProvider interface {
	Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResult, error)
	As(token string) InventoryAPI
	Ping(ctx context.Context) error
}
