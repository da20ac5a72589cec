// internal/handlers/items.go
package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ammerola/stockroom-console/internal/core/domain"
	"github.com/ammerola/stockroom-console/internal/core/ports"
	"github.com/ammerola/stockroom-console/internal/core/services"
)

// ItemsHandler handles the item list, item forms and stock moves
type ItemsHandler struct {
	base
	list     *services.ListController
	catalog  *services.CatalogService
	currency string
}

type itemsData struct {
	Table    *services.ItemTable
	Currency string
}

type itemFormData struct {
	Action     string
	Edit       bool
	Item       *domain.Item
	Categories []domain.Category
}

type lowStockData struct {
	Items []domain.Item
}

// NewItemsHandler creates a new items handler
func NewItemsHandler(
	sessions ports.SessionStore,
	provider ports.APIProvider,
	views *Renderer,
	list *services.ListController,
	catalog *services.CatalogService,
	currency string,
	logger *slog.Logger,
) *ItemsHandler {
	if currency == "" {
		currency = services.DefaultCurrency
	}
	return &ItemsHandler{
		base: base{
			sessions: sessions,
			provider: provider,
			views:    views,
			logger:   logger.With(slog.String("handler", "items")),
		},
		list:     list,
		catalog:  catalog,
		currency: currency,
	}
}

// List handles GET /items. A q parameter is a search submit and restarts at
// the first page; a page parameter moves within the current search.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session, api := h.api(r)
	admin := session.User.IsAdmin()
	query := r.URL.Query()

	var (
		table *services.ItemTable
		err   error
	)
	switch {
	case query.Has("q"):
		term := strings.TrimSpace(query.Get("q"))
		table, err = h.list.Load(ctx, api, &session.View, services.ListQuery{Search: &term, Admin: admin})
	case query.Has("page"):
		page, convErr := strconv.Atoi(query.Get("page"))
		if convErr != nil {
			page = 0
		}
		table, err = h.list.GoToPage(ctx, api, &session.View, page, admin)
	default:
		table, err = h.list.Load(ctx, api, &session.View, services.ListQuery{Admin: admin})
	}
	if err != nil {
		session.AddNotice(domain.NoticeDanger, noticeText(err, "Could not load items"))
	}

	h.render(w, r, session, "items.html", "items", "Items", itemsData{Table: table, Currency: h.currency})
}

// New handles GET /items/new
func (h *ItemsHandler) New(w http.ResponseWriter, r *http.Request) {
	session, api := h.api(r)

	categories, err := h.catalog.Categories(r.Context(), api)
	if err != nil {
		session.AddNotice(domain.NoticeDanger, noticeText(err, "Could not load categories"))
	}

	h.render(w, r, session, "item_form.html", "add-item", "Add Item", itemFormData{
		Action:     "/items",
		Categories: categories,
	})
}

// RefreshCategories handles POST /categories/refresh. The next form load
// reads the category list from the backend again.
func (h *ItemsHandler) RefreshCategories(w http.ResponseWriter, r *http.Request) {
	session, _ := h.api(r)

	if err := h.catalog.InvalidateCategories(r.Context()); err != nil {
		h.logger.WarnContext(r.Context(), "category cache invalidation failed", slog.Any("error", err))
		h.redirect(w, r, session, "/items/new", domain.NoticeDanger, "Could not refresh categories")
		return
	}

	h.redirect(w, r, session, "/items/new", domain.NoticeInfo, "Category list refreshed")
}

// Create handles POST /items
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	session, api := h.api(r)

	item, err := parseNewItem(r)
	if err != nil {
		h.redirect(w, r, session, "/items/new", domain.NoticeDanger, capitalize(err.Error()))
		return
	}

	if err := h.catalog.CreateItem(r.Context(), api, item); err != nil {
		h.logger.WarnContext(r.Context(), "create item failed", slog.Any("error", err))
		h.redirect(w, r, session, "/items/new", domain.NoticeDanger, noticeText(err, "Error adding item"))
		return
	}

	h.redirect(w, r, session, "/items", domain.NoticeSuccess, "Item added successfully")
}

// Edit handles GET /items/{id}/edit
func (h *ItemsHandler) Edit(w http.ResponseWriter, r *http.Request) {
	session, api := h.api(r)

	id, err := pathID(r)
	if err != nil {
		h.redirect(w, r, session, "/items", domain.NoticeDanger, "Invalid item ID")
		return
	}

	item, err := h.catalog.GetItem(r.Context(), api, id)
	if err != nil {
		h.redirect(w, r, session, "/items", domain.NoticeDanger, noticeText(err, "Could not load item"))
		return
	}

	h.render(w, r, session, "item_form.html", "items", "Edit Item", itemFormData{
		Action: fmt.Sprintf("/items/%d", id),
		Edit:   true,
		Item:   item,
	})
}

// Update handles POST /items/{id}
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	session, api := h.api(r)

	id, err := pathID(r)
	if err != nil {
		h.redirect(w, r, session, "/items", domain.NoticeDanger, "Invalid item ID")
		return
	}

	update, err := parseItemUpdate(r)
	if err != nil {
		h.redirect(w, r, session, fmt.Sprintf("/items/%d/edit", id), domain.NoticeDanger, capitalize(err.Error()))
		return
	}

	if err := h.catalog.UpdateItem(r.Context(), api, id, update); err != nil {
		h.logger.WarnContext(r.Context(), "update item failed", slog.Int("item_id", id), slog.Any("error", err))
		h.redirect(w, r, session, fmt.Sprintf("/items/%d/edit", id), domain.NoticeDanger, noticeText(err, "Error updating item"))
		return
	}

	h.redirect(w, r, session, "/items", domain.NoticeSuccess, "Item updated successfully")
}

// Delete handles POST /items/{id}/delete. The delete button is only shown to
// admins; the backend decides whether the call is allowed.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	session, api := h.api(r)

	id, err := pathID(r)
	if err != nil {
		h.redirect(w, r, session, "/items", domain.NoticeDanger, "Invalid item ID")
		return
	}

	if err := h.catalog.DeleteItem(r.Context(), api, id); err != nil {
		h.logger.WarnContext(r.Context(), "delete item failed", slog.Int("item_id", id), slog.Any("error", err))
		h.redirect(w, r, session, "/items", domain.NoticeDanger, noticeText(err, "Error deleting item"))
		return
	}

	h.redirect(w, r, session, "/items", domain.NoticeSuccess, "Item deleted successfully")
}

// LowStock handles GET /low-stock
func (h *ItemsHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	session, api := h.api(r)

	items, err := h.catalog.LowStock(r.Context(), api)
	if err != nil {
		session.AddNotice(domain.NoticeDanger, noticeText(err, "Could not load low stock items"))
	}

	h.render(w, r, session, "low_stock.html", "low-stock", "Low Stock", lowStockData{Items: items})
}

// AddStock handles POST /items/{id}/add-stock
func (h *ItemsHandler) AddStock(w http.ResponseWriter, r *http.Request) {
	h.stockMove(w, r, h.catalog.AddStock, "Stock added successfully")
}

// ReduceStock handles POST /items/{id}/reduce-stock
func (h *ItemsHandler) ReduceStock(w http.ResponseWriter, r *http.Request) {
	h.stockMove(w, r, h.catalog.ReduceStock, "Stock reduced successfully")
}

type stockMoveFunc func(ctx context.Context, api ports.InventoryAPI, id, quantity int) error

func (h *ItemsHandler) stockMove(w http.ResponseWriter, r *http.Request, move stockMoveFunc, success string) {
	session, api := h.api(r)
	target := returnPath(r.PostFormValue("return"))

	id, err := pathID(r)
	if err != nil {
		h.redirect(w, r, session, target, domain.NoticeDanger, "Invalid item ID")
		return
	}

	quantity, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("quantity")))
	if err != nil {
		h.redirect(w, r, session, target, domain.NoticeDanger, "Quantity must be a whole number")
		return
	}

	if err := move(r.Context(), api, id, quantity); err != nil {
		h.logger.WarnContext(r.Context(), "stock move failed",
			slog.Int("item_id", id),
			slog.Int("quantity", quantity),
			slog.Any("error", err))
		h.redirect(w, r, session, target, domain.NoticeDanger, noticeText(err, "Error updating stock"))
		return
	}

	h.redirect(w, r, session, target, domain.NoticeSuccess, success)
}

// returnPath limits post-action redirects to the pages that host stock forms
func returnPath(p string) string {
	switch p {
	case "/items", "/low-stock":
		return p
	default:
		return "/low-stock"
	}
}

func parseNewItem(r *http.Request) (*domain.NewItem, error) {
	categoryID, err := strconv.Atoi(r.PostFormValue("categoryId"))
	if err != nil {
		return nil, errors.New("please select a category")
	}
	quantity, price, err := parseQuantityAndPrice(r)
	if err != nil {
		return nil, err
	}

	return &domain.NewItem{
		Name:        r.PostFormValue("itemName"),
		Category:    domain.CategoryRef{ID: categoryID},
		Quantity:    quantity,
		UnitPrice:   price,
		SKU:         strings.TrimSpace(r.PostFormValue("sku")),
		Location:    strings.TrimSpace(r.PostFormValue("location")),
		Description: strings.TrimSpace(r.PostFormValue("description")),
	}, nil
}

func parseItemUpdate(r *http.Request) (*domain.ItemUpdate, error) {
	quantity, price, err := parseQuantityAndPrice(r)
	if err != nil {
		return nil, err
	}
	return &domain.ItemUpdate{
		Name:      r.PostFormValue("itemName"),
		Quantity:  quantity,
		UnitPrice: price,
	}, nil
}

func parseQuantityAndPrice(r *http.Request) (int, decimal.Decimal, error) {
	quantity, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("quantity")))
	if err != nil {
		return 0, decimal.Zero, errors.New("quantity must be a whole number")
	}
	price, err := decimal.NewFromString(strings.TrimSpace(r.PostFormValue("unitPrice")))
	if err != nil {
		return 0, decimal.Zero, errors.New("unit price must be a number")
	}
	return quantity, price, nil
}
