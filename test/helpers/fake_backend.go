// test/helpers/fake_backend.go
package helpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ammerola/stockroom-console/internal/core/domain"
)

// FakeUser is an account known to the fake backend
type FakeUser struct {
	Password string
	FullName string
	Role     string
}

// FakeBackend is an in-memory inventory backend speaking the same
// envelope-wrapped REST contract as the real one
type FakeBackend struct {
	Server *httptest.Server

	mu         sync.Mutex
	users      map[string]FakeUser
	tokens     map[string]string // token -> username
	items      map[int]domain.Item
	categories []domain.Category
	logs       []domain.LogEntry
	nextID     int
	calls      map[string]int
}

// NewFakeBackend starts a fake backend with the admin/admin and
// staff/staff accounts and the shared category fixtures
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()

	f := &FakeBackend{
		users: map[string]FakeUser{
			"admin": {Password: "admin", FullName: "Test Admin", Role: domain.RoleAdmin},
			"staff": {Password: "staff", FullName: "Test Staff", Role: "STAFF"},
		},
		tokens:     make(map[string]string),
		items:      make(map[int]domain.Item),
		categories: TestCategories(),
		nextID:     1,
		calls:      make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", f.login)
	mux.HandleFunc("GET /api/categories", f.authed(f.listCategories))
	mux.HandleFunc("GET /api/items", f.authed(f.listItems))
	mux.HandleFunc("GET /api/items/search", f.authed(f.searchItems))
	mux.HandleFunc("GET /api/items/low-stock", f.authed(f.lowStock))
	mux.HandleFunc("GET /api/items/{id}", f.authed(f.getItem))
	mux.HandleFunc("POST /api/items", f.authed(f.createItem))
	mux.HandleFunc("PUT /api/items/{id}", f.authed(f.updateItem))
	mux.HandleFunc("DELETE /api/items/{id}", f.authed(f.deleteItem))
	mux.HandleFunc("POST /api/items/{id}/add-stock", f.authed(f.moveStock(1)))
	mux.HandleFunc("POST /api/items/{id}/reduce-stock", f.authed(f.moveStock(-1)))
	mux.HandleFunc("GET /api/activity-logs", f.authed(f.activityLogs))

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Server.Close)

	return f
}

// URL returns the API base URL of the fake backend
func (f *FakeBackend) URL() string {
	return f.Server.URL + "/api"
}

// SeedItems stores items as-is, advancing the id sequence past them
func (f *FakeBackend) SeedItems(items ...domain.Item) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, item := range items {
		f.items[item.ID] = item
		if item.ID >= f.nextID {
			f.nextID = item.ID + 1
		}
	}
}

// Items returns every stored item ordered by id
func (f *FakeBackend) Items() []domain.Item {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sortedItems()
}

// Calls returns how many authorized requests hit the given route pattern,
// e.g. "GET /api/categories"
func (f *FakeBackend) Calls(pattern string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[pattern]
}

// Token signs the given user in directly and returns a bearer token
func (f *FakeBackend) Token(username string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	token := uuid.NewString()
	f.tokens[token] = username
	return token
}

func (f *FakeBackend) sortedItems() []domain.Item {
	items := make([]domain.Item, 0, len(f.items))
	for _, item := range f.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

func (f *FakeBackend) authed(next func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

		f.mu.Lock()
		username, ok := f.tokens[token]
		if ok {
			f.calls[r.Pattern]++
		}
		fullName := f.users[username].FullName
		f.mu.Unlock()

		if !ok {
			writeEnvelope(w, http.StatusUnauthorized, false, "Unauthorized", nil)
			return
		}
		next(w, r, fullName)
	}
}

func (f *FakeBackend) login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelope(w, http.StatusBadRequest, false, "Malformed request", nil)
		return
	}

	f.mu.Lock()
	user, ok := f.users[req.Username]
	if !ok || user.Password != req.Password {
		f.mu.Unlock()
		writeEnvelope(w, http.StatusUnauthorized, false, "Invalid username or password", nil)
		return
	}
	token := uuid.NewString()
	f.tokens[token] = req.Username
	f.mu.Unlock()

	writeEnvelope(w, http.StatusOK, true, "Login successful", domain.LoginResult{
		Token:    token,
		Username: req.Username,
		FullName: user.FullName,
		Role:     user.Role,
	})
}

func (f *FakeBackend) listCategories(w http.ResponseWriter, _ *http.Request, _ string) {
	f.mu.Lock()
	categories := append([]domain.Category(nil), f.categories...)
	f.mu.Unlock()

	writeEnvelope(w, http.StatusOK, true, "", categories)
}

func (f *FakeBackend) listItems(w http.ResponseWriter, r *http.Request, _ string) {
	f.mu.Lock()
	items := f.sortedItems()
	f.mu.Unlock()

	writeEnvelope(w, http.StatusOK, true, "", paginate(items, r))
}

func (f *FakeBackend) searchItems(w http.ResponseWriter, r *http.Request, _ string) {
	term := strings.ToLower(r.URL.Query().Get("query"))

	f.mu.Lock()
	var matched []domain.Item
	for _, item := range f.sortedItems() {
		if strings.Contains(strings.ToLower(item.Name), term) ||
			strings.Contains(strings.ToLower(item.SKU), term) {
			matched = append(matched, item)
		}
	}
	f.mu.Unlock()

	writeEnvelope(w, http.StatusOK, true, "", paginate(matched, r))
}

func (f *FakeBackend) lowStock(w http.ResponseWriter, _ *http.Request, _ string) {
	f.mu.Lock()
	low := []domain.Item{}
	for _, item := range f.sortedItems() {
		if item.IsLowStock() {
			low = append(low, item)
		}
	}
	f.mu.Unlock()

	writeEnvelope(w, http.StatusOK, true, "", low)
}

func (f *FakeBackend) getItem(w http.ResponseWriter, r *http.Request, _ string) {
	item, ok := f.lookup(w, r)
	if !ok {
		return
	}
	writeEnvelope(w, http.StatusOK, true, "", item)
}

func (f *FakeBackend) createItem(w http.ResponseWriter, r *http.Request, actor string) {
	var req domain.NewItem
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelope(w, http.StatusBadRequest, false, "Malformed request", nil)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	var category *domain.Category
	for i := range f.categories {
		if f.categories[i].ID == req.Category.ID {
			category = &f.categories[i]
		}
	}
	if category == nil {
		writeEnvelope(w, http.StatusBadRequest, false, "Category not found", nil)
		return
	}

	now := backendNow()
	item := domain.Item{
		ID:           f.nextID,
		Name:         req.Name,
		CategoryID:   category.ID,
		CategoryName: category.Name,
		Quantity:     req.Quantity,
		ReorderLevel: 10,
		UnitPrice:    req.UnitPrice,
		Description:  req.Description,
		Location:     req.Location,
		SKU:          req.SKU,
		AddedBy:      actor,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	item.TotalValue = totalValue(item)
	f.items[item.ID] = item
	f.nextID++
	f.record(actor, "CREATE", item.ID, fmt.Sprintf("Created item %s", item.Name))

	writeEnvelope(w, http.StatusCreated, true, "Item created successfully", item)
}

func (f *FakeBackend) updateItem(w http.ResponseWriter, r *http.Request, actor string) {
	item, ok := f.lookup(w, r)
	if !ok {
		return
	}

	var req domain.ItemUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelope(w, http.StatusBadRequest, false, "Malformed request", nil)
		return
	}

	item.Name = req.Name
	item.Quantity = req.Quantity
	item.UnitPrice = req.UnitPrice
	item.TotalValue = totalValue(item)
	item.UpdatedAt = backendNow()

	f.mu.Lock()
	f.items[item.ID] = item
	f.record(actor, "UPDATE", item.ID, fmt.Sprintf("Updated item %s", item.Name))
	f.mu.Unlock()

	writeEnvelope(w, http.StatusOK, true, "Item updated successfully", item)
}

func (f *FakeBackend) deleteItem(w http.ResponseWriter, r *http.Request, actor string) {
	item, ok := f.lookup(w, r)
	if !ok {
		return
	}

	f.mu.Lock()
	delete(f.items, item.ID)
	f.record(actor, "DELETE", item.ID, fmt.Sprintf("Deleted item %s", item.Name))
	f.mu.Unlock()

	writeEnvelope(w, http.StatusOK, true, "Item deleted successfully", nil)
}

func (f *FakeBackend) moveStock(sign int) func(http.ResponseWriter, *http.Request, string) {
	return func(w http.ResponseWriter, r *http.Request, actor string) {
		item, ok := f.lookup(w, r)
		if !ok {
			return
		}

		qty, err := strconv.Atoi(r.URL.Query().Get("quantity"))
		if err != nil || qty <= 0 {
			writeEnvelope(w, http.StatusBadRequest, false, "Quantity must be positive", nil)
			return
		}
		if sign < 0 && qty > item.Quantity {
			writeEnvelope(w, http.StatusBadRequest, false, "Insufficient stock", nil)
			return
		}

		item.Quantity += sign * qty
		item.TotalValue = totalValue(item)
		item.UpdatedAt = backendNow()

		action := "STOCK_IN"
		if sign < 0 {
			action = "STOCK_OUT"
		}

		f.mu.Lock()
		f.items[item.ID] = item
		f.record(actor, action, item.ID, fmt.Sprintf("%s %d units of %s", strings.ToLower(action), qty, item.Name))
		f.mu.Unlock()

		writeEnvelope(w, http.StatusOK, true, "Stock updated successfully", item)
	}
}

func (f *FakeBackend) activityLogs(w http.ResponseWriter, r *http.Request, _ string) {
	f.mu.Lock()
	logs := make([]domain.LogEntry, len(f.logs))
	// newest first
	for i, entry := range f.logs {
		logs[len(f.logs)-1-i] = entry
	}
	f.mu.Unlock()

	writeEnvelope(w, http.StatusOK, true, "", paginate(logs, r))
}

func (f *FakeBackend) lookup(w http.ResponseWriter, r *http.Request) (domain.Item, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeEnvelope(w, http.StatusBadRequest, false, "Invalid item id", nil)
		return domain.Item{}, false
	}

	f.mu.Lock()
	item, ok := f.items[id]
	f.mu.Unlock()

	if !ok {
		writeEnvelope(w, http.StatusNotFound, false, fmt.Sprintf("Item not found with id: %d", id), nil)
		return domain.Item{}, false
	}
	return item, true
}

// SeedLogs appends activity log entries as-is. Entries without a user are
// shown as system actions.
func (f *FakeBackend) SeedLogs(entries ...domain.LogEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.logs = append(f.logs, entries...)
}

// record appends an activity log entry. Callers hold f.mu.
func (f *FakeBackend) record(actor, action string, itemID int, description string) {
	f.logs = append(f.logs, domain.LogEntry{
		ID:          len(f.logs) + 1,
		Action:      action,
		EntityType:  "ITEM",
		EntityID:    itemID,
		Description: description,
		CreatedAt:   backendNow(),
		User:        &domain.LogUser{FullName: actor},
	})
}

func paginate[T any](all []T, r *http.Request) domain.Page[T] {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, err := strconv.Atoi(r.URL.Query().Get("size"))
	if err != nil || size <= 0 {
		size = domain.DefaultPageSize
	}
	if page < 0 {
		page = 0
	}

	total := len(all)
	start := min(page*size, total)
	end := min(start+size, total)

	content := make([]T, end-start)
	copy(content, all[start:end])

	return domain.Page[T]{
		Content:       content,
		TotalPages:    (total + size - 1) / size,
		TotalElements: int64(total),
		Number:        page,
		Size:          size,
	}
}

func totalValue(item domain.Item) decimal.Decimal {
	return item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
}

func backendNow() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05")
}

func writeEnvelope(w http.ResponseWriter, status int, success bool, message string, data any) {
	env := map[string]any{"success": success}
	if message != "" {
		env["message"] = message
	}
	if data != nil {
		env["data"] = data
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}
