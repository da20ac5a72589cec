// internal/core/domain/item.go
package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Item represents a single inventory record as reported by the backend.
// Timestamps are kept as the ISO strings the backend sends so that exports
// reproduce them verbatim.
type Item struct {
	ID           int             `json:"itemId"`
	Name         string          `json:"itemName"`
	CategoryID   int             `json:"categoryId,omitempty"`
	CategoryName string          `json:"categoryName"`
	Quantity     int             `json:"quantity"`
	ReorderLevel int             `json:"reorderLevel"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	TotalValue   decimal.Decimal `json:"totalValue"`
	Description  string          `json:"description,omitempty"`
	Location     string          `json:"location,omitempty"`
	SKU          string          `json:"sku,omitempty"`
	AddedBy      string          `json:"addedBy,omitempty"`
	CreatedAt    string          `json:"createdAt,omitempty"`
	UpdatedAt    string          `json:"updatedAt,omitempty"`
}

// IsLowStock reports whether the quantity is at or below the reorder level.
func (i *Item) IsLowStock() bool {
	return i.Quantity <= i.ReorderLevel
}

// Shortage is the reorder level minus the quantity. It is negative when the
// item is not actually short.
func (i *Item) Shortage() int {
	return i.ReorderLevel - i.Quantity
}

// Category represents an item category
type Category struct {
	ID          int    `json:"categoryId"`
	Name        string `json:"categoryName"`
	Description string `json:"description,omitempty"`
}

// CategoryRef is the nested category reference the backend expects on create
type CategoryRef struct {
	ID int `json:"categoryId"`
}

// NewItem is the create payload for POST /items
type NewItem struct {
	Name        string          `json:"itemName"`
	Category    CategoryRef     `json:"category"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	SKU         string          `json:"sku"`
	Location    string          `json:"location"`
	Description string          `json:"description"`
}

// Validate performs client-side validation before the request is sent
func (n *NewItem) Validate() error {
	n.Name = strings.TrimSpace(n.Name)
	if n.Name == "" {
		return fmt.Errorf("item name is required")
	}
	if n.Category.ID <= 0 {
		return fmt.Errorf("category is required")
	}
	if n.Quantity < 0 {
		return fmt.Errorf("quantity cannot be negative")
	}
	if n.UnitPrice.IsNegative() {
		return fmt.Errorf("unit price cannot be negative")
	}
	return nil
}

// ItemUpdate is the payload for PUT /items/{id}
type ItemUpdate struct {
	Name      string          `json:"itemName"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// Validate performs client-side validation before the request is sent
func (u *ItemUpdate) Validate() error {
	u.Name = strings.TrimSpace(u.Name)
	if u.Name == "" {
		return fmt.Errorf("item name is required")
	}
	if u.Quantity < 0 {
		return fmt.Errorf("quantity cannot be negative")
	}
	if u.UnitPrice.IsNegative() {
		return fmt.Errorf("unit price cannot be negative")
	}
	return nil
}

// LogUser is the actor embedded in an activity log entry
type LogUser struct {
	FullName string `json:"fullName"`
}

// LogEntry represents one activity log record
type LogEntry struct {
	ID          int      `json:"logId"`
	Action      string   `json:"action"`
	EntityType  string   `json:"entityType,omitempty"`
	EntityID    int      `json:"entityId,omitempty"`
	Description string   `json:"description,omitempty"`
	CreatedAt   string   `json:"createdAt"`
	User        *LogUser `json:"user,omitempty"`
}

// Actor returns the user's full name, or "System" when the entry has none.
func (l *LogEntry) Actor() string {
	if l.User == nil || l.User.FullName == "" {
		return "System"
	}
	return l.User.FullName
}
