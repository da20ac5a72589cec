// internal/adapters/backend/client.go
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ammerola/stockroom-console/internal/core/domain"
	"github.com/ammerola/stockroom-console/internal/core/ports"
)

// ErrTransport marks failures below the envelope level: the request could
// not be sent, or the response body was not a JSON envelope.
var ErrTransport = errors.New("backend transport error")

// APIError is an application-level failure reported by the backend with
// success=false. Message is forwarded verbatim.
type APIError struct {
	Op      string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: request was not successful", e.Op)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Config holds backend client configuration
type Config struct {
	BaseURL string
	// Timeout of zero means no timeout
	Timeout   time.Duration
	UserAgent string
}

// Client issues REST calls against the inventory backend.
// A Client bound to a token (see As) attaches it as a bearer credential.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	token      string
	logger     *slog.Logger
}

// Statically assert the adapter satisfies both ports.
var (
	_ ports.APIProvider  = (*Client)(nil)
	_ ports.InventoryAPI = (*Client)(nil)
)

// NewClient creates a new backend client
func NewClient(cfg Config, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		httpClient: httpClient,
		logger:     logger.With(slog.String("component", "backend_client")),
	}
}

// As returns a copy of the client bound to the given bearer token
func (c *Client) As(token string) ports.InventoryAPI {
	bound := *c
	bound.token = token
	return &bound
}

// Request performs a single call and returns the parsed envelope as-is.
// HTTP status is not inspected; callers check Envelope.Success.
func (c *Client) Request(ctx context.Context, method, path string, query url.Values, body any) (*domain.Envelope, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, payload)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.ErrorContext(ctx, "backend request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %s %s: %v", ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	var env domain.Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		c.logger.ErrorContext(ctx, "backend response is not an envelope",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: decode %s %s response (status %d): %v", ErrTransport, method, path, resp.StatusCode, err)
	}

	c.logger.DebugContext(ctx, "backend request completed",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Bool("success", env.Success),
		slog.Duration("duration", time.Since(start)))

	return &env, nil
}

// call runs Request and turns success=false into an *APIError, decoding the
// payload into dest when it is non-nil.
func (c *Client) call(ctx context.Context, op, method, path string, query url.Values, body, dest any) error {
	env, err := c.Request(ctx, method, path, query, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !env.Success {
		return &APIError{Op: op, Message: env.Message}
	}
	if dest == nil {
		return nil
	}
	if err := env.Decode(dest); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func pageQuery(page, size int) url.Values {
	q := url.Values{}
	q.Set("page", fmt.Sprint(page))
	q.Set("size", fmt.Sprint(size))
	return q
}

// Login handles POST /auth/login
func (c *Client) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResult, error) {
	var result domain.LoginResult
	if err := c.call(ctx, "login", http.MethodPost, "/auth/login", nil, req, &result); err != nil {
		return nil, err
	}
	if result.Token == "" {
		return nil, &APIError{Op: "login", Message: "no token issued"}
	}
	return &result, nil
}

// Ping checks that the backend answers with an envelope. An application
// failure still means the backend is reachable.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Request(ctx, http.MethodGet, "/categories", nil, nil)
	return err
}

// ListItems handles GET /items?page,size
func (c *Client) ListItems(ctx context.Context, page, size int) (*domain.ItemPage, error) {
	var result domain.ItemPage
	if err := c.call(ctx, "list items", http.MethodGet, "/items", pageQuery(page, size), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SearchItems handles GET /items/search?query,page,size
func (c *Client) SearchItems(ctx context.Context, query string, page, size int) (*domain.ItemPage, error) {
	q := pageQuery(page, size)
	q.Set("query", query)

	var result domain.ItemPage
	if err := c.call(ctx, "search items", http.MethodGet, "/items/search", q, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetItem handles GET /items/{id}
func (c *Client) GetItem(ctx context.Context, id int) (*domain.Item, error) {
	var item domain.Item
	if err := c.call(ctx, "get item", http.MethodGet, fmt.Sprintf("/items/%d", id), nil, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateItem handles POST /items
func (c *Client) CreateItem(ctx context.Context, item *domain.NewItem) error {
	return c.call(ctx, "create item", http.MethodPost, "/items", nil, item, nil)
}

// UpdateItem handles PUT /items/{id}
func (c *Client) UpdateItem(ctx context.Context, id int, update *domain.ItemUpdate) error {
	return c.call(ctx, "update item", http.MethodPut, fmt.Sprintf("/items/%d", id), nil, update, nil)
}

// DeleteItem handles DELETE /items/{id}
func (c *Client) DeleteItem(ctx context.Context, id int) error {
	return c.call(ctx, "delete item", http.MethodDelete, fmt.Sprintf("/items/%d", id), nil, nil, nil)
}

// LowStockItems handles GET /items/low-stock
func (c *Client) LowStockItems(ctx context.Context) ([]domain.Item, error) {
	items := []domain.Item{}
	if err := c.call(ctx, "low stock items", http.MethodGet, "/items/low-stock", nil, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AddStock handles POST /items/{id}/add-stock?quantity
func (c *Client) AddStock(ctx context.Context, id, quantity int) error {
	q := url.Values{}
	q.Set("quantity", fmt.Sprint(quantity))
	return c.call(ctx, "add stock", http.MethodPost, fmt.Sprintf("/items/%d/add-stock", id), q, nil, nil)
}

// ReduceStock handles POST /items/{id}/reduce-stock?quantity
func (c *Client) ReduceStock(ctx context.Context, id, quantity int) error {
	q := url.Values{}
	q.Set("quantity", fmt.Sprint(quantity))
	return c.call(ctx, "reduce stock", http.MethodPost, fmt.Sprintf("/items/%d/reduce-stock", id), q, nil, nil)
}

// Categories handles GET /categories
func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	categories := []domain.Category{}
	if err := c.call(ctx, "list categories", http.MethodGet, "/categories", nil, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// ActivityLogs handles GET /activity-logs?page,size
func (c *Client) ActivityLogs(ctx context.Context, page, size int) ([]domain.LogEntry, error) {
	env, err := c.Request(ctx, http.MethodGet, "/activity-logs", pageQuery(page, size), nil)
	if err != nil {
		return nil, fmt.Errorf("activity logs: %w", err)
	}
	if !env.Success {
		return nil, &APIError{Op: "activity logs", Message: env.Message}
	}
	entries, err := domain.DecodeLogEntries(env.Data)
	if err != nil {
		return nil, fmt.Errorf("activity logs: %w", err)
	}
	return entries, nil
}
