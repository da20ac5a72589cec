// test/helpers/console.go
package helpers

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/stockroom-console/internal/adapters/backend"
	redis_a "github.com/ammerola/stockroom-console/internal/adapters/redis_adapter"
	"github.com/ammerola/stockroom-console/internal/adapters/storage"
	"github.com/ammerola/stockroom-console/internal/core/services"
	"github.com/ammerola/stockroom-console/internal/handlers"
	"github.com/ammerola/stockroom-console/internal/handlers/middleware"
	"github.com/ammerola/stockroom-console/internal/workers"
)

// FakeEnqueuer records submitted tasks instead of sending them to Redis
type FakeEnqueuer struct {
	mu    sync.Mutex
	tasks []*asynq.Task
	Err   error
}

var _ workers.Enqueuer = (*FakeEnqueuer)(nil)

// EnqueueContext implements workers.Enqueuer
func (f *FakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: uuid.NewString(), Queue: workers.QueueDefault, Type: task.Type()}, nil
}

// Tasks returns the tasks enqueued so far
func (f *FakeEnqueuer) Tasks() []*asynq.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*asynq.Task(nil), f.tasks...)
}

// TestConsole is the full web console wired against a fake backend,
// miniredis and a local report archive
type TestConsole struct {
	Backend  *FakeBackend
	Redis    *TestRedis
	Sessions *redis_a.SessionStore
	Client   *backend.Client
	Reports  *services.ReportService
	Archive  *storage.LocalArchive
	Enqueuer *FakeEnqueuer
	Server   *httptest.Server
}

// NewTestConsole starts the console with report archiving enabled
func NewTestConsole(t *testing.T) *TestConsole {
	t.Helper()

	cfg := LoadTestConfig()
	logger := TestLogger()

	c := &TestConsole{
		Backend:  NewFakeBackend(t),
		Redis:    SetupTestRedis(t),
		Enqueuer: &FakeEnqueuer{},
		Archive:  storage.NewLocalArchive(t.TempDir(), logger),
	}

	cache := redis_a.NewCache(c.Redis.Client, cfg.Redis.TTL, logger)
	c.Sessions = redis_a.NewSessionStore(cache, cfg.Session.TTL, logger)
	c.Client = backend.NewClient(backend.Config{BaseURL: c.Backend.URL()}, nil, logger)
	c.Reports = services.NewReportService(logger, services.WithCurrency(cfg.Reports.Currency))

	views, err := handlers.NewRenderer()
	require.NoError(t, err)

	catalog := services.NewCatalogService(cache, cfg.Redis.CategoryTTL, logger)
	h := &handlers.Handlers{
		Auth: handlers.NewAuthHandler(c.Sessions, c.Client, views, handlers.CookieOptions{
			Name:     cfg.Session.CookieName,
			PageSize: cfg.Session.PageSize,
		}, logger),
		Dashboard: handlers.NewDashboardHandler(c.Sessions, c.Client, views, services.NewDashboardService(logger), logger),
		Items: handlers.NewItemsHandler(c.Sessions, c.Client, views,
			services.NewListController(logger), catalog, cfg.Reports.Currency, logger),
		Activity: handlers.NewActivityHandler(c.Sessions, c.Client, views, catalog, logger),
		Reports: handlers.NewReportsHandler(c.Sessions, c.Client, views, c.Reports,
			c.Archive, c.Enqueuer, cfg.Reports.PresignExpiry, logger),
	}

	mux := http.NewServeMux()
	handlers.RegisterRoutes(mux, h, middleware.RequireSession(c.Sessions, cfg.Session.CookieName, logger))

	c.Server = httptest.NewServer(middleware.Chain(mux,
		middleware.RequestID(cfg.Security.RequestIDHeader),
		middleware.Logger(logger),
		middleware.Recovery(logger),
	))
	t.Cleanup(c.Server.Close)

	return c
}

// Browser is a cookie-keeping client for the console that follows redirects
type Browser struct {
	t      *testing.T
	base   string
	client *http.Client
}

// NewBrowser returns a client with an empty cookie jar
func (c *TestConsole) NewBrowser(t *testing.T) *Browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &Browser{t: t, base: c.Server.URL, client: &http.Client{Jar: jar}}
}

// Login signs in through the login form
func (b *Browser) Login(username, password string) (*http.Response, string) {
	return b.PostForm("/login", url.Values{"username": {username}, "password": {password}})
}

// Get fetches a console path
func (b *Browser) Get(path string) (*http.Response, string) {
	b.t.Helper()
	resp, err := b.client.Get(b.base + path)
	require.NoError(b.t, err)
	return resp, readBody(b.t, resp)
}

// PostForm submits a form to a console path
func (b *Browser) PostForm(path string, values url.Values) (*http.Response, string) {
	b.t.Helper()
	resp, err := b.client.Post(b.base+path, "application/x-www-form-urlencoded", strings.NewReader(values.Encode()))
	require.NoError(b.t, err)
	return resp, readBody(b.t, resp)
}

// NoRedirects stops the browser from following redirects so tests can
// inspect them
func (b *Browser) NoRedirects() *Browser {
	b.client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return b
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}
