// internal/handlers/render.go
package handlers

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/ammerola/stockroom-console/internal/adapters/backend"
	"github.com/ammerola/stockroom-console/internal/core/domain"
	"github.com/ammerola/stockroom-console/internal/core/ports"
	"github.com/ammerola/stockroom-console/internal/core/services"
	"github.com/ammerola/stockroom-console/internal/handlers/middleware"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutTemplate = "layout.html"

// Renderer executes the embedded page templates inside the shared layout
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every page template together with the layout
func NewRenderer() (*Renderer, error) {
	entries, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, entry := range entries {
		name := strings.TrimPrefix(entry, "templates/")
		if name == layoutTemplate {
			continue
		}
		tmpl, err := template.New(layoutTemplate).ParseFS(templateFS, "templates/"+layoutTemplate, entry)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// Render writes the named page. The page is rendered into a buffer first so
// that a template error still produces a clean 500.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, view *View) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown template %q", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, layoutTemplate, view); err != nil {
		return fmt.Errorf("failed to render %s: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// View is the data every page template receives
type View struct {
	Title   string
	Nav     string
	User    *domain.UserProfile
	Notices []domain.Notice
	Data    any
}

// base carries what every console handler needs
type base struct {
	sessions ports.SessionStore
	provider ports.APIProvider
	views    *Renderer
	logger   *slog.Logger
}

// api returns the session and a backend client bound to its token. It is
// only called behind RequireSession.
func (b *base) api(r *http.Request) (*domain.Session, ports.InventoryAPI) {
	session, ok := middleware.SessionFrom(r.Context())
	if !ok {
		panic("handlers: route registered without RequireSession")
	}
	return session, b.provider.As(session.Token)
}

// render consumes the session's notices and persists the session before
// writing the page.
func (b *base) render(w http.ResponseWriter, r *http.Request, session *domain.Session, page, nav, title string, data any) {
	view := &View{Title: title, Nav: nav, Data: data}
	if session != nil {
		view.User = &session.User
		view.Notices = session.TakeNotices()
		b.save(r, session)
	}

	if err := b.views.Render(w, http.StatusOK, page, view); err != nil {
		b.logger.ErrorContext(r.Context(), "failed to render page",
			slog.String("page", page),
			slog.Any("error", err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// redirect queues a notice and sends the browser to target
func (b *base) redirect(w http.ResponseWriter, r *http.Request, session *domain.Session, target string, level domain.NoticeLevel, message string) {
	if message != "" {
		session.AddNotice(level, message)
	}
	b.save(r, session)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (b *base) save(r *http.Request, session *domain.Session) {
	if err := b.sessions.Save(r.Context(), session); err != nil {
		b.logger.ErrorContext(r.Context(), "failed to save session", slog.Any("error", err))
	}
}

func (b *base) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		b.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (b *base) respondError(w http.ResponseWriter, status int, message string) {
	b.respondJSON(w, status, map[string]string{"error": message})
}

// noticeText turns an error into the text shown to the user. Backend
// rejections carry their own message verbatim.
func noticeText(err error, fallback string) string {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if errors.Is(err, backend.ErrTransport) {
		return "Connection error"
	}
	if errors.Is(err, services.ErrValidation) || errors.Is(err, services.ErrInvalidQuantity) {
		return capitalize(strings.TrimPrefix(err.Error(), services.ErrValidation.Error()+": "))
	}
	return fallback
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid item id %q", r.PathValue("id"))
	}
	return id, nil
}
