// internal/handlers/auth.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ammerola/stockroom-console/internal/adapters/backend"
	"github.com/ammerola/stockroom-console/internal/core/domain"
	"github.com/ammerola/stockroom-console/internal/core/ports"
	"github.com/ammerola/stockroom-console/internal/handlers/middleware"
)

// CookieOptions configures the session cookie
type CookieOptions struct {
	Name     string
	Secure   bool
	PageSize int
}

// AuthHandler handles login and logout
type AuthHandler struct {
	base
	cookie CookieOptions
}

type loginData struct {
	Username string
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(sessions ports.SessionStore, provider ports.APIProvider, views *Renderer, cookie CookieOptions, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		base: base{
			sessions: sessions,
			provider: provider,
			views:    views,
			logger:   logger.With(slog.String("handler", "auth")),
		},
		cookie: cookie,
	}
}

// LoginPage handles GET /login
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if _, err := h.currentSession(r); err == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.renderLogin(w, r, "", nil)
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req := domain.LoginRequest{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Password: r.PostFormValue("password"),
	}
	if req.Username == "" || req.Password == "" {
		h.renderLogin(w, r, req.Username, &domain.Notice{Level: domain.NoticeDanger, Message: "Username and password are required"})
		return
	}

	result, err := h.provider.Login(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "login failed",
			slog.String("username", req.Username),
			slog.Any("error", err))

		message := "Connection error"
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) {
			message = "Login failed: " + apiErr.Message
		}
		h.renderLogin(w, r, req.Username, &domain.Notice{Level: domain.NoticeDanger, Message: message})
		return
	}

	profile := result.Profile()
	if profile.Username == "" {
		profile.Username = req.Username
	}

	session := domain.NewSession(result.Token, profile, h.cookie.PageSize)
	if err := h.sessions.Save(ctx, session); err != nil {
		h.logger.ErrorContext(ctx, "failed to create session", slog.Any("error", err))
		h.renderLogin(w, r, req.Username, &domain.Notice{Level: domain.NoticeDanger, Message: "Could not start a session, please try again"})
		return
	}

	middleware.SetSessionCookie(w, h.cookie.Name, session.ID, h.cookie.Secure)

	h.logger.InfoContext(ctx, "user signed in",
		slog.String("username", profile.Username),
		slog.String("role", profile.Role),
		slog.String("session_id", session.ID.String()))

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout handles POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if cookie, err := r.Cookie(h.cookie.Name); err == nil {
		if id, err := uuid.Parse(cookie.Value); err == nil {
			if err := h.sessions.Delete(ctx, id); err != nil {
				h.logger.WarnContext(ctx, "failed to delete session", slog.Any("error", err))
			}
		}
	}

	middleware.ClearSessionCookie(w, h.cookie.Name)
	http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
}

func (h *AuthHandler) currentSession(r *http.Request) (*domain.Session, error) {
	cookie, err := r.Cookie(h.cookie.Name)
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(cookie.Value)
	if err != nil {
		return nil, ports.ErrSessionNotFound
	}
	return h.sessions.Get(r.Context(), id)
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, username string, notice *domain.Notice) {
	view := &View{Title: "Login", Data: loginData{Username: username}}
	if notice != nil {
		view.Notices = []domain.Notice{*notice}
	}
	if err := h.views.Render(w, http.StatusOK, "login.html", view); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render login page", slog.Any("error", err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
