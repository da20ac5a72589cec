package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ammerola/stockroom-console/internal/core/domain"
	"github.com/ammerola/stockroom-console/internal/core/ports"
	"github.com/ammerola/stockroom-console/internal/pkg/logger"
)

// LoginPath is where requests without a valid session are sent
const LoginPath = "/login"

type sessionContextKey struct{}

// WithSession stores the session in the context along with its logging fields
func WithSession(ctx context.Context, session *domain.Session) context.Context {
	ctx = context.WithValue(ctx, sessionContextKey{}, session)
	ctx = context.WithValue(ctx, logger.ContextKeySessionID, session.ID.String())
	if session.User.Username != "" {
		ctx = context.WithValue(ctx, logger.ContextKeyUsername, session.User.Username)
	}
	return ctx
}

// SessionFrom returns the session attached by RequireSession
func SessionFrom(ctx context.Context) (*domain.Session, bool) {
	session, ok := ctx.Value(sessionContextKey{}).(*domain.Session)
	return session, ok && session != nil
}

// RequireSession loads the session named by the cookie. Requests without one
// are redirected to the login page, or get 401 when they ask for JSON.
func RequireSession(store ports.SessionStore, cookieName string, l *slog.Logger) Middleware {
	l = l.With(slog.String("middleware", "session"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := loadSession(r, store, cookieName)
			if err != nil {
				if !errors.Is(err, http.ErrNoCookie) && !errors.Is(err, ports.ErrSessionNotFound) {
					l.WarnContext(r.Context(), "session lookup failed", slog.Any("error", err))
				}
				ClearSessionCookie(w, cookieName)
				if strings.Contains(r.Header.Get("Accept"), "application/json") {
					http.Error(w, "Unauthorized", http.StatusUnauthorized)
					return
				}
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

func loadSession(r *http.Request, store ports.SessionStore, cookieName string) (*domain.Session, error) {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(cookie.Value)
	if err != nil {
		return nil, ports.ErrSessionNotFound
	}
	return store.Get(r.Context(), id)
}

// SetSessionCookie issues the session cookie. It carries no expiry: the
// session record's sliding TTL in Redis decides when the user is signed out.
func SetSessionCookie(w http.ResponseWriter, name string, id uuid.UUID, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    id.String(),
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie
func ClearSessionCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
