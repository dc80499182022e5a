package session

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/san-kum/gapdash/internal/dashboard"
)

// CookieName is the session cookie.
const CookieName = "gapdash_session"

type contextKey struct{}

type bound struct {
	id   string
	ctrl *dashboard.Controller
}

// Middleware attaches the caller's controller to the request context,
// issuing a cookie when the caller has no valid session.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(CookieName); err == nil {
			if _, perr := uuid.Parse(c.Value); perr == nil {
				id = c.Value
			}
		}

		sid, ctrl, created := m.Resolve(id)
		if created {
			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    sid,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), contextKey{}, bound{id: sid, ctrl: ctrl})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// FromContext returns the controller bound by Middleware.
func FromContext(ctx context.Context) (*dashboard.Controller, bool) {
	b, ok := ctx.Value(contextKey{}).(bound)
	return b.ctrl, ok
}

// IDFromContext returns the session id bound by Middleware.
func IDFromContext(ctx context.Context) string {
	b, _ := ctx.Value(contextKey{}).(bound)
	return b.id
}
