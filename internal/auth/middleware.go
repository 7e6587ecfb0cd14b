package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/lifearrow/platform/internal/httputil"
	"github.com/lifearrow/platform/internal/users"
)

type contextKey string

const ContextUser contextKey = "user"

type ContextUserData struct {
	UserID string
	Role   users.Role
}

type Middleware struct {
	sessions *SessionRepository
}

func NewMiddleware(sessions *SessionRepository) *Middleware {
	return &Middleware{sessions: sessions}
}

func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
			return
		}

		sess, err := m.sessions.Get(token)
		if err != nil {
			httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid session")
			return
		}

		if IsTokenExpired(sess.ExpiresAt) {
			m.sessions.Delete(token)
			httputil.WriteError(w, http.StatusUnauthorized, "SESSION_EXPIRED", "session expired")
			return
		}

		ctx := context.WithValue(r.Context(), ContextUser, ContextUserData{
			UserID: sess.UserID,
			Role:   sess.Role,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Middleware) RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		if user == nil || !user.Role.Staff() {
			httputil.WriteError(w, http.StatusForbidden, "FORBIDDEN", "practitioner access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		if user == nil || user.Role != users.RoleAdmin {
			httputil.WriteError(w, http.StatusForbidden, "FORBIDDEN", "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func UserFromContext(ctx context.Context) *ContextUserData {
	if v, ok := ctx.Value(ContextUser).(ContextUserData); ok {
		return &v
	}
	return nil
}

func extractToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if c, err := r.Cookie("session"); err == nil {
		return c.Value
	}
	return ""
}
