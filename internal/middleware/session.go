package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/crucial707/hci-inventory/internal/models"
)

type ctxKey string

const (
	sessionKey ctxKey = "session"
	holderKey  ctxKey = "session_holder"
)

// SessionParser turns a bearer token into a session.
type SessionParser interface {
	Parse(token string) (models.Session, error)
}

// Authenticate requires a valid bearer token and stores its session in the request context.
func Authenticate(parser SessionParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSONError(w, "missing authorization header", http.StatusUnauthorized)
				return
			}
			tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok {
				writeJSONError(w, "authorization header must be a bearer token", http.StatusUnauthorized)
				return
			}

			s, err := parser.Parse(strings.TrimSpace(tokenStr))
			if err != nil {
				writeJSONError(w, "invalid token", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
		})
	}
}

// RequireCapability answers 403 unless the session's role grants c. Use after Authenticate.
func RequireCapability(c models.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := SessionFrom(r.Context())
			if !ok {
				writeJSONError(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if !s.Can(c) {
				writeJSONError(w, models.ErrForbidden.Error(), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func WithSession(ctx context.Context, s models.Session) context.Context {
	if h, ok := ctx.Value(holderKey).(*sessionHolder); ok {
		h.username = s.Username
	}
	return context.WithValue(ctx, sessionKey, s)
}

// sessionHolder lets RequestLog see the session set by an inner middleware.
type sessionHolder struct {
	username string
}

func withHolder(ctx context.Context, h *sessionHolder) context.Context {
	return context.WithValue(ctx, holderKey, h)
}

// SessionFrom returns the session stored by Authenticate.
func SessionFrom(ctx context.Context) (models.Session, bool) {
	s, ok := ctx.Value(sessionKey).(models.Session)
	return s, ok
}
