package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/probank/probank/internal/store"
)

type contextKey string

// UserContextKey is the request-context key holding the authenticated
// *store.User.
const UserContextKey contextKey = "auth.user"

// UserFromContext returns the authenticated user, or nil for an
// anonymous request.
func UserFromContext(ctx context.Context) *store.User {
	u, _ := ctx.Value(UserContextKey).(*store.User)
	return u
}

// BearerTokenMiddleware authenticates API requests via Bearer token.
type BearerTokenMiddleware struct {
	tokens TokenStore
	users  *store.UserStore
}

func NewBearerTokenMiddleware(ts TokenStore, us *store.UserStore) *BearerTokenMiddleware {
	return &BearerTokenMiddleware{tokens: ts, users: us}
}

// Identify resolves a Bearer token to its owning user when one is
// presented, and lets the request through anonymously when the header
// is absent. Public reads and share-link resolution work without a
// token; a malformed or dead token is still rejected outright rather
// than downgraded to anonymous.
func (m *BearerTokenMiddleware) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			next.ServeHTTP(w, r)
			return
		}

		user, ok := m.resolve(r)
		if !ok {
			writeUnauthorized(w)
			return
		}
		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireUser rejects anonymous requests with 401. Mount after
// Identify on routes that mutate state.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) == nil {
			writeUnauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// resolve validates the Bearer token and loads its owner. Reports
// false for a missing, revoked, or expired token.
func (m *BearerTokenMiddleware) resolve(r *http.Request) (*store.User, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, false
	}
	plaintext := strings.TrimPrefix(authHeader, "Bearer ")
	if plaintext == "" {
		return nil, false
	}

	rec, err := m.tokens.GetByHash(r.Context(), HashToken(plaintext))
	if err != nil {
		return nil, false
	}
	if rec.RevokedAt.Valid {
		return nil, false
	}
	if rec.ExpiresAt.Valid && rec.ExpiresAt.Time.Before(time.Now()) {
		return nil, false
	}

	user, err := m.users.GetByID(r.Context(), rec.UserID)
	if err != nil {
		return nil, false
	}

	// Async last_used_at update keeps token validation off the write
	// path.
	go m.tokens.UpdateLastUsed(context.Background(), rec.ID)

	return user, true
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
}
