package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/probank/probank/internal/auth"
	"github.com/probank/probank/internal/content"
	"github.com/probank/probank/internal/store"
)

// Deps holds all dependencies required to build the API router.
type Deps struct {
	BearerAuth *auth.BearerTokenMiddleware

	Problems    *content.ProblemService
	Collections *content.CollectionService
	Comments    *content.CommentService
	Tags        *content.TagResolver

	ProblemLikes     *content.Engagement
	ProblemFavorites *content.Engagement
	CommentLikes     *content.Engagement

	Reports    *store.ReportStore
	Users      *store.UserStore
	TokenStore auth.TokenStore

	// Views receives problem ids whose view counter should be bumped.
	// Sends are non-blocking; a full channel drops the view.
	Views chan<- string
}

// NewAPIRouter creates a chi sub-router for /api/v1. A Bearer token
// identifies the caller when present; anonymous requests pass through
// and are rejected per-route where a user is required.
func NewAPIRouter(deps Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(jsonContentType)
	r.Use(deps.BearerAuth.Identify)

	registerProblemRoutes(r, deps)
	registerCollectionRoutes(r, deps)
	registerCommentRoutes(r, deps)
	registerEngagementRoutes(r, deps)
	registerTagRoutes(r, deps)
	registerReportRoutes(r, deps)
	registerTokenRoutes(r, deps.TokenStore)

	return r
}

// NewShareRouter creates the unauthenticated /shared router resolving
// opaque share keys.
func NewShareRouter(deps Deps) chi.Router {
	r := chi.NewRouter()
	r.Use(jsonContentType)
	registerShareRoutes(r, deps)
	return r
}

// jsonContentType sets Content-Type: application/json on all
// responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// requesterID returns the authenticated user's id, or "" for an
// anonymous request.
func requesterID(r *http.Request) string {
	if u := auth.UserFromContext(r.Context()); u != nil {
		return u.ID
	}
	return ""
}

// requireUser writes a 401 and reports false when the request is
// anonymous.
func requireUser(w http.ResponseWriter, r *http.Request) (*store.User, bool) {
	u := auth.UserFromContext(r.Context())
	if u == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return nil, false
	}
	return u, true
}

// requireAdmin writes a 401/403 and reports false unless the caller is
// an admin.
func requireAdmin(w http.ResponseWriter, r *http.Request) (*store.User, bool) {
	u, ok := requireUser(w, r)
	if !ok {
		return nil, false
	}
	if !u.IsAdmin() {
		writeError(w, http.StatusForbidden, "admin role required", "forbidden")
		return nil, false
	}
	return u, true
}
