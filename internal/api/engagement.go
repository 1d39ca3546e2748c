package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/probank/probank/internal/content"
	"github.com/probank/probank/internal/metrics"
)

// engagementAPIHandler exposes one engagement coordinator (likes,
// favorites, or comment likes) as PUT/DELETE toggle routes plus a
// per-user listing.
type engagementAPIHandler struct {
	engagement *content.Engagement
}

func registerEngagementRoutes(r chi.Router, deps Deps) {
	likes := &engagementAPIHandler{engagement: deps.ProblemLikes}
	r.Put("/problems/{id}/like", likes.Add)
	r.Delete("/problems/{id}/like", likes.Remove)
	r.Get("/me/likes", likes.List)

	favorites := &engagementAPIHandler{engagement: deps.ProblemFavorites}
	r.Put("/problems/{id}/favorite", favorites.Add)
	r.Delete("/problems/{id}/favorite", favorites.Remove)
	r.Get("/me/favorites", favorites.List)

	commentLikes := &engagementAPIHandler{engagement: deps.CommentLikes}
	r.Put("/comments/{id}/like", commentLikes.Add)
	r.Delete("/comments/{id}/like", commentLikes.Remove)
	r.Get("/me/comment-likes", commentLikes.List)
}

// Add activates the caller's edge on the target. Repeats are no-ops,
// reported via the changed flag.
func (h *engagementAPIHandler) Add(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	changed, err := h.engagement.Add(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		metrics.EngagementOpsTotal.WithLabelValues(h.engagement.Kind(), "add", "error").Inc()
		writeContentError(w, err)
		return
	}
	metrics.EngagementOpsTotal.WithLabelValues(h.engagement.Kind(), "add", outcome(changed)).Inc()
	writeJSON(w, http.StatusOK, EngagementResponse{Changed: changed})
}

// Remove deactivates the caller's edge. Works even when the target is
// no longer readable, so stale clients can always unwind.
func (h *engagementAPIHandler) Remove(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	changed, err := h.engagement.Remove(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		metrics.EngagementOpsTotal.WithLabelValues(h.engagement.Kind(), "remove", "error").Inc()
		writeContentError(w, err)
		return
	}
	metrics.EngagementOpsTotal.WithLabelValues(h.engagement.Kind(), "remove", outcome(changed)).Inc()
	writeJSON(w, http.StatusOK, EngagementResponse{Changed: changed})
}

// List returns the caller's active targets, most recent first,
// filtered by what they can still read.
func (h *engagementAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	page, pageSize := parsePage(r)
	targets, err := h.engagement.List(r.Context(), user.ID, page, pageSize)
	if err != nil {
		writeContentError(w, err)
		return
	}

	resp := &TargetListResponse{
		Targets: make([]*TargetResponse, 0, len(targets)),
		Page:    page,
	}
	for _, t := range targets {
		resp.Targets = append(resp.Targets, &TargetResponse{ID: t.ID, Kind: t.Kind, Title: t.Title})
	}
	writeJSON(w, http.StatusOK, resp)
}

func outcome(changed bool) string {
	if changed {
		return "changed"
	}
	return "noop"
}
