package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/probank/probank/internal/content"
)

// tagsAPIHandler exposes the subject-scoped tag vocabulary.
type tagsAPIHandler struct {
	tags *content.TagResolver
}

func registerTagRoutes(r chi.Router, deps Deps) {
	h := &tagsAPIHandler{tags: deps.Tags}
	r.Get("/tags", h.List)
}

// List returns the tags of one subject, name-sorted.
// GET /api/v1/tags?subject=math
func (h *tagsAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	subject := r.URL.Query().Get("subject")
	if subject == "" {
		writeError(w, http.StatusBadRequest, "subject is required", "bad_request")
		return
	}

	tags, err := h.tags.ListBySubject(r.Context(), subject)
	if err != nil {
		writeContentError(w, err)
		return
	}

	resp := &TagListResponse{Tags: make([]*TagResponse, 0, len(tags))}
	for _, t := range tags {
		resp.Tags = append(resp.Tags, &TagResponse{ID: t.ID, Subject: t.Subject, Name: t.Name})
	}
	writeJSON(w, http.StatusOK, resp)
}
