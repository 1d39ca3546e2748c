package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/probank/probank/internal/content"
	"github.com/probank/probank/internal/metrics"
)

// problemsAPIHandler provides REST handlers for the problem lifecycle.
type problemsAPIHandler struct {
	problems *content.ProblemService
	views    chan<- string
}

func registerProblemRoutes(r chi.Router, deps Deps) {
	h := &problemsAPIHandler{problems: deps.Problems, views: deps.Views}
	r.Get("/problems", h.ListPublic)
	r.Post("/problems", h.Create)
	r.Get("/problems/{id}", h.Get)
	r.Put("/problems/{id}", h.Update)
	r.Delete("/problems/{id}", h.Delete)
	r.Post("/problems/{id}/publish", h.Publish)
	r.Post("/problems/{id}/disable", h.Disable)
}

func draftFromRequest(req CreateProblemRequest) content.ProblemDraft {
	return content.ProblemDraft{
		Title:      req.Title,
		Body:       req.Body,
		Subject:    req.Subject,
		Difficulty: req.Difficulty,
		Visibility: content.Visibility(req.Visibility),
		ShareKey:   req.ShareKey,
		TagIDs:     req.TagIDs,
	}
}

// Create stores a new draft owned by the caller.
// POST /api/v1/problems
func (h *problemsAPIHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req CreateProblemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}

	p, err := h.problems.Create(r.Context(), user.ID, draftFromRequest(req))
	if err != nil {
		writeContentError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProblemResponse(p, true))
}

// Get returns a problem the caller may read, and queues a view.
// GET /api/v1/problems/{id}
func (h *problemsAPIHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.problems.Get(r.Context(), requesterID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeContentError(w, err)
		return
	}

	if h.views != nil && p.OwnerID != requesterID(r) {
		select {
		case h.views <- p.ID:
		default:
		}
	}
	writeJSON(w, http.StatusOK, toProblemResponse(p, p.OwnerID == requesterID(r)))
}

// Update replaces the owner-editable fields of a problem.
// PUT /api/v1/problems/{id}
func (h *problemsAPIHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req CreateProblemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}

	p, err := h.problems.Update(r.Context(), user.ID, chi.URLParam(r, "id"), draftFromRequest(req))
	if err != nil {
		writeContentError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProblemResponse(p, true))
}

// Delete removes a draft. Published problems are disabled, never
// deleted.
// DELETE /api/v1/problems/{id}
func (h *problemsAPIHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.problems.DeleteDraft(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		writeContentError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Publish moves a draft (or a republish of a live problem) to the
// published state, resolving and merging tags.
// POST /api/v1/problems/{id}/publish
func (h *problemsAPIHandler) Publish(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req PublishProblemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}

	p, err := h.problems.Publish(r.Context(), user.ID, chi.URLParam(r, "id"), content.PublishInput{
		Subject: req.Subject,
		TagIDs:  req.TagIDs,
		NewTags: req.NewTags,
	})
	if err != nil {
		writeContentError(w, err)
		return
	}
	metrics.PublishesTotal.Inc()
	writeJSON(w, http.StatusOK, toProblemResponse(p, true))
}

// Disable takes a published problem offline. Admins may disable any
// problem.
// POST /api/v1/problems/{id}/disable
func (h *problemsAPIHandler) Disable(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	p, err := h.problems.Disable(r.Context(), user.ID, chi.URLParam(r, "id"), user.IsAdmin())
	if err != nil {
		writeContentError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProblemResponse(p, user.ID == p.OwnerID || user.IsAdmin()))
}

// ListPublic returns the public feed, optionally filtered by subject.
// GET /api/v1/problems?subject=math&page=1&page_size=20
func (h *problemsAPIHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePage(r)
	problems, total, err := h.problems.ListPublic(r.Context(), r.URL.Query().Get("subject"), page, pageSize)
	if err != nil {
		writeContentError(w, err)
		return
	}

	resp := &ProblemListResponse{
		Problems: make([]*ProblemResponse, 0, len(problems)),
		Total:    total,
		Page:     page,
	}
	uid := requesterID(r)
	for _, p := range problems {
		resp.Problems = append(resp.Problems, toProblemResponse(p, p.OwnerID == uid))
	}
	writeJSON(w, http.StatusOK, resp)
}
