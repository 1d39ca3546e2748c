package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/probank/probank/internal/content"
)

// collectionsAPIHandler provides REST handlers for collections and
// their curated membership.
type collectionsAPIHandler struct {
	collections *content.CollectionService
}

func registerCollectionRoutes(r chi.Router, deps Deps) {
	h := &collectionsAPIHandler{collections: deps.Collections}
	r.Post("/collections", h.Create)
	r.Get("/collections/{id}", h.Get)
	r.Put("/collections/{id}", h.Update)
	r.Post("/collections/{id}/disable", h.Disable)
	r.Get("/collections/{id}/problems", h.ListProblems)
	r.Put("/collections/{id}/problems/{pid}", h.AddProblem)
	r.Delete("/collections/{id}/problems/{pid}", h.RemoveProblem)
}

func collectionDraftFromRequest(req CreateCollectionRequest) content.CollectionDraft {
	return content.CollectionDraft{
		Name:        req.Name,
		Description: req.Description,
		Visibility:  content.Visibility(req.Visibility),
		ShareKey:    req.ShareKey,
	}
}

// Create stores a new collection. Collections are live from creation;
// there is no draft state.
// POST /api/v1/collections
func (h *collectionsAPIHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req CreateCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}

	c, err := h.collections.Create(r.Context(), user.ID, collectionDraftFromRequest(req))
	if err != nil {
		writeContentError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCollectionResponse(c, true))
}

// Get returns a collection the caller may read.
// GET /api/v1/collections/{id}
func (h *collectionsAPIHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.collections.Get(r.Context(), requesterID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeContentError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCollectionResponse(c, c.OwnerID == requesterID(r)))
}

// Update replaces the owner-editable fields of a collection.
// PUT /api/v1/collections/{id}
func (h *collectionsAPIHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req CreateCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}

	c, err := h.collections.Update(r.Context(), user.ID, chi.URLParam(r, "id"), collectionDraftFromRequest(req))
	if err != nil {
		writeContentError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCollectionResponse(c, true))
}

// Disable takes a collection offline. Admins may disable any
// collection.
// POST /api/v1/collections/{id}/disable
func (h *collectionsAPIHandler) Disable(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	c, err := h.collections.Disable(r.Context(), user.ID, chi.URLParam(r, "id"), user.IsAdmin())
	if err != nil {
		writeContentError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCollectionResponse(c, user.ID == c.OwnerID || user.IsAdmin()))
}

// AddProblem appends a problem the caller can read to their
// collection.
// PUT /api/v1/collections/{id}/problems/{pid}
func (h *collectionsAPIHandler) AddProblem(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	err := h.collections.AddProblem(r.Context(), user.ID, chi.URLParam(r, "id"), chi.URLParam(r, "pid"))
	if err != nil {
		writeContentError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveProblem drops a problem from the caller's collection.
// DELETE /api/v1/collections/{id}/problems/{pid}
func (h *collectionsAPIHandler) RemoveProblem(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	err := h.collections.RemoveProblem(r.Context(), user.ID, chi.URLParam(r, "id"), chi.URLParam(r, "pid"))
	if err != nil {
		writeContentError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListProblems returns the member problems the caller can currently
// read, in curation order.
// GET /api/v1/collections/{id}/problems
func (h *collectionsAPIHandler) ListProblems(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePage(r)
	problems, err := h.collections.ListProblems(r.Context(), requesterID(r), chi.URLParam(r, "id"), page, pageSize)
	if err != nil {
		writeContentError(w, err)
		return
	}

	resp := &ProblemListResponse{
		Problems: make([]*ProblemResponse, 0, len(problems)),
		Total:    len(problems),
		Page:     page,
	}
	uid := requesterID(r)
	for _, p := range problems {
		resp.Problems = append(resp.Problems, toProblemResponse(p, p.OwnerID == uid))
	}
	writeJSON(w, http.StatusOK, resp)
}
