package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/probank/probank/internal/content"
	"github.com/probank/probank/internal/metrics"
)

// sharesHandler resolves opaque share keys without authentication. A
// key is the whole capability: whoever holds it may read the unlisted
// item behind it, nothing else.
type sharesHandler struct {
	problems    *content.ProblemService
	collections *content.CollectionService
	views       chan<- string
}

func registerShareRoutes(r chi.Router, deps Deps) {
	h := &sharesHandler{problems: deps.Problems, collections: deps.Collections, views: deps.Views}
	r.Get("/{key}", h.Resolve)
	r.Get("/{key}/problems", h.ListProblems)
}

// Resolve returns the item behind a share key. Problem and collection
// keys share one namespace; the keys are long enough that a lookup in
// both tables cannot be ambiguous.
// GET /shared/{key}
func (h *sharesHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	p, err := h.problems.GetByShareKey(r.Context(), key)
	if err == nil {
		metrics.ShareResolutionsTotal.WithLabelValues("problem").Inc()
		if h.views != nil {
			select {
			case h.views <- p.ID:
			default:
			}
		}
		writeJSON(w, http.StatusOK, toProblemResponse(p, false))
		return
	}
	if !content.IsKind(err, content.KindNotFound) {
		writeContentError(w, err)
		return
	}

	c, err := h.collections.GetByShareKey(r.Context(), key)
	if err != nil {
		if content.IsKind(err, content.KindNotFound) {
			metrics.ShareResolutionsTotal.WithLabelValues("miss").Inc()
		}
		writeContentError(w, err)
		return
	}
	metrics.ShareResolutionsTotal.WithLabelValues("collection").Inc()
	writeJSON(w, http.StatusOK, toCollectionResponse(c, false))
}

// ListProblems returns the publicly readable members of a shared
// collection.
// GET /shared/{key}/problems
func (h *sharesHandler) ListProblems(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePage(r)
	problems, err := h.collections.ListProblemsByShareKey(r.Context(), chi.URLParam(r, "key"), page, pageSize)
	if err != nil {
		writeContentError(w, err)
		return
	}

	resp := &ProblemListResponse{
		Problems: make([]*ProblemResponse, 0, len(problems)),
		Total:    len(problems),
		Page:     page,
	}
	for _, p := range problems {
		resp.Problems = append(resp.Problems, toProblemResponse(p, false))
	}
	writeJSON(w, http.StatusOK, resp)
}
