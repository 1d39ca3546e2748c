package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/probank/probank/internal/content"
)

// commentsAPIHandler provides REST handlers for threaded comments.
type commentsAPIHandler struct {
	comments *content.CommentService
}

func registerCommentRoutes(r chi.Router, deps Deps) {
	h := &commentsAPIHandler{comments: deps.Comments}
	r.Get("/problems/{id}/comments", h.ListTopLevel)
	r.Post("/problems/{id}/comments", h.Create)
	r.Get("/comments/{id}/replies", h.ListReplies)
	r.Delete("/comments/{id}", h.Delete)
}

// Create posts a comment or reply on a problem the caller can read.
// POST /api/v1/problems/{id}/comments
func (h *commentsAPIHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}

	c, err := h.comments.Create(r.Context(), content.NewComment{
		ProblemID: chi.URLParam(r, "id"),
		AuthorID:  user.ID,
		ParentID:  req.ParentID,
		ReplyToID: req.ReplyToID,
		Body:      req.Body,
	})
	if err != nil {
		writeContentError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCommentResponse(c))
}

// Delete soft-deletes a comment. The author or an admin may delete;
// the row stays as a thread anchor.
// DELETE /api/v1/comments/{id}
func (h *commentsAPIHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.comments.Delete(r.Context(), user.ID, chi.URLParam(r, "id"), user.IsAdmin()); err != nil {
		writeContentError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListTopLevel returns the top-level comments of a problem, oldest
// first.
// GET /api/v1/problems/{id}/comments
func (h *commentsAPIHandler) ListTopLevel(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePage(r)
	comments, err := h.comments.ListTopLevel(r.Context(), requesterID(r), chi.URLParam(r, "id"), page, pageSize)
	if err != nil {
		writeContentError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, commentList(comments, page))
}

// ListReplies returns the direct replies of a comment, oldest first.
// GET /api/v1/comments/{id}/replies
func (h *commentsAPIHandler) ListReplies(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePage(r)
	comments, err := h.comments.ListReplies(r.Context(), requesterID(r), chi.URLParam(r, "id"), page, pageSize)
	if err != nil {
		writeContentError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, commentList(comments, page))
}

func commentList(comments []*content.Comment, page int) *CommentListResponse {
	resp := &CommentListResponse{
		Comments: make([]*CommentResponse, 0, len(comments)),
		Page:     page,
	}
	for _, c := range comments {
		resp.Comments = append(resp.Comments, toCommentResponse(c))
	}
	return resp
}
