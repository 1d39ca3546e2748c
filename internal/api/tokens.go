package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/probank/probank/internal/auth"
)

// tokensAPIHandler provides REST handlers for API token management.
type tokensAPIHandler struct {
	tokens auth.TokenStore
}

func registerTokenRoutes(r chi.Router, tokens auth.TokenStore) {
	h := &tokensAPIHandler{tokens: tokens}
	r.Get("/tokens", h.List)
	r.Post("/tokens", h.Create)
	r.Delete("/tokens/{id}", h.Revoke)
}

// List returns the caller's tokens without sensitive fields.
// GET /api/v1/tokens
func (h *tokensAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	records, err := h.tokens.ListByUser(r.Context(), user.ID)
	if err != nil {
		writeContentError(w, err)
		return
	}

	resp := &TokenListResponse{Tokens: make([]*TokenResponse, 0, len(records))}
	for _, rec := range records {
		if rec.RevokedAt.Valid {
			continue
		}
		item := &TokenResponse{
			ID:        rec.ID,
			Name:      rec.Name,
			CreatedAt: rec.CreatedAt,
		}
		if rec.LastUsedAt.Valid {
			t := rec.LastUsedAt.Time
			item.LastUsedAt = &t
		}
		if rec.ExpiresAt.Valid {
			t := rec.ExpiresAt.Time
			item.ExpiresAt = &t
		}
		resp.Tokens = append(resp.Tokens, item)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create generates a new token and returns the plaintext once.
// POST /api/v1/tokens
func (h *tokensAPIHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req CreateTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", "bad_request")
		return
	}

	var expiresAt *time.Time
	if req.ExpiresIn != "" {
		d, err := time.ParseDuration(req.ExpiresIn)
		if err != nil || d <= 0 {
			writeError(w, http.StatusBadRequest, "expires_in must be a positive duration", "bad_request")
			return
		}
		t := time.Now().UTC().Add(d)
		expiresAt = &t
	}

	plaintext, hash, err := auth.GenerateToken()
	if err != nil {
		writeContentError(w, err)
		return
	}
	rec, err := h.tokens.Create(r.Context(), user.ID, req.Name, hash, expiresAt)
	if err != nil {
		writeContentError(w, err)
		return
	}

	resp := &TokenResponse{
		ID:        rec.ID,
		Name:      rec.Name,
		Token:     plaintext,
		CreatedAt: rec.CreatedAt,
	}
	if rec.ExpiresAt.Valid {
		t := rec.ExpiresAt.Time
		resp.ExpiresAt = &t
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Revoke invalidates one of the caller's tokens.
// DELETE /api/v1/tokens/{id}
func (h *tokensAPIHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.tokens.Revoke(r.Context(), chi.URLParam(r, "id"), user.ID); err != nil {
		writeContentError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
