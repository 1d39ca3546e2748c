package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/probank/probank/internal/store"
)

// reportsAPIHandler provides report submission for any user and a
// moderation queue for admins.
type reportsAPIHandler struct {
	reports *store.ReportStore
}

func registerReportRoutes(r chi.Router, deps Deps) {
	h := &reportsAPIHandler{reports: deps.Reports}
	r.Post("/reports", h.Create)
	r.Get("/admin/reports", h.List)
	r.Post("/admin/reports/{id}/resolve", h.Resolve)
}

// Create files a report against a problem or comment.
// POST /api/v1/reports
func (h *reportsAPIHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}
	if req.TargetKind != "problem" && req.TargetKind != "comment" && req.TargetKind != "collection" {
		writeError(w, http.StatusBadRequest, "target_kind must be problem, comment, or collection", "bad_request")
		return
	}
	if req.TargetID == "" || req.Reason == "" {
		writeError(w, http.StatusBadRequest, "target_id and reason are required", "bad_request")
		return
	}

	report, err := h.reports.Create(r.Context(), user.ID, req.TargetKind, req.TargetID, req.Reason)
	if err != nil {
		writeContentError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toReportResponse(report))
}

// List returns the moderation queue, optionally filtered by status.
// GET /api/v1/admin/reports?status=open
func (h *reportsAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	page, pageSize := parsePage(r)
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	reports, err := h.reports.ListByStatus(r.Context(), r.URL.Query().Get("status"), pageSize, (page-1)*pageSize)
	if err != nil {
		writeContentError(w, err)
		return
	}

	resp := &ReportListResponse{
		Reports: make([]*ReportResponse, 0, len(reports)),
		Page:    page,
	}
	for _, report := range reports {
		resp.Reports = append(resp.Reports, toReportResponse(report))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Resolve closes an open report as resolved or dismissed.
// POST /api/v1/admin/reports/{id}/resolve
func (h *reportsAPIHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	admin, ok := requireAdmin(w, r)
	if !ok {
		return
	}

	var req ResolveReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}

	report, err := h.reports.Resolve(r.Context(), chi.URLParam(r, "id"), admin.ID, req.Status)
	if err != nil {
		writeContentError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReportResponse(report))
}
