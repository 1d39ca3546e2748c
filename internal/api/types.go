package api

import (
	"time"

	"github.com/probank/probank/internal/content"
	"github.com/probank/probank/internal/store"
)

// --- Problem types ---

// CreateProblemRequest is the request body for POST /api/v1/problems
// and PUT /api/v1/problems/{id}.
type CreateProblemRequest struct {
	Title      string   `json:"title"`
	Body       string   `json:"body"`
	Subject    string   `json:"subject,omitempty"`
	Difficulty int      `json:"difficulty"`
	Visibility string   `json:"visibility,omitempty"`
	ShareKey   string   `json:"share_key,omitempty"`
	TagIDs     []string `json:"tag_ids,omitempty"`
}

// PublishProblemRequest is the request body for POST /api/v1/problems/{id}/publish.
type PublishProblemRequest struct {
	Subject string   `json:"subject,omitempty"`
	TagIDs  []string `json:"tag_ids,omitempty"`
	NewTags []string `json:"new_tags,omitempty"`
}

// ProblemResponse is the JSON representation of a single problem.
type ProblemResponse struct {
	ID            string     `json:"id"`
	OwnerID       string     `json:"owner_id"`
	Title         string     `json:"title"`
	Body          string     `json:"body"`
	Subject       string     `json:"subject"`
	Difficulty    int        `json:"difficulty"`
	Status        string     `json:"status"`
	Visibility    string     `json:"visibility"`
	ShareKey      string     `json:"share_key,omitempty"`
	PublishedAt   *time.Time `json:"published_at"`
	ViewCount     int64      `json:"view_count"`
	LikeCount     int64      `json:"like_count"`
	FavoriteCount int64      `json:"favorite_count"`
	TagIDs        []string   `json:"tag_ids"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ProblemListResponse is the paginated response for problem list
// endpoints.
type ProblemListResponse struct {
	Problems []*ProblemResponse `json:"problems"`
	Total    int                `json:"total"`
	Page     int                `json:"page"`
}

func toProblemResponse(p *content.Problem, includeShareKey bool) *ProblemResponse {
	resp := &ProblemResponse{
		ID:            p.ID,
		OwnerID:       p.OwnerID,
		Title:         p.Title,
		Body:          p.Body,
		Subject:       p.Subject,
		Difficulty:    p.Difficulty,
		Status:        string(p.Status),
		Visibility:    string(p.Visibility),
		PublishedAt:   p.PublishedAt,
		ViewCount:     p.ViewCount,
		LikeCount:     p.LikeCount,
		FavoriteCount: p.FavoriteCount,
		TagIDs:        p.TagIDs,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if resp.TagIDs == nil {
		resp.TagIDs = []string{}
	}
	// The share key is the capability; only the owner's views carry it.
	if includeShareKey {
		resp.ShareKey = p.ShareKey
	}
	return resp
}

// --- Collection types ---

// CreateCollectionRequest is the request body for POST /api/v1/collections
// and PUT /api/v1/collections/{id}.
type CreateCollectionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Visibility  string `json:"visibility,omitempty"`
	ShareKey    string `json:"share_key,omitempty"`
}

// CollectionResponse is the JSON representation of a single collection.
type CollectionResponse struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"owner_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Status        string    `json:"status"`
	Visibility    string    `json:"visibility"`
	ShareKey      string    `json:"share_key,omitempty"`
	FavoriteCount int64     `json:"favorite_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toCollectionResponse(c *content.Collection, includeShareKey bool) *CollectionResponse {
	resp := &CollectionResponse{
		ID:            c.ID,
		OwnerID:       c.OwnerID,
		Name:          c.Name,
		Description:   c.Description,
		Status:        string(c.Status),
		Visibility:    string(c.Visibility),
		FavoriteCount: c.FavoriteCount,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
	if includeShareKey {
		resp.ShareKey = c.ShareKey
	}
	return resp
}

// --- Comment types ---

// CreateCommentRequest is the request body for POST /api/v1/problems/{id}/comments.
type CreateCommentRequest struct {
	Body      string `json:"body"`
	ParentID  string `json:"parent_id,omitempty"`
	ReplyToID string `json:"reply_to_id,omitempty"`
}

// CommentResponse is the JSON representation of a comment. Deleted
// comments keep their place in the thread with an empty body.
type CommentResponse struct {
	ID        string    `json:"id"`
	ProblemID string    `json:"problem_id"`
	AuthorID  string    `json:"author_id"`
	ParentID  string    `json:"parent_id,omitempty"`
	ReplyToID string    `json:"reply_to_id,omitempty"`
	Body      string    `json:"body"`
	LikeCount int64     `json:"like_count"`
	Deleted   bool      `json:"deleted"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentListResponse is the response for comment list endpoints.
type CommentListResponse struct {
	Comments []*CommentResponse `json:"comments"`
	Page     int                `json:"page"`
}

func toCommentResponse(c *content.Comment) *CommentResponse {
	return &CommentResponse{
		ID:        c.ID,
		ProblemID: c.ProblemID,
		AuthorID:  c.AuthorID,
		ParentID:  c.ParentID,
		ReplyToID: c.ReplyToID,
		Body:      c.Body,
		LikeCount: c.LikeCount,
		Deleted:   c.Deleted,
		CreatedAt: c.CreatedAt,
	}
}

// --- Engagement types ---

// EngagementResponse reports the outcome of an add/remove call.
type EngagementResponse struct {
	Changed bool `json:"changed"`
}

// TargetResponse is one entry in an engagement list.
type TargetResponse struct {
	ID    string `json:"id"`
	Kind  string `json:"kind"`
	Title string `json:"title"`
}

// TargetListResponse is the response for engagement list endpoints.
type TargetListResponse struct {
	Targets []*TargetResponse `json:"targets"`
	Page    int               `json:"page"`
}

// --- Tag types ---

// TagResponse is the JSON representation of a tag.
type TagResponse struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	Name    string `json:"name"`
}

// TagListResponse is the response for tag list endpoints.
type TagListResponse struct {
	Tags []*TagResponse `json:"tags"`
}

// --- Report types ---

// CreateReportRequest is the request body for POST /api/v1/reports.
type CreateReportRequest struct {
	TargetKind string `json:"target_kind"`
	TargetID   string `json:"target_id"`
	Reason     string `json:"reason"`
}

// ResolveReportRequest is the request body for POST /api/v1/admin/reports/{id}/resolve.
type ResolveReportRequest struct {
	Status string `json:"status"`
}

// ReportResponse is the JSON representation of a report.
type ReportResponse struct {
	ID         string     `json:"id"`
	ReporterID string     `json:"reporter_id"`
	TargetKind string     `json:"target_kind"`
	TargetID   string     `json:"target_id"`
	Reason     string     `json:"reason"`
	Status     string     `json:"status"`
	ResolvedBy string     `json:"resolved_by,omitempty"`
	ResolvedAt *time.Time `json:"resolved_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ReportListResponse is the response for report list endpoints.
type ReportListResponse struct {
	Reports []*ReportResponse `json:"reports"`
	Page    int               `json:"page"`
}

func toReportResponse(r *store.Report) *ReportResponse {
	resp := &ReportResponse{
		ID:         r.ID,
		ReporterID: r.ReporterID,
		TargetKind: r.TargetKind,
		TargetID:   r.TargetID,
		Reason:     r.Reason,
		Status:     r.Status,
		ResolvedBy: r.ResolvedBy,
		CreatedAt:  r.CreatedAt,
	}
	if r.ResolvedAt.Valid {
		t := r.ResolvedAt.Time
		resp.ResolvedAt = &t
	}
	return resp
}

// --- Token types ---

// CreateTokenRequest is the request body for POST /api/v1/tokens.
type CreateTokenRequest struct {
	Name      string `json:"name"`
	ExpiresIn string `json:"expires_in,omitempty"`
}

// TokenResponse is the JSON representation of an API token. The
// plaintext token appears only in the create response.
type TokenResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Token      string     `json:"token,omitempty"`
	LastUsedAt *time.Time `json:"last_used_at"`
	ExpiresAt  *time.Time `json:"expires_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

// TokenListResponse is the response for token list endpoints.
type TokenListResponse struct {
	Tokens []*TokenResponse `json:"tokens"`
}
