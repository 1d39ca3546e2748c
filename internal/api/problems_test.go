package api_test

import (
	"net/http"
	"testing"

	"github.com/probank/probank/internal/api"
)

func TestProblems_DraftToPublishFlow(t *testing.T) {
	env := newTestEnv(t)
	owner := seedUser(t, env, "owner@example.com", "user")
	token := seedToken(t, env, owner.ID)

	rec := doJSON(t, env.Router, http.MethodPost, "/problems", token, api.CreateProblemRequest{
		Title:      "Chain rule warm-up",
		Body:       "Differentiate f(g(x)).",
		Subject:    "math",
		Difficulty: 2,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d; body: %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[api.ProblemResponse](t, rec)
	if created.Status != "draft" || created.Visibility != "private" {
		t.Errorf("new problem = %s/%s, want draft/private", created.Status, created.Visibility)
	}

	rec = doJSON(t, env.Router, http.MethodPost, "/problems/"+created.ID+"/publish", token, api.PublishProblemRequest{
		NewTags: []string{"calculus"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("publish status = %d; body: %s", rec.Code, rec.Body.String())
	}
	published := decodeBody[api.ProblemResponse](t, rec)
	if published.Status != "published" || published.PublishedAt == nil {
		t.Errorf("published = %+v", published)
	}
	if len(published.TagIDs) != 1 {
		t.Errorf("tag ids = %v, want 1 resolved tag", published.TagIDs)
	}
}

func TestProblems_PrivateReadsAsNotFoundForOthers(t *testing.T) {
	env := newTestEnv(t)
	owner := seedUser(t, env, "owner@example.com", "user")
	ownerToken := seedToken(t, env, owner.ID)
	other := seedUser(t, env, "other@example.com", "user")
	otherToken := seedToken(t, env, other.ID)

	rec := doJSON(t, env.Router, http.MethodPost, "/problems", ownerToken, api.CreateProblemRequest{
		Title: "Secret", Body: "hidden", Difficulty: 1,
	})
	created := decodeBody[api.ProblemResponse](t, rec)

	// Owner sees it.
	rec = doJSON(t, env.Router, http.MethodGet, "/problems/"+created.ID, ownerToken, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("owner get = %d", rec.Code)
	}

	// Everyone else gets a 404, not a 403: private content does not
	// reveal its existence.
	rec = doJSON(t, env.Router, http.MethodGet, "/problems/"+created.ID, otherToken, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("other get = %d, want 404", rec.Code)
	}
	rec = doJSON(t, env.Router, http.MethodGet, "/problems/"+created.ID, "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("anonymous get = %d, want 404", rec.Code)
	}
}

func TestProblems_ShareKeyHiddenFromNonOwners(t *testing.T) {
	env := newTestEnv(t)
	owner := seedUser(t, env, "owner@example.com", "user")
	token := seedToken(t, env, owner.ID)

	rec := doJSON(t, env.Router, http.MethodPost, "/problems", token, api.CreateProblemRequest{
		Title: "Shared", Body: "body", Difficulty: 1, Visibility: "unlisted",
	})
	created := decodeBody[api.ProblemResponse](t, rec)
	if created.ShareKey == "" {
		t.Fatal("unlisted problem should carry a share key for its owner")
	}

	rec = doJSON(t, env.Router, http.MethodPost, "/problems/"+created.ID+"/publish", token, api.PublishProblemRequest{})
	if rec.Code != http.StatusOK {
		t.Fatalf("publish status = %d", rec.Code)
	}

	// Share resolution works anonymously but never echoes the key.
	rec = doJSON(t, env.Shares, http.MethodGet, "/"+created.ShareKey, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("share resolve = %d; body: %s", rec.Code, rec.Body.String())
	}
	shared := decodeBody[api.ProblemResponse](t, rec)
	if shared.ID != created.ID {
		t.Errorf("resolved %s, want %s", shared.ID, created.ID)
	}
	if shared.ShareKey != "" {
		t.Error("share response must not include the key")
	}
}

func TestProblems_LikeIsIdempotentOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	owner := seedUser(t, env, "owner@example.com", "user")
	token := seedToken(t, env, owner.ID)

	rec := doJSON(t, env.Router, http.MethodPost, "/problems", token, api.CreateProblemRequest{
		Title: "Likeable", Body: "body", Difficulty: 1, Visibility: "public",
	})
	created := decodeBody[api.ProblemResponse](t, rec)
	doJSON(t, env.Router, http.MethodPost, "/problems/"+created.ID+"/publish", token, api.PublishProblemRequest{})

	rec = doJSON(t, env.Router, http.MethodPut, "/problems/"+created.ID+"/like", token, nil)
	if got := decodeBody[api.EngagementResponse](t, rec); !got.Changed {
		t.Error("first like should report changed")
	}
	rec = doJSON(t, env.Router, http.MethodPut, "/problems/"+created.ID+"/like", token, nil)
	if got := decodeBody[api.EngagementResponse](t, rec); got.Changed {
		t.Error("repeat like should report no change")
	}

	rec = doJSON(t, env.Router, http.MethodGet, "/problems/"+created.ID, token, nil)
	final := decodeBody[api.ProblemResponse](t, rec)
	if final.LikeCount != 1 {
		t.Errorf("like count = %d, want 1", final.LikeCount)
	}

	rec = doJSON(t, env.Router, http.MethodGet, "/me/likes", token, nil)
	likes := decodeBody[api.TargetListResponse](t, rec)
	if len(likes.Targets) != 1 || likes.Targets[0].ID != created.ID {
		t.Errorf("me/likes = %+v", likes.Targets)
	}
}

func TestReports_AdminOnlyQueue(t *testing.T) {
	env := newTestEnv(t)
	user := seedUser(t, env, "user@example.com", "user")
	userToken := seedToken(t, env, user.ID)
	admin := seedUser(t, env, "admin@example.com", "admin")
	adminToken := seedToken(t, env, admin.ID)

	rec := doJSON(t, env.Router, http.MethodPost, "/reports", userToken, api.CreateReportRequest{
		TargetKind: "problem", TargetID: "problem-1", Reason: "spam",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create report = %d; body: %s", rec.Code, rec.Body.String())
	}
	report := decodeBody[api.ReportResponse](t, rec)

	rec = doJSON(t, env.Router, http.MethodGet, "/admin/reports?status=open", userToken, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("non-admin queue access = %d, want 403", rec.Code)
	}

	rec = doJSON(t, env.Router, http.MethodGet, "/admin/reports?status=open", adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin queue = %d", rec.Code)
	}
	queue := decodeBody[api.ReportListResponse](t, rec)
	if len(queue.Reports) != 1 {
		t.Fatalf("queue length = %d, want 1", len(queue.Reports))
	}

	rec = doJSON(t, env.Router, http.MethodPost, "/admin/reports/"+report.ID+"/resolve", adminToken,
		api.ResolveReportRequest{Status: "resolved"})
	if rec.Code != http.StatusOK {
		t.Fatalf("resolve = %d; body: %s", rec.Code, rec.Body.String())
	}
	resolved := decodeBody[api.ReportResponse](t, rec)
	if resolved.Status != "resolved" || resolved.ResolvedBy != admin.ID {
		t.Errorf("resolved report = %+v", resolved)
	}
}
