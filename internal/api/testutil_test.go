package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/probank/probank/internal/api"
	"github.com/probank/probank/internal/auth"
	"github.com/probank/probank/internal/content"
	"github.com/probank/probank/internal/store"
	"github.com/probank/probank/internal/testutil"
)

// testEnv holds stores and routers for API integration tests.
type testEnv struct {
	Router     http.Handler
	Shares     http.Handler
	UserStore  *store.UserStore
	TokenStore *auth.SQLTokenStore
	Views      chan string
}

// newTestEnv creates an in-memory SQLite test database, runs
// migrations, and wires up the full API router with real stores.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	conn := testutil.NewTestDB(t)

	ps := store.NewProblemStore(conn)
	cs := store.NewCollectionStore(conn)
	ts := store.NewTagStore(conn)
	cms := store.NewCommentStore(conn)
	us := store.NewUserStore(conn)
	rs := store.NewReportStore(conn)
	tokens := auth.NewSQLTokenStore(conn)

	resolver := content.NewTagResolver(ts)
	problems := content.NewProblemService(ps, resolver)
	collections := content.NewCollectionService(cs, ps)
	comments := content.NewCommentService(cms, ps)

	views := make(chan string, 16)
	deps := api.Deps{
		BearerAuth:  auth.NewBearerTokenMiddleware(tokens, us),
		Problems:    problems,
		Collections: collections,
		Comments:    comments,
		Tags:        resolver,
		ProblemLikes: content.NewEngagement("problem-like",
			store.NewEdgeStore(conn, store.TableProblemLikes), ps.LikeCounter(), content.NewProblemTargets(ps)),
		ProblemFavorites: content.NewEngagement("problem-favorite",
			store.NewEdgeStore(conn, store.TableProblemFavorites), ps.FavoriteCounter(), content.NewProblemTargets(ps)),
		CommentLikes: content.NewEngagement("comment-like",
			store.NewEdgeStore(conn, store.TableCommentLikes), cms.LikeCounter(), content.NewCommentTargets(cms, ps)),
		Reports:    rs,
		Users:      us,
		TokenStore: tokens,
		Views:      views,
	}

	return &testEnv{
		Router:     api.NewAPIRouter(deps),
		Shares:     api.NewShareRouter(deps),
		UserStore:  us,
		TokenStore: tokens,
		Views:      views,
	}
}

// seedUser creates a user with the given role.
func seedUser(t *testing.T, env *testEnv, email, role string) *store.User {
	t.Helper()
	ctx := context.Background()
	u, err := env.UserStore.Create(ctx, email, "Test User", "")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if role != "user" {
		u, err = env.UserStore.UpdateRole(ctx, u.ID, role)
		if err != nil {
			t.Fatalf("update role: %v", err)
		}
	}
	return u
}

// seedToken creates a real API token for a user and returns the
// plaintext Bearer value.
func seedToken(t *testing.T, env *testEnv, userID string) string {
	t.Helper()
	plaintext, hash, err := auth.GenerateToken()
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	_, err = env.TokenStore.Create(context.Background(), userID, "test-token", hash, nil)
	if err != nil {
		t.Fatalf("create token: %v", err)
	}
	return plaintext
}

// doJSON performs a request with an optional Bearer token and JSON
// body, returning the recorder.
func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}
