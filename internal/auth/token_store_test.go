package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/probank/probank/internal/auth"
	"github.com/probank/probank/internal/content"
	"github.com/probank/probank/internal/store"
	"github.com/probank/probank/internal/testutil"
)

func newTokenTestEnv(t *testing.T) (*auth.SQLTokenStore, *store.UserStore, string) {
	t.Helper()
	db := testutil.NewTestDB(t)
	ts := auth.NewSQLTokenStore(db)
	us := store.NewUserStore(db)
	ctx := context.Background()

	u, err := us.Create(ctx, "test@example.com", "Test User", "")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return ts, us, u.ID
}

func TestGenerateToken(t *testing.T) {
	plaintext, hash, err := auth.GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if len(plaintext) < 10 {
		t.Errorf("plaintext too short: %q", plaintext)
	}
	if plaintext[:3] != "pb_" {
		t.Errorf("plaintext prefix = %q, want %q", plaintext[:3], "pb_")
	}
	if hash == "" {
		t.Error("expected non-empty hash")
	}

	// HashToken should produce the same hash.
	if got := auth.HashToken(plaintext); got != hash {
		t.Errorf("HashToken = %q, want %q", got, hash)
	}
}

func TestTokenStore_CreateAndGetByHash(t *testing.T) {
	ts, _, userID := newTokenTestEnv(t)
	ctx := context.Background()

	_, hash, err := auth.GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	rec, err := ts.Create(ctx, userID, "ci-token", hash, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.UserID != userID {
		t.Errorf("UserID = %q, want %q", rec.UserID, userID)
	}

	got, err := ts.GetByHash(ctx, hash)
	if err != nil {
		t.Fatalf("GetByHash: %v", err)
	}
	if got.ID != rec.ID {
		t.Errorf("ID = %q, want %q", got.ID, rec.ID)
	}

	_, err = ts.GetByHash(ctx, "no-such-hash")
	if !content.IsKind(err, content.KindNotFound) {
		t.Errorf("unknown hash: %v", err)
	}
}

func TestTokenStore_Revoke(t *testing.T) {
	ts, _, userID := newTokenTestEnv(t)
	ctx := context.Background()

	_, hash, err := auth.GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	rec, err := ts.Create(ctx, userID, "doomed", hash, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// A different user cannot revoke someone else's token.
	if err := ts.Revoke(ctx, rec.ID, "other-user"); !content.IsKind(err, content.KindNotFound) {
		t.Errorf("cross-user revoke: %v", err)
	}

	if err := ts.Revoke(ctx, rec.ID, userID); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	got, err := ts.GetByHash(ctx, hash)
	if err != nil {
		t.Fatalf("GetByHash: %v", err)
	}
	if !got.RevokedAt.Valid {
		t.Error("revoked_at should be set")
	}
}

func TestTokenStore_ExpiresAt(t *testing.T) {
	ts, _, userID := newTokenTestEnv(t)
	ctx := context.Background()

	_, hash, err := auth.GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	exp := time.Now().UTC().Add(time.Hour).Truncate(time.Second)
	rec, err := ts.Create(ctx, userID, "short-lived", hash, &exp)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !rec.ExpiresAt.Valid || !rec.ExpiresAt.Time.Equal(exp) {
		t.Errorf("expires_at = %v, want %v", rec.ExpiresAt, exp)
	}
}
