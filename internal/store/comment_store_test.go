package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/probank/probank/internal/content"
	"github.com/probank/probank/internal/store"
	"github.com/probank/probank/internal/testutil"
)

func seedComment(t *testing.T, cs *store.CommentStore, problemID, parentID, replyToID, body string, at time.Time) *content.Comment {
	t.Helper()
	c := &content.Comment{
		ID:        uuid.New().String(),
		ProblemID: problemID,
		AuthorID:  "author-1",
		ParentID:  parentID,
		ReplyToID: replyToID,
		Body:      body,
		CreatedAt: at,
	}
	if err := cs.Create(context.Background(), c); err != nil {
		t.Fatalf("seed comment: %v", err)
	}
	return c
}

func TestCommentThreadListing(t *testing.T) {
	cs := store.NewCommentStore(testutil.NewTestDB(t))
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	top1 := seedComment(t, cs, "problem-1", "", "", "first", base)
	top2 := seedComment(t, cs, "problem-1", "", "", "second", base.Add(time.Minute))
	reply1 := seedComment(t, cs, "problem-1", top1.ID, top1.ID, "re: first", base.Add(2*time.Minute))
	seedComment(t, cs, "problem-2", "", "", "other problem", base)

	tops, err := cs.ListTopLevel(ctx, "problem-1", 10, 0)
	if err != nil {
		t.Fatalf("ListTopLevel: %v", err)
	}
	if len(tops) != 2 || tops[0].ID != top1.ID || tops[1].ID != top2.ID {
		t.Errorf("expected [%s %s] oldest first, got %v", top1.ID, top2.ID, tops)
	}

	replies, err := cs.ListReplies(ctx, top1.ID, 10, 0)
	if err != nil {
		t.Fatalf("ListReplies: %v", err)
	}
	if len(replies) != 1 || replies[0].ID != reply1.ID {
		t.Errorf("expected [%s], got %v", reply1.ID, replies)
	}
	if replies[0].ReplyToID != top1.ID {
		t.Errorf("reply_to_id = %q, want %q", replies[0].ReplyToID, top1.ID)
	}
}

func TestCommentSoftDelete_KeepsThreadAnchor(t *testing.T) {
	cs := store.NewCommentStore(testutil.NewTestDB(t))
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	parent := seedComment(t, cs, "problem-1", "", "", "soon gone", base)
	reply := seedComment(t, cs, "problem-1", parent.ID, parent.ID, "still here", base.Add(time.Minute))

	if err := cs.SoftDelete(ctx, parent.ID); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}

	// The row survives as a thread anchor with a cleared body.
	got, err := cs.GetByID(ctx, parent.ID)
	if err != nil {
		t.Fatalf("GetByID after delete: %v", err)
	}
	if !got.Deleted {
		t.Error("expected deleted flag")
	}
	if got.Body != "" {
		t.Errorf("body should be cleared, got %q", got.Body)
	}

	replies, err := cs.ListReplies(ctx, parent.ID, 10, 0)
	if err != nil {
		t.Fatalf("ListReplies: %v", err)
	}
	if len(replies) != 1 || replies[0].ID != reply.ID {
		t.Errorf("replies under deleted parent should survive, got %v", replies)
	}

	if err := cs.SoftDelete(ctx, "no-such-comment"); !content.IsKind(err, content.KindNotFound) {
		t.Errorf("deleting missing comment: %v", err)
	}
}

func TestCommentLikeCounter(t *testing.T) {
	db := testutil.NewTestDB(t)
	cs := store.NewCommentStore(db)
	ctx := context.Background()

	c := seedComment(t, cs, "problem-1", "", "", "likeable", time.Now().UTC())
	likes := cs.LikeCounter()

	if err := likes.Incr(ctx, c.ID); err != nil {
		t.Fatalf("Incr: %v", err)
	}
	if err := likes.Decr(ctx, c.ID); err != nil {
		t.Fatalf("Decr: %v", err)
	}
	if err := likes.Decr(ctx, c.ID); err != nil {
		t.Fatalf("Decr at zero: %v", err)
	}

	got, err := cs.GetByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.LikeCount != 0 {
		t.Errorf("like count = %d, want 0", got.LikeCount)
	}
}
