package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/probank/probank/internal/content"
)

type commentRow struct {
	ID        string         `db:"id"`
	ProblemID string         `db:"problem_id"`
	AuthorID  string         `db:"author_id"`
	ParentID  sql.NullString `db:"parent_id"`
	ReplyToID sql.NullString `db:"reply_to_id"`
	Body      sql.NullString `db:"body"`
	LikeCount int64          `db:"like_count"`
	Deleted   bool           `db:"deleted"`
	CreatedAt time.Time      `db:"created_at"`
}

func (r *commentRow) toDomain() *content.Comment {
	return &content.Comment{
		ID:        r.ID,
		ProblemID: r.ProblemID,
		AuthorID:  r.AuthorID,
		ParentID:  r.ParentID.String,
		ReplyToID: r.ReplyToID.String,
		Body:      r.Body.String,
		LikeCount: r.LikeCount,
		Deleted:   r.Deleted,
		CreatedAt: r.CreatedAt,
	}
}

// CommentStore is the sqlx-backed content.CommentRepo. Deletion nulls
// the body but keeps the row and its thread pointers so reply chains
// under a deleted comment stay intact.
type CommentStore struct {
	db *sqlx.DB
}

func NewCommentStore(db *sqlx.DB) *CommentStore {
	return &CommentStore{db: db}
}

func (s *CommentStore) q(query string) string { return s.db.Rebind(query) }

func (s *CommentStore) Create(ctx context.Context, c *content.Comment) error {
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO comments (id, problem_id, author_id, parent_id, reply_to_id, body, like_count, deleted, created_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, 0, ?)
	`), c.ID, c.ProblemID, c.AuthorID, nullString(c.ParentID), nullString(c.ReplyToID),
		c.Body, c.CreatedAt)
	return err
}

// GetByID includes soft-deleted comments: the thread resolver needs
// them as anchors for replies.
func (s *CommentStore) GetByID(ctx context.Context, id string) (*content.Comment, error) {
	var row commentRow
	err := s.db.GetContext(ctx, &row, s.q(`SELECT * FROM comments WHERE id = ?`), id)
	if err == sql.ErrNoRows {
		return nil, content.NotFound("comment")
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

func (s *CommentStore) ListTopLevel(ctx context.Context, problemID string, limit, offset int) ([]*content.Comment, error) {
	var rows []commentRow
	err := s.db.SelectContext(ctx, &rows, s.q(`
		SELECT * FROM comments
		WHERE problem_id = ? AND parent_id IS NULL
		ORDER BY created_at ASC, id ASC
		LIMIT ? OFFSET ?
	`), problemID, limit, offset)
	if err != nil {
		return nil, err
	}
	return rowsToComments(rows), nil
}

func (s *CommentStore) ListReplies(ctx context.Context, parentID string, limit, offset int) ([]*content.Comment, error) {
	var rows []commentRow
	err := s.db.SelectContext(ctx, &rows, s.q(`
		SELECT * FROM comments
		WHERE parent_id = ?
		ORDER BY created_at ASC, id ASC
		LIMIT ? OFFSET ?
	`), parentID, limit, offset)
	if err != nil {
		return nil, err
	}
	return rowsToComments(rows), nil
}

func (s *CommentStore) SoftDelete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.q(`
		UPDATE comments SET deleted = 1, body = NULL WHERE id = ?
	`), id)
	if err != nil {
		return err
	}
	return requireRow(res, "comment")
}

// LikeCounter exposes the comment like column for the engagement
// coordinator.
func (s *CommentStore) LikeCounter() content.Counter {
	return &colCounter{db: s.db, table: "comments", column: "like_count"}
}

func rowsToComments(rows []commentRow) []*content.Comment {
	out := make([]*content.Comment, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out
}

var _ content.CommentRepo = (*CommentStore)(nil)
