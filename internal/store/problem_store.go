package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/probank/probank/internal/content"
)

// problemRow mirrors the problems table. Status is coerced onto the
// closed enum at scan time so the core never observes a legacy value.
type problemRow struct {
	ID            string         `db:"id"`
	OwnerID       string         `db:"owner_id"`
	Title         string         `db:"title"`
	Body          string         `db:"body"`
	Subject       string         `db:"subject"`
	Difficulty    int            `db:"difficulty"`
	Status        string         `db:"status"`
	Visibility    string         `db:"visibility"`
	ShareKey      sql.NullString `db:"share_key"`
	PublishedAt   sql.NullTime   `db:"published_at"`
	ViewCount     int64          `db:"view_count"`
	LikeCount     int64          `db:"like_count"`
	FavoriteCount int64          `db:"favorite_count"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
	DeletedAt     sql.NullTime   `db:"deleted_at"`
}

func (r *problemRow) toDomain() *content.Problem {
	p := &content.Problem{
		ID:            r.ID,
		OwnerID:       r.OwnerID,
		Title:         r.Title,
		Body:          r.Body,
		Subject:       r.Subject,
		Difficulty:    r.Difficulty,
		Status:        content.CoerceStatus(r.Status),
		Visibility:    content.Visibility(r.Visibility),
		ShareKey:      r.ShareKey.String,
		ViewCount:     r.ViewCount,
		LikeCount:     r.LikeCount,
		FavoriteCount: r.FavoriteCount,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	if r.PublishedAt.Valid {
		t := r.PublishedAt.Time
		p.PublishedAt = &t
	}
	return p
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// ProblemStore is the sqlx-backed content.ProblemRepo.
type ProblemStore struct {
	db *sqlx.DB
}

func NewProblemStore(db *sqlx.DB) *ProblemStore {
	return &ProblemStore{db: db}
}

// q rebinds ? placeholders to the driver's native format.
func (s *ProblemStore) q(query string) string { return s.db.Rebind(query) }

// Create inserts the problem and its initial tag set in one
// transaction.
func (s *ProblemStore) Create(ctx context.Context, p *content.Problem) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, s.q(`
		INSERT INTO problems (id, owner_id, title, body, subject, difficulty, status, visibility,
		                      share_key, published_at, view_count, like_count, favorite_count,
		                      created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NULL, 0, 0, 0, ?, ?)
	`), p.ID, p.OwnerID, p.Title, p.Body, p.Subject, p.Difficulty, string(p.Status),
		string(p.Visibility), nullString(p.ShareKey), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return err
	}

	if err := replaceTagLinks(ctx, tx, s.db, p.ID, p.TagIDs); err != nil {
		return err
	}
	return tx.Commit()
}

// GetByID returns the problem (tag ids included), excluding soft-deleted
// rows.
func (s *ProblemStore) GetByID(ctx context.Context, id string) (*content.Problem, error) {
	var row problemRow
	err := s.db.GetContext(ctx, &row, s.q(`
		SELECT * FROM problems WHERE id = ? AND deleted_at IS NULL
	`), id)
	if err == sql.ErrNoRows {
		return nil, content.NotFound("problem")
	}
	if err != nil {
		return nil, err
	}
	p := row.toDomain()
	if p.TagIDs, err = s.tagIDs(ctx, id); err != nil {
		return nil, err
	}
	return p, nil
}

// GetByShareKey returns the problem matching a share key.
func (s *ProblemStore) GetByShareKey(ctx context.Context, key string) (*content.Problem, error) {
	var row problemRow
	err := s.db.GetContext(ctx, &row, s.q(`
		SELECT * FROM problems WHERE share_key = ? AND deleted_at IS NULL
	`), key)
	if err == sql.ErrNoRows {
		return nil, content.NotFound("problem")
	}
	if err != nil {
		return nil, err
	}
	p := row.toDomain()
	if p.TagIDs, err = s.tagIDs(ctx, row.ID); err != nil {
		return nil, err
	}
	return p, nil
}

// Update persists the owner-editable fields. Status and published_at
// are deliberately absent from the SET list; they only move through
// Publish and SetStatus.
func (s *ProblemStore) Update(ctx context.Context, p *content.Problem) error {
	res, err := s.db.ExecContext(ctx, s.q(`
		UPDATE problems
		SET title = ?, body = ?, subject = ?, difficulty = ?, visibility = ?, share_key = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`), p.Title, p.Body, p.Subject, p.Difficulty, string(p.Visibility),
		nullString(p.ShareKey), p.UpdatedAt, p.ID)
	if err != nil {
		return err
	}
	return requireRow(res, "problem")
}

// Publish applies the transition, subject, and final tag set in a
// single transaction so a publish is all-or-nothing.
func (s *ProblemStore) Publish(ctx context.Context, p *content.Problem, tagIDs []string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var publishedAt sql.NullTime
	if p.PublishedAt != nil {
		publishedAt = sql.NullTime{Time: *p.PublishedAt, Valid: true}
	}
	res, err := tx.ExecContext(ctx, s.q(`
		UPDATE problems
		SET status = ?, published_at = ?, subject = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`), string(p.Status), publishedAt, p.Subject, p.UpdatedAt, p.ID)
	if err != nil {
		return err
	}
	if err := requireRow(res, "problem"); err != nil {
		return err
	}

	if err := replaceTagLinks(ctx, tx, s.db, p.ID, tagIDs); err != nil {
		return err
	}
	return tx.Commit()
}

// SetStatus moves the lifecycle column only.
func (s *ProblemStore) SetStatus(ctx context.Context, id string, status content.Status) error {
	res, err := s.db.ExecContext(ctx, s.q(`
		UPDATE problems SET status = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL
	`), string(status), time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(res, "problem")
}

// SoftDelete hides the row from every lookup without dropping it.
func (s *ProblemStore) SoftDelete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.q(`
		UPDATE problems SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL
	`), time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(res, "problem")
}

// AddView bumps the view counter.
func (s *ProblemStore) AddView(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, s.q(`
		UPDATE problems SET view_count = view_count + 1 WHERE id = ? AND deleted_at IS NULL
	`), id)
	return err
}

// ListPublic returns live public problems, newest publish first, with
// the total match count for pagination.
func (s *ProblemStore) ListPublic(ctx context.Context, subject string, limit, offset int) ([]*content.Problem, int, error) {
	where := `WHERE status = 'published' AND visibility = 'public' AND deleted_at IS NULL`
	var args []interface{}
	if subject != "" {
		where += ` AND subject = ?`
		args = append(args, subject)
	}

	var total int
	if err := s.db.GetContext(ctx, &total, s.q(`SELECT COUNT(*) FROM problems `+where), args...); err != nil {
		return nil, 0, err
	}

	var rows []problemRow
	fetchArgs := append(args, limit, offset)
	err := s.db.SelectContext(ctx, &rows, s.q(`
		SELECT * FROM problems `+where+`
		ORDER BY published_at DESC
		LIMIT ? OFFSET ?
	`), fetchArgs...)
	if err != nil {
		return nil, 0, err
	}

	out := make([]*content.Problem, 0, len(rows))
	for i := range rows {
		p := rows[i].toDomain()
		if p.TagIDs, err = s.tagIDs(ctx, p.ID); err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, nil
}

// LikeCounter and FavoriteCounter expose the denormalized columns as
// content.Counter for the engagement coordinator.
func (s *ProblemStore) LikeCounter() content.Counter {
	return &colCounter{db: s.db, table: "problems", column: "like_count"}
}

func (s *ProblemStore) FavoriteCounter() content.Counter {
	return &colCounter{db: s.db, table: "problems", column: "favorite_count"}
}

func (s *ProblemStore) tagIDs(ctx context.Context, problemID string) ([]string, error) {
	var ids []string
	err := s.db.SelectContext(ctx, &ids, s.q(`
		SELECT tag_id FROM problem_tags WHERE problem_id = ? ORDER BY tag_id ASC
	`), problemID)
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// replaceTagLinks swaps the problem_tags rows for a problem inside tx.
func replaceTagLinks(ctx context.Context, tx *sqlx.Tx, db *sqlx.DB, problemID string, tagIDs []string) error {
	if _, err := tx.ExecContext(ctx, db.Rebind(`DELETE FROM problem_tags WHERE problem_id = ?`), problemID); err != nil {
		return err
	}
	for _, tagID := range tagIDs {
		_, err := tx.ExecContext(ctx, db.Rebind(`
			INSERT INTO problem_tags (problem_id, tag_id) VALUES (?, ?)
		`), problemID, tagID)
		if err != nil {
			return err
		}
	}
	return nil
}

// requireRow converts a zero-row UPDATE into a typed not-found.
func requireRow(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return content.NotFound(what)
	}
	return nil
}
