package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/probank/probank/internal/content"
)

type tagRow struct {
	ID        string    `db:"id"`
	Subject   string    `db:"subject"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

func (r *tagRow) toDomain() *content.Tag {
	return &content.Tag{ID: r.ID, Subject: r.Subject, Name: r.Name, CreatedAt: r.CreatedAt}
}

// TagStore is the sqlx-backed content.TagRepo. The unique index on
// (subject, name) backstops the resolver's check-then-create; a lost
// race surfaces as a conflict error the resolver recovers from.
type TagStore struct {
	db *sqlx.DB
}

func NewTagStore(db *sqlx.DB) *TagStore {
	return &TagStore{db: db}
}

func (s *TagStore) q(query string) string { return s.db.Rebind(query) }

func (s *TagStore) FindBySubjectAndName(ctx context.Context, subject, name string) (*content.Tag, error) {
	var row tagRow
	err := s.db.GetContext(ctx, &row, s.q(`
		SELECT * FROM tags WHERE subject = ? AND name = ?
	`), subject, name)
	if err == sql.ErrNoRows {
		return nil, content.NotFound("tag")
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

func (s *TagStore) Create(ctx context.Context, t *content.Tag) error {
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO tags (id, subject, name, created_at) VALUES (?, ?, ?, ?)
	`), t.ID, t.Subject, t.Name, t.CreatedAt)
	if err != nil {
		if isUniqueConstraintError(err) {
			return content.Conflict("tag already exists")
		}
		return err
	}
	return nil
}

func (s *TagStore) FindByIDs(ctx context.Context, ids []string) ([]*content.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT * FROM tags WHERE id IN (?) ORDER BY name ASC`, ids)
	if err != nil {
		return nil, err
	}
	var rows []tagRow
	if err := s.db.SelectContext(ctx, &rows, s.q(query), args...); err != nil {
		return nil, err
	}
	out := make([]*content.Tag, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func (s *TagStore) ListBySubject(ctx context.Context, subject string) ([]*content.Tag, error) {
	var rows []tagRow
	err := s.db.SelectContext(ctx, &rows, s.q(`
		SELECT * FROM tags WHERE subject = ? ORDER BY name ASC
	`), subject)
	if err != nil {
		return nil, err
	}
	out := make([]*content.Tag, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

var _ content.TagRepo = (*TagStore)(nil)
