package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/probank/probank/internal/content"
)

type collectionRow struct {
	ID            string         `db:"id"`
	OwnerID       string         `db:"owner_id"`
	Name          string         `db:"name"`
	Description   string         `db:"description"`
	Status        string         `db:"status"`
	Visibility    string         `db:"visibility"`
	ShareKey      sql.NullString `db:"share_key"`
	FavoriteCount int64          `db:"favorite_count"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

func (r *collectionRow) toDomain() *content.Collection {
	return &content.Collection{
		ID:            r.ID,
		OwnerID:       r.OwnerID,
		Name:          r.Name,
		Description:   r.Description,
		Status:        content.CoerceCollectionStatus(r.Status),
		Visibility:    content.Visibility(r.Visibility),
		ShareKey:      r.ShareKey.String,
		FavoriteCount: r.FavoriteCount,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// CollectionStore is the sqlx-backed content.CollectionRepo. Membership
// keeps a position column so curation order survives round trips.
type CollectionStore struct {
	db *sqlx.DB
}

func NewCollectionStore(db *sqlx.DB) *CollectionStore {
	return &CollectionStore{db: db}
}

func (s *CollectionStore) q(query string) string { return s.db.Rebind(query) }

func (s *CollectionStore) Create(ctx context.Context, c *content.Collection) error {
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO collections (id, owner_id, name, description, status, visibility, share_key,
		                         favorite_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, ?)
	`), c.ID, c.OwnerID, c.Name, c.Description, string(c.Status), string(c.Visibility),
		nullString(c.ShareKey), c.CreatedAt, c.UpdatedAt)
	return err
}

func (s *CollectionStore) GetByID(ctx context.Context, id string) (*content.Collection, error) {
	var row collectionRow
	err := s.db.GetContext(ctx, &row, s.q(`SELECT * FROM collections WHERE id = ?`), id)
	if err == sql.ErrNoRows {
		return nil, content.NotFound("collection")
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

func (s *CollectionStore) GetByShareKey(ctx context.Context, key string) (*content.Collection, error) {
	var row collectionRow
	err := s.db.GetContext(ctx, &row, s.q(`SELECT * FROM collections WHERE share_key = ?`), key)
	if err == sql.ErrNoRows {
		return nil, content.NotFound("collection")
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

// Update persists the owner-editable fields; status moves only through
// SetStatus.
func (s *CollectionStore) Update(ctx context.Context, c *content.Collection) error {
	res, err := s.db.ExecContext(ctx, s.q(`
		UPDATE collections
		SET name = ?, description = ?, visibility = ?, share_key = ?, updated_at = ?
		WHERE id = ?
	`), c.Name, c.Description, string(c.Visibility), nullString(c.ShareKey), c.UpdatedAt, c.ID)
	if err != nil {
		return err
	}
	return requireRow(res, "collection")
}

func (s *CollectionStore) SetStatus(ctx context.Context, id string, status content.CollectionStatus) error {
	res, err := s.db.ExecContext(ctx, s.q(`
		UPDATE collections SET status = ?, updated_at = ? WHERE id = ?
	`), string(status), time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(res, "collection")
}

// AddProblem appends the problem at the end of the curation order.
func (s *CollectionStore) AddProblem(ctx context.Context, collectionID, problemID string) error {
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO collection_problems (collection_id, problem_id, position, created_at)
		VALUES (?, ?, (SELECT COALESCE(MAX(cp.position), 0) + 1 FROM collection_problems cp WHERE cp.collection_id = ?), ?)
	`), collectionID, problemID, collectionID, time.Now().UTC())
	if err != nil {
		if isUniqueConstraintError(err) {
			return content.Conflict("problem is already in the collection")
		}
		return err
	}
	return nil
}

func (s *CollectionStore) RemoveProblem(ctx context.Context, collectionID, problemID string) error {
	res, err := s.db.ExecContext(ctx, s.q(`
		DELETE FROM collection_problems WHERE collection_id = ? AND problem_id = ?
	`), collectionID, problemID)
	if err != nil {
		return err
	}
	return requireRow(res, "collection member")
}

// ListProblems returns member problems in curation order, skipping
// soft-deleted ones.
func (s *CollectionStore) ListProblems(ctx context.Context, collectionID string, limit, offset int) ([]*content.Problem, error) {
	var rows []problemRow
	err := s.db.SelectContext(ctx, &rows, s.q(`
		SELECT p.* FROM problems p
		INNER JOIN collection_problems cp ON cp.problem_id = p.id
		WHERE cp.collection_id = ? AND p.deleted_at IS NULL
		ORDER BY cp.position ASC
		LIMIT ? OFFSET ?
	`), collectionID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*content.Problem, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

// FavoriteCounter exposes the favorite column for the engagement
// coordinator.
func (s *CollectionStore) FavoriteCounter() content.Counter {
	return &colCounter{db: s.db, table: "collections", column: "favorite_count"}
}

var _ content.CollectionRepo = (*CollectionStore)(nil)
