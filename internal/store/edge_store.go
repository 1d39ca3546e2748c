package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/probank/probank/internal/content"
)

// Edge tables, one per engagement kind. Same shape everywhere:
// (user_id, target_id) unique, an active flag standing in for
// presence/absence so toggling never grows the table, and the
// activation timestamp driving list order.
const (
	TableProblemFavorites = "problem_favorites"
	TableProblemLikes     = "problem_likes"
	TableCommentLikes     = "comment_likes"
)

// EdgeStore is the sqlx-backed content.EdgeStore for one edge table.
// The changed flag comes from conditional UPDATE semantics: the flip
// decision and the row mutation are a single statement, so two
// concurrent activations of the same edge can never both report a
// transition.
type EdgeStore struct {
	db    *sqlx.DB
	table string
}

func NewEdgeStore(db *sqlx.DB, table string) *EdgeStore {
	return &EdgeStore{db: db, table: table}
}

func (s *EdgeStore) q(query string) string { return s.db.Rebind(query) }

// Activate flips the edge on. Reports true only when this call caused
// the 0→1 transition (row was absent or inactive).
func (s *EdgeStore) Activate(ctx context.Context, userID, targetID string) (bool, error) {
	now := time.Now().UTC()

	// Reactivate an existing inactive row. The active = 0 guard makes
	// this a compare-and-set.
	res, err := s.db.ExecContext(ctx, s.q(fmt.Sprintf(`
		UPDATE %s SET active = 1, activated_at = ? WHERE user_id = ? AND target_id = ? AND active = 0
	`, s.table)), now, userID, targetID)
	if err != nil {
		return false, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return false, err
	} else if n > 0 {
		return true, nil
	}

	// Nothing updated: the row is either already active or absent.
	var active bool
	err = s.db.GetContext(ctx, &active, s.q(fmt.Sprintf(`
		SELECT active FROM %s WHERE user_id = ? AND target_id = ?
	`, s.table)), userID, targetID)
	if err == nil {
		return false, nil // already active
	}
	if err != sql.ErrNoRows {
		return false, err
	}

	_, err = s.db.ExecContext(ctx, s.q(fmt.Sprintf(`
		INSERT INTO %s (user_id, target_id, active, activated_at, created_at) VALUES (?, ?, 1, ?, ?)
	`, s.table)), userID, targetID, now, now)
	if err != nil {
		// A concurrent activation inserted first; that call owns the
		// transition.
		if isUniqueConstraintError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Deactivate flips the edge off. Reports true only when the edge was
// actually active.
func (s *EdgeStore) Deactivate(ctx context.Context, userID, targetID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, s.q(fmt.Sprintf(`
		UPDATE %s SET active = 0 WHERE user_id = ? AND target_id = ? AND active = 1
	`, s.table)), userID, targetID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListTargetIDs returns the user's active targets, most recently
// activated first.
func (s *EdgeStore) ListTargetIDs(ctx context.Context, userID string, limit, offset int) ([]string, error) {
	var ids []string
	err := s.db.SelectContext(ctx, &ids, s.q(fmt.Sprintf(`
		SELECT target_id FROM %s
		WHERE user_id = ? AND active = 1
		ORDER BY activated_at DESC, target_id ASC
		LIMIT ? OFFSET ?
	`, s.table)), userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return ids, nil
}

var _ content.EdgeStore = (*EdgeStore)(nil)
