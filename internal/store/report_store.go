package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/probank/probank/internal/content"
)

// Report statuses. Reports move open → resolved/dismissed and stay
// there.
const (
	ReportOpen      = "open"
	ReportResolved  = "resolved"
	ReportDismissed = "dismissed"
)

type Report struct {
	ID         string       `db:"id"`
	ReporterID string       `db:"reporter_id"`
	TargetKind string       `db:"target_kind"`
	TargetID   string       `db:"target_id"`
	Reason     string       `db:"reason"`
	Status     string       `db:"status"`
	ResolvedBy string       `db:"resolved_by"`
	ResolvedAt sql.NullTime `db:"resolved_at"`
	CreatedAt  time.Time    `db:"created_at"`
}

type ReportStore struct {
	db *sqlx.DB
}

func NewReportStore(db *sqlx.DB) *ReportStore {
	return &ReportStore{db: db}
}

func (s *ReportStore) q(query string) string { return s.db.Rebind(query) }

func (s *ReportStore) Create(ctx context.Context, reporterID, targetKind, targetID, reason string) (*Report, error) {
	id := uuid.New().String()
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO reports (id, reporter_id, target_kind, target_id, reason, status, resolved_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, '', ?)
	`), id, reporterID, targetKind, targetID, reason, ReportOpen, now)
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *ReportStore) GetByID(ctx context.Context, id string) (*Report, error) {
	var r Report
	err := s.db.GetContext(ctx, &r, s.q(`SELECT * FROM reports WHERE id = ?`), id)
	if err == sql.ErrNoRows {
		return nil, content.NotFound("report")
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListByStatus returns reports in a given status, newest first. An
// empty status lists everything.
func (s *ReportStore) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*Report, error) {
	query := `SELECT * FROM reports`
	var args []interface{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC, id ASC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	var reports []*Report
	if err := s.db.SelectContext(ctx, &reports, s.q(query), args...); err != nil {
		return nil, err
	}
	return reports, nil
}

// Resolve closes an open report. Resolving a non-open report is a
// conflict so two moderators racing on the same report see one winner.
func (s *ReportStore) Resolve(ctx context.Context, id, resolverID, status string) (*Report, error) {
	if status != ReportResolved && status != ReportDismissed {
		return nil, content.Invalid("status must be resolved or dismissed")
	}
	res, err := s.db.ExecContext(ctx, s.q(`
		UPDATE reports SET status = ?, resolved_by = ?, resolved_at = ? WHERE id = ? AND status = ?
	`), status, resolverID, time.Now().UTC(), id, ReportOpen)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		if _, err := s.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, content.Conflict("report is already closed")
	}
	return s.GetByID(ctx, id)
}
