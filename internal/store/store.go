// Package store holds the sqlx-backed implementations of the content
// repository interfaces. No handler or service queries the DB directly;
// all access goes through these stores.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/probank/probank/internal/content"
)

// isUniqueConstraintError checks whether err indicates a unique
// constraint violation. Works across SQLite, PostgreSQL, and MySQL.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || // SQLite & PostgreSQL
		strings.Contains(msg, "duplicate key") || // PostgreSQL
		strings.Contains(msg, "duplicate entry") // MySQL
}

// colCounter implements content.Counter against one counter column.
// Decrements floor at zero in SQL so a racing decrement can never drive
// the column negative.
type colCounter struct {
	db     *sqlx.DB
	table  string
	column string
}

func (c *colCounter) Incr(ctx context.Context, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = %s + 1 WHERE id = ?`, c.table, c.column, c.column)
	_, err := c.db.ExecContext(ctx, c.db.Rebind(query), id)
	return err
}

func (c *colCounter) Decr(ctx context.Context, id string) error {
	query := fmt.Sprintf(
		`UPDATE %s SET %s = CASE WHEN %s > 0 THEN %s - 1 ELSE 0 END WHERE id = ?`,
		c.table, c.column, c.column, c.column)
	_, err := c.db.ExecContext(ctx, c.db.Rebind(query), id)
	return err
}

var _ content.Counter = (*colCounter)(nil)
