package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// namedInsert runs a named INSERT ... RETURNING id and returns the new row id.
// RETURNING works on both SQLite (3.35+) and PostgreSQL, which keeps insert
// paths identical across dialects.
func (s *Store) namedInsert(ctx context.Context, query string, arg interface{}) (int64, error) {
	rows, err := sqlx.NamedQueryContext(ctx, s.db, query, arg)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, err
		}
		return 0, fmt.Errorf("insert returned no id")
	}
	var id int64
	if err := rows.Scan(&id); err != nil {
		return 0, err
	}
	return id, rows.Err()
}

// isUniqueViolation reports whether err is a uniqueness constraint failure,
// in either dialect's phrasing.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}
