// Package repository implements SQL-backed stores over the history database.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"bizatlas/internal/domain"
)

// QueryHistoryRepo persists compile/execute round trips.
type QueryHistoryRepo struct {
	writeDB *sql.DB
	readDB  *sql.DB
}

// NewQueryHistoryRepo builds a repo over the write/read pool pair.
func NewQueryHistoryRepo(writeDB, readDB *sql.DB) *QueryHistoryRepo {
	return &QueryHistoryRepo{writeDB: writeDB, readDB: readDB}
}

// Insert records one history entry and returns its assigned ID.
func (r *QueryHistoryRepo) Insert(ctx context.Context, e *domain.QueryHistoryEntry) (int64, error) {
	cacheHit := 0
	if e.CacheHit {
		cacheHit = 1
	}

	res, err := r.writeDB.ExecContext(ctx, `
		INSERT INTO query_history
			(request_id, intent, cache_key, query_text, estimated_cost,
			 status, error_message, duration_ms, rows_returned, cache_hit)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RequestID, e.Intent, e.CacheKey, e.QueryText, e.EstimatedCost,
		e.Status, e.ErrorMessage, e.DurationMs, e.RowsReturned, cacheHit,
	)
	if err != nil {
		return 0, fmt.Errorf("insert query history: %w", err)
	}
	return res.LastInsertId()
}

// List returns history entries, newest first, honoring the filter.
func (r *QueryHistoryRepo) List(ctx context.Context, filter domain.QueryHistoryFilter) ([]domain.QueryHistoryEntry, error) {
	var (
		where []string
		args  []any
	)
	if filter.Intent != nil {
		where = append(where, "intent = ?")
		args = append(args, *filter.Intent)
	}
	if filter.Status != nil {
		where = append(where, "status = ?")
		args = append(args, *filter.Status)
	}

	query := `
		SELECT id, request_id, intent, cache_key, query_text, estimated_cost,
		       status, error_message, duration_ms, rows_returned, cache_hit, created_at
		FROM query_history`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query += " LIMIT ? OFFSET ?"
	args = append(args, limit, filter.Offset)

	rows, err := r.readDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list query history: %w", err)
	}
	defer rows.Close()

	var entries []domain.QueryHistoryEntry
	for rows.Next() {
		var (
			e        domain.QueryHistoryEntry
			cacheHit int
		)
		if err := rows.Scan(
			&e.ID, &e.RequestID, &e.Intent, &e.CacheKey, &e.QueryText, &e.EstimatedCost,
			&e.Status, &e.ErrorMessage, &e.DurationMs, &e.RowsReturned, &cacheHit, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan query history: %w", err)
		}
		e.CacheHit = cacheHit != 0
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DeleteOlderThan removes entries created before the cutoff and returns the
// number of rows deleted. Used by the retention job.
func (r *QueryHistoryRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.writeDB.ExecContext(ctx,
		"DELETE FROM query_history WHERE created_at < ?",
		cutoff.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return 0, fmt.Errorf("delete query history: %w", err)
	}
	return res.RowsAffected()
}
