// Package engine executes compiled queries against an embedded DuckDB
// instance seeded with synthetic business data.
package engine

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"
)

// Engine is the execution collaborator for the compiler: it accepts a query
// text plus a positional parameter list and returns structured results.
type Engine struct {
	db      *sql.DB
	logger  *slog.Logger
	spatial bool
}

// Result holds the structured output of an executed query.
type Result struct {
	Columns  []string        `json:"columns"`
	Rows     [][]interface{} `json:"rows"`
	RowCount int             `json:"row_count"`
}

// Open creates an in-memory DuckDB database and loads the spatial extension
// best-effort. Spatial predicates (within/near) require the extension; when
// it cannot be installed, queries using them fail at execution time and the
// condition is logged at startup.
func Open(ctx context.Context, logger *slog.Logger) (*Engine, error) {
	conn, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping duckdb: %w", err)
	}

	e := &Engine{db: conn, logger: logger}
	if _, err := conn.ExecContext(ctx, "INSTALL spatial; LOAD spatial;"); err != nil {
		logger.Warn("spatial extension unavailable, within/near predicates will fail", "error", err)
	} else {
		e.spatial = true
	}

	return e, nil
}

// Close releases the underlying database.
func (e *Engine) Close() error {
	return e.db.Close()
}

// SpatialEnabled reports whether the spatial extension loaded.
func (e *Engine) SpatialEnabled() bool {
	return e.spatial
}

// placeholderPattern matches the compiler's numbered placeholders. They are
// emitted in strictly ascending order, each exactly once, so a left-to-right
// substitution with ? preserves positional binding.
var placeholderPattern = regexp.MustCompile(`\$\d+`)

// Execute runs the query with parameters bound positionally in the order
// given.
func (e *Engine) Execute(ctx context.Context, queryText string, params []any) (*Result, error) {
	rows, err := e.db.QueryContext(ctx, placeholderPattern.ReplaceAllString(queryText, "?"), params...)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

func scanRows(rows *sql.Rows) (*Result, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var resultRows [][]interface{}
	for rows.Next() {
		vals := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		// Convert byte slices to strings for JSON serialization.
		row := make([]interface{}, len(vals))
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				row[i] = string(b)
			} else {
				row[i] = v
			}
		}
		resultRows = append(resultRows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &Result{
		Columns:  cols,
		Rows:     resultRows,
		RowCount: len(resultRows),
	}, nil
}
