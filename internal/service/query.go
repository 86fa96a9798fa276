// Package service orchestrates the compiler, the execution engine, the
// compiled-artifact cache, and the history store.
package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"bizatlas/internal/compiler"
	"bizatlas/internal/domain"
	"bizatlas/internal/engine"
)

// Executor runs a compiled query against a data engine.
type Executor interface {
	Execute(ctx context.Context, queryText string, params []any) (*engine.Result, error)
}

// HistoryRepo persists compile/execute round trips.
type HistoryRepo interface {
	Insert(ctx context.Context, e *domain.QueryHistoryEntry) (int64, error)
	List(ctx context.Context, filter domain.QueryHistoryFilter) ([]domain.QueryHistoryEntry, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// ExecuteResult bundles the compiled artifact with the rows it produced.
type ExecuteResult struct {
	Compiled *domain.CompiledQuery `json:"compiled"`
	Result   *engine.Result        `json:"result"`
	CacheHit bool                  `json:"cache_hit"`
}

// QueryService wires validation, compilation, caching, execution, and history
// recording behind the three operations the transport layer exposes.
type QueryService struct {
	compiler *compiler.Compiler
	executor Executor
	history  HistoryRepo
	cache    *CompiledCache
	logger   *slog.Logger
}

// NewQueryService builds a QueryService.
func NewQueryService(c *compiler.Compiler, exec Executor, history HistoryRepo, cache *CompiledCache, logger *slog.Logger) *QueryService {
	return &QueryService{
		compiler: c,
		executor: exec,
		history:  history,
		cache:    cache,
		logger:   logger,
	}
}

// Validate reports structural problems without compiling or executing
// anything ("dry run" mode).
func (s *QueryService) Validate(dsl domain.FilterDSL) domain.ValidationResult {
	return s.compiler.Validate(dsl)
}

// Compile validates then compiles. Structural problems are returned as a
// ValidationError carrying the full error list.
func (s *QueryService) Compile(dsl domain.FilterDSL) (*domain.CompiledQuery, error) {
	if result := s.compiler.Validate(dsl); !result.Valid {
		return nil, domain.ErrValidation("invalid filter document: %s", strings.Join(result.Errors, "; "))
	}
	return s.compiler.Compile(dsl), nil
}

// Execute compiles (or reuses a cached artifact) and runs the query against
// the engine, recording a history entry either way.
func (s *QueryService) Execute(ctx context.Context, requestID string, dsl domain.FilterDSL) (*ExecuteResult, error) {
	start := time.Now()

	if result := s.compiler.Validate(dsl); !result.Valid {
		err := domain.ErrValidation("invalid filter document: %s", strings.Join(result.Errors, "; "))
		s.record(ctx, requestID, dsl.Intent, &domain.CompiledQuery{}, domain.HistoryStatusInvalid, err, start, nil, false)
		return nil, err
	}

	compiled := s.compiler.Compile(dsl)
	cacheHit := false
	if cached, ok := s.cache.Get(compiled.CacheKey); ok {
		compiled = cached
		cacheHit = true
	} else {
		s.cache.Put(compiled)
	}

	result, err := s.executor.Execute(ctx, compiled.QueryText, compiled.Parameters)
	if err != nil {
		s.record(ctx, requestID, dsl.Intent, compiled, domain.HistoryStatusError, err, start, nil, cacheHit)
		return nil, err
	}

	rowCount := int64(result.RowCount)
	s.record(ctx, requestID, dsl.Intent, compiled, domain.HistoryStatusOK, nil, start, &rowCount, cacheHit)

	return &ExecuteResult{Compiled: compiled, Result: result, CacheHit: cacheHit}, nil
}

// History lists recorded round trips.
func (s *QueryService) History(ctx context.Context, filter domain.QueryHistoryFilter) ([]domain.QueryHistoryEntry, error) {
	return s.history.List(ctx, filter)
}

// PruneHistory deletes entries older than the retention window. Called by
// the maintenance job.
func (s *QueryService) PruneHistory(ctx context.Context, retention time.Duration) (int64, error) {
	return s.history.DeleteOlderThan(ctx, time.Now().Add(-retention))
}

// SweepCache drops expired compiled artifacts.
func (s *QueryService) SweepCache() int {
	return s.cache.Sweep()
}

func (s *QueryService) record(ctx context.Context, requestID, intent string, compiled *domain.CompiledQuery, status string, execErr error, start time.Time, rowsReturned *int64, cacheHit bool) {
	entry := &domain.QueryHistoryEntry{
		RequestID:     requestID,
		Intent:        intent,
		CacheKey:      compiled.CacheKey,
		QueryText:     compiled.QueryText,
		EstimatedCost: compiled.EstimatedCost,
		Status:        status,
		DurationMs:    time.Since(start).Milliseconds(),
		RowsReturned:  rowsReturned,
		CacheHit:      cacheHit,
	}
	if execErr != nil {
		msg := execErr.Error()
		entry.ErrorMessage = &msg
	}

	if _, err := s.history.Insert(ctx, entry); err != nil {
		// History is best-effort; never fail the request over it.
		s.logger.Warn("record query history failed", "error", err, "request_id", requestID)
	}
}
