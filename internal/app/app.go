// Package app provides application-level wiring and dependency injection.
package app

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/robfig/cron/v3"

	"bizatlas/internal/compiler"
	"bizatlas/internal/config"
	"bizatlas/internal/db/repository"
	"bizatlas/internal/service"
)

// Deps holds the external dependencies that main() must provide: database
// handles, the engine, config, and the logger.
type Deps struct {
	Cfg      *config.Config
	WriteDB  *sql.DB
	ReadDB   *sql.DB
	Executor service.Executor
	Logger   *slog.Logger
}

// App holds the fully-wired application plus its maintenance scheduler.
type App struct {
	Query *service.QueryService

	cfg    *config.Config
	cron   *cron.Cron
	logger *slog.Logger
}

// New wires the repositories, compiler, cache, and query service from the
// provided deps and registers the maintenance jobs.
func New(deps Deps) (*App, error) {
	cfg := deps.Cfg

	historyRepo := repository.NewQueryHistoryRepo(deps.WriteDB, deps.ReadDB)

	var opts []compiler.Option
	if cfg.StrictOperators {
		opts = append(opts, compiler.WithStrictOperators())
	}
	if cfg.CanonicalCacheKey {
		opts = append(opts, compiler.WithCanonicalCacheKeys())
	}

	querySvc := service.NewQueryService(
		compiler.New(opts...),
		deps.Executor,
		historyRepo,
		service.NewCompiledCache(cfg.CacheTTL),
		deps.Logger.With("component", "query-service"),
	)

	a := &App{
		Query:  querySvc,
		cfg:    cfg,
		cron:   cron.New(),
		logger: deps.Logger.With("component", "app"),
	}
	if err := a.registerJobs(); err != nil {
		return nil, err
	}
	return a, nil
}

// registerJobs schedules the periodic cache sweep and history retention
// pruning.
func (a *App) registerJobs() error {
	if _, err := a.cron.AddFunc("@every 5m", func() {
		if removed := a.Query.SweepCache(); removed > 0 {
			a.logger.Info("cache sweep", "removed", removed)
		}
	}); err != nil {
		return err
	}

	if _, err := a.cron.AddFunc("@hourly", func() {
		deleted, err := a.Query.PruneHistory(context.Background(), a.cfg.HistoryRetention)
		if err != nil {
			a.logger.Warn("history prune failed", "error", err)
			return
		}
		if deleted > 0 {
			a.logger.Info("history pruned", "deleted", deleted, "retention", a.cfg.HistoryRetention)
		}
	}); err != nil {
		return err
	}

	return nil
}

// Start begins the maintenance scheduler.
func (a *App) Start() {
	a.cron.Start()
	a.logger.Info("maintenance scheduler started")
}

// Stop gracefully stops the maintenance scheduler, waiting for any running
// job to finish.
func (a *App) Stop() {
	ctx := a.cron.Stop()
	<-ctx.Done()
	a.logger.Info("maintenance scheduler stopped")
}
