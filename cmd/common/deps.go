// Package common builds the dependency graph shared by the CLI commands.
package common

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/viper"

	"github.com/jonesrussell/north-cloud/startup-scout/internal/config"
	"github.com/jonesrussell/north-cloud/startup-scout/internal/database"
	"github.com/jonesrussell/north-cloud/startup-scout/internal/domain"
	"github.com/jonesrussell/north-cloud/startup-scout/internal/enrich"
	"github.com/jonesrussell/north-cloud/startup-scout/internal/feed"
	"github.com/jonesrussell/north-cloud/startup-scout/internal/fetcher"
	"github.com/jonesrussell/north-cloud/startup-scout/internal/limiter"
	"github.com/jonesrussell/north-cloud/startup-scout/internal/logger"
	"github.com/jonesrussell/north-cloud/startup-scout/internal/metrics"
	"github.com/jonesrussell/north-cloud/startup-scout/internal/repository"
	"github.com/jonesrussell/north-cloud/startup-scout/internal/scrape"
	"github.com/jonesrussell/north-cloud/startup-scout/internal/sources"
)

// ErrStoreRequired is returned by commands that need database.enabled.
var ErrStoreRequired = errors.New("source store is not configured (set database.enabled=true)")

// Deps holds everything a command may need. Store and DB are nil when the
// database is disabled.
type Deps struct {
	Config   *config.Config
	Logger   logger.Logger
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
	Limiter  *limiter.Limiter
	Pipeline *scrape.Pipeline
	Service  *scrape.Service
	DB       *sqlx.DB
	Store    *repository.SourceRepository
}

// Build loads configuration from v and wires the pipeline. When the database
// is enabled it connects, applies the schema and seeds an empty table with
// the fallback sources.
func Build(ctx context.Context, v *viper.Viper) (*Deps, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}

	if cfg.App.Debug {
		cfg.Logger.Level = "debug"
		cfg.Logger.Development = true
	}

	log, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	log = log.With(logger.String("service", cfg.App.Name))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	pages := fetcher.New(fetcher.NewHTTPClient(), fetcher.Config{
		Timeout:       cfg.Fetch.Timeout,
		UserAgent:     cfg.Fetch.UserAgent,
		MaxBodyBytes:  cfg.Fetch.MaxBodyBytes,
		RetryAttempts: cfg.Fetch.RetryAttempts,
		RetryDelay:    cfg.Fetch.RetryDelay,
	}, log)

	lim := limiter.New(cfg.Scrape.Limit).WithObserver(m.SetInFlight)
	feeds := feed.NewFetcher(pages, log, m)
	enricher := enrich.New(pages, lim, cfg.Scrape.PublisherDomains, log, m)
	pipeline := scrape.NewPipeline(feeds, enricher, m, log)

	fallback, err := fallbackSources(cfg.Scrape.SourcesFile)
	if err != nil {
		return nil, err
	}

	deps := &Deps{
		Config:   cfg,
		Logger:   log,
		Registry: reg,
		Metrics:  m,
		Limiter:  lim,
		Pipeline: pipeline,
	}

	var provider scrape.SourceProvider = scrape.StaticSources(fallback)

	if cfg.Database.Enabled {
		if storeErr := deps.openStore(ctx, fallback); storeErr != nil {
			return nil, storeErr
		}
		provider = deps.Store
	}

	deps.Service = scrape.NewService(pipeline, provider, cfg.Scrape.RunTimeout, log)

	log.Debug("Dependencies ready",
		logger.Int("limit", lim.Capacity()),
		logger.Bool("store", deps.Store != nil),
		logger.Int("fallback_sources", len(fallback)),
	)

	return deps, nil
}

// Sources returns the sources a run would use when the request names none.
func (d *Deps) Sources(ctx context.Context) ([]domain.SourceConfig, error) {
	if d.Store != nil {
		return d.Store.List(ctx)
	}
	return fallbackSources(d.Config.Scrape.SourcesFile)
}

// RequireStore returns ErrStoreRequired when the database is disabled.
func (d *Deps) RequireStore() (*repository.SourceRepository, error) {
	if d.Store == nil {
		return nil, ErrStoreRequired
	}
	return d.Store, nil
}

// Close releases the database and flushes the logger.
func (d *Deps) Close() {
	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			d.Logger.Warn("Failed to close database", logger.Error(err))
		}
	}
	_ = d.Logger.Sync()
}

func (d *Deps) openStore(ctx context.Context, seed []domain.SourceConfig) error {
	db, err := database.Connect(ctx, d.Config.Database)
	if err != nil {
		return err
	}

	if migrateErr := database.Migrate(ctx, db); migrateErr != nil {
		_ = db.Close()
		return migrateErr
	}

	store := repository.NewSourceRepository(db)
	seeded, err := store.Seed(ctx, seed)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("seed sources: %w", err)
	}
	if seeded > 0 {
		d.Logger.Info("Seeded source store", logger.Int("sources", seeded))
	}

	d.DB = db
	d.Store = store
	return nil
}

// fallbackSources reads path when set, otherwise returns the built-in list.
func fallbackSources(path string) ([]domain.SourceConfig, error) {
	if path == "" {
		return sources.Defaults(), nil
	}

	list, err := sources.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load sources file: %w", err)
	}
	return list, nil
}
