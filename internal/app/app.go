// Package app assembles the pieces the travelwits binaries share: the root
// logger and the catalog store with its guard, registry and regenerator.
package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/travelwits/travelwits/internal/catalog"
	"github.com/travelwits/travelwits/internal/config"
	"github.com/travelwits/travelwits/internal/database"
	"github.com/travelwits/travelwits/internal/resilience"
)

// NewLogger returns the JSON root logger tagged with service and version.
// Development builds log at debug level.
func NewLogger(w io.Writer, cfg *config.Config, service, version string) zerolog.Logger {
	if w == nil {
		w = os.Stdout
	}
	level := zerolog.InfoLevel
	if !cfg.IsProduction() {
		level = zerolog.DebugLevel
	}
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("service", service).
		Str("version", version).
		Logger()
}

// CatalogStore is an opened catalog backend.
type CatalogStore struct {
	// Repository is the raw store; use it for writes and snapshots.
	Repository catalog.Repository

	// Catalog is Repository's read side behind the "catalog" guard.
	Catalog catalog.Catalog

	Registry    *resilience.Registry
	Regenerator *catalog.Regenerator

	close func()
}

// Close releases the backend's connections.
func (s *CatalogStore) Close() {
	if s.close != nil {
		s.close()
	}
}

// OpenCatalog connects the configured backend, migrates the Postgres schema
// and seeds an empty catalog when CATALOG_SEED_ON_STARTUP is set.
func OpenCatalog(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*CatalogStore, error) {
	store := &CatalogStore{Registry: resilience.NewRegistry()}

	switch cfg.CatalogBackend {
	case config.BackendMemory:
		store.Repository = catalog.NewInMemoryRepository()
		log.Info().Msg("using in-memory catalog")
	default:
		dbConfig := database.ConfigFromEnv()
		pool, err := database.Connect(ctx, dbConfig)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		if err := database.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate catalog schema: %w", err)
		}
		log.Info().
			Str("host", dbConfig.Host).
			Int("port", dbConfig.Port).
			Str("database", dbConfig.Database).
			Msg("database connected")
		store.Repository = catalog.NewPostgresRepository(pool)
		store.close = pool.Close
	}

	guardCfg := resilience.DefaultGuardConfig("catalog")
	guardCfg.Registry = store.Registry
	store.Catalog = catalog.NewGuardedCatalog(store.Repository, guardCfg)

	gen := catalog.NewGenerator(catalog.GeneratorConfig{Scored: cfg.CatalogScored})
	store.Regenerator = catalog.NewRegenerator(gen, store.Repository, log)

	if cfg.CatalogSeedOnStartup {
		if _, err := SeedIfEmpty(ctx, store.Repository, store.Regenerator, cfg.CatalogSeed); err != nil {
			store.Close()
			return nil, fmt.Errorf("seed catalog: %w", err)
		}
	}
	return store, nil
}

// SeedIfEmpty regenerates whichever collections are empty. It returns nil
// when both already hold data.
func SeedIfEmpty(ctx context.Context, repo catalog.Repository, regen *catalog.Regenerator, seed uint64) (*catalog.RegenerateResult, error) {
	snap, err := repo.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	opts := catalog.RegenerateOptions{
		Flights: len(snap.Flights) == 0,
		Hotels:  len(snap.Hotels) == 0,
		Seed:    seed,
	}
	if !opts.Flights && !opts.Hotels {
		return nil, nil
	}
	return regen.Regenerate(ctx, opts)
}
