package catalog

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// RegenerateOptions selects what a regeneration replaces.
type RegenerateOptions struct {
	Flights bool
	Hotels  bool
	// Seed makes the generated catalog reproducible. Zero picks a random seed.
	Seed uint64
}

// RegenerateResult summarizes a completed regeneration.
type RegenerateResult struct {
	Generation int64
	Flights    int
	Hotels     int
	Seed       uint64
	Duration   time.Duration
}

// Regenerator replaces catalog collections with freshly generated data.
type Regenerator struct {
	gen    *Generator
	writer Writer
	logger zerolog.Logger

	// mu serializes regenerations within this process; the store serializes
	// them across processes.
	mu sync.Mutex
}

// NewRegenerator creates a regenerator writing through w.
func NewRegenerator(gen *Generator, w Writer, logger zerolog.Logger) *Regenerator {
	return &Regenerator{
		gen:    gen,
		writer: w,
		logger: logger.With().Str("component", "catalog_regenerator").Logger(),
	}
}

// Regenerate generates and stores the selected collections.
func (r *Regenerator) Regenerate(ctx context.Context, opts RegenerateOptions) (*RegenerateResult, error) {
	if !opts.Flights && !opts.Hotels {
		return nil, ErrNothingToRegenerate
	}

	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64() //nolint:gosec // synthetic data, not security sensitive
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	rep := Replacement{ReplaceFlights: opts.Flights, ReplaceHotels: opts.Hotels}
	if opts.Flights {
		rep.Flights = r.gen.Flights(seed)
	}
	if opts.Hotels {
		rep.Hotels = r.gen.Hotels(seed)
	}

	generation, err := r.writer.Replace(ctx, rep)
	if err != nil {
		r.logger.Error().Err(err).Uint64("seed", seed).Msg("catalog regeneration failed")
		return nil, err
	}

	result := &RegenerateResult{
		Generation: generation,
		Flights:    len(rep.Flights),
		Hotels:     len(rep.Hotels),
		Seed:       seed,
		Duration:   time.Since(start),
	}

	r.logger.Info().
		Int64("generation", result.Generation).
		Int("flights", result.Flights).
		Int("hotels", result.Hotels).
		Uint64("seed", seed).
		Dur("duration", result.Duration).
		Msg("catalog regenerated")

	return result, nil
}
