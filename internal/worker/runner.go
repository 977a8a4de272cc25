package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/travelwits/travelwits/internal/catalog"
)

// ErrUnknownJobType is returned for messages with an unrecognized job_type.
var ErrUnknownJobType = errors.New("unknown job type")

// DefaultJobTimeout bounds a single job.
const DefaultJobTimeout = 2 * time.Minute

// RunnerConfig holds the dependencies of a Runner.
type RunnerConfig struct {
	Regenerator *catalog.Regenerator

	// Catalog is pinged by health_check jobs.
	Catalog catalog.Catalog

	Logger zerolog.Logger

	// JobTimeout bounds each job. Default: DefaultJobTimeout
	JobTimeout time.Duration
}

// Stats are cumulative job statistics.
type Stats struct {
	Runs           int64
	Failures       int64
	LastRunAt      time.Time
	LastDuration   time.Duration
	LastGeneration int64
	LastError      string
}

// Runner executes maintenance jobs.
type Runner struct {
	regenerator *catalog.Regenerator
	catalog     catalog.Catalog
	logger      zerolog.Logger
	timeout     time.Duration

	mu    sync.RWMutex
	stats Stats
}

// NewRunner creates a job runner.
func NewRunner(cfg RunnerConfig) *Runner {
	timeout := cfg.JobTimeout
	if timeout <= 0 {
		timeout = DefaultJobTimeout
	}
	return &Runner{
		regenerator: cfg.Regenerator,
		catalog:     cfg.Catalog,
		logger:      cfg.Logger.With().Str("component", "worker").Logger(),
		timeout:     timeout,
	}
}

// Handle runs the job described by msg.
func (r *Runner) Handle(ctx context.Context, msg RegenerateMessage) error {
	switch msg.JobType {
	case JobTypeCatalogRegenerate:
		_, err := r.Regenerate(ctx, msg.Options())
		return err
	case JobTypeHealthCheck:
		return r.HealthCheck(ctx)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownJobType, msg.JobType)
	}
}

// Regenerate replaces the selected catalog collections.
func (r *Runner) Regenerate(ctx context.Context, opts catalog.RegenerateOptions) (*catalog.RegenerateResult, error) {
	if r.regenerator == nil {
		return nil, catalog.ErrRegenerationDisabled
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	result, err := r.regenerator.Regenerate(ctx, opts)
	r.record(start, result, err)
	if err != nil {
		return nil, fmt.Errorf("regenerate catalog: %w", err)
	}
	return result, nil
}

// HealthCheck verifies the catalog store is reachable.
func (r *Runner) HealthCheck(ctx context.Context) error {
	if r.catalog == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.catalog.Ping(ctx); err != nil {
		return fmt.Errorf("catalog health check: %w", err)
	}
	r.logger.Debug().Msg("health check passed")
	return nil
}

// RunTicker regenerates both collections every interval until ctx is done.
// Failures are logged and retried on the next tick.
func (r *Runner) RunTicker(ctx context.Context, interval time.Duration) {
	r.logger.Info().Dur("interval", interval).Msg("starting regeneration ticker")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.Regenerate(ctx, catalog.RegenerateOptions{Flights: true, Hotels: true}); err != nil {
				r.logger.Error().Err(err).Msg("scheduled regeneration failed")
			}
		}
	}
}

func (r *Runner) record(start time.Time, result *catalog.RegenerateResult, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stats.Runs++
	r.stats.LastRunAt = start
	r.stats.LastDuration = time.Since(start)
	if err != nil {
		r.stats.Failures++
		r.stats.LastError = err.Error()
		return
	}
	r.stats.LastError = ""
	r.stats.LastGeneration = result.Generation
}

// Stats returns a copy of the job statistics.
func (r *Runner) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stats
}
