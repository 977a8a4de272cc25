package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"
)

// Predefined errors for guarded operations.
var (
	// ErrCircuitOpen is returned when the circuit breaker is open.
	ErrCircuitOpen = errors.New("circuit breaker is open")
)

// callerGoneError marks a failure that happened after the caller's context
// ended. It says nothing about the dependency's health.
type callerGoneError struct {
	err error
}

func (e *callerGoneError) Error() string { return e.err.Error() }
func (e *callerGoneError) Unwrap() error { return e.err }

func isCallerGone(err error) bool {
	var gone *callerGoneError
	return errors.As(err, &gone)
}

// GuardConfig holds configuration for a Guard.
type GuardConfig struct {
	// Name identifies the guarded dependency.
	Name string

	// AttemptTimeout bounds each individual attempt.
	// Default: 5 seconds
	AttemptTimeout time.Duration

	// MaxRetries is the maximum number of retries after the first attempt.
	// Zero disables retries; DefaultGuardConfig uses 2.
	MaxRetries uint64

	// InitialInterval is the initial retry backoff interval.
	// Default: 50ms
	InitialInterval time.Duration

	// MaxInterval is the maximum retry backoff interval.
	// Default: 1 second
	MaxInterval time.Duration

	// IsPermanent reports errors that must not be retried. Permanent errors
	// also count as successes for the circuit breaker.
	IsPermanent func(err error) bool

	// CircuitBreaker overrides the default circuit breaker configuration.
	CircuitBreaker *CircuitBreakerConfig

	// Registry, when set, receives success/failure reports.
	Registry *Registry
}

// DefaultGuardConfig returns the defaults for a guard.
func DefaultGuardConfig(name string) GuardConfig {
	return GuardConfig{
		Name:            name,
		AttemptTimeout:  5 * time.Second,
		MaxRetries:      2,
		InitialInterval: 50 * time.Millisecond,
		MaxInterval:     time.Second,
	}
}

// Guard runs operations through a circuit breaker with bounded, backed-off retries.
type Guard struct {
	config  GuardConfig
	breaker *gobreaker.CircuitBreaker[struct{}]
}

// NewGuard creates a new Guard. When cfg.Registry is set the guard registers itself.
func NewGuard(cfg GuardConfig) *Guard {
	defaults := DefaultGuardConfig(cfg.Name)
	if cfg.AttemptTimeout == 0 {
		cfg.AttemptTimeout = defaults.AttemptTimeout
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = defaults.InitialInterval
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = defaults.MaxInterval
	}

	cbConfig := DefaultCircuitBreakerConfig(cfg.Name)
	if cfg.CircuitBreaker != nil {
		cbConfig = *cfg.CircuitBreaker
	}
	if cbConfig.IsSuccessful == nil {
		isPermanent := cfg.IsPermanent
		cbConfig.IsSuccessful = func(err error) bool {
			return err == nil || (isPermanent != nil && isPermanent(err))
		}
	}
	if cbConfig.IsExcluded == nil {
		cbConfig.IsExcluded = isCallerGone
	}

	g := &Guard{
		config:  cfg,
		breaker: NewCircuitBreaker[struct{}](cbConfig),
	}
	if cfg.Registry != nil {
		cfg.Registry.Register(cfg.Name, g)
	}
	return g
}

// Name returns the guarded dependency name.
func (g *Guard) Name() string {
	return g.config.Name
}

// Do executes op with circuit breaker protection and retry logic.
// Each attempt gets its own timeout derived from ctx. Context cancellation,
// an open circuit and permanent errors end the retry loop immediately.
// Failures after ctx is done are left out of the breaker and registry counts.
func (g *Guard) Do(ctx context.Context, op func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = g.config.InitialInterval
	bo.MaxInterval = g.config.MaxInterval
	bo.MaxElapsedTime = 0 // Retries are bounded by WithMaxRetries

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, g.config.MaxRetries), ctx)

	attempt := func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, g.config.AttemptTimeout)
		defer cancel()

		_, err := g.breaker.Execute(func() (struct{}, error) {
			err := op(attemptCtx)
			if err != nil && ctx.Err() != nil {
				err = &callerGoneError{err: err}
			}
			return struct{}{}, err
		})
		switch {
		case err == nil:
			return nil
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			return backoff.Permanent(ErrCircuitOpen)
		case ctx.Err() != nil:
			return backoff.Permanent(err)
		case g.config.IsPermanent != nil && g.config.IsPermanent(err):
			return backoff.Permanent(err)
		}
		return err
	}

	err := backoff.Retry(attempt, policy)
	g.report(err)
	return err
}

func (g *Guard) report(err error) {
	if g.config.Registry == nil || isCallerGone(err) {
		return
	}
	if err == nil || (g.config.IsPermanent != nil && g.config.IsPermanent(err)) {
		g.config.Registry.RecordSuccess(g.config.Name)
		return
	}
	g.config.Registry.RecordFailure(g.config.Name, err)
}

// State returns the current state of the circuit breaker.
func (g *Guard) State() gobreaker.State {
	return g.breaker.State()
}

// Counts returns the current counts of the circuit breaker.
func (g *Guard) Counts() gobreaker.Counts {
	return g.breaker.Counts()
}
