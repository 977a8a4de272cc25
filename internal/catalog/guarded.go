package catalog

import (
	"context"
	"errors"

	"github.com/travelwits/travelwits/internal/resilience"
)

// GuardedCatalog runs views through a resilience guard so a struggling store
// is retried a bounded number of times and then short-circuited.
type GuardedCatalog struct {
	next  Catalog
	guard *resilience.Guard
}

// NewGuardedCatalog wraps next. Malformed queries are treated as permanent
// and never trip the breaker.
func NewGuardedCatalog(next Catalog, cfg resilience.GuardConfig) *GuardedCatalog {
	if cfg.IsPermanent == nil {
		cfg.IsPermanent = IsPermanent
	}
	return &GuardedCatalog{
		next:  next,
		guard: resilience.NewGuard(cfg),
	}
}

// View runs fn inside a guarded view. A retried attempt re-runs fn from the
// start against a fresh view.
func (c *GuardedCatalog) View(ctx context.Context, fn ViewFunc) error {
	return c.guard.Do(ctx, func(attemptCtx context.Context) error {
		return c.next.View(attemptCtx, fn)
	})
}

// Ping checks the underlying store without retries.
func (c *GuardedCatalog) Ping(ctx context.Context) error {
	return c.next.Ping(ctx)
}

// IsPermanent reports catalog errors that retrying cannot fix.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrInvalidQuery)
}

var _ Catalog = (*GuardedCatalog)(nil)
