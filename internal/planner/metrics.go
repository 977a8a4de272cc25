package planner

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/travelwits/travelwits/internal/planner"

// Plan outcomes recorded as metric attributes.
const (
	outcomeOK             = "ok"
	outcomeInvalid        = "invalid"
	outcomeIncreaseBudget = "increase_budget"
	outcomeFetchError     = "fetch_error"
)

// Metrics holds the OpenTelemetry instruments for trip planning.
type Metrics struct {
	planDuration metric.Float64Histogram
	planTotal    metric.Int64Counter
	candidates   metric.Int64Histogram
}

// NewMetrics creates the planner instruments on the global meter provider.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(instrumentationName)

	planDuration, err := meter.Float64Histogram(
		"planner.plan.duration",
		metric.WithDescription("Duration of trip planning requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	planTotal, err := meter.Int64Counter(
		"planner.plan.total",
		metric.WithDescription("Total number of trip planning requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	candidates, err := meter.Int64Histogram(
		"planner.plan.candidates",
		metric.WithDescription("Number of feasible trips synthesized per request"),
		metric.WithUnit("{trip}"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		planDuration: planDuration,
		planTotal:    planTotal,
		candidates:   candidates,
	}, nil
}

func (m *Metrics) record(mode Mode, outcome string, duration time.Duration, candidates int) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("planner.mode", string(mode)),
		attribute.String("planner.outcome", outcome),
	)

	// Background context so a cancelled request still gets counted.
	ctx := context.Background()
	m.planDuration.Record(ctx, duration.Seconds(), attrs)
	m.planTotal.Add(ctx, 1, attrs)
	if outcome == outcomeOK {
		m.candidates.Record(ctx, int64(candidates), attrs)
	}
}
