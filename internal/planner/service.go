package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/travelwits/travelwits/internal/catalog"
)

// ServiceConfig holds configuration for the planning service.
type ServiceConfig struct {
	// Catalog is read through one consistent view per plan.
	Catalog catalog.Catalog

	// Logger is used when the request context carries no logger.
	Logger zerolog.Logger

	// Metrics is optional.
	Metrics *Metrics
}

// Service plans trips against a catalog.
type Service struct {
	catalog catalog.Catalog
	logger  zerolog.Logger
	metrics *Metrics
	tracer  trace.Tracer
}

// NewService creates a new planning service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		catalog: cfg.Catalog,
		logger:  cfg.Logger.With().Str("component", "planner").Logger(),
		metrics: cfg.Metrics,
		tracer:  otel.Tracer(instrumentationName),
	}
}

// Plan validates req, reads the catalog and returns ranked trips.
//
// Errors: *ValidationError for bad input, ErrIncreaseBudget when nothing fits
// the budget, ErrFetchTrips when the catalog could not be read.
func (s *Service) Plan(ctx context.Context, req Request) (*Result, error) {
	mode := req.Mode()
	ctx, span := s.tracer.Start(ctx, "planner.Plan", trace.WithAttributes(
		attribute.String("planner.mode", string(mode)),
		attribute.String("planner.origin", req.Origin),
		attribute.String("planner.destination", req.Destination),
		attribute.Int("planner.days", req.Days),
		attribute.String("planner.strategy", string(req.Strategy)),
	))
	defer span.End()

	start := time.Now()

	if err := req.Validate(); err != nil {
		s.metrics.record(mode, outcomeInvalid, time.Since(start), 0)
		span.SetStatus(codes.Error, "invalid request")
		return nil, err
	}

	var (
		result *Result
		err    error
	)
	if mode == ModePair {
		result, err = s.planPair(ctx, req)
	} else {
		result, err = s.planAllDestinations(ctx, req)
	}

	switch {
	case err == nil:
		span.SetAttributes(
			attribute.Int("planner.trips", len(result.Trips)),
			attribute.Int64("catalog.generation", result.Generation),
		)
		s.metrics.record(mode, outcomeOK, time.Since(start), len(result.Trips))
	case errors.Is(err, ErrIncreaseBudget):
		s.metrics.record(mode, outcomeIncreaseBudget, time.Since(start), 0)
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.metrics.record(mode, outcomeFetchError, time.Since(start), 0)
	}
	return result, err
}

func (s *Service) planPair(ctx context.Context, req Request) (*Result, error) {
	var (
		outbound, returns []catalog.FlightLeg
		hotels            []catalog.HotelOption
		generation        int64
	)

	err := s.catalog.View(ctx, func(ctx context.Context, v catalog.View) error {
		hotels = nil
		generation = v.Generation()

		legs, err := v.FindFlights(ctx, pairQuery(req.Origin, req.Destination))
		if err != nil {
			return fmt.Errorf("find flights: %w", err)
		}

		outbound, returns = SplitByDirection(legs, req.Origin, req.Destination)
		if len(outbound) == 0 || len(returns) == 0 {
			return nil
		}

		ceiling := Allocate(req.Budget, cheapest(outbound), cheapest(returns), req.Days)
		if ceiling <= 0 {
			return nil
		}

		hotels, err = v.FindHotels(ctx, hotelQuery([]string{req.Destination}, ceiling, req.Strategy == StrategyScore))
		if err != nil {
			return fmt.Errorf("find hotels: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, s.fetchFailed(ctx, req, err)
	}

	if len(hotels) == 0 {
		return nil, ErrIncreaseBudget
	}

	trips := Synthesize(outbound, returns, hotels, req.Budget, req.Days)
	if len(trips) == 0 {
		return nil, ErrIncreaseBudget
	}

	strategy := req.Strategy
	if strategy == "" {
		strategy = StrategyCost
	}
	applied := EffectiveStrategy(trips, strategy)

	return &Result{
		Mode:       ModePair,
		Strategy:   applied,
		Trips:      Rank(trips, applied),
		Generation: generation,
	}, nil
}

func (s *Service) planAllDestinations(ctx context.Context, req Request) (*Result, error) {
	strategy := req.Strategy
	if strategy == "" {
		strategy = StrategyScore
	}

	var (
		groups     []DestinationGroup
		generation int64
	)

	err := s.catalog.View(ctx, func(ctx context.Context, v catalog.View) error {
		groups = nil
		generation = v.Generation()

		legs, err := v.FindFlights(ctx, endpointQuery(req.Origin))
		if err != nil {
			return fmt.Errorf("find flights: %w", err)
		}

		all := GroupByDestination(legs, req.Origin)
		var maxCeiling int64
		cities := make([]string, 0, len(all))
		for i := range all {
			all[i].Ceiling = Allocate(req.Budget, cheapest(all[i].Outbound), cheapest(all[i].Return), req.Days)
			if all[i].Ceiling > 0 {
				cities = append(cities, all[i].Destination)
				maxCeiling = max(maxCeiling, all[i].Ceiling)
			}
		}
		if len(cities) == 0 {
			return nil
		}

		// One read for every destination, bounded by the loosest ceiling;
		// each destination is then cut to its own ceiling.
		hotels, err := v.FindHotels(ctx, hotelQuery(cities, maxCeiling, strategy == StrategyScore))
		if err != nil {
			return fmt.Errorf("find hotels: %w", err)
		}
		for i := range all {
			all[i].Hotels = withinCeiling(hotels, all[i].Destination, all[i].Ceiling)
		}
		groups = all
		return nil
	})
	if err != nil {
		return nil, s.fetchFailed(ctx, req, err)
	}

	trips := SynthesizeByDestination(groups, req.Budget, req.Days)
	if len(trips) == 0 {
		return nil, ErrIncreaseBudget
	}

	applied := EffectiveStrategy(trips, strategy)
	return &Result{
		Mode:              ModeAllDestinations,
		Strategy:          applied,
		Trips:             Rank(trips, applied),
		BestByDestination: BestPerDestination(trips),
		Generation:        generation,
	}, nil
}

// fetchFailed logs a catalog fault and hides it behind ErrFetchTrips.
func (s *Service) fetchFailed(ctx context.Context, req Request, err error) error {
	s.log(ctx).Error().
		Err(err).
		Str("origin", req.Origin).
		Str("destination", req.Destination).
		Msg("catalog read failed")
	return ErrFetchTrips
}

func (s *Service) log(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &s.logger
}
