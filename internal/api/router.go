// Package api provides the HTTP API for travelwits.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/travelwits/travelwits/internal/api/handler"
	"github.com/travelwits/travelwits/internal/api/middleware"
	"github.com/travelwits/travelwits/internal/auth"
	"github.com/travelwits/travelwits/internal/catalog"
	"github.com/travelwits/travelwits/internal/resilience"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics

	// RequireTLS rejects plain-HTTP requests (REQUIRE_TLS=true).
	RequireTLS bool

	// JWT validates operator tokens. Without it the operator routes are not mounted.
	JWT *auth.JWTService

	Planner  handler.Planner
	Catalog  catalog.Catalog
	Registry *resilience.Registry

	// Maintenance backends; see handler.AdminConfig.
	Publisher   handler.RegeneratePublisher
	Regenerator handler.Regenerator
	Snapshotter handler.Snapshotter
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "travelwits-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))         // Structured logging, request logger in ctx
	r.Use(middleware.Recovery(cfg.Logger))       // Panic recovery
	r.Use(chimiddleware.RealIP)                  // Real IP extraction
	r.Use(middleware.SecurityHeaders)            // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS(cfg.RequireTLS)) // TLS enforcement
	r.Use(middleware.ContentTypeJSON)            // JSON content type

	opsHandler := handler.NewOpsHandler(handler.OpsConfig{
		Version:   cfg.Version,
		BuildTime: cfg.BuildTime,
		Catalog:   cfg.Catalog,
		Registry:  cfg.Registry,
	})
	catalogHandler := handler.NewCatalogHandler(cfg.Catalog)
	tripsHandler := handler.NewTripsHandler(cfg.Planner)
	adminHandler := handler.NewAdminHandler(handler.AdminConfig{
		Publisher:   cfg.Publisher,
		Regenerator: cfg.Regenerator,
		Snapshotter: cfg.Snapshotter,
	})

	planningRateLimit := middleware.RateLimitByIP(middleware.PlanningRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit) // 100 req/min

	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints - probes are public, status needs a viewer token
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			if cfg.JWT != nil {
				r.With(middleware.Auth(cfg.JWT, auth.RoleViewer)).Get("/status", opsHandler.SystemStatus)
			}
		})

		// Catalog browsing (public) - standard rate limiting
		r.Group(func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/cities", catalogHandler.ListCities)
			r.Get("/flights", catalogHandler.ListFlights)
			r.Get("/hotels", catalogHandler.ListHotels)
		})

		// Trip planning (public) - expensive, strict rate limiting
		r.Route("/trips", func(r chi.Router) {
			r.Use(planningRateLimit)
			r.Get("/", tripsHandler.PlanTrips)
			r.Get("/itinerary.pdf", tripsHandler.Itinerary)
		})

		// Admin endpoints (operator token)
		if cfg.JWT != nil {
			r.Route("/admin/catalog", func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWT, auth.RoleOperator))
				r.Use(middleware.RateLimitBySubject(middleware.AdminRateLimit)) // 10 req/min per operator
				r.With(middleware.RequireJSON).Post("/regenerate", adminHandler.RegenerateCatalog)
				r.Get("/export", adminHandler.ExportCatalog)
			})
		}
	})

	return r
}
