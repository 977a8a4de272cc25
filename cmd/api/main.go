// Package main provides the entrypoint for the travelwits API server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/travelwits/travelwits/internal/api"
	"github.com/travelwits/travelwits/internal/api/middleware"
	"github.com/travelwits/travelwits/internal/app"
	"github.com/travelwits/travelwits/internal/auth"
	"github.com/travelwits/travelwits/internal/config"
	"github.com/travelwits/travelwits/internal/planner"
	"github.com/travelwits/travelwits/internal/telemetry"
	"github.com/travelwits/travelwits/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

const serviceName = "travelwits-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(os.Stderr).With().Timestamp().Logger()
		boot.Fatal().Err(err).Msg("invalid configuration")
	}

	log := app.NewLogger(os.Stdout, cfg, serviceName, Version)
	log.Info().
		Str("build_time", BuildTime).
		Str("env", cfg.Env).
		Msg("starting travelwits API")

	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("server failed")
		os.Exit(1)
	}
	log.Info().Msg("server stopped")
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx := context.Background()

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Env,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.OTelEnabled,
		SampleRatio:    cfg.OTelSampleRatio,
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()
	if cfg.OTelEnabled {
		log.Info().
			Str("otlp_endpoint", cfg.OTLPEndpoint).
			Float64("sample_ratio", cfg.OTelSampleRatio).
			Msg("OpenTelemetry initialized")
	}

	httpMetrics, err := middleware.NewMetrics()
	if err != nil {
		return err
	}
	planMetrics, err := planner.NewMetrics()
	if err != nil {
		return err
	}

	store, err := app.OpenCatalog(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	if cfg.JWTSigningKey == "" {
		log.Warn().Msg("using default JWT signing key - not secure for production")
	}
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SigningKey: cfg.SigningKey(),
		Issuer:     cfg.JWTIssuer,
		Audience:   cfg.JWTAudience,
	})

	routerCfg := api.RouterConfig{
		Version:     Version,
		BuildTime:   BuildTime,
		Logger:      log,
		ServiceName: serviceName,
		Metrics:     httpMetrics,
		RequireTLS:  cfg.RequireTLS,
		JWT:         jwtService,
		Planner: planner.NewService(planner.ServiceConfig{
			Catalog: store.Catalog,
			Logger:  log,
			Metrics: planMetrics,
		}),
		Catalog:     store.Catalog,
		Registry:    store.Registry,
		Regenerator: store.Regenerator,
		Snapshotter: store.Repository,
	}

	if cfg.PubSubEnabled() {
		publisher, err := worker.NewPublisher(ctx, cfg.PubSubProjectID, cfg.PubSubTopic)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := publisher.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("failed to close publisher")
			}
		}()
		routerCfg.Publisher = publisher
		log.Info().
			Str("project", cfg.PubSubProjectID).
			Str("topic", cfg.PubSubTopic).
			Msg("regeneration jobs go through Pub/Sub")
	}

	server := newServer(cfg.Port, api.NewRouter(routerCfg))

	serverErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return err
	case <-quit:
	}

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newServer(port string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
