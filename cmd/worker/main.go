// Package main provides the entrypoint for the travelwits catalog worker.
//
// The worker regenerates the catalog from Pub/Sub jobs, or on a fixed
// interval when no subscription is configured, and exposes a health
// endpoint for the platform's probes.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/travelwits/travelwits/internal/api/middleware"
	"github.com/travelwits/travelwits/internal/api/models"
	"github.com/travelwits/travelwits/internal/api/response"
	"github.com/travelwits/travelwits/internal/app"
	"github.com/travelwits/travelwits/internal/config"
	"github.com/travelwits/travelwits/internal/telemetry"
	"github.com/travelwits/travelwits/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

const serviceName = "travelwits-worker"

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(os.Stderr).With().Timestamp().Logger()
		boot.Fatal().Err(err).Msg("invalid configuration")
	}

	log := app.NewLogger(os.Stdout, cfg, serviceName, Version)
	log.Info().
		Str("build_time", BuildTime).
		Msg("starting travelwits worker")

	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("worker failed")
		os.Exit(1)
	}
	log.Info().Msg("worker stopped")
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

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

	store, err := app.OpenCatalog(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	runner := worker.NewRunner(worker.RunnerConfig{
		Regenerator: store.Regenerator,
		Catalog:     store.Catalog,
		Logger:      log,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      healthRouter(runner, log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	go func() {
		log.Info().Str("addr", server.Addr).Msg("health server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("health server error")
			cancel()
		}
	}()

	switch {
	case cfg.PubSubEnabled() && cfg.PubSubSubscription != "":
		handler, err := worker.NewPubSubHandler(ctx, worker.PubSubConfig{
			ProjectID:        cfg.PubSubProjectID,
			SubscriptionName: cfg.PubSubSubscription,
			Runner:           runner,
			Logger:           log,
		})
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := handler.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("failed to close pubsub client")
			}
		}()
		if err := handler.Start(ctx); err != nil && ctx.Err() == nil {
			return err
		}
	case cfg.RegenerateInterval > 0:
		runner.RunTicker(ctx, cfg.RegenerateInterval)
	default:
		log.Warn().Msg("no subscription or regenerate interval configured; serving health only")
		<-ctx.Done()
	}

	log.Info().Msg("shutting down worker")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	return server.Shutdown(shutdownCtx)
}

func healthRouter(runner *worker.Runner, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(log))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		stats := runner.Stats()
		health := models.Health{
			Status: models.HealthStatusOK,
			Time:   models.Timestamp(time.Now()),
			Details: map[string]any{
				"version":        Version,
				"runs":           stats.Runs,
				"failures":       stats.Failures,
				"lastGeneration": stats.LastGeneration,
			},
		}
		if stats.LastError != "" {
			health.Status = models.HealthStatusDegraded
			health.Details["lastError"] = stats.LastError
		}
		if !stats.LastRunAt.IsZero() {
			health.Details["lastRunAt"] = models.Timestamp(stats.LastRunAt)
		}
		response.JSON(w, r, http.StatusOK, health)
	})
	return r
}
