// Package handler provides HTTP handlers for the travelwits API.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/travelwits/travelwits/internal/api/models"
	"github.com/travelwits/travelwits/internal/api/response"
	"github.com/travelwits/travelwits/internal/catalog"
	"github.com/travelwits/travelwits/internal/resilience"
)

// OpsConfig configures the operational endpoints.
type OpsConfig struct {
	Version   string
	BuildTime string

	// Catalog backs the readiness probe and the generation in the status report.
	Catalog catalog.Catalog

	// Registry is optional; without it the status report lists no dependencies.
	Registry *resilience.Registry
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	catalog   catalog.Catalog
	registry  *resilience.Registry
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(cfg OpsConfig) *OpsHandler {
	return &OpsHandler{
		version:   cfg.Version,
		buildTime: cfg.BuildTime,
		catalog:   cfg.Catalog,
		registry:  cfg.Registry,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]any{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	})
}

// ReadinessCheck handles GET /v1/ops/ready - fails while the catalog store is unreachable.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}
	if h.catalog == nil {
		response.JSON(w, r, http.StatusOK, health)
		return
	}

	if err := h.catalog.Ping(r.Context()); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("readiness check failed")
		health.Status = models.HealthStatusFail
		health.Details = map[string]any{"catalog": err.Error()}
		response.JSON(w, r, http.StatusServiceUnavailable, health)
		return
	}
	response.JSON(w, r, http.StatusOK, health)
}

// SystemStatus handles GET /v1/ops/status - circuit state of every guarded
// dependency and the catalog generation being served.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	status := models.SystemStatus{
		Status:       models.HealthStatusOK,
		Time:         models.Timestamp(time.Now()),
		Dependencies: []models.DependencyStatus{},
	}

	if h.registry != nil {
		for _, dep := range h.registry.AllHealth() {
			ds := dependencyStatus(dep)
			status.Dependencies = append(status.Dependencies, ds)
			status.Status = worst(status.Status, ds.Status)
		}
	}

	if h.catalog != nil {
		err := h.catalog.View(r.Context(), func(_ context.Context, v catalog.View) error {
			gen := v.Generation()
			status.CatalogGeneration = &gen
			return nil
		})
		if err != nil {
			zerolog.Ctx(r.Context()).Warn().Err(err).Msg("could not read catalog generation")
			status.Status = models.HealthStatusFail
		}
	}

	response.JSON(w, r, http.StatusOK, status)
}

func dependencyStatus(h *resilience.DependencyHealth) models.DependencyStatus {
	ds := models.DependencyStatus{
		Name:         h.Name,
		Status:       models.HealthStatusOK,
		CircuitState: h.CircuitState.String(),
		Requests:     h.Counts.Requests,
		Failures:     h.Counts.TotalFailures,
	}
	switch {
	case h.IsUnhealthy():
		ds.Status = models.HealthStatusFail
	case h.IsDegraded():
		ds.Status = models.HealthStatusDegraded
	}
	if h.LastSuccessAt != nil {
		t := models.Timestamp(*h.LastSuccessAt)
		ds.LastSuccessAt = &t
	}
	if h.LastFailureAt != nil {
		t := models.Timestamp(*h.LastFailureAt)
		ds.LastFailureAt = &t
	}
	if h.LastError != "" {
		msg := h.LastError
		ds.Message = &msg
	}
	return ds
}

func worst(a, b models.HealthStatus) models.HealthStatus {
	rank := map[models.HealthStatus]int{
		models.HealthStatusOK:       0,
		models.HealthStatusDegraded: 1,
		models.HealthStatusFail:     2,
	}
	if rank[b] > rank[a] {
		return b
	}
	return a
}
