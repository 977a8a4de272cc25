package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/travelwits/travelwits/internal/api/middleware"
	"github.com/travelwits/travelwits/internal/api/models"
	"github.com/travelwits/travelwits/internal/api/response"
	"github.com/travelwits/travelwits/internal/catalog"
	"github.com/travelwits/travelwits/internal/worker"
)

const maxAdminBody = 1 << 16

// Regenerator rebuilds the catalog in-process.
type Regenerator interface {
	Regenerate(ctx context.Context, opts catalog.RegenerateOptions) (*catalog.RegenerateResult, error)
}

// RegeneratePublisher hands regeneration jobs to the worker.
type RegeneratePublisher interface {
	PublishRegenerate(ctx context.Context, msg worker.RegenerateMessage) (worker.RegenerateMessage, string, error)
}

// Snapshotter reads a full catalog generation.
type Snapshotter interface {
	Snapshot(ctx context.Context) (*catalog.Snapshot, error)
}

// AdminConfig wires the maintenance endpoints. Any field may be nil.
type AdminConfig struct {
	// Publisher takes precedence over Regenerator when both are set.
	Publisher   RegeneratePublisher
	Regenerator Regenerator
	Snapshotter Snapshotter
}

// AdminHandler handles catalog maintenance endpoints.
type AdminHandler struct {
	publisher   RegeneratePublisher
	regenerator Regenerator
	snapshots   Snapshotter
	now         func() time.Time
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(cfg AdminConfig) *AdminHandler {
	return &AdminHandler{
		publisher:   cfg.Publisher,
		regenerator: cfg.Regenerator,
		snapshots:   cfg.Snapshotter,
		now:         time.Now,
	}
}

// RegenerateCatalog handles POST /v1/admin/catalog/regenerate.
//
// The job is queued for the worker (202) when a publisher is configured and
// run inline (200) otherwise.
func (h *AdminHandler) RegenerateCatalog(w http.ResponseWriter, r *http.Request) {
	var input models.RegenerateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAdminBody)).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	if !input.Flights && !input.Hotels {
		response.BadRequest(w, r, "nothing to regenerate", []models.FieldError{
			{Field: "flights", Message: "flights or hotels must be true"},
			{Field: "hotels", Message: "flights or hotels must be true"},
		})
		return
	}

	log := zerolog.Ctx(r.Context())
	subject := middleware.GetSubject(r.Context())

	if h.publisher != nil {
		msg, messageID, err := h.publisher.PublishRegenerate(r.Context(), worker.RegenerateMessage{
			Flights:     input.Flights,
			Hotels:      input.Hotels,
			Seed:        input.Seed,
			RequestedBy: subject,
		})
		if err != nil {
			log.Error().Err(err).Msg("failed to publish regeneration job")
			response.ServiceUnavailable(w, r, "could not queue regeneration job")
			return
		}
		log.Info().
			Str("job_id", msg.JobID).
			Str("message_id", messageID).
			Str("requested_by", subject).
			Msg("regeneration job queued")
		response.Accepted(w, r, models.RegenerateAccepted{JobID: msg.JobID, MessageID: messageID})
		return
	}

	if h.regenerator == nil {
		response.ServiceUnavailable(w, r, catalog.ErrRegenerationDisabled.Error())
		return
	}

	result, err := h.regenerator.Regenerate(r.Context(), catalog.RegenerateOptions{
		Flights: input.Flights,
		Hotels:  input.Hotels,
		Seed:    input.Seed,
	})
	if err != nil {
		if errors.Is(err, catalog.ErrNothingToRegenerate) {
			response.BadRequest(w, r, err.Error(), nil)
			return
		}
		log.Error().Err(err).Str("requested_by", subject).Msg("catalog regeneration failed")
		response.InternalError(w, r, "catalog regeneration failed")
		return
	}

	response.JSON(w, r, http.StatusOK, models.RegenerateResponse{
		Generation: result.Generation,
		Flights:    result.Flights,
		Hotels:     result.Hotels,
		Seed:       result.Seed,
		DurationMs: result.Duration.Milliseconds(),
	})
}

// ExportCatalog handles GET /v1/admin/catalog/export - every flight and hotel
// of the current generation.
func (h *AdminHandler) ExportCatalog(w http.ResponseWriter, r *http.Request) {
	if h.snapshots == nil {
		response.ServiceUnavailable(w, r, "catalog export is not configured")
		return
	}

	snap, err := h.snapshots.Snapshot(r.Context())
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("catalog snapshot failed")
		response.ServiceUnavailable(w, r, "catalog is unavailable")
		return
	}

	response.JSON(w, r, http.StatusOK, models.CatalogExport{
		Generation: snap.Generation,
		ExportedAt: models.Timestamp(h.now()),
		Flights:    toFlights(snap.Flights),
		Hotels:     toHotels(snap.Hotels),
	})
}
