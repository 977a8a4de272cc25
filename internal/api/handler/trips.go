package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/travelwits/travelwits/internal/api/models"
	"github.com/travelwits/travelwits/internal/api/response"
	"github.com/travelwits/travelwits/internal/itinerary"
	"github.com/travelwits/travelwits/internal/planner"
)

// Messages shown to travelers.
const (
	msgIncreaseBudget = "Please increase your budget"
	msgFetchTrips     = "Error in fetching hotels and flights"
)

// Planner plans trips.
type Planner interface {
	Plan(ctx context.Context, req planner.Request) (*planner.Result, error)
}

// TripsHandler handles trip planning endpoints.
type TripsHandler struct {
	planner Planner
	now     func() time.Time
}

// NewTripsHandler creates a new TripsHandler.
func NewTripsHandler(p Planner) *TripsHandler {
	return &TripsHandler{planner: p, now: time.Now}
}

// PlanTrips handles GET /v1/trips - ranked trips within a budget.
//
// A budget nothing fits is not an error for the caller: the response is a
// 200 with no trips and a message asking for a larger budget.
func (h *TripsHandler) PlanTrips(w http.ResponseWriter, r *http.Request) {
	req, errs := parseTripRequest(r)
	if len(errs) > 0 {
		response.BadRequest(w, r, "invalid query parameters", errs)
		return
	}

	result, err := h.planner.Plan(r.Context(), req)
	if err != nil {
		if errors.Is(err, planner.ErrIncreaseBudget) {
			response.JSON(w, r, http.StatusOK, models.TripsResponse{
				Mode:   string(req.Mode()),
				Days:   req.Days,
				Budget: req.Budget,
				Trips:  []models.Trip{},
				Error:  msgIncreaseBudget,
			})
			return
		}
		h.planFailed(w, r, err)
		return
	}

	resp := models.TripsResponse{
		Mode:       string(result.Mode),
		Strategy:   string(result.Strategy),
		Days:       req.Days,
		Budget:     req.Budget,
		Trips:      toTrips(result.Trips),
		Generation: result.Generation,
	}
	if len(result.BestByDestination) > 0 {
		resp.BestByDestination = toTrips(result.BestByDestination)
	}
	response.JSON(w, r, http.StatusOK, resp)
}

// Itinerary handles GET /v1/trips/itinerary.pdf - the trip at ?rank=N as a PDF.
func (h *TripsHandler) Itinerary(w http.ResponseWriter, r *http.Request) {
	req, errs := parseTripRequest(r)

	rank := 1
	if raw := r.URL.Query().Get("rank"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			errs = append(errs, models.FieldError{Field: "rank", Message: "must be a positive integer"})
		} else {
			rank = n
		}
	}
	if len(errs) > 0 {
		response.BadRequest(w, r, "invalid query parameters", errs)
		return
	}

	result, err := h.planner.Plan(r.Context(), req)
	if err != nil {
		if errors.Is(err, planner.ErrIncreaseBudget) {
			response.NotFound(w, r, msgIncreaseBudget)
			return
		}
		h.planFailed(w, r, err)
		return
	}
	if rank > len(result.Trips) {
		response.NotFound(w, r, fmt.Sprintf("no trip at rank %d; %d trips found", rank, len(result.Trips)))
		return
	}

	doc := itinerary.Document{
		Trip:        result.Trips[rank-1],
		Rank:        rank,
		Strategy:    result.Strategy,
		Budget:      req.Budget,
		Days:        req.Days,
		Generation:  result.Generation,
		GeneratedAt: h.now(),
	}
	body, err := itinerary.Render(doc)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Int("rank", rank).Msg("itinerary render failed")
		response.InternalError(w, r, "could not render itinerary")
		return
	}
	response.Download(w, r, "application/pdf", doc.Filename(), body)
}

func (h *TripsHandler) planFailed(w http.ResponseWriter, r *http.Request, err error) {
	var verr *planner.ValidationError
	switch {
	case errors.As(err, &verr):
		fieldErrors := make([]models.FieldError, len(verr.Errors))
		for i, e := range verr.Errors {
			fieldErrors[i] = models.FieldError{
				Field:   e.Field,
				Message: e.Message,
				Code:    e.Code,
			}
		}
		response.BadRequest(w, r, "invalid trip request", fieldErrors)
	case errors.Is(err, planner.ErrFetchTrips):
		response.ServiceUnavailable(w, r, msgFetchTrips)
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("trip planning failed")
		response.InternalError(w, r, "trip planning failed")
	}
}

// parseTripRequest reads from, to, budget, days and sortBy. Only malformed
// numbers are reported here; range checks belong to planner.Request.Validate.
func parseTripRequest(r *http.Request) (planner.Request, []models.FieldError) {
	q := r.URL.Query()
	req := planner.Request{
		Origin:      cityParam(q.Get("from")),
		Destination: cityParam(q.Get("to")),
		Strategy:    planner.Strategy(strings.ToLower(strings.TrimSpace(q.Get("sortBy")))),
	}

	var errs []models.FieldError
	if raw := q.Get("budget"); raw == "" {
		errs = append(errs, models.FieldError{Field: "budget", Message: "is required"})
	} else if n, err := strconv.ParseInt(raw, 10, 64); err != nil {
		errs = append(errs, models.FieldError{Field: "budget", Message: "must be an integer amount"})
	} else {
		req.Budget = n
	}

	if raw := q.Get("days"); raw == "" {
		errs = append(errs, models.FieldError{Field: "days", Message: "is required"})
	} else if n, err := strconv.Atoi(raw); err != nil {
		errs = append(errs, models.FieldError{Field: "days", Message: "must be an integer"})
	} else {
		req.Days = n
	}

	return req, errs
}

func cityParam(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
