package handler

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/travelwits/travelwits/internal/api/models"
	"github.com/travelwits/travelwits/internal/api/response"
	"github.com/travelwits/travelwits/internal/catalog"
)

// CatalogHandler serves read-only catalog browsing endpoints.
type CatalogHandler struct {
	catalog catalog.Catalog
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(c catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: c}
}

// ListCities handles GET /v1/cities.
func (h *CatalogHandler) ListCities(w http.ResponseWriter, r *http.Request) {
	cities := catalog.Cities()
	resp := models.CitiesResponse{Cities: make([]models.City, len(cities))}
	for i, c := range cities {
		resp.Cities[i] = models.City{Code: c.Code, Name: c.Name}
	}
	response.JSON(w, r, http.StatusOK, resp)
}

// ListFlights handles GET /v1/flights?from=&to=.
//
// With both cities it returns the legs between them in either direction,
// cheapest first. With only from it returns every leg touching that city.
func (h *CatalogHandler) ListFlights(w http.ResponseWriter, r *http.Request) {
	from := cityParam(r.URL.Query().Get("from"))
	to := cityParam(r.URL.Query().Get("to"))

	var errs []models.FieldError
	if from == "" {
		errs = append(errs, models.FieldError{Field: "from", Message: "is required"})
	} else if _, ok := catalog.LookupCity(from); !ok {
		errs = append(errs, models.FieldError{Field: "from", Message: "must be a served city code", Code: "UNKNOWN_CITY"})
	}
	if to != "" {
		if _, ok := catalog.LookupCity(to); !ok {
			errs = append(errs, models.FieldError{Field: "to", Message: "must be a served city code", Code: "UNKNOWN_CITY"})
		}
	}
	if len(errs) > 0 {
		response.BadRequest(w, r, "invalid query parameters", errs)
		return
	}

	q := catalog.FlightQuery{Endpoint: from}
	if to != "" {
		q = catalog.FlightQuery{Pair: &catalog.Pair{A: from, B: to}}
	}

	var resp models.FlightsResponse
	err := h.catalog.View(r.Context(), func(ctx context.Context, v catalog.View) error {
		legs, err := v.FindFlights(ctx, q)
		if err != nil {
			return err
		}
		resp = models.FlightsResponse{Flights: toFlights(legs), Generation: v.Generation()}
		return nil
	})
	if err != nil {
		h.readFailed(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, resp)
}

// ListHotels handles GET /v1/hotels?city=&maxPricePerNight=&order=.
func (h *CatalogHandler) ListHotels(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	city := cityParam(query.Get("city"))

	q := catalog.HotelQuery{Cities: []string{city}, MaxPricePerNight: math.MaxInt64}

	var errs []models.FieldError
	if city == "" {
		errs = append(errs, models.FieldError{Field: "city", Message: "is required"})
	} else if _, ok := catalog.LookupCity(city); !ok {
		errs = append(errs, models.FieldError{Field: "city", Message: "must be a served city code", Code: "UNKNOWN_CITY"})
	}
	if raw := query.Get("maxPricePerNight"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			errs = append(errs, models.FieldError{Field: "maxPricePerNight", Message: "must be a non-negative integer amount"})
		} else {
			q.MaxPricePerNight = n
		}
	}
	switch strings.ToLower(query.Get("order")) {
	case "", "desirability":
		q.Order = catalog.OrderDesirability
	case "score":
		q.Order = catalog.OrderScore
	default:
		errs = append(errs, models.FieldError{Field: "order", Message: "must be desirability or score"})
	}
	if len(errs) > 0 {
		response.BadRequest(w, r, "invalid query parameters", errs)
		return
	}

	var resp models.HotelsResponse
	err := h.catalog.View(r.Context(), func(ctx context.Context, v catalog.View) error {
		hotels, err := v.FindHotels(ctx, q)
		if err != nil {
			return err
		}
		resp = models.HotelsResponse{Hotels: toHotels(hotels), Generation: v.Generation()}
		return nil
	})
	if err != nil {
		h.readFailed(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, resp)
}

func (h *CatalogHandler) readFailed(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, catalog.ErrInvalidQuery) {
		response.BadRequest(w, r, err.Error(), nil)
		return
	}
	zerolog.Ctx(r.Context()).Error().Err(err).Msg("catalog read failed")
	response.ServiceUnavailable(w, r, "catalog is unavailable")
}
